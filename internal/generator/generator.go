package generator

import (
	"log/slog"
	"sort"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// Config holds the dependencies and inputs of one generation run.
type Config struct {
	Template *template.Template
	Catalog  *game.Catalog
	Seed     uint32
	Size     int
	Debug    bool
}

// Validate ensures all required inputs are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Template == nil {
		vb.RequiredField("Template")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Size < 8 {
		vb.Fieldf("Size", "map size %d is too small", c.Size)
	}

	return vb.Build()
}

// Generator drives one scenario generation. It owns the occupancy grid,
// the scenario map under construction and the seeded random source. It
// is single use: create one per run.
type Generator struct {
	tmpl    *template.Template
	catalog *game.Catalog
	rand    *rng.Rand
	seed    uint32
	debug   bool

	m     *scenario.Map
	size  int
	tiles []tileEntry

	zones     map[int]*Zone
	zoneOrder []int

	players         map[scenario.RaceType]scenario.ObjectID
	subraces        map[scenario.RaceType]scenario.ObjectID
	neutralPlayerID scenario.ObjectID
	neutralSubrace  scenario.ObjectID

	connections []gate
}

// gate is a carved passage between two connected zones.
type gate struct {
	pos   scenario.Position
	from  int
	to    int
	guard template.GroupInfo
}

// New creates a generator for a single run.
func New(cfg *Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	m := scenario.NewMap(cfg.Size)
	m.Seed = cfg.Seed
	m.Name = cfg.Template.Settings.Name
	m.Description = cfg.Template.Settings.Description

	return &Generator{
		tmpl:     cfg.Template,
		catalog:  cfg.Catalog,
		rand:     rng.New(cfg.Seed),
		seed:     cfg.Seed,
		debug:    cfg.Debug,
		m:        m,
		size:     cfg.Size,
		tiles:    newTileEntries(cfg.Size),
		zones:    make(map[int]*Zone),
		players:  make(map[scenario.RaceType]scenario.ObjectID),
		subraces: make(map[scenario.RaceType]scenario.ObjectID),
	}, nil
}

// Map returns the scenario map under construction.
func (g *Generator) Map() *scenario.Map {
	return g.m
}

// Zone returns the zone with the given id, or nil.
func (g *Generator) Zone(id int) *Zone {
	return g.zones[id]
}

// Roads returns every road built across all zones.
func (g *Generator) Roads() []scenario.RoadRecord {
	var roads []scenario.RoadRecord
	for _, id := range g.zoneOrder {
		roads = append(roads, g.zones[id].roads...)
	}
	return roads
}

// Generate runs the whole pipeline and returns the finished map
// snapshot. The order of steps is fixed: every random draw flows
// through a single PRNG stream, so reordering would change output.
func (g *Generator) Generate() (*scenario.Snapshot, error) {
	if err := g.createPlayers(); err != nil {
		return nil, err
	}

	g.layoutZones()

	for _, id := range g.zoneOrder {
		if err := g.zones[id].initTowns(); err != nil {
			return nil, g.annotate(err, id)
		}
	}

	for _, id := range g.zoneOrder {
		g.zones[id].createBorder()
	}

	if err := g.carveConnections(); err != nil {
		return nil, err
	}

	for _, id := range g.zoneOrder {
		if err := g.zones[id].fill(); err != nil {
			return nil, g.annotate(err, id)
		}
	}

	if err := g.placeZoneGuards(); err != nil {
		return nil, err
	}

	for _, id := range g.zoneOrder {
		if err := g.zones[id].createObstacles(); err != nil {
			return nil, g.annotate(err, id)
		}
	}

	for _, id := range g.zoneOrder {
		g.zones[id].connectRoads()
	}

	if err := g.checkObjectsAccess(); err != nil {
		return nil, err
	}

	slog.Info("scenario generated",
		"seed", g.seed,
		"size", g.size,
		"zones", len(g.zones),
		"objects", g.m.ObjectCount(),
	)

	return g.m.Snapshot(g.Roads()), nil
}

// annotate attaches the zone id and seed so the driver can tell which
// zone ran out of space.
func (g *Generator) annotate(err error, zoneID int) error {
	var structured *errors.Error
	if errors.As(err, &structured) {
		return structured.WithMeta("zone_id", zoneID).WithMeta("seed", g.seed)
	}
	return err
}

// createPlayers makes a Player and SubRace object for every starting
// zone race plus the neutral pair. Random races resolve to a race not
// yet taken, in zone id order.
func (g *Generator) createPlayers() error {
	for id := range g.tmpl.Contents.Zones {
		g.zoneOrder = append(g.zoneOrder, id)
	}
	sort.Ints(g.zoneOrder)

	playable := []scenario.RaceType{
		scenario.RaceHuman, scenario.RaceUndead, scenario.RaceHeretic,
		scenario.RaceDwarf, scenario.RaceElf,
	}

	for _, id := range g.zoneOrder {
		options := g.tmpl.Contents.Zones[id]
		zone := newZone(g, options)
		g.zones[id] = zone

		if options.Type != template.ZonePlayerStart && options.Type != template.ZoneAiStart {
			continue
		}

		race := options.PlayerRace
		if race == scenario.RaceRandom || race == "" {
			var unused []scenario.RaceType
			for _, candidate := range playable {
				if _, taken := g.players[candidate]; !taken {
					unused = append(unused, candidate)
				}
			}
			if len(unused) == 0 {
				return errors.TemplateInvalid("no playable races left for random starting zone")
			}
			race = *rng.PickElement(unused, g.rand)
		}

		if _, taken := g.players[race]; taken {
			return errors.TemplateInvalidf("race %q assigned to more than one starting zone", race)
		}

		playerID, subraceID := g.createPlayer(race)
		g.players[race] = playerID
		g.subraces[race] = subraceID
		zone.ownerID = playerID
		zone.ownerRace = race
	}

	g.neutralPlayerID, g.neutralSubrace = g.createPlayer(scenario.RaceNeutral)

	return nil
}

func (g *Generator) createPlayer(race scenario.RaceType) (scenario.ObjectID, scenario.ObjectID) {
	playerID := g.m.CreateID(scenario.TypePlayer)
	player := &scenario.Player{ID: playerID, Race: race}
	// Insert can only fail on duplicate ids, which CreateID rules out
	_ = g.m.Insert(player)

	subraceID := g.m.CreateID(scenario.TypeSubRace)
	subrace := &scenario.SubRace{
		ID:       subraceID,
		SubRace:  scenario.RaceSubRace(race),
		PlayerID: playerID,
	}
	_ = g.m.Insert(subrace)

	return playerID, subraceID
}

// ownerIDs resolves a declared owner race to player and subrace ids,
// falling back to the neutral pair.
func (g *Generator) ownerIDs(race scenario.RaceType) (scenario.ObjectID, scenario.ObjectID) {
	playerID, ok := g.players[race]
	if !ok {
		return g.neutralPlayerID, g.neutralSubrace
	}
	return playerID, g.subraces[race]
}

// placeZoneGuards puts the connection guard stacks on their gates.
// Gates were kept free during filling so paths could flow through.
func (g *Generator) placeZoneGuards() error {
	for _, gate := range g.connections {
		zone := g.zones[g.GetZoneID(gate.pos)]
		if zone == nil {
			continue
		}

		if _, err := zone.placeZoneGuard(gate.pos, gate.guard); err != nil {
			return err
		}

		zone.addRoadNode(gate.pos)
	}
	return nil
}
