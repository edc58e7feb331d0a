package generator

import (
	"log/slog"

	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// Zone is one template zone during filling. It borrows the generator
// (grid, map, random source) and is the sole writer of its tiles for
// the duration of the fill.
type Zone struct {
	*template.ZoneOptions

	gen *Generator

	pos    scenario.Position
	center scenario.VPosition

	ownerID   scenario.ObjectID
	ownerRace scenario.RaceType

	// Area assigned to the zone
	tileInfo *posSet
	// Candidate tiles for object placement
	possibleTiles *posSet
	// Carved walkable network all objects link to
	freePaths *posSet
	// Entrances to be connected with roads
	roadNodes *posSet

	roads []scenario.RoadRecord

	requiredObjects    []objectPlacement
	closeObjects       []objectPlacement
	requestedPositions map[scenario.Object]scenario.Position
	decorations        []*decoration
}

// objectPlacement is a queued object waiting for a spot: required
// objects maximize distance from everything else, close objects hug a
// target position.
type objectPlacement struct {
	object        placeable
	decoration    *decoration
	objectSize    scenario.Position
	guardStrength int
}

// placeable is any scenario object with a footprint.
type placeable interface {
	scenario.Object
	Element() *scenario.MapElement
}

func newZone(gen *Generator, options *template.ZoneOptions) *Zone {
	return &Zone{
		ZoneOptions:        options,
		gen:                gen,
		tileInfo:           newPosSet(),
		possibleTiles:      newPosSet(),
		freePaths:          newPosSet(),
		roadNodes:          newPosSet(),
		requestedPositions: make(map[scenario.Object]scenario.Position),
	}
}

// setCenter wraps the normalized center into the unit square. Centers
// that fall off one side come back on the opposite side.
func (z *Zone) setCenter(center scenario.VPosition) {
	z.center = center.Wrapped()
}

// Pos returns the zone's anchor tile. All paths lead here.
func (z *Zone) Pos() scenario.Position {
	return z.pos
}

// FreePaths returns the carved walkable network.
func (z *Zone) FreePaths() *posSet {
	return z.freePaths
}

// isInTheZone reports whether a tile belongs to this zone.
func (z *Zone) isInTheZone(pos scenario.Position) bool {
	return z.gen.GetZoneID(pos) == z.ID
}

func (z *Zone) addFreePath(pos scenario.Position) {
	z.gen.SetOccupied(pos, tileFree)
	z.freePaths.Add(pos)
}

func (z *Zone) addRoadNode(pos scenario.Position) {
	z.roadNodes.Add(pos)
}

// updateDistances refreshes each candidate tile's distance to the
// nearest placed object after something lands at pos.
func (z *Zone) updateDistances(pos scenario.Position) {
	for _, tile := range z.possibleTiles.Sorted() {
		distance := float32(pos.DistanceSquared(tile))
		current := z.gen.GetNearestObjectDistance(tile)
		if distance < current {
			z.gen.SetNearestObjectDistance(tile, distance)
		}
	}
}

// paintZoneTerrain paints the whole zone area.
func (z *Zone) paintZoneTerrain(terrain scenario.TerrainType, ground scenario.GroundType) {
	z.gen.m.PaintTerrainAll(z.tileInfo.Sorted(), terrain, ground)
}

// initTerrain prepares ground before filling. Water zones are painted
// whole; land zones keep the neutral plain default.
func (z *Zone) initTerrain() {
	if z.Type == template.ZoneWater {
		z.paintZoneTerrain(scenario.TerrainNeutral, scenario.GroundWater)
	}
}

// initFreeTiles seeds the candidate set from unclaimed tiles and makes
// sure at least one free tile exists for paths to reach.
func (z *Zone) initFreeTiles() {
	for _, tile := range z.tileInfo.Sorted() {
		if z.gen.IsPossible(tile) {
			z.possibleTiles.Add(tile)
		}
	}

	if z.freePaths.Empty() {
		z.addFreePath(z.pos)
	}
}

// initTowns places the central fortification: the capital for starting
// zones, the first declared city elsewhere. The rest of the cities are
// placed during fill. Runs before borders and filling so every later
// path can aim at the town entrance.
func (z *Zone) initTowns() error {
	if z.Type == template.ZoneWater {
		return nil
	}

	if z.Type == template.ZonePlayerStart || z.Type == template.ZoneAiStart {
		return z.placeCapitalTown()
	}

	if len(z.NeutralCities) > 0 {
		position := z.pos.Sub(scenario.Position{X: 2, Y: 2})
		position = z.gen.clampElement(position, scenario.Position{X: 4, Y: 4})

		village, err := z.placeCity(position, z.NeutralCities[0])
		if err != nil {
			return err
		}

		// All roads lead to the tile near the central village entrance
		z.pos = village.Entrance().Add(scenario.Position{X: 1, Y: 1})
	}

	return nil
}

// createBorder walls the zone edge according to the border policy.
// Tiles with a neighbor in another zone become water, stay open, get
// blocked, or roll the gap chance.
func (z *Zone) createBorder() {
	borderTiles := 0
	openBorders := 0
	closedBorders := 0

	for _, tile := range z.tileInfo.Sorted() {
		border := false
		z.gen.ForeachNeighbor(tile, func(neighbor scenario.Position) {
			if z.gen.GetZoneID(neighbor) != z.ID {
				border = true
			}
		})

		if !border {
			continue
		}
		borderTiles++

		if !z.gen.IsPossible(tile) {
			continue
		}

		switch z.BorderType {
		case template.BorderWater:
			z.gen.m.PaintTerrain(tile, scenario.TerrainNeutral, scenario.GroundWater)
			z.gen.SetOccupied(tile, tileFree)
			openBorders++

		case template.BorderOpen:
			z.gen.SetOccupied(tile, tileFree)
			openBorders++

		case template.BorderClosed:
			z.gen.SetOccupied(tile, tileBlocked)
			closedBorders++

		default: // SemiOpen
			if z.gen.rand.Chance(z.GapChance) {
				z.gen.SetOccupied(tile, tileFree)
				openBorders++
			} else {
				z.gen.SetOccupied(tile, tileBlocked)
				closedBorders++
			}
		}
	}

	if z.gen.debug {
		slog.Debug("zone border created",
			"zone", z.ID,
			"border_tiles", borderTiles,
			"open", openBorders,
			"closed", closedBorders,
			"gap_chance", z.GapChance,
		)
	}
}

// fill populates the zone. The step order is part of the determinism
// contract; do not reorder.
func (z *Zone) fill() error {
	z.initTerrain()
	z.initFreeTiles()
	z.fractalize()

	if err := z.placeCities(); err != nil {
		return err
	}
	if err := z.placeMerchants(); err != nil {
		return err
	}
	if err := z.placeMages(); err != nil {
		return err
	}
	if err := z.placeMercenaries(); err != nil {
		return err
	}
	if err := z.placeTrainers(); err != nil {
		return err
	}
	if err := z.placeMarkets(); err != nil {
		return err
	}
	if err := z.placeRuins(); err != nil {
		return err
	}
	if err := z.placeMines(); err != nil {
		return err
	}
	if err := z.createRequiredObjects(); err != nil {
		return err
	}
	if err := z.placeStacks(); err != nil {
		return err
	}
	if err := z.placeBags(); err != nil {
		return err
	}

	if z.gen.debug {
		slog.Debug("zone filled", "zone", z.ID)
	}
	return nil
}

// clearEntrance frees the neighborhood around a fortification entrance
// so approaching stacks always have somewhere to stand.
func (z *Zone) clearEntrance(fort *scenario.Fortification) {
	around := fort.Entrance().Add(scenario.Position{X: 1, Y: 1})
	z.gen.ForeachNeighbor(around, func(pos scenario.Position) {
		if z.gen.IsPossible(pos) {
			z.gen.SetOccupied(pos, tileFree)
		}
	})
}
