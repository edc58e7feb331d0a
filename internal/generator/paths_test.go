package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// pathZone builds a generator whose single zone owns the whole map,
// with every tile possible, ready for path carving tests.
func pathZone(t *testing.T, seed uint32, size int) *Zone {
	t.Helper()

	tmpl := singleStartTemplate()
	tmpl.Contents.Zones[0].Type = template.ZoneTreasure

	gen := newTestGenerator(t, tmpl, seed, size)
	require.NoError(t, gen.createPlayers())

	zone := gen.zones[0]
	zone.pos = scenario.Position{X: size / 2, Y: size / 2}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pos := scenario.Position{X: x, Y: y}
			gen.SetZoneID(pos, 0)
			zone.tileInfo.Add(pos)
		}
	}
	return zone
}

func TestConnectWithCenter(t *testing.T) {
	zone := pathZone(t, 1, 16)

	start := scenario.Position{X: 2, Y: 2}
	require.True(t, zone.connectWithCenter(start, true, false))

	// The carved path reaches from start to center over free tiles
	assert.True(t, zone.gen.IsFree(start))
}

func TestConnectWithCenter_BlockedWall(t *testing.T) {
	zone := pathZone(t, 1, 16)

	// Wall off the start corner completely
	for i := 0; i < 16; i++ {
		zone.gen.SetOccupied(scenario.Position{X: 5, Y: i}, tileBlocked)
	}

	start := scenario.Position{X: 2, Y: 2}
	assert.False(t, zone.connectWithCenter(start, true, false))
	assert.True(t, zone.connectWithCenter(start, true, true),
		"passing through blocked tiles reaches the center")
}

func TestCrunchPath(t *testing.T) {
	zone := pathZone(t, 1, 16)

	src := scenario.Position{X: 2, Y: 2}
	dst := scenario.Position{X: 12, Y: 12}

	require.True(t, zone.crunchPath(src, dst, true, zone.freePaths))
	assert.Greater(t, zone.freePaths.Len(), 0)
}

func TestCrunchPath_StopsAtFreeTile(t *testing.T) {
	zone := pathZone(t, 1, 16)

	free := scenario.Position{X: 8, Y: 8}
	zone.gen.SetOccupied(free, tileFree)

	src := scenario.Position{X: 2, Y: 8}
	require.True(t, zone.crunchPath(src, scenario.Position{X: 14, Y: 8}, true, nil))
}

func TestConnectPath_SealsOffOnFailure(t *testing.T) {
	zone := pathZone(t, 1, 16)
	for _, tile := range zone.tileInfo.Sorted() {
		zone.possibleTiles.Add(tile)
	}

	// Enclose a pocket with no free tile inside
	for i := 2; i <= 6; i++ {
		zone.gen.SetOccupied(scenario.Position{X: i, Y: 2}, tileBlocked)
		zone.gen.SetOccupied(scenario.Position{X: i, Y: 6}, tileBlocked)
		zone.gen.SetOccupied(scenario.Position{X: 2, Y: i}, tileBlocked)
		zone.gen.SetOccupied(scenario.Position{X: 6, Y: i}, tileBlocked)
	}

	inside := scenario.Position{X: 4, Y: 4}
	require.False(t, zone.connectPath(inside, true))

	// The pocket interior is sealed off and leaves the candidate set
	assert.True(t, zone.gen.ShouldBeBlocked(inside))
	assert.False(t, zone.possibleTiles.Has(inside))
}

func TestConnectPath_ReachesFreeTile(t *testing.T) {
	zone := pathZone(t, 1, 16)

	free := scenario.Position{X: 10, Y: 10}
	zone.gen.SetOccupied(free, tileFree)

	src := scenario.Position{X: 3, Y: 3}
	require.True(t, zone.connectPath(src, true))
	assert.True(t, zone.gen.IsFree(src))
}

func TestConnectRoads_SpanningTree(t *testing.T) {
	zone := pathZone(t, 1, 16)

	// Free everything so roads can run anywhere
	for _, tile := range zone.tileInfo.Sorted() {
		zone.gen.SetOccupied(tile, tileFree)
	}

	corners := []scenario.Position{
		{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 2, Y: 12}, {X: 12, Y: 12},
	}
	for _, corner := range corners {
		zone.addRoadNode(corner)
	}

	zone.connectRoads()

	// Four nodes connect with a three-road tree
	require.Len(t, zone.roads, 3)

	for _, road := range zone.roads {
		previous := scenario.InvalidPosition
		for _, tile := range road.Path {
			assert.False(t, zone.gen.m.GetTile(tile).IsWater(), "road through water at %v", tile)

			if previous.IsValid() {
				dx := tile.X - previous.X
				dy := tile.Y - previous.Y
				assert.False(t, dx != 0 && dy != 0,
					"diagonal road step from %v to %v", previous, tile)
			}
			previous = tile
		}
	}
}

func TestConnectRoads_SingleNode(t *testing.T) {
	zone := pathZone(t, 1, 16)
	zone.addRoadNode(scenario.Position{X: 4, Y: 4})

	zone.connectRoads()
	assert.Empty(t, zone.roads)
}

func TestCreateRoad_AvoidsWater(t *testing.T) {
	zone := pathZone(t, 1, 16)

	for _, tile := range zone.tileInfo.Sorted() {
		zone.gen.SetOccupied(tile, tileFree)
	}

	// Water channel with one land bridge at y=8
	for y := 0; y < 16; y++ {
		if y == 8 {
			continue
		}
		zone.gen.m.PaintTerrain(scenario.Position{X: 8, Y: y},
			scenario.TerrainNeutral, scenario.GroundWater)
	}

	require.True(t, zone.createRoad(scenario.Position{X: 2, Y: 8}, scenario.Position{X: 14, Y: 8}))

	require.Len(t, zone.roads, 1)
	for _, tile := range zone.roads[0].Path {
		assert.False(t, zone.gen.m.GetTile(tile).IsWater())
	}
}

func TestFractalize(t *testing.T) {
	zone := pathZone(t, 1, 32)

	// Entry point at the edge
	entry := scenario.Position{X: 1, Y: 16}
	zone.gen.SetOccupied(entry, tileFree)

	zone.initFreeTiles()
	zone.fractalize()

	assert.Greater(t, zone.freePaths.Len(), 1, "fractalize carved passages")

	// Surviving possible tiles stay within reach of a passage
	limit := fractalMinDistance * 0.25
	for _, tile := range zone.tileInfo.Sorted() {
		if !zone.gen.IsPossible(tile) {
			continue
		}

		closest := zone.freePaths.findClosest(tile)
		require.True(t, closest.IsValid())
		assert.Less(t, float32(tile.DistanceSquared(closest)), limit,
			"possible tile %v stranded far from any passage", tile)
	}

	// Space was reserved for obstacles
	blocked := 0
	for _, tile := range zone.tileInfo.Sorted() {
		if zone.gen.ShouldBeBlocked(tile) {
			blocked++
		}
	}
	assert.Greater(t, blocked, 0)
}

func TestFractalize_JunctionSkipsNodes(t *testing.T) {
	zone := pathZone(t, 1, 32)
	zone.Type = template.ZoneJunction

	entry := scenario.Position{X: 1, Y: 16}
	zone.gen.SetOccupied(entry, tileFree)

	zone.initFreeTiles()
	zone.fractalize()

	// No fractal nodes: the only free tiles are the entry and the
	// center seeded by initFreeTiles
	assert.LessOrEqual(t, zone.freePaths.Len(), 2)
}

func TestCreateBorder_ClosedAndOpen(t *testing.T) {
	for _, borderType := range []template.BorderType{template.BorderClosed, template.BorderOpen} {
		gen := newTestGenerator(t, twoZoneTemplate(borderType, 50), 1, 48)
		require.NoError(t, gen.createPlayers())
		gen.layoutZones()

		zone := gen.zones[0]
		zone.BorderType = borderType
		zone.createBorder()

		open, closed := countBorderStates(zone)
		switch borderType {
		case template.BorderClosed:
			assert.Zero(t, open, "closed border leaves no open tiles")
			assert.Greater(t, closed, 0)
		case template.BorderOpen:
			assert.Zero(t, closed, "open border leaves no closed tiles")
			assert.Greater(t, open, 0)
		}
	}
}

func TestCreateBorder_SemiOpenFraction(t *testing.T) {
	open := 0
	total := 0

	for seed := uint32(1); seed <= 100; seed++ {
		gen := newTestGenerator(t, twoZoneTemplate(template.BorderSemiOpen, 50), seed, 48)
		require.NoError(t, gen.createPlayers())
		gen.layoutZones()

		zone := gen.zones[0]
		zone.createBorder()

		zoneOpen, zoneClosed := countBorderStates(zone)
		open += zoneOpen
		total += zoneOpen + zoneClosed
	}

	fraction := float64(open) / float64(total)
	assert.Greater(t, fraction, 0.35)
	assert.Less(t, fraction, 0.65)
}

func TestCreateBorder_Water(t *testing.T) {
	gen := newTestGenerator(t, twoZoneTemplate(template.BorderWater, 50), 1, 48)
	require.NoError(t, gen.createPlayers())
	gen.layoutZones()

	zone := gen.zones[0]
	zone.createBorder()

	water := 0
	for _, tile := range zone.tileInfo.Sorted() {
		if gen.m.GetTile(tile).IsWater() {
			water++
			assert.True(t, gen.IsFree(tile))
		}
	}
	assert.Greater(t, water, 0)
}

func twoZoneTemplate(border template.BorderType, gapChance int) *template.Template {
	return &template.Template{
		Settings: template.Settings{
			Name: "border test", MaxPlayers: 1, SizeMin: 48, SizeMax: 48, Roads: 100,
		},
		Contents: template.Contents{
			Zones: map[int]*template.ZoneOptions{
				0: {ID: 0, Type: template.ZoneTreasure, Size: 1,
					BorderType: border, GapChance: gapChance},
				1: {ID: 1, Type: template.ZoneTreasure, Size: 1,
					BorderType: border, GapChance: gapChance},
			},
			Connections: []template.Connection{{From: 0, To: 1, Size: 1}},
		},
	}
}

func countBorderStates(zone *Zone) (open, closed int) {
	for _, tile := range zone.tileInfo.Sorted() {
		border := false
		zone.gen.ForeachNeighbor(tile, func(neighbor scenario.Position) {
			if zone.gen.GetZoneID(neighbor) != zone.ID {
				border = true
			}
		})
		if !border {
			continue
		}

		switch {
		case zone.gen.IsFree(tile):
			open++
		case zone.gen.ShouldBeBlocked(tile):
			closed++
		}
	}
	return open, closed
}
