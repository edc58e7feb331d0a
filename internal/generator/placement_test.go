package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

func TestFindPlaceForObject(t *testing.T) {
	zone := pathZone(t, 1, 16)
	for _, tile := range zone.tileInfo.Sorted() {
		zone.possibleTiles.Add(tile)
	}

	// Give one spot a far better object distance than the rest
	for _, tile := range zone.tileInfo.Sorted() {
		zone.gen.SetNearestObjectDistance(tile, 10)
	}
	best := scenario.Position{X: 8, Y: 8}
	zone.gen.SetNearestObjectDistance(best, 100)

	element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})
	pos, ok := zone.findPlaceForObject(element, 6)
	require.True(t, ok)
	assert.Equal(t, best, pos, "the tile with the greatest distance wins")
}

func TestFindPlaceForObject_MinDistance(t *testing.T) {
	zone := pathZone(t, 1, 16)

	for _, tile := range zone.tileInfo.Sorted() {
		zone.gen.SetNearestObjectDistance(tile, 3)
	}

	element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})
	_, ok := zone.findPlaceForObject(element, 6)
	assert.False(t, ok, "no tile satisfies the minimum distance")
}

func TestFindPlaceForObject_RejectsBorder(t *testing.T) {
	zone := pathZone(t, 1, 8)

	element := scenario.NewMapElement(scenario.Position{X: 6, Y: 6})
	_, ok := zone.findPlaceForObject(element, 0)
	assert.False(t, ok, "a 6x6 element cannot avoid the border of an 8x8 map")
}

func TestBlueprint_RestoresState(t *testing.T) {
	zone := pathZone(t, 1, 16)

	pos := scenario.Position{X: 4, Y: 4}
	free := scenario.Position{X: 5, Y: 4}
	zone.gen.SetOccupied(free, tileFree)

	probe := installBlueprint(zone.gen, pos, scenario.Position{X: 2, Y: 2})
	assert.False(t, zone.gen.IsPossible(pos))
	assert.False(t, zone.gen.IsFree(free))

	probe.drop()
	assert.True(t, zone.gen.IsPossible(pos))
	assert.True(t, zone.gen.IsFree(free))
}

func TestTryToPlaceObjectAndConnectToPath(t *testing.T) {
	zone := pathZone(t, 1, 16)
	for _, tile := range zone.tileInfo.Sorted() {
		zone.possibleTiles.Add(tile)
	}

	// A free network to connect to
	for x := 0; x < 16; x++ {
		zone.addFreePath(scenario.Position{X: x, Y: 14})
	}

	element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})
	result := zone.tryToPlaceObjectAndConnectToPath(&element, scenario.Position{X: 6, Y: 4})
	require.Equal(t, placingSuccess, result)

	// Footprint and entrance reserved
	for _, tile := range element.BlockedPositions() {
		assert.True(t, zone.gen.ShouldBeBlocked(tile))
	}
	assert.True(t, zone.gen.ShouldBeBlocked(element.Entrance()))

	// A carved path leads away from the approach tile
	approach := zone.accessibleOffset(element, element.GetPosition())
	require.True(t, approach.IsValid())
	assert.True(t, zone.gen.IsFree(approach))
}

func TestTryToPlaceObjectAndConnectToPath_SealedOff(t *testing.T) {
	zone := pathZone(t, 1, 16)
	for _, tile := range zone.tileInfo.Sorted() {
		zone.possibleTiles.Add(tile)
	}

	// No free tile anywhere: connecting must fail and seal the area
	element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})
	result := zone.tryToPlaceObjectAndConnectToPath(&element, scenario.Position{X: 6, Y: 4})
	assert.Equal(t, placingSealedOff, result)

	// The blueprint was dropped: the probed footprint is not used
	assert.NotEqual(t, tileUsed, zone.gen.tileAt(scenario.Position{X: 6, Y: 4}).state)
}

func TestAccessibleOffset(t *testing.T) {
	zone := pathZone(t, 1, 16)

	element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})
	element.SetPosition(scenario.Position{X: 6, Y: 6})

	offset := zone.accessibleOffset(element, element.GetPosition())
	require.True(t, offset.IsValid())

	// The approach tile sits below or beside the entrance, never on the
	// footprint
	assert.False(t, containsPos(element.BlockedPositions(), offset))
}

func TestCanObstacleBePlacedHere(t *testing.T) {
	zone := pathZone(t, 1, 16)

	element := scenario.NewMapElement(scenario.Position{X: 2, Y: 2})
	pos := scenario.Position{X: 4, Y: 4}

	assert.False(t, zone.canObstacleBePlacedHere(element, pos),
		"possible tiles are not reserved for obstacles")

	for x := 4; x < 6; x++ {
		for y := 4; y < 6; y++ {
			zone.gen.SetOccupied(scenario.Position{X: x, Y: y}, tileBlocked)
		}
	}
	assert.True(t, zone.canObstacleBePlacedHere(element, pos))
}
