package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVPosition_Wrapped(t *testing.T) {
	cases := []struct {
		name string
		in   VPosition
	}{
		{"inside", VPosition{X: 0.25, Y: 0.75}},
		{"overflow", VPosition{X: 1.25, Y: 2.5}},
		{"negative", VPosition{X: -0.25, Y: -1.75}},
		{"zero", VPosition{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.in.Wrapped()
			assert.GreaterOrEqual(t, out.X, float32(0))
			assert.Less(t, out.X, float32(1))
			assert.GreaterOrEqual(t, out.Y, float32(0))
			assert.Less(t, out.Y, float32(1))
		})
	}

	// Negative fractions come out on the opposite side
	out := VPosition{X: -0.25, Y: 0}.Wrapped()
	assert.InDelta(t, 0.75, out.X, 1e-6)
}

func TestTile_SetTerrainGround(t *testing.T) {
	var tile Tile

	tile.SetTerrainGround(TerrainHuman, GroundPlain)
	assert.Equal(t, TerrainHuman, tile.Terrain)

	// Water and mountains always belong to the neutral race
	tile.SetTerrainGround(TerrainHuman, GroundWater)
	assert.Equal(t, TerrainNeutral, tile.Terrain)
	assert.True(t, tile.IsWater())

	tile.SetTerrainGround(TerrainElf, GroundMountain)
	assert.Equal(t, TerrainNeutral, tile.Terrain)
}

func TestMapElement_Entrance(t *testing.T) {
	element := NewMapElement(Position{X: 4, Y: 4})
	element.SetPosition(Position{X: 10, Y: 10})

	assert.Equal(t, Position{X: 2, Y: 3}, element.EntranceOffset())
	assert.Equal(t, Position{X: 12, Y: 13}, element.Entrance())

	blocked := element.BlockedOffsets()
	assert.Len(t, blocked, 15)
	assert.NotContains(t, blocked, element.EntranceOffset())
}

func TestMapElement_EntranceOffsets(t *testing.T) {
	element := NewMapElement(Position{X: 3, Y: 3})

	offsets := element.EntranceOffsets()
	// 3x3 entrance at (1,2): footprint covers left, right and top
	// neighbors, leaving the three tiles of the row below
	assert.ElementsMatch(t, []Position{
		{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
	}, offsets)
}

func TestMapElement_IsVisitableFrom(t *testing.T) {
	element := NewMapElement(Position{X: 3, Y: 3})

	assert.True(t, element.IsVisitableFrom(Position{X: 0, Y: 1}))
	assert.True(t, element.IsVisitableFrom(Position{X: -1, Y: 1}))
	assert.True(t, element.IsVisitableFrom(Position{X: 1, Y: 0}))
	assert.False(t, element.IsVisitableFrom(Position{X: 0, Y: -1}))
	assert.False(t, element.IsVisitableFrom(Position{X: 0, Y: 0}))
}

func TestMapElement_TilesByGapMask(t *testing.T) {
	element := NewMapElement(Position{X: 4, Y: 4})
	element.SetPosition(Position{X: 10, Y: 10})

	assert.Empty(t, element.TilesByGapMask(0))

	west := element.TilesByGapMask(GapWest)
	require.Len(t, west, 4)
	for _, tile := range west {
		assert.Equal(t, 9, tile.X)
	}

	south := element.TilesByGapMask(GapSouth)
	require.Len(t, south, 6)
	for _, tile := range south {
		assert.Equal(t, 14, tile.Y)
	}
}

func TestGroup_AddUnits(t *testing.T) {
	var group Group

	require.True(t, group.AddLeader("unit_0", 2, false))
	assert.False(t, group.AddLeader("unit_1", 3, false), "second leader rejected")

	require.True(t, group.AddUnit("unit_2", 0, false))
	assert.False(t, group.AddUnit("unit_3", 0, false), "occupied slot rejected")

	// Big unit claims the whole column
	require.True(t, group.AddUnit("unit_4", 4, true))
	assert.Equal(t, ObjectID("unit_4"), group.Units[4])
	assert.Equal(t, ObjectID("unit_4"), group.Units[5])

	assert.False(t, group.AddUnit("unit_5", 5, false))

	assert.Equal(t, 4, group.OccupiedSlots())
	assert.Equal(t, 3, group.UnitCount())
}

func TestMap_IDsAndStore(t *testing.T) {
	m := NewMap(48)

	first := m.CreateID(TypeStack)
	second := m.CreateID(TypeStack)
	assert.Equal(t, ObjectID("stack_0000"), first)
	assert.Equal(t, ObjectID("stack_0001"), second)

	stack := NewStack(first)
	require.NoError(t, m.Insert(stack))
	assert.Error(t, m.Insert(stack), "duplicate id rejected")

	assert.Equal(t, stack, m.FindStack(first))
	assert.Nil(t, m.FindStack("missing"))

	visited := 0
	m.Visit(TypeStack, func(Object) { visited++ })
	assert.Equal(t, 1, visited)
}

func TestMap_Bounds(t *testing.T) {
	m := NewMap(48)

	assert.True(t, m.IsInTheMap(Position{X: 0, Y: 0}))
	assert.True(t, m.IsInTheMap(Position{X: 47, Y: 47}))
	assert.False(t, m.IsInTheMap(Position{X: 48, Y: 0}))
	assert.False(t, m.IsInTheMap(Position{X: -1, Y: 3}))

	assert.True(t, m.IsAtTheBorder(Position{X: 0, Y: 10}))
	assert.False(t, m.IsAtTheBorder(Position{X: 10, Y: 10}))

	element := NewMapElement(Position{X: 4, Y: 4})
	assert.True(t, m.ElementAtTheBorder(element, Position{X: 44, Y: 10}))
	assert.False(t, m.ElementAtTheBorder(element, Position{X: 20, Y: 20}))
}

func TestMap_CanMoveBetween(t *testing.T) {
	m := NewMap(8)

	src := Position{X: 2, Y: 2}

	assert.True(t, m.CanMoveBetween(src, Position{X: 3, Y: 2}))
	assert.True(t, m.CanMoveBetween(src, Position{X: 3, Y: 3}))

	// Block both corners of the diagonal step
	m.GetTile(Position{X: 3, Y: 2}).Blocked = true
	m.GetTile(Position{X: 2, Y: 3}).Blocked = true
	assert.False(t, m.CanMoveBetween(src, Position{X: 3, Y: 3}))

	// One open corner is enough
	m.GetTile(Position{X: 3, Y: 2}).Blocked = false
	assert.True(t, m.CanMoveBetween(src, Position{X: 3, Y: 3}))
}

func TestMap_InsertMapElement(t *testing.T) {
	m := NewMap(16)

	site := NewSite(m.CreateID(TypeSite), SiteMerchant)
	site.SetPosition(Position{X: 5, Y: 5})

	m.InsertMapElement(site.MapElement, site.ID)

	entrance := site.Entrance()
	assert.True(t, m.GetTile(entrance).Visitable)
	assert.Contains(t, m.GetTile(entrance).VisitableObjects, site.ID)

	for _, pos := range site.BlockedPositions() {
		assert.True(t, m.GetTile(pos).Blocked)
	}
}
