package generator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
	"github.com/KirkDiggler/scenario-gen/internal/testutils"
)

// singleStartTemplate is a small one-player template that exercises the
// whole pipeline: capital, crystals, a merchant, stacks and bags.
func singleStartTemplate() *template.Template {
	return &template.Template{
		Settings: template.Settings{
			Name:        "test",
			Description: "single start zone",
			MaxPlayers:  1,
			SizeMin:     48,
			SizeMax:     48,
			Roads:       100,
			Forest:      10,
		},
		Contents: template.Contents{
			Zones: map[int]*template.ZoneOptions{
				0: {
					ID:         0,
					Type:       template.ZonePlayerStart,
					PlayerRace: scenario.RaceHuman,
					Size:       1,
					BorderType: template.BorderClosed,
					Capital: template.CapitalInfo{
						Guardian: true,
						Garrison: template.GroupInfo{
							Value: rng.RandomValue{Min: 300, Max: 300},
						},
					},
					Mines: map[scenario.ResourceType]int{
						scenario.ResourceGold:     1,
						scenario.ResourceLifeMana: 1,
					},
					Merchants: []template.MerchantInfo{
						{
							Items: template.LootInfo{
								Value: rng.RandomValue{Min: 500, Max: 800},
							},
							Guard: template.GroupInfo{
								Value: rng.RandomValue{Min: 300, Max: 400},
							},
						},
					},
					Stacks: template.StacksInfo{
						StackGroups: []template.NeutralStacksInfo{
							{
								Count: 2,
								Owner: scenario.RaceNeutral,
								Order: scenario.OrderRoam,
								Stacks: template.GroupInfo{
									Value: rng.RandomValue{Min: 600, Max: 600},
								},
							},
						},
					},
					Bags: template.BagInfo{
						Count: 1,
						Loot:  template.LootInfo{Value: rng.RandomValue{Min: 100, Max: 200}},
					},
				},
			},
		},
	}
}

func newTestGenerator(t *testing.T, tmpl *template.Template, seed uint32, size int) *Generator {
	t.Helper()

	gen, err := New(&Config{
		Template: tmpl,
		Catalog:  testutils.ReferenceCatalog(t),
		Seed:     seed,
		Size:     size,
	})
	require.NoError(t, err)
	return gen
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)

	_, err = New(&Config{Template: singleStartTemplate(), Size: 48})
	assert.Error(t, err, "missing catalog rejected")
}

func TestGenerate_SingleStartZone(t *testing.T) {
	gen := newTestGenerator(t, singleStartTemplate(), 1, 48)

	snapshot, err := gen.Generate()
	require.NoError(t, err)

	require.Equal(t, 48, snapshot.Size)
	require.Len(t, snapshot.Tiles, 48*48)

	capitals := 0
	crystals := 0
	merchants := 0
	bags := 0
	for _, object := range snapshot.Objects {
		switch typed := object.Object.(type) {
		case *scenario.Fortification:
			if typed.Capital {
				capitals++
			}
		case *scenario.Crystal:
			crystals++
		case *scenario.Site:
			if typed.Kind == scenario.SiteMerchant {
				merchants++
			}
		case *scenario.Bag:
			bags++
		}
	}

	assert.Equal(t, 1, capitals)
	assert.Equal(t, 2, crystals)
	assert.Equal(t, 1, merchants)
	assert.Equal(t, 1, bags)
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := newTestGenerator(t, singleStartTemplate(), 7, 48).Generate()
	require.NoError(t, err)

	second, err := newTestGenerator(t, singleStartTemplate(), 7, 48).Generate()
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON, "same seed must produce byte-identical snapshots")
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	first, err := newTestGenerator(t, singleStartTemplate(), 1, 48).Generate()
	require.NoError(t, err)

	second, err := newTestGenerator(t, singleStartTemplate(), 2, 48).Generate()
	require.NoError(t, err)

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.NotEqual(t, firstJSON, secondJSON)
}

// Placed sites keep their footprints and entrances marked used.
func TestGenerate_FootprintsUsed(t *testing.T) {
	gen := newTestGenerator(t, singleStartTemplate(), 3, 48)

	_, err := gen.Generate()
	require.NoError(t, err)

	checked := 0
	gen.Map().Visit(scenario.TypeSite, func(object scenario.Object) {
		site := object.(*scenario.Site)

		for _, tile := range site.BlockedPositions() {
			assert.Equal(t, tileUsed, gen.tileAt(tile).state, "footprint tile %v", tile)
		}
		assert.Equal(t, tileUsed, gen.tileAt(site.Entrance()).state)
		checked++
	})
	require.NotZero(t, checked)
}

// The capital carries the gap mask declared by the template.
func TestPlaceFortification_GapMask(t *testing.T) {
	tmpl := singleStartTemplate()
	tmpl.Contents.Zones[0].Capital.GapMask = scenario.GapWest | scenario.GapEast

	gen := newTestGenerator(t, tmpl, 5, 48)
	_, err := gen.Generate()
	require.NoError(t, err)

	var capital *scenario.Fortification
	gen.Map().Visit(scenario.TypeFortification, func(object scenario.Object) {
		fort := object.(*scenario.Fortification)
		if fort.Capital {
			capital = fort
		}
	})
	require.NotNil(t, capital)
	assert.Equal(t, scenario.GapWest|scenario.GapEast, capital.GapMask)
}

func TestCheckObjectsAccess(t *testing.T) {
	gen := newTestGenerator(t, singleStartTemplate(), 11, 48)

	_, err := gen.Generate()
	require.NoError(t, err)

	// Generate already verifies access; corrupt a site's surroundings
	// and expect the check to fail
	var site *scenario.Site
	gen.Map().Visit(scenario.TypeSite, func(object scenario.Object) {
		site = object.(*scenario.Site)
	})
	require.NotNil(t, site)

	entrance := site.Entrance()
	for _, offset := range site.EntranceOffsets() {
		tile := entrance.Add(offset)
		if gen.Map().IsInTheMap(tile) {
			gen.SetOccupied(tile, tileBlocked)
		}
	}

	assert.Error(t, gen.checkObjectsAccess())
}

func TestGenerate_CapitalSanity(t *testing.T) {
	gen := newTestGenerator(t, singleStartTemplate(), 1, 48)

	_, err := gen.Generate()
	require.NoError(t, err)

	var capital *scenario.Fortification
	gen.Map().Visit(scenario.TypeFortification, func(object scenario.Object) {
		fort := object.(*scenario.Fortification)
		if fort.Capital {
			capital = fort
		}
	})
	require.NotNil(t, capital)

	zone := gen.Zone(0)

	// The zone anchor points next to the capital entrance and the
	// entrance registered as a road node
	assert.Equal(t, capital.Entrance().Add(scenario.Position{X: 1, Y: 1}), zone.Pos())
	assert.True(t, zone.roadNodes.Has(capital.Entrance()))

	// Guardian sits on the front-center garrison slot
	assert.NotEmpty(t, capital.Garrison.Units[2])

	// The starting stack lives inside the capital
	stack := gen.Map().FindStack(capital.StackID)
	require.NotNil(t, stack)
	assert.Equal(t, capital.ID, stack.InsideID)
}

func TestGenerate_CloseCrystalsNearCapital(t *testing.T) {
	for _, seed := range []uint32{1, 2, 3, 5, 8} {
		gen := newTestGenerator(t, singleStartTemplate(), seed, 48)

		_, err := gen.Generate()
		require.NoError(t, err, "seed %d", seed)

		var capital *scenario.Fortification
		gen.Map().Visit(scenario.TypeFortification, func(object scenario.Object) {
			fort := object.(*scenario.Fortification)
			if fort.Capital {
				capital = fort
			}
		})
		require.NotNil(t, capital)

		gen.Map().Visit(scenario.TypeCrystal, func(object scenario.Object) {
			crystal := object.(*scenario.Crystal)
			distance := crystal.GetPosition().Distance(capital.Entrance())
			assert.LessOrEqual(t, distance, 16,
				"seed %d: crystal %s strayed from the capital", seed, crystal.ID)
		})
	}
}

func TestLayoutZones_CoversWholeMap(t *testing.T) {
	tmpl := singleStartTemplate()
	tmpl.Settings.MaxPlayers = 2
	tmpl.Contents.Zones[1] = &template.ZoneOptions{
		ID: 1, Type: template.ZoneTreasure, Size: 1, BorderType: template.BorderOpen,
	}
	tmpl.Contents.Connections = []template.Connection{{From: 0, To: 1, Size: 1}}

	gen := newTestGenerator(t, tmpl, 1, 48)
	require.NoError(t, gen.createPlayers())
	gen.layoutZones()

	total := 0
	for _, id := range gen.zoneOrder {
		total += gen.zones[id].tileInfo.Len()
	}
	assert.Equal(t, 48*48, total, "every tile belongs to exactly one zone")

	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			assert.NotEqual(t, noZone, gen.GetZoneID(scenario.Position{X: x, Y: y}))
		}
	}
}
