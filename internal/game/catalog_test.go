package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()

	catalog := &Catalog{
		Units: []UnitInfo{
			{UnitID: "leader_a", Value: 100, Reach: scenario.ReachAdjacent,
				Subrace: scenario.SubRaceNeutral, Leadership: 4, Leader: true},
			{UnitID: "leader_b", Value: 250, Reach: scenario.ReachAll,
				Subrace: scenario.SubRaceHuman, Leadership: 5, Leader: true},
			{UnitID: "soldier_a", Value: 60, Reach: scenario.ReachAdjacent,
				Subrace: scenario.SubRaceNeutral},
			{UnitID: "soldier_b", Value: 140, Reach: scenario.ReachAll,
				Subrace: scenario.SubRaceHuman},
		},
		Items: []ItemInfo{
			{ItemID: "item_a", Type: scenario.ItemPotionHeal, Value: 50},
			{ItemID: "item_b", Type: scenario.ItemWeapon, Value: 200},
		},
		Spells: []SpellInfo{
			{SpellID: "spell_a", Type: scenario.SpellAttack, Level: 1, Value: 100},
		},
		Landmarks: []LandmarkInfo{
			{LandmarkID: "lmk_a", Size: scenario.Position{X: 3, Y: 3}, Mountain: true},
			{LandmarkID: "lmk_b", Size: scenario.Position{X: 2, Y: 2}},
		},
		Races: []RaceInfo{
			{Race: scenario.RaceHuman, GuardianUnitID: "soldier_b", LeaderIDs: []string{"leader_b"}},
		},
		CityNames: []string{"Testford"},
		Settings: Settings{
			MerchantImages:  []int{1},
			MageImages:      []int{1},
			MercenaryImages: []int{1},
			TrainerImages:   []int{1},
			MarketImages:    []int{1},
			RuinImages:      []int{1},
			BagImages:       []int{1},
			Mountains:       []Mountain{{Size: 1, Image: 1}},
		},
	}

	require.NoError(t, catalog.Init())
	return catalog
}

func TestCatalog_Init(t *testing.T) {
	catalog := testCatalog(t)

	assert.Len(t, catalog.Leaders(), 2)
	assert.Len(t, catalog.Soldiers(), 2)
	assert.Equal(t, 100, catalog.MinLeaderValue())
	assert.Equal(t, 60, catalog.MinSoldierValue())
}

func TestCatalog_Init_Missing(t *testing.T) {
	catalog := testCatalog(t)
	catalog.CityNames = nil

	err := catalog.Init()
	require.Error(t, err)
	assert.Equal(t, errors.CodeCatalogMissing, errors.GetCode(err))

	catalog = testCatalog(t)
	catalog.Settings.RuinImages = nil
	assert.Error(t, catalog.Init())
}

func TestCatalog_FindUnit(t *testing.T) {
	catalog := testCatalog(t)

	unit, err := catalog.FindUnit("soldier_a")
	require.NoError(t, err)
	assert.Equal(t, 60, unit.Value)

	_, err = catalog.FindUnit("missing")
	require.Error(t, err)
	assert.Equal(t, errors.CodeCatalogMissing, errors.GetCode(err))
}

func TestCatalog_FindRace(t *testing.T) {
	catalog := testCatalog(t)

	race, err := catalog.FindRace(scenario.RaceHuman)
	require.NoError(t, err)
	assert.Equal(t, "soldier_b", race.GuardianUnitID)

	_, err = catalog.FindRace(scenario.RaceElf)
	assert.Error(t, err)
}

func TestPickUnit_Filters(t *testing.T) {
	catalog := testCatalog(t)
	r := rng.New(1)

	// All filters pass: some soldier comes back
	unit := catalog.PickUnit(r, nil)
	require.NotNil(t, unit)
	assert.False(t, unit.Leader)

	// A filter rejecting everything yields nil
	unit = catalog.PickUnit(r, []UnitFilter{
		func(*UnitInfo) bool { return true },
	})
	assert.Nil(t, unit)

	// Candidates are the intersection of all filters
	unit = catalog.PickUnit(r, []UnitFilter{
		func(info *UnitInfo) bool { return info.Subrace != scenario.SubRaceHuman },
		func(info *UnitInfo) bool { return info.Value > 150 },
	})
	require.NotNil(t, unit)
	assert.Equal(t, "soldier_b", unit.UnitID)
}

func TestPickLeader(t *testing.T) {
	catalog := testCatalog(t)
	r := rng.New(2)

	leader := catalog.PickLeader(r, []UnitFilter{
		func(info *UnitInfo) bool { return info.Value < 200 },
	})
	require.NotNil(t, leader)
	assert.Equal(t, "leader_b", leader.UnitID)
}

func TestPickMountainLandmark(t *testing.T) {
	catalog := testCatalog(t)
	r := rng.New(3)

	landmark := catalog.PickMountainLandmark(r, nil)
	require.NotNil(t, landmark)
	assert.Equal(t, "lmk_a", landmark.LandmarkID, "only mountain landmarks qualify")
}
