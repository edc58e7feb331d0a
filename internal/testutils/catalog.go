package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// ReferenceCatalog builds the fixture catalog shared by generator and
// orchestrator tests: a spread of leaders and soldiers across values
// and reaches, items, spells, landmarks and the generator settings.
func ReferenceCatalog(t *testing.T) *game.Catalog {
	t.Helper()

	catalog := &game.Catalog{
		Units: []game.UnitInfo{
			// Leaders
			{UnitID: "leader_squire", Name: "Squire", Value: 100, EnrollCost: 80, Level: 1,
				HP: 120, Move: 20, Reach: scenario.ReachAdjacent,
				Subrace: scenario.SubRaceNeutral, Leadership: 3, Leader: true},
			{UnitID: "leader_archer", Name: "Archer Captain", Value: 180, EnrollCost: 150, Level: 2,
				HP: 90, Move: 22, Reach: scenario.ReachAll,
				Subrace: scenario.SubRaceNeutral, Leadership: 4, Leader: true},
			{UnitID: "leader_warlord", Name: "Warlord", Value: 300, EnrollCost: 250, Level: 3,
				HP: 200, Move: 18, Reach: scenario.ReachAdjacent,
				Subrace: scenario.SubRaceNeutral, Leadership: 6, Leader: true},
			{UnitID: "leader_sage", Name: "Sage", Value: 220, EnrollCost: 180, Level: 2,
				HP: 80, Move: 24, Reach: scenario.ReachAny,
				Subrace: scenario.SubRaceNeutral, Leadership: 5, Leader: true, Support: true},
			{UnitID: "leader_wyrm", Name: "Elder Wyrm", Value: 500, EnrollCost: 400, Level: 5,
				HP: 350, Move: 16, Reach: scenario.ReachAdjacent,
				Subrace: scenario.SubRaceNeutralDragon, Leadership: 4, Leader: true, Big: true},

			// Soldiers
			{UnitID: "soldier_militia", Name: "Militia", Value: 50, EnrollCost: 40, Level: 1,
				HP: 80, Move: 0, Reach: scenario.ReachAdjacent, Subrace: scenario.SubRaceNeutral},
			{UnitID: "soldier_spearman", Name: "Spearman", Value: 90, EnrollCost: 70, Level: 2,
				HP: 110, Move: 0, Reach: scenario.ReachAdjacent, Subrace: scenario.SubRaceHuman},
			{UnitID: "soldier_bowman", Name: "Bowman", Value: 80, EnrollCost: 60, Level: 1,
				HP: 60, Move: 0, Reach: scenario.ReachAll, Subrace: scenario.SubRaceNeutral},
			{UnitID: "soldier_acolyte", Name: "Acolyte", Value: 110, EnrollCost: 90, Level: 2,
				HP: 65, Move: 0, Reach: scenario.ReachAny, Subrace: scenario.SubRaceHuman},
			{UnitID: "soldier_knight", Name: "Knight", Value: 200, EnrollCost: 160, Level: 3,
				HP: 160, Move: 0, Reach: scenario.ReachAdjacent, Subrace: scenario.SubRaceHuman},
			{UnitID: "soldier_ogre", Name: "Ogre", Value: 260, EnrollCost: 210, Level: 3,
				HP: 280, Move: 0, Reach: scenario.ReachAdjacent,
				Subrace: scenario.SubRaceNeutralGreenSkin, Big: true},
			{UnitID: "soldier_wraith", Name: "Wraith", Value: 150, EnrollCost: 120, Level: 2,
				HP: 90, Move: 0, Reach: scenario.ReachAll, Subrace: scenario.SubRaceUndead},
		},
		Items: []game.ItemInfo{
			{ItemID: "item_heal_small", Type: scenario.ItemPotionHeal, Value: 50},
			{ItemID: "item_heal_big", Type: scenario.ItemPotionHeal, Value: 150},
			{ItemID: "item_scroll_bolt", Type: scenario.ItemScroll, Value: 120},
			{ItemID: "item_sword", Type: scenario.ItemWeapon, Value: 300},
			{ItemID: "item_ring", Type: scenario.ItemJewel, Value: 200},
			{ItemID: "item_gem", Type: scenario.ItemValuable, Value: 100},
			{ItemID: "item_banner", Type: scenario.ItemBanner, Value: 250},
		},
		Spells: []game.SpellInfo{
			{SpellID: "spell_bolt", Type: scenario.SpellAttack, Level: 1, Value: 100},
			{SpellID: "spell_weaken", Type: scenario.SpellLower, Level: 1, Value: 90},
			{SpellID: "spell_heal", Type: scenario.SpellHeal, Level: 2, Value: 150},
			{SpellID: "spell_haste", Type: scenario.SpellBoost, Level: 2, Value: 180},
			{SpellID: "spell_storm", Type: scenario.SpellAttack, Level: 3, Value: 400},
		},
		Landmarks: []game.LandmarkInfo{
			{LandmarkID: "lmk_rock_1", Size: scenario.Position{X: 1, Y: 1}, Mountain: true,
				Kind: scenario.LandmarkTerrain},
			{LandmarkID: "lmk_crag_3", Size: scenario.Position{X: 3, Y: 3}, Mountain: true,
				Kind: scenario.LandmarkTerrain},
			{LandmarkID: "lmk_peak_5", Size: scenario.Position{X: 5, Y: 5}, Mountain: true,
				Kind: scenario.LandmarkTerrain},
			{LandmarkID: "lmk_hut_2", Size: scenario.Position{X: 2, Y: 2},
				Kind: scenario.LandmarkBuilding},
			{LandmarkID: "lmk_bones_1", Size: scenario.Position{X: 1, Y: 1},
				Kind: scenario.LandmarkMisc},
		},
		Races: []game.RaceInfo{
			{Race: scenario.RaceHuman, GuardianUnitID: "soldier_knight",
				LeaderIDs: []string{"leader_squire", "leader_archer"}},
			{Race: scenario.RaceUndead, GuardianUnitID: "soldier_wraith",
				LeaderIDs: []string{"leader_squire"}},
			{Race: scenario.RaceNeutral, GuardianUnitID: "soldier_militia",
				LeaderIDs: []string{"leader_squire"}},
		},
		CityNames: []string{"Greenford", "Stonehollow", "Ravenmoor", "Duskwall"},
		MerchantTexts: []game.SiteText{
			{Name: "Traveling Goods", Description: "Wares from distant lands."},
		},
		MageTexts: []game.SiteText{
			{Name: "Sorcery Tower", Description: "Spells for coin."},
		},
		MercenaryTexts: []game.SiteText{
			{Name: "Sellsword Camp", Description: "Blades for hire."},
		},
		TrainerTexts: []game.SiteText{
			{Name: "Training Grounds", Description: "Experience for gold."},
		},
		MarketTexts: []game.SiteText{
			{Name: "Resource Exchange", Description: "Trade one resource for another."},
		},
		RuinTexts: []game.SiteText{
			{Name: "Fallen Keep", Description: "Only echoes remain."},
		},
		Settings: game.Settings{
			MerchantImages:  []int{1, 2},
			MageImages:      []int{3, 4},
			MercenaryImages: []int{5},
			TrainerImages:   []int{6},
			MarketImages:    []int{7},
			RuinImages:      []int{8, 9},
			BagImages:       []int{10, 11},
			BagWaterImages:  []int{12},
			Mountains: []game.Mountain{
				{Size: 1, Image: 1},
				{Size: 2, Image: 2},
				{Size: 3, Image: 3},
				{Size: 5, Image: 5},
			},
			TreeImages:           20,
			LeadershipModifierID: "mod_leadership",
		},
	}

	require.NoError(t, catalog.Init())
	return catalog
}
