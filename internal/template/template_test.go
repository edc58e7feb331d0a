package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

const testTemplate = `
template = {
	name = "Test duel",
	description = "Two players, one treasure zone",
	maxPlayers = 2,
	minSize = 48,
	maxSize = 72,
	roads = 60,
	forest = 20,
	startingGold = 500,
	forbiddenUnits = { "unit_forbidden" },

	getContents = function(size)
		return {
			zones = {
				{
					id = 0,
					type = "playerStart",
					race = "human",
					size = 2,
					borderType = "semiOpen",
					gapChance = 50,
					capital = {
						garrison = { value = { min = 300, max = 300 } },
						guardian = true,
					},
					mines = { gold = 1, lifeMana = 1 },
					merchants = {
						{
							goods = {
								value = { min = 1000, max = 2000 },
								itemTypes = { "potion_heal", "scroll" },
							},
							guard = { value = { min = 400, max = 600 } },
						},
					},
					stacks = {
						{
							count = 3,
							value = { min = 900, max = 900 },
							order = "roam",
						},
					},
					bags = {
						count = 2,
						loot = { value = { min = 100, max = 200 } },
					},
				},
				{
					id = 1,
					type = "treasure",
					size = 1,
					towns = {
						{ tier = 2, garrison = { value = { min = 200, max = 250 } } },
					},
					ruins = {
						{
							guard = { value = { min = 500, max = 500 } },
							gold = { min = 100, max = 300 },
							loot = { value = { min = 200, max = 400 } },
						},
					},
				},
			},
			connections = {
				{ from = 0, to = 1, size = 0.5, guard = { value = { min = 300, max = 300 } } },
			},
			diplomacy = {
				{ raceA = "human", raceB = "undead", relation = 10, alwaysAtWar = true },
			},
		}
	end,
}
`

func TestReadString(t *testing.T) {
	tmpl, err := ReadString(testTemplate)
	require.NoError(t, err)

	assert.Equal(t, "Test duel", tmpl.Settings.Name)
	assert.Equal(t, 2, tmpl.Settings.MaxPlayers)
	assert.Equal(t, 72, tmpl.Settings.SizeMax)
	assert.Equal(t, 60, tmpl.Settings.Roads)
	assert.True(t, tmpl.Settings.ForbiddenUnits["unit_forbidden"])
}

func TestResolveContents(t *testing.T) {
	tmpl, err := ReadString(testTemplate)
	require.NoError(t, err)

	require.NoError(t, ResolveContentsString(testTemplate, tmpl, 48))
	require.Len(t, tmpl.Contents.Zones, 2)

	start := tmpl.Contents.Zones[0]
	require.NotNil(t, start)
	assert.Equal(t, ZonePlayerStart, start.Type)
	assert.Equal(t, scenario.RaceHuman, start.PlayerRace)
	assert.Equal(t, 300, start.Capital.Garrison.Value.Min)
	assert.True(t, start.Capital.Guardian)
	assert.Equal(t, 1, start.Mines[scenario.ResourceGold])
	assert.Equal(t, 1, start.Mines[scenario.ResourceLifeMana])

	require.Len(t, start.Merchants, 1)
	assert.True(t, start.Merchants[0].Items.ItemTypes[scenario.ItemPotionHeal])
	assert.Equal(t, 400, start.Merchants[0].Guard.Value.Min)

	require.Len(t, start.Stacks.StackGroups, 1)
	assert.Equal(t, 3, start.Stacks.StackGroups[0].Count)
	assert.Equal(t, scenario.OrderRoam, start.Stacks.StackGroups[0].Order)
	assert.Equal(t, 2, start.Bags.Count)

	treasure := tmpl.Contents.Zones[1]
	require.NotNil(t, treasure)
	require.Len(t, treasure.NeutralCities, 1)
	assert.Equal(t, 2, treasure.NeutralCities[0].Tier)
	require.Len(t, treasure.Ruins, 1)
	assert.Equal(t, 100, treasure.Ruins[0].Gold.Min)

	require.Len(t, tmpl.Contents.Connections, 1)
	assert.Equal(t, float32(0.5), tmpl.Contents.Connections[0].Size)

	require.Len(t, tmpl.Contents.Diplomacy, 1)
	assert.True(t, tmpl.Contents.Diplomacy[0].AlwaysAtWar)
}

func TestReadString_MissingTable(t *testing.T) {
	_, err := ReadString(`x = 1`)
	require.Error(t, err)
	assert.Equal(t, errors.CodeTemplateInvalid, errors.GetCode(err))
}

func TestSettings_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid", func(*Settings) {}, false},
		{"too many players", func(s *Settings) { s.MaxPlayers = 5 }, true},
		{"size too small", func(s *Settings) { s.SizeMin = 32 }, true},
		{"min above max", func(s *Settings) { s.SizeMin = 96; s.SizeMax = 48 }, true},
		{"forest out of range", func(s *Settings) { s.Forest = 120 }, true},
		{"gold out of range", func(s *Settings) { s.StartingGold = 10000 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := Settings{MaxPlayers: 2, SizeMin: 48, SizeMax: 96, Roads: 50, Forest: 10}
			tc.mutate(&settings)

			err := settings.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContents(t *testing.T) {
	base := func() *Template {
		return &Template{
			Settings: Settings{MaxPlayers: 1, SizeMin: 48, SizeMax: 48},
			Contents: Contents{
				Zones: map[int]*ZoneOptions{
					0: {ID: 0, Type: ZonePlayerStart},
					1: {ID: 1, Type: ZoneTreasure},
				},
				Connections: []Connection{{From: 0, To: 1, Size: 1}},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateContents(base()))
	})

	t.Run("too many starting zones", func(t *testing.T) {
		tmpl := base()
		tmpl.Contents.Zones[1].Type = ZoneAiStart
		assert.Error(t, ValidateContents(tmpl))
	})

	t.Run("unknown connection zone", func(t *testing.T) {
		tmpl := base()
		tmpl.Contents.Connections = []Connection{{From: 0, To: 7}}
		assert.Error(t, ValidateContents(tmpl))
	})

	t.Run("alliance and war", func(t *testing.T) {
		tmpl := base()
		tmpl.Contents.Diplomacy = []DiplomacyRelation{
			{RaceA: scenario.RaceHuman, RaceB: scenario.RaceElf, Alliance: true, AlwaysAtWar: true},
		}
		assert.Error(t, ValidateContents(tmpl))
	})

	t.Run("permanent alliance without alliance", func(t *testing.T) {
		tmpl := base()
		tmpl.Contents.Diplomacy = []DiplomacyRelation{
			{RaceA: scenario.RaceHuman, RaceB: scenario.RaceElf, PermanentAlliance: true},
		}
		assert.Error(t, ValidateContents(tmpl))
	})

	t.Run("duplicate relation either direction", func(t *testing.T) {
		tmpl := base()
		tmpl.Contents.Diplomacy = []DiplomacyRelation{
			{RaceA: scenario.RaceHuman, RaceB: scenario.RaceElf, Relation: 40},
			{RaceA: scenario.RaceElf, RaceB: scenario.RaceHuman, Relation: 60},
		}
		assert.Error(t, ValidateContents(tmpl))
	})
}
