package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

func composerZone(t *testing.T, seed uint32) *Zone {
	t.Helper()

	gen := newTestGenerator(t, singleStartTemplate(), seed, 48)
	require.NoError(t, gen.createPlayers())
	gen.layoutZones()
	return gen.zones[0]
}

func stackValue(z *Zone, stack *scenario.Stack) int {
	total := 0
	seen := make(map[scenario.ObjectID]bool)
	for _, unitID := range stack.Units.Units {
		if unitID == "" || seen[unitID] {
			continue
		}
		seen[unitID] = true

		unit := z.gen.m.FindUnit(unitID)
		for _, info := range z.gen.catalog.Units {
			if info.UnitID == unit.ImplID {
				total += info.Value
				break
			}
		}
	}
	return total
}

func TestCreateStack_Basics(t *testing.T) {
	zone := composerZone(t, 1)

	stack, err := zone.createStack(template.GroupInfo{
		Value: rng.RandomValue{Min: 500, Max: 500},
	})
	require.NoError(t, err)
	require.NotNil(t, stack)

	// Exactly one leader, at least one unit
	assert.NotEmpty(t, stack.LeaderID())
	assert.GreaterOrEqual(t, stack.Units.UnitCount(), 1)

	leader := zone.gen.m.FindUnit(stack.LeaderID())
	require.NotNil(t, leader)

	// Total unit value never exceeds the budget
	assert.LessOrEqual(t, stackValue(zone, stack), 500)
}

func TestCreateStack_NoValue(t *testing.T) {
	zone := composerZone(t, 1)

	stack, err := zone.createStack(template.GroupInfo{})
	require.NoError(t, err)
	assert.Nil(t, stack, "no value means no stack")
}

func TestCreateStack_Deterministic(t *testing.T) {
	spec := template.GroupInfo{Value: rng.RandomValue{Min: 500, Max: 500}}

	first, err := composerZone(t, 7).createStack(spec)
	require.NoError(t, err)
	second, err := composerZone(t, 7).createStack(spec)
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)

	// Same seed: identical leader and identical unit ids in every slot
	assert.Equal(t, first.Units.LeaderID, second.Units.LeaderID)
	for slot := 0; slot < scenario.GroupSize; slot++ {
		assert.Equal(t, first.Units.Units[slot], second.Units.Units[slot], "slot %d", slot)
	}
}

func TestCreateStack_SubraceConstraint(t *testing.T) {
	zone := composerZone(t, 3)

	stack, err := zone.createStack(template.GroupInfo{
		Value:        rng.RandomValue{Min: 600, Max: 600},
		SubraceTypes: map[scenario.SubRaceType]bool{scenario.SubRaceNeutral: true},
	})
	require.NoError(t, err)
	require.NotNil(t, stack)

	seen := make(map[scenario.ObjectID]bool)
	for slot, unitID := range stack.Units.Units {
		if unitID == "" || seen[unitID] || unitID == stack.LeaderID() {
			continue
		}
		seen[unitID] = true

		unit := zone.gen.m.FindUnit(unitID)
		for _, info := range zone.gen.catalog.Units {
			if info.UnitID == unit.ImplID {
				assert.Equal(t, scenario.SubRaceNeutral, info.Subrace,
					"soldier in slot %d has wrong subrace", slot)
			}
		}
	}
}

func TestCreateStack_ExplicitLeader(t *testing.T) {
	zone := composerZone(t, 5)

	stack, err := zone.createStack(template.GroupInfo{
		Value:     rng.RandomValue{Min: 400, Max: 400},
		LeaderIDs: []string{"leader_warlord"},
	})
	require.NoError(t, err)
	require.NotNil(t, stack)

	leader := zone.gen.m.FindUnit(stack.LeaderID())
	require.NotNil(t, leader)
	assert.Equal(t, "leader_warlord", leader.ImplID)
}

func TestCreateStack_LeadershipModifiers(t *testing.T) {
	zone := composerZone(t, 2)

	// A big enough budget forces several soldiers behind a leader with
	// limited leadership
	stack, err := zone.createStack(template.GroupInfo{
		Value: rng.RandomValue{Min: 900, Max: 900},
	})
	require.NoError(t, err)
	require.NotNil(t, stack)

	leader := zone.gen.m.FindUnit(stack.LeaderID())
	require.NotNil(t, leader)

	var leaderInfo *scenario.Unit = leader
	occupied := stack.Units.OccupiedSlots()

	baseLeadership := 0
	for _, info := range zone.gen.catalog.Units {
		if info.UnitID == leaderInfo.ImplID {
			baseLeadership = info.Leadership
		}
	}

	if baseLeadership < occupied {
		assert.Len(t, leader.Modifiers, occupied-baseLeadership,
			"leader needs one +1 leadership modifier per missing point")
	} else {
		assert.Empty(t, leader.Modifiers)
	}
}

func TestGarrisonSlots_ByTier(t *testing.T) {
	zone := composerZone(t, 1)

	assert.Equal(t, []int{2}, zone.garrisonSlots(1).sorted())

	tier2 := zone.garrisonSlots(2).sorted()
	assert.Len(t, tier2, 2)
	assert.Contains(t, tier2, 2)

	tier3 := zone.garrisonSlots(3).sorted()
	assert.Len(t, tier3, 3)
	assert.Contains(t, tier3, 2)

	assert.Len(t, zone.garrisonSlots(4).sorted(), 4)
	assert.Len(t, zone.garrisonSlots(5).sorted(), 5)
}

func TestSlotSet(t *testing.T) {
	slots := allSlots()
	assert.Len(t, slots.sorted(), 6)

	delete(slots, 2)
	assert.NotContains(t, slots.sorted(), 2)

	assert.Equal(t, 3, scenario.PairedSlot(2))
	assert.Equal(t, 2, scenario.PairedSlot(3))
	assert.True(t, scenario.IsFrontline(4))
	assert.False(t, scenario.IsFrontline(5))
}
