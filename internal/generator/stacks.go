package generator

import (
	"log/slog"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// groupUnits is the working layout of a group under composition, one
// entry per slot. Big units appear in both slots of their column.
type groupUnits [scenario.GroupSize]*game.UnitInfo

// slotSet tracks the free slots of a group during composition.
type slotSet map[int]bool

func newSlotSet(slots ...int) slotSet {
	set := make(slotSet, len(slots))
	for _, slot := range slots {
		set[slot] = true
	}
	return set
}

func allSlots() slotSet {
	return newSlotSet(0, 1, 2, 3, 4, 5)
}

func (s slotSet) sorted() []int {
	var slots []int
	for slot := 0; slot < scenario.GroupSize; slot++ {
		if s[slot] {
			slots = append(slots, slot)
		}
	}
	return slots
}

func (s slotSet) pickRandom(r *rng.Rand) int {
	return *rng.PickElement(s.sorted(), r)
}

// createStack composes a stack from a value budget: roll the strength,
// split it into unit values, pick a leader, fill the remaining slots
// with soldiers, then tighten leftovers into extra units. Returns nil
// when the spec has no value.
func (z *Zone) createStack(stackInfo template.GroupInfo) (*scenario.Stack, error) {
	if !stackInfo.Value.IsSet() {
		return nil, nil
	}

	strength := z.gen.rand.PickValue(stackInfo.Value)

	soldiersStrength := strength - z.gen.catalog.MinLeaderValue()

	// Do not roll more soldiers than a weak stack can pay for
	maxUnitsPossible := soldiersStrength / z.gen.catalog.MinSoldierValue()
	if maxUnitsPossible > 5 {
		maxUnitsPossible = 5
	}
	if maxUnitsPossible < 0 {
		maxUnitsPossible = 0
	}

	soldiersTotal := z.gen.rand.Int(0, maxUnitsPossible)
	unitsTotal := soldiersTotal + 1

	unitValues := rng.ConstrainedSum(unitsTotal, strength, z.gen.rand)

	unusedValue := 0
	valuesConsumed := 0

	var leaderInfo *game.UnitInfo
	if len(stackInfo.LeaderIDs) > 0 {
		leaderInfo = z.pickStackLeader(&unusedValue, &valuesConsumed, unitValues, stackInfo.LeaderIDs)
	}
	if leaderInfo == nil {
		leaderInfo = z.createStackLeader(&unusedValue, &valuesConsumed, unitValues, stackInfo.SubraceTypes)
	}
	if leaderInfo == nil {
		return nil, errors.Internalf("could not pick stack leader for value %d, units %d",
			strength, unitsTotal)
	}

	positions := allSlots()
	leaderPosition := 2

	switch {
	case leaderInfo.Big:
		// Big leaders hold the whole center column
		delete(positions, leaderPosition)
		delete(positions, leaderPosition+1)
	case leaderInfo.Support:
		// Supports stand behind
		leaderPosition = 3
		delete(positions, leaderPosition)
	case leaderInfo.Reach != scenario.ReachAdjacent:
		// Ranged leaders stand behind
		leaderPosition = 3
		delete(positions, leaderPosition)
	default:
		delete(positions, leaderPosition)
	}

	var soldiers groupUnits
	if valuesConsumed < len(unitValues) {
		z.createGroup(&unusedValue, positions, &soldiers, unitValues[valuesConsumed:], stackInfo.SubraceTypes)
	}

	// Consume leftover value into extra soldiers. This reduces the
	// number of stacks consisting of a lone ranged or support leader
	z.tightenGroup(&unusedValue, positions, &soldiers, stackInfo.SubraceTypes)

	if z.gen.debug {
		created := leaderInfo.Value
		for slot := 0; slot < len(soldiers); slot++ {
			if soldiers[slot] == nil {
				continue
			}
			created += soldiers[slot].Value
			if soldiers[slot].Big {
				slot++
			}
		}
		slog.Debug("stack composed",
			"value", strength, "created", created, "unused", strength-created)
	}

	stack, err := z.buildStack(leaderInfo, leaderPosition, soldiers)
	if err != nil {
		return nil, err
	}

	// Stack leadership modifiers until the leader commands the group
	leadershipRequired := 1
	if leaderInfo.Big {
		leadershipRequired = 2
	}
	for slot := 0; slot < len(soldiers); slot++ {
		if soldiers[slot] == nil {
			continue
		}
		leadershipRequired++
		if soldiers[slot].Big {
			leadershipRequired++
			slot++
		}
	}

	if leaderInfo.Leadership < leadershipRequired {
		leaderUnit := z.gen.m.FindUnit(stack.LeaderID())
		for i := 0; i < leadershipRequired-leaderInfo.Leadership; i++ {
			leaderUnit.AddModifier(z.gen.catalog.Settings.LeadershipModifierID)
		}
	}

	loot, err := z.createLoot(stackInfo.Loot, false)
	if err != nil {
		return nil, err
	}
	for _, entry := range loot {
		for i := 0; i < entry.amount; i++ {
			stack.Items.Add(z.createItem(entry.itemID))
		}
	}

	return stack, nil
}

// buildStack creates the stack object with its leader and soldiers.
func (z *Zone) buildStack(leaderInfo *game.UnitInfo, leaderPosition int,
	soldiers groupUnits) (*scenario.Stack, error) {

	stack := scenario.NewStack(z.gen.m.CreateID(scenario.TypeStack))
	stack.Move = leaderInfo.Move
	stack.Facing = scenario.Facing(z.gen.rand.Int(int(scenario.FacingSouthwest), int(scenario.FacingSouth)))

	leaderID := z.gen.m.CreateID(scenario.TypeUnit)
	leader := &scenario.Unit{
		ID:     leaderID,
		ImplID: leaderInfo.UnitID,
		Level:  leaderInfo.Level,
		HP:     leaderInfo.HP,
		Name:   leaderInfo.Name,
	}
	if err := z.gen.m.Insert(leader); err != nil {
		return nil, err
	}

	if !stack.Units.AddLeader(leaderID, leaderPosition, leaderInfo.Big) {
		return nil, errors.Internalf("leader does not fit into slot %d", leaderPosition)
	}

	if err := z.createGroupUnits(&stack.Units, soldiers); err != nil {
		return nil, err
	}

	return stack, nil
}

// pickStackLeader picks a leader from an explicit id list, consuming
// unit values until the pick is paid for.
func (z *Zone) pickStackLeader(unusedValue, valuesConsumed *int, unitValues []int, leaderIDs []string) *game.UnitInfo {
	allowed := make(map[string]bool, len(leaderIDs))
	for _, id := range leaderIDs {
		allowed[id] = true
	}

	leaderInfo := z.gen.catalog.PickLeader(z.gen.rand, []game.UnitFilter{
		func(info *game.UnitInfo) bool { return !allowed[info.UnitID] },
	})
	if leaderInfo == nil {
		return nil
	}

	unused := *unusedValue
	for i := 0; i < len(unitValues); i++ {
		unused += unitValues[i]
		*valuesConsumed = i + 1
		if i == 0 && leaderInfo.Big {
			continue
		}
		if unused > leaderInfo.Value {
			break
		}
	}

	if unused < leaderInfo.Value {
		*unusedValue = 0
	} else {
		*unusedValue = unused - leaderInfo.Value
	}
	return leaderInfo
}

// createStackLeader walks the unit values left to right, picking the
// first leader whose value fits the accumulated budget. The minimum
// value coefficient starts at 0.65 and relaxes by 0.15 per failed full
// sweep, five sweeps at most, before settling for the weakest leader.
func (z *Zone) createStackLeader(unusedValue, valuesConsumed *int, unitValues []int,
	allowedSubraces map[scenario.SubRaceType]bool) *game.UnitInfo {

	const totalFails = 5
	const minValueCoeffDecrease = float32(0.15)
	minValueCoeff := float32(0.65)
	failedAttempts := 0

	for failedAttempts < totalFails {
		unused := *unusedValue

		for i := 0; i < len(unitValues); i++ {
			value := unitValues[i] + unused
			minValue := float32(value) * minValueCoeff
			// A big squad cannot fit when the value splits into 6 parts
			canPlaceBig := len(unitValues) < 6

			filter := func(info *game.UnitInfo) bool {
				if len(allowedSubraces) > 0 && !allowedSubraces[info.Subrace] {
					return true
				}
				if !canPlaceBig && info.Big {
					return true
				}
				return float32(info.Value) < minValue || info.Value > value
			}

			leaderInfo := z.gen.catalog.PickLeader(z.gen.rand, []game.UnitFilter{
				filter, z.noForbiddenUnit,
			})
			if leaderInfo != nil {
				*unusedValue = value - leaderInfo.Value
				*valuesConsumed = i + 1
				return leaderInfo
			}

			// Roll this value into the next pick attempt
			unused = value
		}

		minValueCoeff -= minValueCoeffDecrease
		if minValueCoeff < 0 {
			minValueCoeff = 0
		}
		failedAttempts++
	}

	// Constraints too tight; place the weakest leader rather than lose
	// the whole stack
	minLeaderValue := z.gen.catalog.MinLeaderValue()
	for _, leader := range z.gen.catalog.Leaders() {
		if leader.Value == minLeaderValue {
			*unusedValue = 0
			*valuesConsumed = 0
			weakest := leader
			return &weakest
		}
	}

	return nil
}

// soldierFilter rejects units that cannot stand in the probed slot.
func soldierFilter(allowedSubraces map[scenario.SubRaceType]bool, canPlaceBig, frontline bool) game.UnitFilter {
	return func(info *game.UnitInfo) bool {
		if len(allowedSubraces) > 0 && !allowedSubraces[info.Subrace] {
			return true
		}
		if !canPlaceBig && info.Big {
			return true
		}
		// Big units span both lines, reach does not matter
		if canPlaceBig {
			return false
		}
		if frontline && info.Reach != scenario.ReachAdjacent {
			return true
		}
		if !frontline && info.Reach == scenario.ReachAdjacent {
			return true
		}
		return false
	}
}

func (z *Zone) noForbiddenUnit(info *game.UnitInfo) bool {
	return z.gen.tmpl.Settings.ForbiddenUnits[info.UnitID]
}

// placeSoldier stores a picked unit, moving small units to the paired
// slot when their reach fits the other line better.
func placeSoldier(info *game.UnitInfo, position int, canPlaceBig, frontline bool,
	positions slotSet, units *groupUnits) {

	secondPosition := scenario.PairedSlot(position)

	if info.Big {
		delete(positions, position)
		units[position] = info

		delete(positions, secondPosition)
		units[secondPosition] = info
		return
	}

	if canPlaceBig && frontline && info.Reach != scenario.ReachAdjacent {
		// Small ranged unit probed into the front line
		position = secondPosition
	} else if canPlaceBig && !frontline && info.Reach == scenario.ReachAdjacent {
		// Small melee unit probed into the back line
		position = secondPosition
	}

	delete(positions, position)
	units[position] = info
}

// createGroup fills free slots with soldiers, one unit value at a
// time. Unpickable values roll over into the next iteration.
func (z *Zone) createGroup(unusedValue *int, positions slotSet, units *groupUnits,
	unitValues []int, allowedSubraces map[scenario.SubRaceType]bool) {

	for i := 0; i < len(unitValues) && len(positions) > 0; i++ {
		value := unitValues[i] + *unusedValue
		minValueCoeff := 0.95 - float32(len(positions))*0.05
		minValue := float32(value) * minValueCoeff

		noWrongValue := func(info *game.UnitInfo) bool {
			return float32(info.Value) < minValue || info.Value > value
		}

		position := positions.pickRandom(z.gen.rand)
		frontline := scenario.IsFrontline(position)
		secondPosition := scenario.PairedSlot(position)
		canPlaceBig := positions[position] && positions[secondPosition] &&
			len(positions) > len(unitValues)

		info := z.gen.catalog.PickUnit(z.gen.rand, []game.UnitFilter{
			soldierFilter(allowedSubraces, canPlaceBig, frontline),
			noWrongValue,
			z.noForbiddenUnit,
		})
		if info != nil {
			*unusedValue = value - info.Value
			placeSoldier(info, position, canPlaceBig, frontline, positions, units)
		} else {
			*unusedValue += unitValues[i]
		}
	}
}

// tightenGroup converts leftover value into extra soldiers. The value
// expectation relaxes by 0.05 per failed pick; 200 consecutive failures
// stop the attempt, any success resets the counter.
func (z *Zone) tightenGroup(unusedValue *int, positions slotSet, units *groupUnits,
	allowedSubraces map[scenario.SubRaceType]bool) {

	minValueCoeff := 1 - float32(len(positions))*0.05
	failedAttempts := 0
	const totalFails = 200

	for failedAttempts < totalFails && len(positions) > 0 &&
		*unusedValue >= z.gen.catalog.MinSoldierValue() {

		value := *unusedValue
		minValue := float32(value) * minValueCoeff

		noWrongValue := func(info *game.UnitInfo) bool {
			return float32(info.Value) < minValue || info.Value > value
		}

		position := positions.pickRandom(z.gen.rand)
		frontline := scenario.IsFrontline(position)
		secondPosition := scenario.PairedSlot(position)
		canPlaceBig := positions[position] && positions[secondPosition]

		info := z.gen.catalog.PickUnit(z.gen.rand, []game.UnitFilter{
			soldierFilter(allowedSubraces, canPlaceBig, frontline),
			noWrongValue,
			z.noForbiddenUnit,
		})
		if info != nil {
			*unusedValue = value - info.Value
			failedAttempts = 0
			placeSoldier(info, position, canPlaceBig, frontline, positions, units)
			minValueCoeff = 1 - float32(len(positions))*0.05
		} else {
			minValueCoeff -= 0.05
			if minValueCoeff < 0 {
				minValueCoeff = 0
			}
			failedAttempts++
		}
	}
}

// createGroupUnits materializes picked unit infos into unit objects and
// adds them to the group.
func (z *Zone) createGroupUnits(group *scenario.Group, units groupUnits) error {
	for position := 0; position < len(units); position++ {
		info := units[position]
		if info == nil {
			continue
		}

		unitID := z.gen.m.CreateID(scenario.TypeUnit)
		unit := &scenario.Unit{
			ID:     unitID,
			ImplID: info.UnitID,
			Level:  info.Level,
			HP:     info.HP,
		}
		if err := z.gen.m.Insert(unit); err != nil {
			return err
		}

		if !group.AddUnit(unitID, position, info.Big) {
			return errors.Internalf("unit %s does not fit into slot %d", unitID, position)
		}

		if info.Big {
			position++
		}
	}

	return nil
}

// createItem mints an item instance of the given catalog type.
func (z *Zone) createItem(itemTypeID string) scenario.ObjectID {
	itemID := z.gen.m.CreateID(scenario.TypeItem)
	_ = z.gen.m.Insert(&scenario.Item{ID: itemID, ItemTypeID: itemTypeID})
	return itemID
}
