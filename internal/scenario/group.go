package scenario

// GroupSize is the number of slots in a battle group. Slots 0, 2, 4 form
// the front line; 1, 3, 5 the back line. Slots (2k, 2k+1) are a column:
// a big unit occupies both tiles of its column.
const GroupSize = 6

// Group is a six-slot unit formation.
type Group struct {
	Units    [GroupSize]ObjectID `json:"units"`
	LeaderID ObjectID            `json:"leaderId,omitempty"`
}

// PairedSlot returns the other slot of a column.
func PairedSlot(slot int) int {
	if slot%2 == 0 {
		return slot + 1
	}
	return slot - 1
}

// IsFrontline reports whether a slot is on the front line.
func IsFrontline(slot int) bool {
	return slot%2 == 0
}

// AddUnit places a unit into a slot. Big units claim both slots of the
// column; both must be free.
func (g *Group) AddUnit(unitID ObjectID, slot int, big bool) bool {
	if slot < 0 || slot >= GroupSize || unitID == "" {
		return false
	}
	if g.Units[slot] != "" {
		return false
	}

	if big {
		paired := PairedSlot(slot)
		if g.Units[paired] != "" {
			return false
		}
		g.Units[slot] = unitID
		g.Units[paired] = unitID
		return true
	}

	g.Units[slot] = unitID
	return true
}

// AddLeader places the group leader. A group has at most one leader.
func (g *Group) AddLeader(unitID ObjectID, slot int, big bool) bool {
	if g.LeaderID != "" {
		return false
	}
	if !g.AddUnit(unitID, slot, big) {
		return false
	}
	g.LeaderID = unitID
	return true
}

// OccupiedSlots counts occupied slots; a big unit counts as two.
func (g *Group) OccupiedSlots() int {
	count := 0
	for _, id := range g.Units {
		if id != "" {
			count++
		}
	}
	return count
}

// UnitCount counts distinct units in the group.
func (g *Group) UnitCount() int {
	count := 0
	for slot := 0; slot < GroupSize; slot++ {
		id := g.Units[slot]
		if id == "" {
			continue
		}
		count++
		if PairedSlot(slot) > slot && g.Units[PairedSlot(slot)] == id {
			// Skip second half of a big unit
			slot++
		}
	}
	return count
}
