package game

import (
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
)

// Filters reject candidates: a candidate survives only if no filter
// returns true for it. Small reject-if predicates compose into the
// many selection rules of the composer and loot code.

// UnitFilter rejects a unit when it returns true.
type UnitFilter func(*UnitInfo) bool

// ItemFilter rejects an item when it returns true.
type ItemFilter func(*ItemInfo) bool

// SpellFilter rejects a spell when it returns true.
type SpellFilter func(*SpellInfo) bool

// LandmarkFilter rejects a landmark when it returns true.
type LandmarkFilter func(*LandmarkInfo) bool

// PickUnit returns a random soldier unit passing all filters, or nil.
func (c *Catalog) PickUnit(r *rng.Rand, filters []UnitFilter) *UnitInfo {
	return pickUnit(c.soldiers, r, filters)
}

// PickLeader returns a random leader unit passing all filters, or nil.
func (c *Catalog) PickLeader(r *rng.Rand, filters []UnitFilter) *UnitInfo {
	return pickUnit(c.leaders, r, filters)
}

func pickUnit(units []UnitInfo, r *rng.Rand, filters []UnitFilter) *UnitInfo {
	candidates := make([]*UnitInfo, 0, len(units))

units:
	for i := range units {
		for _, reject := range filters {
			if reject(&units[i]) {
				continue units
			}
		}
		candidates = append(candidates, &units[i])
	}

	if picked := rng.PickElement(candidates, r); picked != nil {
		return *picked
	}
	return nil
}

// PickItem returns a random item passing all filters, or nil.
func (c *Catalog) PickItem(r *rng.Rand, filters []ItemFilter) *ItemInfo {
	candidates := make([]*ItemInfo, 0, len(c.Items))

items:
	for i := range c.Items {
		for _, reject := range filters {
			if reject(&c.Items[i]) {
				continue items
			}
		}
		candidates = append(candidates, &c.Items[i])
	}

	if picked := rng.PickElement(candidates, r); picked != nil {
		return *picked
	}
	return nil
}

// PickSpell returns a random spell passing all filters, or nil.
func (c *Catalog) PickSpell(r *rng.Rand, filters []SpellFilter) *SpellInfo {
	candidates := make([]*SpellInfo, 0, len(c.Spells))

spells:
	for i := range c.Spells {
		for _, reject := range filters {
			if reject(&c.Spells[i]) {
				continue spells
			}
		}
		candidates = append(candidates, &c.Spells[i])
	}

	if picked := rng.PickElement(candidates, r); picked != nil {
		return *picked
	}
	return nil
}

// PickLandmark returns a random landmark passing all filters, or nil.
func (c *Catalog) PickLandmark(r *rng.Rand, filters []LandmarkFilter) *LandmarkInfo {
	candidates := make([]*LandmarkInfo, 0, len(c.Landmarks))

landmarks:
	for i := range c.Landmarks {
		for _, reject := range filters {
			if reject(&c.Landmarks[i]) {
				continue landmarks
			}
		}
		candidates = append(candidates, &c.Landmarks[i])
	}

	if picked := rng.PickElement(candidates, r); picked != nil {
		return *picked
	}
	return nil
}

// PickMountainLandmark returns a random mountain-like landmark passing
// the extra filters, or nil.
func (c *Catalog) PickMountainLandmark(r *rng.Rand, filters []LandmarkFilter) *LandmarkInfo {
	all := append([]LandmarkFilter{
		func(info *LandmarkInfo) bool { return !info.Mountain },
	}, filters...)

	return c.PickLandmark(r, all)
}
