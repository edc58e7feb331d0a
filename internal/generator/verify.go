package generator

import (
	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// checkObjectsAccess verifies that no fortification, site or ruin ended
// up with its entire entrance neighborhood blocked after decoration and
// obstacle passes. A walled-in object is a generator bug, not a map
// property, so the failure is internal.
func (g *Generator) checkObjectsAccess() error {
	var failed []scenario.Object

	check := func(object scenario.Object, element *scenario.MapElement) {
		entrance := element.Entrance()

		open := false
		for _, offset := range element.EntranceOffsets() {
			tile := entrance.Add(offset)
			if !g.m.IsInTheMap(tile) {
				continue
			}
			if !g.IsBlocked(tile) {
				open = true
				break
			}
		}

		if !open {
			failed = append(failed, object)
		}
	}

	g.m.Visit(scenario.TypeFortification, func(object scenario.Object) {
		fort := object.(*scenario.Fortification)
		check(fort, fort.Element())
	})
	g.m.Visit(scenario.TypeSite, func(object scenario.Object) {
		site := object.(*scenario.Site)
		check(site, site.Element())
	})
	g.m.Visit(scenario.TypeRuin, func(object scenario.Object) {
		ruin := object.(*scenario.Ruin)
		check(ruin, ruin.Element())
	})

	if len(failed) > 0 {
		first := failed[0]
		return errors.Internalf("%d objects are sealed in, first is %s",
			len(failed), first.ObjectID()).
			WithMeta("seed", g.seed)
	}

	return nil
}
