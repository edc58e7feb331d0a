package generator

import (
	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// placeScenarioObject commits any placeable variant at a position. All
// variants share the same sequence: mark the footprint used, stamp the
// map element, store the object. Per-variant differences (terrain
// painting, gap corridors, road node registration) live in the typed
// commit functions below.
func (z *Zone) placeScenarioObject(object placeable, pos scenario.Position) error {
	switch typed := object.(type) {
	case *scenario.Fortification:
		return z.placeFortification(typed, pos, scenario.TerrainNeutral, true)
	case *scenario.Stack:
		return z.placeStack(typed, pos, true)
	case *scenario.Crystal:
		return z.placeCrystal(typed, pos, true)
	case *scenario.Ruin:
		return z.placeRuinObject(typed, pos, true)
	case *scenario.Site:
		return z.placeSite(typed, pos, true)
	case *scenario.Bag:
		return z.placeBagObject(typed, pos, true)
	case *scenario.Landmark:
		return z.placeLandmark(typed, pos, true)
	default:
		return errors.Internalf("cannot place object of type %q", object.Type())
	}
}

func (z *Zone) checkInsideMap(object placeable, pos scenario.Position) error {
	if !z.gen.m.IsInTheMap(pos) {
		return errors.Internalf("position of %s at (%d, %d) is outside of the map",
			object.ObjectID(), pos.X, pos.Y)
	}
	return nil
}

func (z *Zone) checkEntranceInsideMap(object placeable) error {
	entrance := object.Element().Entrance()
	if !z.gen.m.IsInTheMap(entrance) {
		return errors.Internalf("entrance of %s at (%d, %d) is outside of the map",
			object.ObjectID(), entrance.X, entrance.Y)
	}
	return nil
}

// markUsed marks the element's footprint and entrance as used.
func (z *Zone) markUsed(element *scenario.MapElement) []scenario.Position {
	tiles := element.BlockedPositions()
	tiles = append(tiles, element.Entrance())

	for _, tile := range tiles {
		z.gen.SetOccupied(tile, tileUsed)
	}
	return tiles
}

func (z *Zone) commit(object placeable, updateDistance bool) error {
	element := object.Element()

	if updateDistance {
		z.updateDistances(element.GetPosition())
	}

	z.gen.m.InsertMapElement(*element, object.ObjectID())
	return z.gen.m.Insert(object)
}

func (z *Zone) placeFortification(fort *scenario.Fortification, pos scenario.Position,
	terrain scenario.TerrainType, updateDistance bool) error {

	if err := z.checkInsideMap(fort, pos); err != nil {
		return err
	}
	fort.SetPosition(pos)
	if err := z.checkEntranceInsideMap(fort); err != nil {
		return err
	}

	// Change terrain under the fort to race specific
	tiles := z.markUsed(fort.Element())
	z.gen.m.PaintTerrainAll(tiles, terrain, scenario.GroundPlain)

	if fort.GapMask > 0 {
		for _, tile := range fort.TilesByGapMask(fort.GapMask) {
			if containsPos(tiles, tile) || !z.gen.m.IsInTheMap(tile) {
				continue
			}
			z.gen.SetOccupied(tile, tileFree)
		}
	}

	z.addRoadNode(fort.Entrance())
	return z.commit(fort, updateDistance)
}

func (z *Zone) placeStack(stack *scenario.Stack, pos scenario.Position, updateDistance bool) error {
	if err := z.checkInsideMap(stack, pos); err != nil {
		return err
	}
	stack.SetPosition(pos)

	z.markUsed(stack.Element())
	return z.commit(stack, updateDistance)
}

func (z *Zone) placeCrystal(crystal *scenario.Crystal, pos scenario.Position, updateDistance bool) error {
	if err := z.checkInsideMap(crystal, pos); err != nil {
		return err
	}
	crystal.SetPosition(pos)

	z.markUsed(crystal.Element())
	return z.commit(crystal, updateDistance)
}

func (z *Zone) placeRuinObject(ruin *scenario.Ruin, pos scenario.Position, updateDistance bool) error {
	if err := z.checkInsideMap(ruin, pos); err != nil {
		return err
	}
	ruin.SetPosition(pos)
	if err := z.checkEntranceInsideMap(ruin); err != nil {
		return err
	}

	z.markUsed(ruin.Element())
	return z.commit(ruin, updateDistance)
}

func (z *Zone) placeSite(site *scenario.Site, pos scenario.Position, updateDistance bool) error {
	if err := z.checkInsideMap(site, pos); err != nil {
		return err
	}
	site.SetPosition(pos)
	if err := z.checkEntranceInsideMap(site); err != nil {
		return err
	}

	z.markUsed(site.Element())
	z.addRoadNode(site.Entrance())
	return z.commit(site, updateDistance)
}

func (z *Zone) placeBagObject(bag *scenario.Bag, pos scenario.Position, updateDistance bool) error {
	if err := z.checkInsideMap(bag, pos); err != nil {
		return err
	}
	bag.SetPosition(pos)

	z.markUsed(bag.Element())
	return z.commit(bag, updateDistance)
}

func (z *Zone) placeLandmark(landmark *scenario.Landmark, pos scenario.Position, updateDistance bool) error {
	if err := z.checkInsideMap(landmark, pos); err != nil {
		return err
	}
	landmark.SetPosition(pos)
	if err := z.checkEntranceInsideMap(landmark); err != nil {
		return err
	}

	z.markUsed(landmark.Element())
	return z.commit(landmark, updateDistance)
}

// placeMountain marks a mountain footprint used and records it on the
// map. Mountains are scenery: they have no object id.
func (z *Zone) placeMountain(pos, size scenario.Position, image int) error {
	for x := 0; x < size.X; x++ {
		for y := 0; y < size.Y; y++ {
			tile := pos.Add(scenario.Position{X: x, Y: y})

			if !z.gen.m.IsInTheMap(tile) {
				return errors.Internalf("position of mountain at (%d, %d) is outside of the map",
					tile.X, tile.Y)
			}

			z.gen.SetOccupied(tile, tileUsed)
			z.gen.m.PaintTerrain(tile, scenario.TerrainNeutral, scenario.GroundMountain)
		}
	}

	z.gen.m.AddMountain(pos, size, image)
	return nil
}

// guardObject puts a guard stack on the element's approach tile. A
// guard spec with no value frees the approach tiles instead, letting
// another object stand in front.
func (z *Zone) guardObject(element scenario.MapElement, guardInfo template.GroupInfo) error {
	tiles := z.accessibleTiles(element)
	if len(tiles) == 0 {
		return errors.Internalf("failed to guard object at (%d, %d): no accessible tiles",
			element.GetPosition().X, element.GetPosition().Y)
	}

	guardTile := z.accessibleOffset(element, element.GetPosition())

	stack, err := z.createStack(guardInfo)
	if err != nil {
		return err
	}
	if stack == nil {
		for _, tile := range tiles {
			if z.gen.IsPossible(tile) {
				z.gen.SetOccupied(tile, tileFree)
			}
		}
		return nil
	}

	ownerID, subraceID := z.gen.ownerIDs(guardInfo.Owner)
	stack.OwnerID = ownerID
	stack.SubraceID = subraceID

	z.applyLeaderExtras(stack, guardInfo.Name, guardInfo.LeaderModifiers)

	stack.AiPriority = guardInfo.AiPriority
	stack.Order = guardInfo.Order

	return z.placeStack(stack, guardTile, true)
}

// applyLeaderExtras renames the stack leader and attaches modifiers.
func (z *Zone) applyLeaderExtras(stack *scenario.Stack, name string, modifiers []string) {
	if name == "" && len(modifiers) == 0 {
		return
	}

	leader := z.gen.m.FindUnit(stack.LeaderID())
	if leader == nil {
		return
	}

	if name != "" {
		leader.Name = name
	}
	for _, modifierID := range modifiers {
		leader.AddModifier(modifierID)
	}
}
