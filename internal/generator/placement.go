package generator

import (
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// placingResult is the outcome of a placement probe.
type placingResult int

// Placement outcomes. SealedOff means the path probe walled off part of
// the zone; the caller must refresh its candidate tiles before retrying.
const (
	placingSuccess placingResult = iota
	placingCannotFit
	placingSealedOff
)

// findPlaceForObject scans the whole zone area for the best spot.
func (z *Zone) findPlaceForObject(element scenario.MapElement, minDistance int) (scenario.Position, bool) {
	return z.findPlaceInArea(z.tileInfo.Sorted(), element, minDistance, true)
}

// findPlaceInArea picks the tile with the greatest distance to the
// nearest placed object, subject to a minimum. Candidate tiles must
// keep the whole footprint possible, inside the zone and off the map
// border; when findAccessible is set, the entrance neighborhood must be
// reachable too.
func (z *Zone) findPlaceInArea(area []scenario.Position, element scenario.MapElement,
	minDistance int, findAccessible bool) (scenario.Position, bool) {

	bestDistance := float32(0)
	result := scenario.InvalidPosition
	blockedOffsets := element.BlockedOffsets()

	for _, tile := range area {
		if z.gen.m.ElementAtTheBorder(element, tile) {
			continue
		}

		if findAccessible {
			if !z.isAccessibleFromSomewhere(element, tile) {
				continue
			}
			if !z.isEntranceAccessible(element, tile) {
				continue
			}
		}

		if !z.gen.IsPossible(tile) {
			continue
		}

		distance := z.gen.GetNearestObjectDistance(tile)
		if distance >= float32(minDistance) && distance > bestDistance {
			if z.areAllTilesAvailable(tile, blockedOffsets) {
				bestDistance = distance
				result = tile
			}
		}
	}

	return result, result.IsValid()
}

// isAccessibleFromSomewhere reports whether any tile next to the
// element's entrance can reach it.
func (z *Zone) isAccessibleFromSomewhere(element scenario.MapElement, pos scenario.Position) bool {
	return z.accessibleOffset(element, pos).IsValid()
}

// isEntranceAccessible requires the whole entrance neighborhood to be
// in-map and unblocked. One blocked tile next to the entrance likely
// means the whole element ends up walled in.
func (z *Zone) isEntranceAccessible(element scenario.MapElement, pos scenario.Position) bool {
	entrance := pos.Add(element.EntranceOffset())

	for _, offset := range element.EntranceOffsets() {
		tile := entrance.Add(offset)

		if !z.gen.m.IsInTheMap(tile) {
			return false
		}
		if z.gen.IsBlocked(tile) {
			return false
		}
	}

	return true
}

// accessibleOffset returns a tile in the 1-tile ring around the
// entrance from which the element can be visited, or InvalidPosition.
func (z *Zone) accessibleOffset(element scenario.MapElement, pos scenario.Position) scenario.Position {
	blocked := element.BlockedOffsets()
	result := scenario.InvalidPosition

	for x := -1; x < 2; x++ {
		for y := -1; y < 2; y++ {
			if x == 0 && y == 0 {
				continue
			}

			direction := scenario.Position{X: x, Y: y}
			offset := direction.Add(element.EntranceOffset())

			if containsPos(blocked, offset) {
				continue
			}

			nearby := pos.Add(offset)
			if !z.gen.m.IsInTheMap(nearby) {
				continue
			}

			if element.IsVisitableFrom(direction) && !z.gen.IsBlocked(nearby) && z.isInTheZone(nearby) {
				result = nearby
			}
		}
	}

	return result
}

// accessibleTiles returns all neighbor tiles from which the placed
// element can be entered.
func (z *Zone) accessibleTiles(element scenario.MapElement) []scenario.Position {
	entrance := element.Entrance()
	blocked := element.BlockedPositions()

	var tiles []scenario.Position
	z.gen.ForeachNeighbor(entrance, func(pos scenario.Position) {
		if !(z.gen.IsPossible(pos) || z.gen.IsFree(pos)) {
			return
		}
		if containsPos(blocked, pos) {
			return
		}

		if element.IsVisitableFrom(pos.Sub(entrance)) && !z.gen.IsBlocked(pos) {
			tiles = append(tiles, pos)
		}
	})

	return tiles
}

// areAllTilesAvailable checks that every footprint tile is possible and
// belongs to this zone.
func (z *Zone) areAllTilesAvailable(pos scenario.Position, blockedOffsets []scenario.Position) bool {
	for _, offset := range blockedOffsets {
		tile := pos.Add(offset)

		if !z.gen.m.IsInTheMap(tile) || !z.gen.IsPossible(tile) || z.gen.GetZoneID(tile) != z.ID {
			return false
		}
	}
	return true
}

// canObstacleBePlacedHere checks that the whole obstacle footprint sits
// on tiles reserved for blocking.
func (z *Zone) canObstacleBePlacedHere(element scenario.MapElement, pos scenario.Position) bool {
	if !z.gen.m.IsInTheMap(pos) {
		return false
	}

	for _, offset := range element.BlockedOffsets() {
		tile := pos.Add(offset)

		if !z.gen.m.IsInTheMap(tile) {
			return false
		}
		if !z.gen.ShouldBeBlocked(tile) {
			return false
		}
	}
	// Footprint excludes the entrance; obstacles block it too
	entrance := pos.Add(element.EntranceOffset())
	if !z.gen.m.IsInTheMap(entrance) || !z.gen.ShouldBeBlocked(entrance) {
		return false
	}

	return true
}

// blueprint temporarily marks an element footprint used so a path probe
// cannot run through the object itself. Drop restores the previous
// occupancy of every tile it claimed.
type blueprint struct {
	gen      *Generator
	tiles    []scenario.Position
	previous []tileState
}

func installBlueprint(gen *Generator, pos, size scenario.Position) *blueprint {
	b := &blueprint{gen: gen}

	for x := 0; x < size.X; x++ {
		for y := 0; y < size.Y; y++ {
			tile := pos.Add(scenario.Position{X: x, Y: y})
			if !gen.m.IsInTheMap(tile) {
				continue
			}

			b.tiles = append(b.tiles, tile)
			b.previous = append(b.previous, gen.tileAt(tile).state)
			gen.SetOccupied(tile, tileUsed)
		}
	}

	return b
}

func (b *blueprint) drop() {
	for i, tile := range b.tiles {
		b.gen.SetOccupied(tile, b.previous[i])
	}
}

// tryToPlaceObjectAndConnectToPath probes a position: it requires an
// accessible approach tile, installs a blueprint, and tries to connect
// the approach tile to the free path network. On success, the footprint
// and entrance become blocked, ready for the commit that marks them
// used. The blueprint is released on every exit path; a failed probe
// leaves only the tiles connectPath sealed off.
func (z *Zone) tryToPlaceObjectAndConnectToPath(element *scenario.MapElement, pos scenario.Position) placingResult {
	element.SetPosition(pos)

	if len(z.accessibleTiles(*element)) == 0 {
		return placingCannotFit
	}

	accessibleTile := z.accessibleOffset(*element, pos)
	if !accessibleTile.IsValid() {
		return placingCannotFit
	}

	probe := installBlueprint(z.gen, pos, element.GetSize())
	connected := z.connectPath(accessibleTile, true)
	probe.drop()

	if !connected {
		return placingSealedOff
	}

	z.gen.SetOccupied(element.Entrance(), tileBlocked)
	for _, tile := range element.BlockedPositions() {
		if z.gen.m.IsInTheMap(tile) {
			z.gen.SetOccupied(tile, tileBlocked)
		}
	}

	return placingSuccess
}

func containsPos(positions []scenario.Position, pos scenario.Position) bool {
	for _, candidate := range positions {
		if candidate == pos {
			return true
		}
	}
	return false
}
