package generator

import (
	"math"

	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// connectWithCenter runs A* from pos toward the zone's anchor tile,
// carving every path tile free on success. Free tiles cost 1, possible
// tiles 2, blocked tiles 3 when passThroughBlocked allows them, so the
// search prefers reusing existing passages.
func (z *Zone) connectWithCenter(pos scenario.Position, onlyStraight, passThroughBlocked bool) bool {
	closed := newPosSet()
	queue := newNodeQueue()
	cameFrom := make(map[scenario.Position]scenario.Position)
	distances := make(map[scenario.Position]float32)

	cameFrom[pos] = scenario.InvalidPosition
	distances[pos] = 0
	queue.push(pos, 0)

	for !queue.empty() {
		node := queue.pop()
		current := node.pos
		closed.Add(current)

		if current == z.pos {
			backtrack := current
			for cameFrom[backtrack].IsValid() {
				z.gen.SetOccupied(backtrack, tileFree)
				backtrack = cameFrom[backtrack]
			}
			z.gen.SetOccupied(backtrack, tileFree)
			return true
		}

		visit := func(neighbor scenario.Position) {
			if closed.Has(neighbor) {
				return
			}
			if z.gen.GetZoneID(neighbor) != z.ID {
				return
			}

			var movementCost float32
			switch {
			case z.gen.IsFree(neighbor):
				movementCost = 1
			case z.gen.IsPossible(neighbor):
				movementCost = 2
			case passThroughBlocked && z.gen.ShouldBeBlocked(neighbor):
				movementCost = 3
			default:
				return
			}

			distance := distances[current] + movementCost
			best := float32(math.Inf(1))
			if known, ok := distances[neighbor]; ok {
				best = known
			}

			if distance < best {
				cameFrom[neighbor] = current
				distances[neighbor] = distance
				queue.push(neighbor, distance)
			}
		}

		if onlyStraight {
			z.gen.ForeachDirectNeighbor(current, visit)
		} else {
			z.gen.ForeachNeighbor(current, visit)
		}
	}

	return false
}

// crunchPath greedily walks from source toward destination, carving
// possible tiles free along the way. Each step picks a neighbor
// strictly closer to the destination; when stuck, it tries any nearby
// possible tile within twice the current squared distance. Stops on
// reaching the destination or any already free tile.
func (z *Zone) crunchPath(source, destination scenario.Position, onlyStraight bool, cleared *posSet) bool {
	result := false
	end := false

	current := source
	distance := float32(current.DistanceSquared(destination))

	for !end {
		if current == destination {
			result = true
			break
		}

		lastDistance := distance

		visit := func(pos scenario.Position) {
			if result || end {
				return
			}

			if pos == destination {
				result = true
				end = true
			}

			if float32(pos.DistanceSquared(destination)) >= distance {
				return
			}
			if z.gen.IsBlocked(pos) {
				return
			}
			if z.gen.GetZoneID(pos) != z.ID {
				return
			}

			if z.gen.IsPossible(pos) {
				z.gen.SetOccupied(pos, tileFree)
				if cleared != nil {
					cleared.Add(pos)
				}

				current = pos
				distance = float32(current.DistanceSquared(destination))
			} else if z.gen.IsFree(pos) {
				end = true
				result = true
			}
		}

		if onlyStraight {
			z.gen.ForeachDirectNeighbor(current, visit)
		} else {
			z.gen.ForeachNeighbor(current, visit)
		}

		another := scenario.InvalidPosition

		if !result && distance >= lastDistance {
			// No closer neighbor. Accept any nearby possible tile that
			// is not drastically farther away
			limit := 2 * distance

			tryNearby := func(pos scenario.Position) {
				if float32(pos.DistanceSquared(destination)) >= limit {
					return
				}
				if z.gen.GetZoneID(pos) != z.ID {
					return
				}
				if !z.gen.IsPossible(pos) {
					return
				}

				if cleared != nil {
					cleared.Add(pos)
				}
				another = pos
				limit = float32(pos.DistanceSquared(destination))
			}

			if onlyStraight {
				z.gen.ForeachDirectNeighbor(current, tryNearby)
			} else {
				z.gen.ForeachNeighbor(current, tryNearby)
			}

			if another.IsValid() {
				if cleared != nil {
					cleared.Add(another)
				}
				z.gen.SetOccupied(another, tileFree)
				current = another
			}
		}

		if !result && distance >= lastDistance && !another.IsValid() {
			// No progress possible
			break
		}
	}

	return result
}

// connectPath runs A* from source to the first free tile, painting the
// backtracked path free. When the search exhausts without reaching any
// free tile, everything it visited is sealed off: those possible tiles
// turn blocked and leave the candidate set for good.
func (z *Zone) connectPath(source scenario.Position, onlyStraight bool) bool {
	closed := newPosSet()
	queue := newNodeQueue()
	cameFrom := make(map[scenario.Position]scenario.Position)
	distances := make(map[scenario.Position]float32)

	cameFrom[source] = scenario.InvalidPosition
	distances[source] = 0
	queue.push(source, 0)

	for !queue.empty() {
		node := queue.pop()
		current := node.pos
		closed.Add(current)

		if z.gen.IsFree(current) {
			backtrack := current
			for cameFrom[backtrack].IsValid() {
				z.gen.SetOccupied(backtrack, tileFree)
				backtrack = cameFrom[backtrack]
			}
			z.gen.SetOccupied(backtrack, tileFree)
			return true
		}

		visit := func(pos scenario.Position) {
			if closed.Has(pos) {
				return
			}
			if z.gen.IsBlocked(pos) || z.gen.GetZoneID(pos) != z.ID {
				return
			}

			distance := distances[current] + 1
			best := float32(math.Inf(1))
			if known, ok := distances[pos]; ok {
				best = known
			}

			if distance < best {
				cameFrom[pos] = current
				distances[pos] = distance
				queue.push(pos, distance)
			}
		}

		if onlyStraight {
			z.gen.ForeachDirectNeighbor(current, visit)
		} else {
			z.gen.ForeachNeighbor(current, visit)
		}
	}

	// These tiles cannot be connected anymore
	for _, tile := range closed.Sorted() {
		if z.gen.IsPossible(tile) {
			z.gen.SetOccupied(tile, tileBlocked)
		}
		z.possibleTiles.Remove(tile)
	}

	return false
}

// createRoad runs a straight-preferring A* between two road nodes.
// Diagonal steps cost 2.1 and are only tried when no straight neighbor
// advanced, so roads run in clean lines. Water is impassable; movement
// onto object entrances rides the visitable flag.
func (z *Zone) createRoad(source, destination scenario.Position) bool {
	closed := newPosSet()
	queue := newNodeQueue()
	cameFrom := make(map[scenario.Position]scenario.Position)
	distances := make(map[scenario.Position]float32)

	// Clear the flag under the source so the search does not stop on its
	// own start; the source tile is not part of the recorded path
	z.gen.SetRoad(source, false)

	cameFrom[source] = scenario.InvalidPosition
	distances[source] = 0
	queue.push(source, 0)

	for !queue.empty() {
		node := queue.pop()
		current := node.pos
		closed.Add(current)

		if current == destination || z.gen.IsRoad(current) {
			road := scenario.RoadRecord{Source: source, Dest: destination}

			backtrack := current
			for cameFrom[backtrack].IsValid() {
				road.Path = append(road.Path, backtrack)
				z.gen.SetRoad(backtrack, true)
				backtrack = cameFrom[backtrack]
			}

			z.roads = append(z.roads, road)
			return true
		}

		currentTile := z.gen.m.GetTile(current)
		directNeighborFound := false
		movementCost := float32(1)

		visit := func(pos scenario.Position) {
			if closed.Has(pos) {
				return
			}

			distance := node.cost + movementCost
			best := float32(math.Inf(1))
			if known, ok := distances[pos]; ok {
				best = known
			}
			if distance >= best {
				return
			}

			tile := z.gen.m.GetTile(pos)
			if tile.IsWater() {
				return
			}

			canMove := z.gen.m.CanMoveBetween(current, pos)

			emptyPath := z.gen.IsFree(pos) && z.gen.IsFree(current)
			visitable := (tile.Visitable || currentTile.Visitable) && canMove
			completed := pos == destination

			if emptyPath || visitable || completed {
				// Stay inside the zone so a connection guard does not
				// end up wired into the neighbor's road network
				if z.gen.GetZoneID(pos) == z.ID || completed {
					cameFrom[pos] = current
					distances[pos] = distance
					queue.push(pos, distance)
					directNeighborFound = true
				}
			}
		}

		z.gen.ForeachDirectNeighbor(current, visit)
		if !directNeighborFound {
			movementCost = 2.1
			z.gen.ForeachDiagonalNeighbor(current, visit)
		}
	}

	return false
}

// connectRoads builds a spanning tree over the zone's road nodes:
// every node connects to the closest already wired node, or to the
// closest unwired one to start the network.
func (z *Zone) connectRoads() {
	remaining := newPosSet()
	for _, node := range z.roadNodes.Sorted() {
		remaining.Add(node)
	}

	processed := newPosSet()

	for !remaining.Empty() {
		node := remaining.Sorted()[0]
		remaining.Remove(node)

		var cross scenario.Position
		switch {
		case !processed.Empty():
			cross = processed.findClosest(node)
		case !remaining.Empty():
			cross = remaining.findClosest(node)
		default:
			// Single road node in this zone
			return
		}

		if z.createRoad(node, cross) {
			processed.Add(cross)
			remaining.Remove(cross)
		}

		processed.Add(node)
	}
}
