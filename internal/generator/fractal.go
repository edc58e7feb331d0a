package generator

import (
	"math"
	"sort"

	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// Minimum squared distance between fractal nodes. Tiles closer than
// this to an existing passage never become nodes of their own.
const fractalMinDistance float32 = 7.5 * 10

// fractalize carves a sparse passage network through the zone. Starting
// from the already free entry tiles, it repeatedly picks a random
// candidate far enough from every cleared tile, makes it a node, and
// later connects each node to the nearest passage and its two nearest
// sibling nodes with greedy crunch paths. Candidates far from every
// resulting passage are blocked, reserving space for obstacles while
// every surviving candidate stays within reach of a path.
func (z *Zone) fractalize() {
	for _, tile := range z.tileInfo.Sorted() {
		if z.gen.IsFree(tile) {
			z.freePaths.Add(tile)
		}
	}

	cleared := z.freePaths.Sorted()
	possible := newPosSet()
	ignored := newPosSet()

	for _, tile := range z.tileInfo.Sorted() {
		if z.gen.IsPossible(tile) {
			possible.Add(tile)
		}
	}

	var nodes []scenario.Position

	// Junction zones keep only the paths coming in from outside
	if z.Type != template.ZoneJunction {
		for !possible.Empty() {
			candidates := possible.Sorted()
			rng.Shuffle(candidates, z.gen.rand)

			nodeFound := scenario.InvalidPosition

			for _, candidate := range candidates {
				closest := float32(math.Inf(1))

				for _, clearTile := range cleared {
					distance := float32(candidate.DistanceSquared(clearTile))
					if distance < closest {
						closest = distance
					}
					if closest <= fractalMinDistance {
						// Close enough to an existing passage
						ignored.Add(candidate)
						break
					}
				}

				if closest > fractalMinDistance {
					nodeFound = candidate
					nodes = append(nodes, nodeFound)
					cleared = append(cleared, nodeFound)
					break
				}
			}

			for _, tile := range ignored.Sorted() {
				possible.Remove(tile)
			}
			ignored = newPosSet()

			if !nodeFound.IsValid() {
				break
			}
		}
	}

	// Cut straight paths towards the center and between nearby nodes
	for _, node := range nodes {
		neighbors := make([]scenario.Position, len(nodes))
		copy(neighbors, nodes)
		sort.SliceStable(neighbors, func(i, j int) bool {
			return node.DistanceSquared(neighbors[i]) < node.DistanceSquared(neighbors[j])
		})

		var nearby []scenario.Position
		if len(neighbors) >= 2 {
			// neighbors[0] is the node itself
			nearby = append(nearby, neighbors[1])
		}
		if len(neighbors) >= 3 {
			nearby = append(nearby, neighbors[2])
		}

		z.crunchPath(node, z.freePaths.findClosest(node), true, z.freePaths)
		for _, nearbyNode := range nearby {
			z.crunchPath(node, nearbyNode, true, z.freePaths)
		}
	}

	for _, node := range nodes {
		z.gen.SetOccupied(node, tileFree)
	}

	// Block tiles too far from any passage
	blockDistance := fractalMinDistance * 0.25

	for _, tile := range z.tileInfo.Sorted() {
		if !z.gen.IsPossible(tile) {
			continue
		}
		if z.freePaths.Has(tile) {
			continue
		}

		closeTileFound := false
		for _, clearTile := range z.freePaths.Sorted() {
			if float32(tile.DistanceSquared(clearTile)) < blockDistance {
				closeTileFound = true
				break
			}
		}

		if !closeTileFound {
			z.gen.SetOccupied(tile, tileBlocked)
		}
	}
}
