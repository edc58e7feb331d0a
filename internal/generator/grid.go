// Package generator implements the zone filling engine: it takes a
// template, game catalogs and a seed and produces a fully populated
// scenario map. Zones are carved with a fractal path network, objects
// are placed on reachable tiles, guarded by composed stacks, surrounded
// by obstacles and decorations, and connected with roads.
package generator

import (
	"math"
	"sort"

	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

type tileState uint8

// Tile occupancy states. Possible tiles are unclaimed candidates for
// paths or objects; Free tiles are carved walkable passages; Blocked
// tiles are reserved for obstacles; Used tiles carry object footprints.
const (
	tilePossible tileState = iota
	tileFree
	tileBlocked
	tileUsed
)

// tileEntry is the generator's per-tile working state, kept separately
// from the scenario map tiles.
type tileEntry struct {
	state                 tileState
	road                  bool
	zoneID                int
	nearestObjectDistance float32
}

const noZone = -1

func newTileEntries(size int) []tileEntry {
	entries := make([]tileEntry, size*size)
	for i := range entries {
		entries[i].zoneID = noZone
		entries[i].nearestObjectDistance = float32(math.Inf(1))
	}
	return entries
}

func (g *Generator) tileAt(pos scenario.Position) *tileEntry {
	return &g.tiles[pos.X+g.size*pos.Y]
}

// IsPossible reports whether the tile is an unclaimed candidate.
func (g *Generator) IsPossible(pos scenario.Position) bool {
	return g.m.IsInTheMap(pos) && g.tileAt(pos).state == tilePossible
}

// IsFree reports whether the tile is a carved walkable passage.
func (g *Generator) IsFree(pos scenario.Position) bool {
	return g.m.IsInTheMap(pos) && g.tileAt(pos).state == tileFree
}

// IsBlocked reports whether the tile is reserved or occupied.
func (g *Generator) IsBlocked(pos scenario.Position) bool {
	if !g.m.IsInTheMap(pos) {
		return false
	}
	state := g.tileAt(pos).state
	return state == tileBlocked || state == tileUsed
}

// ShouldBeBlocked reports whether the tile is reserved for an obstacle.
func (g *Generator) ShouldBeBlocked(pos scenario.Position) bool {
	return g.m.IsInTheMap(pos) && g.tileAt(pos).state == tileBlocked
}

// SetOccupied changes the tile occupancy state.
func (g *Generator) SetOccupied(pos scenario.Position, state tileState) {
	g.tileAt(pos).state = state
}

// IsRoad reports whether a road runs over the tile.
func (g *Generator) IsRoad(pos scenario.Position) bool {
	return g.m.IsInTheMap(pos) && g.tileAt(pos).road
}

// SetRoad sets or clears the road flag.
func (g *Generator) SetRoad(pos scenario.Position, road bool) {
	g.tileAt(pos).road = road
}

// GetZoneID returns the zone owning the tile, or noZone.
func (g *Generator) GetZoneID(pos scenario.Position) int {
	if !g.m.IsInTheMap(pos) {
		return noZone
	}
	return g.tileAt(pos).zoneID
}

// SetZoneID assigns the tile to a zone.
func (g *Generator) SetZoneID(pos scenario.Position, zoneID int) {
	g.tileAt(pos).zoneID = zoneID
}

// GetNearestObjectDistance returns the squared distance to the closest
// placed object, +Inf before any object is placed nearby.
func (g *Generator) GetNearestObjectDistance(pos scenario.Position) float32 {
	return g.tileAt(pos).nearestObjectDistance
}

// SetNearestObjectDistance stores the squared distance to the closest
// placed object.
func (g *Generator) SetNearestObjectDistance(pos scenario.Position, distance float32) {
	g.tileAt(pos).nearestObjectDistance = distance
}

var directOffsets = []scenario.Position{
	{X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
}

var diagonalOffsets = []scenario.Position{
	{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1},
}

var allOffsets = []scenario.Position{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// ForeachNeighbor calls fn for the 8 in-map neighbors of pos.
func (g *Generator) ForeachNeighbor(pos scenario.Position, fn func(scenario.Position)) {
	for _, offset := range allOffsets {
		neighbor := pos.Add(offset)
		if g.m.IsInTheMap(neighbor) {
			fn(neighbor)
		}
	}
}

// ForeachDirectNeighbor calls fn for the 4 straight in-map neighbors.
func (g *Generator) ForeachDirectNeighbor(pos scenario.Position, fn func(scenario.Position)) {
	for _, offset := range directOffsets {
		neighbor := pos.Add(offset)
		if g.m.IsInTheMap(neighbor) {
			fn(neighbor)
		}
	}
}

// ForeachDiagonalNeighbor calls fn for the 4 diagonal in-map neighbors.
func (g *Generator) ForeachDiagonalNeighbor(pos scenario.Position, fn func(scenario.Position)) {
	for _, offset := range diagonalOffsets {
		neighbor := pos.Add(offset)
		if g.m.IsInTheMap(neighbor) {
			fn(neighbor)
		}
	}
}

// posSet is an ordered set of positions. Iteration always runs in
// (x, y) order so identical seeds walk tiles identically.
type posSet struct {
	members map[scenario.Position]struct{}
}

func newPosSet() *posSet {
	return &posSet{members: make(map[scenario.Position]struct{})}
}

func (s *posSet) Add(pos scenario.Position) {
	s.members[pos] = struct{}{}
}

func (s *posSet) Remove(pos scenario.Position) {
	delete(s.members, pos)
}

func (s *posSet) Has(pos scenario.Position) bool {
	_, ok := s.members[pos]
	return ok
}

func (s *posSet) Len() int {
	return len(s.members)
}

func (s *posSet) Empty() bool {
	return len(s.members) == 0
}

// Sorted returns the members ordered by x, then y.
func (s *posSet) Sorted() []scenario.Position {
	positions := make([]scenario.Position, 0, len(s.members))
	for pos := range s.members {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].X != positions[j].X {
			return positions[i].X < positions[j].X
		}
		return positions[i].Y < positions[j].Y
	})
	return positions
}

// findClosest returns the member closest to pos by squared distance,
// or InvalidPosition when the set is empty.
func (s *posSet) findClosest(pos scenario.Position) scenario.Position {
	closest := scenario.InvalidPosition
	best := float32(math.Inf(1))

	for _, candidate := range s.Sorted() {
		distance := float32(pos.DistanceSquared(candidate))
		if distance < best {
			best = distance
			closest = candidate
		}
	}
	return closest
}
