package scenario

import (
	"fmt"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
)

// MountainRecord is a placed mountain obstacle. Mountains are scenery,
// not objects: they never enter the object store.
type MountainRecord struct {
	Pos   Position `json:"pos"`
	Size  Position `json:"size"`
	Image int      `json:"image"`
}

// Map is the scenario map: the tile grid plus the object store. It owns
// every scenario object; everything else holds ids.
type Map struct {
	Name        string
	Description string
	Size        int
	Seed        uint32

	tiles   []Tile
	objects map[ObjectID]Object
	order   []ObjectID
	nextID  map[ObjectType]int

	mountains []MountainRecord
}

// NewMap creates an empty scenario map of size x size tiles.
func NewMap(size int) *Map {
	tiles := make([]Tile, size*size)
	for i := range tiles {
		tiles[i] = Tile{Terrain: TerrainNeutral, Ground: GroundPlain}
	}

	return &Map{
		Name:        "Random scenario",
		Description: "Random scenario description",
		Size:        size,
		tiles:       tiles,
		objects:     make(map[ObjectID]Object),
		nextID:      make(map[ObjectType]int),
	}
}

// CreateID mints the next id for an object type. Ids are sequential per
// type so identical generation runs produce identical ids.
func (m *Map) CreateID(objectType ObjectType) ObjectID {
	n := m.nextID[objectType]
	m.nextID[objectType] = n + 1
	return ObjectID(fmt.Sprintf("%s_%04d", objectType, n))
}

// Insert stores an object. Ids are unique; reinserting is a programming
// error.
func (m *Map) Insert(object Object) error {
	id := object.ObjectID()
	if id == "" {
		return errors.Internal("object has no id")
	}
	if _, exists := m.objects[id]; exists {
		return errors.Internalf("duplicate object id %q", id)
	}

	m.objects[id] = object
	m.order = append(m.order, id)
	return nil
}

// Find returns the object with the given id, or nil.
func (m *Map) Find(id ObjectID) Object {
	return m.objects[id]
}

// FindUnit returns the unit with the given id, or nil.
func (m *Map) FindUnit(id ObjectID) *Unit {
	unit, _ := m.objects[id].(*Unit)
	return unit
}

// FindStack returns the stack with the given id, or nil.
func (m *Map) FindStack(id ObjectID) *Stack {
	stack, _ := m.objects[id].(*Stack)
	return stack
}

// FindPlayer returns the player with the given id, or nil.
func (m *Map) FindPlayer(id ObjectID) *Player {
	player, _ := m.objects[id].(*Player)
	return player
}

// Visit calls fn for every object of the given type in insertion order.
func (m *Map) Visit(objectType ObjectType, fn func(Object)) {
	for _, id := range m.order {
		object := m.objects[id]
		if object.Type() == objectType {
			fn(object)
		}
	}
}

// ObjectCount returns the number of stored objects.
func (m *Map) ObjectCount() int {
	return len(m.order)
}

// IsInTheMap reports whether the position is inside map bounds.
func (m *Map) IsInTheMap(pos Position) bool {
	return pos.X >= 0 && pos.X < m.Size && pos.Y >= 0 && pos.Y < m.Size
}

// IsAtTheBorder reports whether the position lies on the outermost ring.
func (m *Map) IsAtTheBorder(pos Position) bool {
	return pos.X == 0 || pos.X == m.Size-1 || pos.Y == 0 || pos.Y == m.Size-1
}

// ElementAtTheBorder reports whether the element placed at pos would touch
// the map border.
func (m *Map) ElementAtTheBorder(element MapElement, pos Position) bool {
	if pos.X <= 0 || pos.Y <= 0 {
		return true
	}
	return pos.X+element.Size.X >= m.Size-1 || pos.Y+element.Size.Y >= m.Size-1
}

func (m *Map) tileIndex(pos Position) int {
	return pos.X + m.Size*pos.Y
}

// GetTile returns the tile at pos. Out-of-map access is a programming
// error and panics.
func (m *Map) GetTile(pos Position) *Tile {
	if !m.IsInTheMap(pos) {
		panic(fmt.Sprintf("tile access outside of the map: (%d, %d)", pos.X, pos.Y))
	}
	return &m.tiles[m.tileIndex(pos)]
}

// PaintTerrain changes terrain and ground of a single tile.
func (m *Map) PaintTerrain(pos Position, terrain TerrainType, ground GroundType) {
	m.GetTile(pos).SetTerrainGround(terrain, ground)
}

// PaintTerrainAll changes terrain and ground of all listed tiles.
func (m *Map) PaintTerrainAll(tiles []Position, terrain TerrainType, ground GroundType) {
	for _, pos := range tiles {
		m.PaintTerrain(pos, terrain, ground)
	}
}

// InsertMapElement stamps the element's footprint into the tile grid:
// footprint tiles become blocking, the entrance becomes visitable.
func (m *Map) InsertMapElement(element MapElement, id ObjectID) {
	for _, pos := range element.BlockedPositions() {
		if !m.IsInTheMap(pos) {
			continue
		}
		tile := m.GetTile(pos)
		tile.Blocked = true
		tile.BlockingObjects = append(tile.BlockingObjects, id)
	}

	entrance := element.Entrance()
	if m.IsInTheMap(entrance) {
		tile := m.GetTile(entrance)
		tile.Visitable = true
		tile.VisitableObjects = append(tile.VisitableObjects, id)
	}
}

// AddMountain records a mountain covering size tiles at pos.
func (m *Map) AddMountain(pos, size Position, image int) {
	m.mountains = append(m.mountains, MountainRecord{Pos: pos, Size: size, Image: image})
}

// Mountains returns all placed mountains.
func (m *Map) Mountains() []MountainRecord {
	return m.mountains
}

// CanMoveBetween reports whether a stack can step from src to dst.
// Straight steps only need dst to be passable; diagonal steps must not
// cut a blocked corner, so at least one of the two adjacent straight
// tiles has to be passable too.
func (m *Map) CanMoveBetween(src, dst Position) bool {
	if !m.IsInTheMap(src) || !m.IsInTheMap(dst) {
		return false
	}

	dx := dst.X - src.X
	dy := dst.Y - src.Y
	if dx == 0 || dy == 0 {
		return true
	}

	corner1 := Position{X: src.X + dx, Y: src.Y}
	corner2 := Position{X: src.X, Y: src.Y + dy}
	return m.isPassable(corner1) || m.isPassable(corner2)
}

func (m *Map) isPassable(pos Position) bool {
	if !m.IsInTheMap(pos) {
		return false
	}
	tile := m.GetTile(pos)
	return !tile.Blocked && !tile.IsWater()
}

// RaceTerrain returns the terrain coloring of a race.
func RaceTerrain(race RaceType) TerrainType {
	switch race {
	case RaceHuman:
		return TerrainHuman
	case RaceDwarf:
		return TerrainDwarf
	case RaceHeretic:
		return TerrainHeretic
	case RaceUndead:
		return TerrainUndead
	case RaceElf:
		return TerrainElf
	default:
		return TerrainNeutral
	}
}

// RaceSubRace returns the subrace of a race.
func RaceSubRace(race RaceType) SubRaceType {
	switch race {
	case RaceHuman:
		return SubRaceHuman
	case RaceDwarf:
		return SubRaceDwarf
	case RaceHeretic:
		return SubRaceHeretic
	case RaceUndead:
		return SubRaceUndead
	case RaceElf:
		return SubRaceElf
	default:
		return SubRaceNeutral
	}
}

// NativeResource returns the mana resource a race prefers.
func NativeResource(race RaceType) ResourceType {
	switch race {
	case RaceHuman:
		return ResourceLifeMana
	case RaceDwarf:
		return ResourceRunicMana
	case RaceHeretic:
		return ResourceInfernalMana
	case RaceUndead:
		return ResourceDeathMana
	case RaceElf:
		return ResourceGroveMana
	default:
		return ResourceGold
	}
}
