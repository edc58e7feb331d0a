package scenario

// Gap mask bits. Each bit keeps one approach corridor around a
// fortification walkable instead of letting obstacles claim it.
const (
	GapWest  uint8 = 1 << 0 // column left of the footprint
	GapEast  uint8 = 1 << 1 // column right of the footprint
	GapSouth uint8 = 1 << 2 // row below the footprint
)

// MapElement is the rectangular footprint shared by every on-map object.
// The entrance sits at the bottom-center tile of the footprint.
type MapElement struct {
	Pos  Position `json:"pos"`
	Size Position `json:"size"`
}

// NewMapElement creates a footprint of the given size at an invalid position.
func NewMapElement(size Position) MapElement {
	return MapElement{Pos: InvalidPosition, Size: size}
}

// Element returns the embedded footprint. Object variants embed
// MapElement, so the promoted method gives callers uniform access to
// any variant's geometry.
func (m *MapElement) Element() *MapElement {
	return m
}

// SetPosition moves the element's top-left corner.
func (m *MapElement) SetPosition(pos Position) {
	m.Pos = pos
}

// GetPosition returns the element's top-left corner.
func (m *MapElement) GetPosition() Position {
	return m.Pos
}

// GetSize returns the footprint size.
func (m *MapElement) GetSize() Position {
	return m.Size
}

// EntranceOffset is the entrance tile relative to the top-left corner.
func (m *MapElement) EntranceOffset() Position {
	return Position{X: m.Size.X / 2, Y: m.Size.Y - 1}
}

// Entrance is the absolute entrance tile.
func (m *MapElement) Entrance() Position {
	return m.Pos.Add(m.EntranceOffset())
}

// BlockedOffsets returns the footprint tiles relative to the top-left
// corner, excluding the entrance.
func (m *MapElement) BlockedOffsets() []Position {
	entrance := m.EntranceOffset()
	offsets := make([]Position, 0, m.Size.X*m.Size.Y)
	for y := 0; y < m.Size.Y; y++ {
		for x := 0; x < m.Size.X; x++ {
			p := Position{X: x, Y: y}
			if p == entrance {
				continue
			}
			offsets = append(offsets, p)
		}
	}
	return offsets
}

// BlockedPositions returns the absolute footprint tiles, excluding the
// entrance.
func (m *MapElement) BlockedPositions() []Position {
	offsets := m.BlockedOffsets()
	tiles := make([]Position, len(offsets))
	for i, o := range offsets {
		tiles[i] = m.Pos.Add(o)
	}
	return tiles
}

// EntranceOffsets returns the tiles around the entrance that lie outside
// the footprint, relative to the entrance. An object is reachable as long
// as at least one of them stays unblocked.
func (m *MapElement) EntranceOffsets() []Position {
	var offsets []Position
	for y := -1; y <= 1; y++ {
		for x := -1; x <= 1; x++ {
			if x == 0 && y == 0 {
				continue
			}
			abs := m.EntranceOffset().Add(Position{X: x, Y: y})
			if abs.X >= 0 && abs.X < m.Size.X && abs.Y >= 0 && abs.Y < m.Size.Y {
				// Inside the footprint
				continue
			}
			offsets = append(offsets, Position{X: x, Y: y})
		}
	}
	return offsets
}

// IsVisitableFrom reports whether the entrance can be entered from the
// given direction relative to the entrance tile. Entrances face south:
// they accept visitors from the row below and from the sides.
func (m *MapElement) IsVisitableFrom(direction Position) bool {
	if direction.Y > 0 {
		return true
	}
	return direction.Y == 0 && direction.X != 0
}

// TilesByGapMask returns the absolute corridor tiles selected by mask.
// Corridor tiles sit just outside the footprint; callers keep them
// walkable when committing the element.
func (m *MapElement) TilesByGapMask(mask uint8) []Position {
	var tiles []Position

	if mask&GapWest != 0 {
		for y := 0; y < m.Size.Y; y++ {
			tiles = append(tiles, m.Pos.Add(Position{X: -1, Y: y}))
		}
	}
	if mask&GapEast != 0 {
		for y := 0; y < m.Size.Y; y++ {
			tiles = append(tiles, m.Pos.Add(Position{X: m.Size.X, Y: y}))
		}
	}
	if mask&GapSouth != 0 {
		for x := -1; x <= m.Size.X; x++ {
			tiles = append(tiles, m.Pos.Add(Position{X: x, Y: m.Size.Y}))
		}
	}

	return tiles
}
