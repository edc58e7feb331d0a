package scenario

import (
	"encoding/json"
	"fmt"
)

// RoadRecord is one built road: its endpoints and the tiles it covers.
type RoadRecord struct {
	Source Position   `json:"source"`
	Dest   Position   `json:"dest"`
	Path   []Position `json:"path"`
}

// SnapshotObject pairs an object with its type tag so consumers can
// decode the variant without guessing.
type SnapshotObject struct {
	Type   ObjectType `json:"type"`
	Object Object     `json:"object"`
}

// UnmarshalJSON decodes the variant by its type tag. The tag decides
// which concrete object the payload unmarshals into; unknown tags are
// an error rather than silently dropped data.
func (s *SnapshotObject) UnmarshalJSON(data []byte) error {
	var head struct {
		Type   ObjectType      `json:"type"`
		Object json.RawMessage `json:"object"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var object Object
	switch head.Type {
	case TypeFortification:
		object = &Fortification{}
	case TypeStack:
		object = &Stack{}
	case TypeSite:
		object = &Site{}
	case TypeRuin:
		object = &Ruin{}
	case TypeCrystal:
		object = &Crystal{}
	case TypeBag:
		object = &Bag{}
	case TypeLandmark:
		object = &Landmark{}
	case TypeUnit:
		object = &Unit{}
	case TypeItem:
		object = &Item{}
	case TypePlayer:
		object = &Player{}
	case TypeSubRace:
		object = &SubRace{}
	default:
		return fmt.Errorf("unknown snapshot object type %q", head.Type)
	}

	if err := json.Unmarshal(head.Object, object); err != nil {
		return err
	}

	s.Type = head.Type
	s.Object = object
	return nil
}

// Snapshot is the serializable form of a generated scenario. Objects
// appear in insertion order, which is deterministic for a given seed,
// so two identical runs marshal to identical bytes.
type Snapshot struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Size        int              `json:"size"`
	Seed        uint32           `json:"seed"`
	Tiles       []Tile           `json:"tiles"`
	Objects     []SnapshotObject `json:"objects"`
	Mountains   []MountainRecord `json:"mountains,omitempty"`
	Roads       []RoadRecord     `json:"roads,omitempty"`
}

// Snapshot exports the map and the given road list.
func (m *Map) Snapshot(roads []RoadRecord) *Snapshot {
	objects := make([]SnapshotObject, 0, len(m.order))
	for _, id := range m.order {
		object := m.objects[id]
		objects = append(objects, SnapshotObject{Type: object.Type(), Object: object})
	}

	tiles := make([]Tile, len(m.tiles))
	copy(tiles, m.tiles)

	return &Snapshot{
		Name:        m.Name,
		Description: m.Description,
		Size:        m.Size,
		Seed:        m.Seed,
		Tiles:       tiles,
		Objects:     objects,
		Mountains:   m.mountains,
		Roads:       roads,
	}
}
