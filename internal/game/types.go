// Package game holds the immutable game data catalogs the generator draws
// from: units, items, spells, landmarks, races, text pools and generator
// settings. Catalogs are injected into the generator, never reached
// through globals, so tests can swap in fixtures.
package game

import (
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// UnitInfo describes a unit kind.
type UnitInfo struct {
	UnitID     string               `json:"unitId"`
	Name       string               `json:"name"`
	Value      int                  `json:"value"`
	EnrollCost int                  `json:"enrollCost"`
	Level      int                  `json:"level"`
	HP         int                  `json:"hp"`
	Move       int                  `json:"move"`
	Reach      scenario.ReachType   `json:"reach"`
	Big        bool                 `json:"big,omitempty"`
	Subrace    scenario.SubRaceType `json:"subrace"`
	Leadership int                  `json:"leadership,omitempty"`
	Leader     bool                 `json:"leader,omitempty"`
	Support    bool                 `json:"support,omitempty"`
}

// ItemInfo describes an item kind.
type ItemInfo struct {
	ItemID string            `json:"itemId"`
	Type   scenario.ItemType `json:"type"`
	Value  int               `json:"value"`
}

// SpellInfo describes a spell kind.
type SpellInfo struct {
	SpellID string             `json:"spellId"`
	Type    scenario.SpellType `json:"type"`
	Level   int                `json:"level"`
	Value   int                `json:"value"`
}

// LandmarkInfo describes a landmark kind.
type LandmarkInfo struct {
	LandmarkID string                `json:"landmarkId"`
	Size       scenario.Position     `json:"size"`
	Mountain   bool                  `json:"mountain,omitempty"`
	Kind       scenario.LandmarkType `json:"kind"`
	Race       scenario.RaceType     `json:"race,omitempty"`
}

// RaceInfo describes a playable race.
type RaceInfo struct {
	Race           scenario.RaceType `json:"race"`
	GuardianUnitID string            `json:"guardianUnitId"`
	LeaderIDs      []string          `json:"leaderIds"`
}

// SiteText is a name and flavor description pool entry.
type SiteText struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Mountain is one entry of the mountain size table.
type Mountain struct {
	Size  int `json:"size"`
	Image int `json:"image"`
}

// Settings carries generator tuning data that is game data rather than
// template data.
type Settings struct {
	MerchantImages  []int `json:"merchantImages"`
	MageImages      []int `json:"mageImages"`
	MercenaryImages []int `json:"mercenaryImages"`
	TrainerImages   []int `json:"trainerImages"`
	MarketImages    []int `json:"marketImages"`
	RuinImages      []int `json:"ruinImages"`
	BagImages       []int `json:"bagImages"`
	BagWaterImages  []int `json:"bagWaterImages"`

	Mountains []Mountain `json:"mountains"`

	// Tree image index range for forests
	TreeImages int `json:"treeImages"`

	// Modifier granting +1 leadership, stacked on leaders until they can
	// command their group
	LeadershipModifierID string `json:"leadershipModifierId"`
}
