// Package template holds the scenario template model: settings, zones,
// connections and diplomacy, read from Lua template scripts. Templates
// describe what a scenario should contain; the generator decides where
// everything goes.
package template

import (
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// ZoneType classifies zones in a template.
type ZoneType string

// Zone types
const (
	ZonePlayerStart ZoneType = "playerStart"
	ZoneAiStart     ZoneType = "aiStart"
	ZoneTreasure    ZoneType = "treasure"
	ZoneJunction    ZoneType = "junction"
	ZoneWater       ZoneType = "water"
)

// BorderType is the zone border policy.
type BorderType string

// Border types
const (
	BorderWater    BorderType = "water"
	BorderOpen     BorderType = "open"
	BorderClosed   BorderType = "closed"
	BorderSemiOpen BorderType = "semiOpen"
)

// RequiredItem is an item the loot must always contain.
type RequiredItem struct {
	ItemID string
	Amount rng.RandomValue
}

// LootInfo describes randomly generated loot.
type LootInfo struct {
	Value         rng.RandomValue
	ItemTypes     map[scenario.ItemType]bool
	ItemValue     rng.RandomValue
	RequiredItems []RequiredItem
}

// GroupInfo describes a unit group to generate: stack guards, garrisons
// and visitor stacks.
type GroupInfo struct {
	Value           rng.RandomValue
	SubraceTypes    map[scenario.SubRaceType]bool
	LeaderIDs       []string
	LeaderModifiers []string
	Name            string
	Owner           scenario.RaceType
	Order           scenario.OrderType
	AiPriority      int
	Loot            LootInfo
}

// CityInfo describes a neutral city.
type CityInfo struct {
	Name       string
	Owner      scenario.RaceType
	Tier       int
	GapMask    uint8
	AiPriority int
	Garrison   GroupInfo
	Stack      GroupInfo
}

// CapitalInfo describes a player capital.
type CapitalInfo struct {
	Name       string
	GapMask    uint8
	Guardian   bool
	AiPriority int
	Garrison   GroupInfo
	Spells     []string
}

// MerchantInfo describes a merchant site.
type MerchantInfo struct {
	Name        string
	Description string
	Items       LootInfo
	Guard       GroupInfo
	AiPriority  int
}

// MageInfo describes a mage tower site.
type MageInfo struct {
	Name           string
	Description    string
	SpellTypes     map[scenario.SpellType]bool
	Value          rng.RandomValue
	SpellLevels    rng.RandomValue
	RequiredSpells []string
	Guard          GroupInfo
	AiPriority     int
}

// MercenaryUnit is a unit the mercenary camp always offers.
type MercenaryUnit struct {
	UnitID string
	Level  int
	Unique bool
}

// MercenaryInfo describes a mercenary camp site.
type MercenaryInfo struct {
	Name          string
	Description   string
	SubraceTypes  map[scenario.SubRaceType]bool
	Value         rng.RandomValue
	EnrollValue   rng.RandomValue
	RequiredUnits []MercenaryUnit
	Guard         GroupInfo
	AiPriority    int
}

// TrainerInfo describes a trainer site.
type TrainerInfo struct {
	Name        string
	Description string
	Guard       GroupInfo
	AiPriority  int
}

// MarketStock is the stock of one resource at a market.
type MarketStock struct {
	Infinite bool
	Amount   rng.RandomValue
}

// ResourceMarketInfo describes a resource market site.
type ResourceMarketInfo struct {
	Name          string
	Description   string
	ExchangeRates map[scenario.ResourceType]map[scenario.ResourceType]int
	Stock         map[scenario.ResourceType]MarketStock
	Guard         GroupInfo
	AiPriority    int
}

// RuinInfo describes a ruin.
type RuinInfo struct {
	Name       string
	Guard      GroupInfo
	Gold       rng.RandomValue
	Loot       LootInfo
	AiPriority int
}

// NeutralStacksInfo describes one group of roaming neutral stacks. The
// group value is split evenly across count stacks.
type NeutralStacksInfo struct {
	Count           int
	Name            string
	Owner           scenario.RaceType
	Order           scenario.OrderType
	AiPriority      int
	LeaderModifiers []string
	Stacks          GroupInfo
}

// StacksInfo is the full neutral stack declaration of a zone.
type StacksInfo struct {
	StackGroups []NeutralStacksInfo
}

// BagInfo describes the item bags of a zone.
type BagInfo struct {
	Count      int
	Loot       LootInfo
	AiPriority int
}

// ZoneOptions is the declarative contents of one template zone.
type ZoneOptions struct {
	ID         int
	Type       ZoneType
	PlayerRace scenario.RaceType
	Capital    CapitalInfo
	Size       int
	BorderType BorderType
	GapChance  int

	Mines map[scenario.ResourceType]int

	NeutralCities []CityInfo
	Ruins         []RuinInfo
	Merchants     []MerchantInfo
	Mages         []MageInfo
	Mercenaries   []MercenaryInfo
	Trainers      []TrainerInfo
	Markets       []ResourceMarketInfo
	Stacks        StacksInfo
	Bags          BagInfo
}

// Connection links two zones. Size scales the opening between them.
type Connection struct {
	From  int
	To    int
	Size  float32
	Guard GroupInfo
}

// DiplomacyRelation is the starting relation between two races.
type DiplomacyRelation struct {
	RaceA             scenario.RaceType
	RaceB             scenario.RaceType
	Relation          int
	Alliance          bool
	AlwaysAtWar       bool
	PermanentAlliance bool
}

// ScenarioVariable is a named scripted variable baked into the scenario.
type ScenarioVariable struct {
	Name  string
	Value int
}

// Settings is the template header.
type Settings struct {
	Name               string
	Description        string
	MaxPlayers         int
	SizeMin            int
	SizeMax            int
	Roads              int
	Forest             int
	StartingGold       int
	StartingNativeMana int
	Iterations         int

	ForbiddenUnits  map[string]bool
	ForbiddenItems  map[string]bool
	ForbiddenSpells map[string]bool
}

// Contents is the size-resolved template body.
type Contents struct {
	Zones             map[int]*ZoneOptions
	Connections       []Connection
	Diplomacy         []DiplomacyRelation
	ScenarioVariables []ScenarioVariable
}

// Template is a fully loaded scenario template.
type Template struct {
	Settings Settings
	Contents Contents
}
