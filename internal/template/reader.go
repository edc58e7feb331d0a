package template

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// Templates are Lua scripts. The script declares a global `template`
// table with the settings fields and a getContents(size) function that
// returns the zones, connections and diplomacy for the chosen map size.

// ReadFile loads template settings from a Lua script.
func ReadFile(path string) (*Template, error) {
	state := lua.NewState()
	defer state.Close()

	if err := state.DoFile(path); err != nil {
		return nil, errors.TemplateInvalidf("failed to run template script: %v", err)
	}

	return readTemplate(state)
}

// ReadString loads template settings from Lua source, for tests.
func ReadString(source string) (*Template, error) {
	state := lua.NewState()
	defer state.Close()

	if err := state.DoString(source); err != nil {
		return nil, errors.TemplateInvalidf("failed to run template script: %v", err)
	}

	return readTemplate(state)
}

// ResolveContents calls the template's getContents function for the
// chosen map size and reads the zone declarations. The template script
// stays loaded only for the duration of the call; contents are plain
// records afterwards.
func ResolveContents(path string, tmpl *Template, size int) error {
	state := lua.NewState()
	defer state.Close()

	if err := state.DoFile(path); err != nil {
		return errors.TemplateInvalidf("failed to run template script: %v", err)
	}

	return resolveContents(state, tmpl, size)
}

// ResolveContentsString is ResolveContents for in-memory Lua source.
func ResolveContentsString(source string, tmpl *Template, size int) error {
	state := lua.NewState()
	defer state.Close()

	if err := state.DoString(source); err != nil {
		return errors.TemplateInvalidf("failed to run template script: %v", err)
	}

	return resolveContents(state, tmpl, size)
}

func readTemplate(state *lua.LState) (*Template, error) {
	root, ok := state.GetGlobal("template").(*lua.LTable)
	if !ok {
		return nil, errors.TemplateInvalid("template script has no 'template' table")
	}

	tmpl := &Template{
		Settings: Settings{
			Name:               getString(root, "name", ""),
			Description:        getString(root, "description", ""),
			MaxPlayers:         getInt(root, "maxPlayers", 1),
			SizeMin:            getInt(root, "minSize", 48),
			SizeMax:            getInt(root, "maxSize", 48),
			Roads:              getInt(root, "roads", 100),
			Forest:             getInt(root, "forest", 0),
			StartingGold:       getInt(root, "startingGold", 0),
			StartingNativeMana: getInt(root, "startingNativeMana", 0),
			Iterations:         getInt(root, "iterations", 0),
			ForbiddenUnits:     getStringSet(root, "forbiddenUnits"),
			ForbiddenItems:     getStringSet(root, "forbiddenItems"),
			ForbiddenSpells:    getStringSet(root, "forbiddenSpells"),
		},
	}

	if err := tmpl.Settings.Validate(); err != nil {
		return nil, err
	}

	return tmpl, nil
}

func resolveContents(state *lua.LState, tmpl *Template, size int) error {
	root, ok := state.GetGlobal("template").(*lua.LTable)
	if !ok {
		return errors.TemplateInvalid("template script has no 'template' table")
	}

	getContents, ok := root.RawGetString("getContents").(*lua.LFunction)
	if !ok {
		return errors.TemplateInvalid("template has no getContents function")
	}

	if err := state.CallByParam(lua.P{Fn: getContents, NRet: 1, Protect: true},
		lua.LNumber(size)); err != nil {
		return errors.TemplateInvalidf("getContents(%d) failed: %v", size, err)
	}

	contentsTable, ok := state.Get(-1).(*lua.LTable)
	state.Pop(1)
	if !ok {
		return errors.TemplateInvalid("getContents did not return a table")
	}

	contents := Contents{Zones: make(map[int]*ZoneOptions)}

	zones, ok := contentsTable.RawGetString("zones").(*lua.LTable)
	if !ok {
		return errors.TemplateInvalid("contents have no zones")
	}

	var zoneErr error
	zones.ForEach(func(_, value lua.LValue) {
		zoneTable, isTable := value.(*lua.LTable)
		if !isTable || zoneErr != nil {
			return
		}

		zone, err := readZone(zoneTable)
		if err != nil {
			zoneErr = err
			return
		}

		if _, exists := contents.Zones[zone.ID]; exists {
			zoneErr = errors.TemplateInvalidf("duplicate zone id %d", zone.ID)
			return
		}
		contents.Zones[zone.ID] = zone
	})
	if zoneErr != nil {
		return zoneErr
	}

	if connections, isTable := contentsTable.RawGetString("connections").(*lua.LTable); isTable {
		connections.ForEach(func(_, value lua.LValue) {
			if connTable, isConn := value.(*lua.LTable); isConn {
				contents.Connections = append(contents.Connections, readConnection(connTable))
			}
		})
	}

	if diplomacy, isTable := contentsTable.RawGetString("diplomacy").(*lua.LTable); isTable {
		diplomacy.ForEach(func(_, value lua.LValue) {
			if relTable, isRel := value.(*lua.LTable); isRel {
				contents.Diplomacy = append(contents.Diplomacy, DiplomacyRelation{
					RaceA:             scenario.RaceType(getString(relTable, "raceA", "")),
					RaceB:             scenario.RaceType(getString(relTable, "raceB", "")),
					Relation:          getInt(relTable, "relation", 0),
					Alliance:          getBool(relTable, "alliance", false),
					AlwaysAtWar:       getBool(relTable, "alwaysAtWar", false),
					PermanentAlliance: getBool(relTable, "permanentAlliance", false),
				})
			}
		})
	}

	if variables, isTable := contentsTable.RawGetString("scenarioVariables").(*lua.LTable); isTable {
		variables.ForEach(func(_, value lua.LValue) {
			if varTable, isVar := value.(*lua.LTable); isVar {
				contents.ScenarioVariables = append(contents.ScenarioVariables, ScenarioVariable{
					Name:  getString(varTable, "name", ""),
					Value: getInt(varTable, "value", 0),
				})
			}
		})
	}

	tmpl.Contents = contents
	return ValidateContents(tmpl)
}

func readZone(table *lua.LTable) (*ZoneOptions, error) {
	zone := &ZoneOptions{
		ID:         getInt(table, "id", -1),
		Type:       ZoneType(getString(table, "type", "")),
		Size:       getInt(table, "size", 1),
		BorderType: BorderType(getString(table, "borderType", string(BorderSemiOpen))),
		GapChance:  getInt(table, "gapChance", 50),
	}

	switch zone.Type {
	case ZonePlayerStart, ZoneAiStart, ZoneTreasure, ZoneJunction, ZoneWater:
	default:
		return nil, errors.TemplateInvalidf("zone %d has unknown type %q", zone.ID, zone.Type)
	}

	if zone.Type == ZonePlayerStart || zone.Type == ZoneAiStart {
		zone.PlayerRace = scenario.RaceType(getString(table, "race", string(scenario.RaceRandom)))

		if capital, ok := table.RawGetString("capital").(*lua.LTable); ok {
			zone.Capital = CapitalInfo{
				Name:       getString(capital, "name", ""),
				GapMask:    uint8(getInt(capital, "gapMask", 0)),
				Guardian:   getBool(capital, "guardian", true),
				AiPriority: getInt(capital, "aiPriority", 0),
				Garrison:   readGroup(capital.RawGetString("garrison")),
				Spells:     getStringList(capital, "spells"),
			}
		} else {
			zone.Capital.Guardian = true
		}
	}

	if mines, ok := table.RawGetString("mines").(*lua.LTable); ok {
		zone.Mines = make(map[scenario.ResourceType]int)
		for name, resource := range map[string]scenario.ResourceType{
			"gold":         scenario.ResourceGold,
			"lifeMana":     scenario.ResourceLifeMana,
			"deathMana":    scenario.ResourceDeathMana,
			"infernalMana": scenario.ResourceInfernalMana,
			"runicMana":    scenario.ResourceRunicMana,
			"groveMana":    scenario.ResourceGroveMana,
		} {
			if count := getInt(mines, name, 0); count > 0 {
				zone.Mines[resource] = count
			}
		}
	}

	forEachTable(table, "towns", func(t *lua.LTable) {
		zone.NeutralCities = append(zone.NeutralCities, CityInfo{
			Name:       getString(t, "name", ""),
			Owner:      scenario.RaceType(getString(t, "owner", string(scenario.RaceNeutral))),
			Tier:       getInt(t, "tier", 1),
			GapMask:    uint8(getInt(t, "gapMask", 0)),
			AiPriority: getInt(t, "aiPriority", 0),
			Garrison:   readGroup(t.RawGetString("garrison")),
			Stack:      readGroup(t.RawGetString("stack")),
		})
	})

	forEachTable(table, "ruins", func(t *lua.LTable) {
		zone.Ruins = append(zone.Ruins, RuinInfo{
			Name:       getString(t, "name", ""),
			Guard:      readGroup(t.RawGetString("guard")),
			Gold:       readRandomValue(t.RawGetString("gold")),
			Loot:       readLoot(t.RawGetString("loot")),
			AiPriority: getInt(t, "aiPriority", 0),
		})
	})

	forEachTable(table, "merchants", func(t *lua.LTable) {
		zone.Merchants = append(zone.Merchants, MerchantInfo{
			Name:        getString(t, "name", ""),
			Description: getString(t, "description", ""),
			Items:       readLoot(t.RawGetString("goods")),
			Guard:       readGroup(t.RawGetString("guard")),
			AiPriority:  getInt(t, "aiPriority", 0),
		})
	})

	forEachTable(table, "mages", func(t *lua.LTable) {
		mage := MageInfo{
			Name:           getString(t, "name", ""),
			Description:    getString(t, "description", ""),
			Value:          readRandomValue(t.RawGetString("value")),
			SpellLevels:    readRandomValue(t.RawGetString("spellLevel")),
			RequiredSpells: getStringList(t, "spells"),
			Guard:          readGroup(t.RawGetString("guard")),
			AiPriority:     getInt(t, "aiPriority", 0),
		}
		if types := getStringList(t, "spellTypes"); len(types) > 0 {
			mage.SpellTypes = make(map[scenario.SpellType]bool, len(types))
			for _, spellType := range types {
				mage.SpellTypes[scenario.SpellType(spellType)] = true
			}
		}
		zone.Mages = append(zone.Mages, mage)
	})

	forEachTable(table, "mercenaries", func(t *lua.LTable) {
		merc := MercenaryInfo{
			Name:         getString(t, "name", ""),
			Description:  getString(t, "description", ""),
			SubraceTypes: readSubraces(t.RawGetString("subraceTypes")),
			Value:        readRandomValue(t.RawGetString("value")),
			EnrollValue:  readRandomValue(t.RawGetString("enrollValue")),
			Guard:        readGroup(t.RawGetString("guard")),
			AiPriority:   getInt(t, "aiPriority", 0),
		}
		forEachTable(t, "units", func(u *lua.LTable) {
			merc.RequiredUnits = append(merc.RequiredUnits, MercenaryUnit{
				UnitID: getString(u, "id", ""),
				Level:  getInt(u, "level", 1),
				Unique: getBool(u, "unique", false),
			})
		})
		zone.Mercenaries = append(zone.Mercenaries, merc)
	})

	forEachTable(table, "trainers", func(t *lua.LTable) {
		zone.Trainers = append(zone.Trainers, TrainerInfo{
			Name:        getString(t, "name", ""),
			Description: getString(t, "description", ""),
			Guard:       readGroup(t.RawGetString("guard")),
			AiPriority:  getInt(t, "aiPriority", 0),
		})
	})

	forEachTable(table, "resourceMarkets", func(t *lua.LTable) {
		market := ResourceMarketInfo{
			Name:        getString(t, "name", ""),
			Description: getString(t, "description", ""),
			Guard:       readGroup(t.RawGetString("guard")),
			AiPriority:  getInt(t, "aiPriority", 0),
		}
		forEachTable(t, "stock", func(s *lua.LTable) {
			if market.Stock == nil {
				market.Stock = make(map[scenario.ResourceType]MarketStock)
			}
			resource := scenario.ResourceType(getString(s, "resource", ""))
			market.Stock[resource] = MarketStock{
				Infinite: getBool(s, "infinite", false),
				Amount:   readRandomValue(s.RawGetString("value")),
			}
		})
		zone.Markets = append(zone.Markets, market)
	})

	forEachTable(table, "stacks", func(t *lua.LTable) {
		group := NeutralStacksInfo{
			Count:           getInt(t, "count", 0),
			Name:            getString(t, "name", ""),
			Owner:           scenario.RaceType(getString(t, "owner", string(scenario.RaceNeutral))),
			Order:           scenario.OrderType(getString(t, "order", string(scenario.OrderNormal))),
			AiPriority:      getInt(t, "aiPriority", 0),
			LeaderModifiers: getStringList(t, "leaderModifiers"),
			Stacks:          readGroup(lua.LValue(t)),
		}
		zone.Stacks.StackGroups = append(zone.Stacks.StackGroups, group)
	})

	if bags, ok := table.RawGetString("bags").(*lua.LTable); ok {
		zone.Bags = BagInfo{
			Count:      getInt(bags, "count", 0),
			Loot:       readLoot(bags.RawGetString("loot")),
			AiPriority: getInt(bags, "aiPriority", 0),
		}
	}

	return zone, nil
}

func readConnection(table *lua.LTable) Connection {
	return Connection{
		From:  getInt(table, "from", -1),
		To:    getInt(table, "to", -1),
		Size:  float32(getNumber(table, "size", 1)),
		Guard: readGroup(table.RawGetString("guard")),
	}
}

func readGroup(value lua.LValue) GroupInfo {
	table, ok := value.(*lua.LTable)
	if !ok {
		return GroupInfo{Owner: scenario.RaceNeutral, Order: scenario.OrderNormal}
	}

	return GroupInfo{
		Value:           readRandomValue(table.RawGetString("value")),
		SubraceTypes:    readSubraces(table.RawGetString("subraceTypes")),
		LeaderIDs:       getStringList(table, "leaderIds"),
		LeaderModifiers: getStringList(table, "leaderModifiers"),
		Name:            getString(table, "name", ""),
		Owner:           scenario.RaceType(getString(table, "owner", string(scenario.RaceNeutral))),
		Order:           scenario.OrderType(getString(table, "order", string(scenario.OrderNormal))),
		AiPriority:      getInt(table, "aiPriority", 0),
		Loot:            readLoot(table.RawGetString("loot")),
	}
}

func readLoot(value lua.LValue) LootInfo {
	table, ok := value.(*lua.LTable)
	if !ok {
		return LootInfo{}
	}

	loot := LootInfo{
		Value:     readRandomValue(table.RawGetString("value")),
		ItemValue: readRandomValue(table.RawGetString("itemValue")),
	}

	if types := getStringList(table, "itemTypes"); len(types) > 0 {
		loot.ItemTypes = make(map[scenario.ItemType]bool, len(types))
		for _, itemType := range types {
			loot.ItemTypes[scenario.ItemType(itemType)] = true
		}
	}

	forEachTable(table, "items", func(t *lua.LTable) {
		loot.RequiredItems = append(loot.RequiredItems, RequiredItem{
			ItemID: getString(t, "id", ""),
			Amount: readRandomValue(t.RawGetString("amount")),
		})
	})

	return loot
}

func readSubraces(value lua.LValue) map[scenario.SubRaceType]bool {
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil
	}

	subraces := make(map[scenario.SubRaceType]bool)
	table.ForEach(func(_, item lua.LValue) {
		if name, isString := item.(lua.LString); isString {
			subraces[scenario.SubRaceType(name)] = true
		}
	})

	if len(subraces) == 0 {
		return nil
	}
	return subraces
}

func readRandomValue(value lua.LValue) rng.RandomValue {
	table, ok := value.(*lua.LTable)
	if !ok {
		return rng.RandomValue{}
	}

	return rng.RandomValue{
		Min: getInt(table, "min", 0),
		Max: getInt(table, "max", 0),
	}.Normalize()
}

func forEachTable(table *lua.LTable, key string, fn func(*lua.LTable)) {
	list, ok := table.RawGetString(key).(*lua.LTable)
	if !ok {
		return
	}

	list.ForEach(func(_, value lua.LValue) {
		if item, isTable := value.(*lua.LTable); isTable {
			fn(item)
		}
	})
}

func getString(table *lua.LTable, key, fallback string) string {
	if value, ok := table.RawGetString(key).(lua.LString); ok {
		return string(value)
	}
	return fallback
}

func getInt(table *lua.LTable, key string, fallback int) int {
	if value, ok := table.RawGetString(key).(lua.LNumber); ok {
		return int(value)
	}
	return fallback
}

func getNumber(table *lua.LTable, key string, fallback float64) float64 {
	if value, ok := table.RawGetString(key).(lua.LNumber); ok {
		return float64(value)
	}
	return fallback
}

func getBool(table *lua.LTable, key string, fallback bool) bool {
	if value, ok := table.RawGetString(key).(lua.LBool); ok {
		return bool(value)
	}
	return fallback
}

func getStringList(table *lua.LTable, key string) []string {
	list, ok := table.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}

	var values []string
	list.ForEach(func(_, value lua.LValue) {
		if item, isString := value.(lua.LString); isString {
			values = append(values, string(item))
		}
	})
	return values
}

func getStringSet(table *lua.LTable, key string) map[string]bool {
	values := getStringList(table, key)
	if len(values) == 0 {
		return nil
	}

	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}
