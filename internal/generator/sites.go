package generator

import (
	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// placeCapitalTown places the player capital at the zone center, builds
// its garrison and starting stack, and redirects the zone anchor to the
// capital entrance.
func (z *Zone) placeCapitalTown() error {
	rand := z.gen.rand

	capital := scenario.NewCapital(z.gen.m.CreateID(scenario.TypeFortification))
	capital.OwnerID = z.ownerID

	if z.Capital.Name == "" {
		capital.Name = *rng.PickElement(z.gen.catalog.CityNames, rand)
	} else {
		capital.Name = z.Capital.Name
	}
	capital.AiPriority = z.Capital.AiPriority
	capital.GapMask = z.Capital.GapMask
	capital.Tier = 5

	raceInfo, err := z.gen.catalog.FindRace(z.ownerRace)
	if err != nil {
		return err
	}

	garrison := z.Capital.Garrison

	{
		unusedValue := 0
		positions := allSlots()
		var units groupUnits

		if z.Capital.Guardian {
			guardianInfo, findErr := z.gen.catalog.FindUnit(raceInfo.GuardianUnitID)
			if findErr != nil {
				return findErr
			}

			// Slot 2 is reserved for the capital guardian
			delete(positions, 2)
			units[2] = guardianInfo
			if guardianInfo.Big {
				units[3] = guardianInfo
				delete(positions, 3)
			}
		}

		value := rand.PickValue(garrison.Value)
		values := rng.ConstrainedSum(scenario.GroupSize, value, rand)

		z.createGroup(&unusedValue, positions, &units, values, garrison.SubraceTypes)
		z.tightenGroup(&unusedValue, positions, &units, garrison.SubraceTypes)
		if err = z.createGroupUnits(&capital.Garrison, units); err != nil {
			return err
		}
	}

	loot, err := z.createLoot(garrison.Loot, false)
	if err != nil {
		return err
	}
	for _, itemID := range lootItemIDs(loot) {
		capital.Items.Add(z.createItem(itemID))
	}

	if len(raceInfo.LeaderIDs) == 0 {
		return errors.CatalogMissingf("race %q has no starting leaders", z.ownerRace)
	}
	leaderInfo, err := z.gen.catalog.FindUnit(raceInfo.LeaderIDs[0])
	if err != nil {
		return err
	}

	leaderID := z.gen.m.CreateID(scenario.TypeUnit)
	leader := &scenario.Unit{
		ID:     leaderID,
		ImplID: leaderInfo.UnitID,
		HP:     leaderInfo.HP,
		Name:   leaderInfo.Name,
	}
	if err = z.gen.m.Insert(leader); err != nil {
		return err
	}

	stack := scenario.NewStack(z.gen.m.CreateID(scenario.TypeStack))
	if !stack.Units.AddLeader(leaderID, 2, leaderInfo.Big) {
		return errors.Internal("starting leader does not fit into the stack")
	}
	stack.InsideID = capital.ID
	stack.Move = leaderInfo.Move
	stack.OwnerID = z.ownerID
	stack.Order = scenario.OrderNormal
	stack.SubraceID = z.gen.subraces[z.ownerRace]

	capital.StackID = stack.ID
	capital.SubraceID = z.gen.subraces[z.ownerRace]

	z.decorations = append(z.decorations, z.capitalDecoration(capital))

	position := z.pos.Sub(capital.GetSize().Div(2))
	position = z.gen.clampElement(position, capital.GetSize())

	if err = z.placeFortification(capital, position, scenario.RaceTerrain(z.ownerRace), true); err != nil {
		return err
	}
	z.clearEntrance(capital)

	// All roads lead to the tile near the capital entrance
	z.pos = capital.Entrance().Add(scenario.Position{X: 1, Y: 1})

	return z.placeStack(stack, capital.GetPosition(), true)
}

// placeCity creates a tiered city with garrison, loot and an optional
// visitor stack housed inside.
func (z *Zone) placeCity(pos scenario.Position, cityInfo template.CityInfo) (*scenario.Fortification, error) {
	rand := z.gen.rand

	village := scenario.NewVillage(z.gen.m.CreateID(scenario.TypeFortification))

	ownerID, subraceID := z.gen.ownerIDs(cityInfo.Owner)
	village.OwnerID = ownerID
	village.SubraceID = subraceID
	village.Tier = cityInfo.Tier

	if cityInfo.Name == "" {
		village.Name = *rng.PickElement(z.gen.catalog.CityNames, rand)
	} else {
		village.Name = cityInfo.Name
	}
	village.AiPriority = cityInfo.AiPriority
	village.GapMask = cityInfo.GapMask

	z.decorations = append(z.decorations, z.villageDecoration(village))

	if err := z.placeFortification(village, pos, scenario.TerrainNeutral, true); err != nil {
		return nil, err
	}
	z.clearEntrance(village)

	if cityInfo.Garrison.Value.IsSet() {
		unusedValue := 0
		var units groupUnits

		value := rand.PickValue(cityInfo.Garrison.Value)
		values := rng.ConstrainedSum(cityInfo.Tier, value, rand)

		positions := z.garrisonSlots(cityInfo.Tier)

		z.createGroup(&unusedValue, positions, &units, values, cityInfo.Garrison.SubraceTypes)
		z.tightenGroup(&unusedValue, positions, &units, cityInfo.Garrison.SubraceTypes)
		if err := z.createGroupUnits(&village.Garrison, units); err != nil {
			return nil, err
		}
	}

	loot, err := z.createLoot(cityInfo.Garrison.Loot, false)
	if err != nil {
		return nil, err
	}
	for _, itemID := range lootItemIDs(loot) {
		village.Items.Add(z.createItem(itemID))
	}

	stack, err := z.createStack(cityInfo.Stack)
	if err != nil {
		return nil, err
	}
	if stack != nil {
		// Visitor stack lives inside the city
		village.StackID = stack.ID
		stack.InsideID = village.ID
		stack.OwnerID = ownerID
		stack.SubraceID = subraceID

		z.applyLeaderExtras(stack, cityInfo.Stack.Name, cityInfo.Stack.LeaderModifiers)
		stack.Order = cityInfo.Stack.Order
		stack.AiPriority = cityInfo.Stack.AiPriority

		if err = z.placeStack(stack, pos, true); err != nil {
			return nil, err
		}
	}

	return village, nil
}

// garrisonSlots picks the occupied slot layout for a city tier. Low
// tiers anchor on the front center; tiers four and five exclude random
// slots instead.
func (z *Zone) garrisonSlots(tier int) slotSet {
	rand := z.gen.rand

	switch tier {
	case 1:
		return newSlotSet(2)

	case 2:
		positions := newSlotSet(2)
		possible := newSlotSet(0, 1, 3, 4, 5)
		positions[possible.pickRandom(rand)] = true
		return positions

	case 3:
		positions := newSlotSet(2)
		possible := newSlotSet(0, 1, 3, 4, 5)
		first := possible.pickRandom(rand)
		delete(possible, first)
		positions[first] = true
		positions[possible.pickRandom(rand)] = true
		return positions

	default:
		possible := allSlots()
		for i := tier; i < scenario.GroupSize; i++ {
			delete(possible, possible.pickRandom(rand))
		}
		return possible
	}
}

// siteText resolves a site's title and description, falling back to a
// random entry from the catalog text pool.
func siteText(name, description string, pool []game.SiteText, rand *rng.Rand) (string, string) {
	text := rng.PickElement(pool, rand)

	title := name
	if title == "" && text != nil {
		title = text.Name
	}
	body := description
	if body == "" && text != nil {
		body = text.Description
	}
	return title, body
}

func (z *Zone) placeMerchantSite(pos scenario.Position, info template.MerchantInfo) (*scenario.Site, error) {
	rand := z.gen.rand

	merchant := scenario.NewSite(z.gen.m.CreateID(scenario.TypeSite), scenario.SiteMerchant)
	merchant.Title, merchant.Description = siteText(info.Name, info.Description,
		z.gen.catalog.MerchantTexts, rand)
	merchant.ImgISO = *rng.PickElement(z.gen.catalog.Settings.MerchantImages, rand)
	merchant.AiPriority = info.AiPriority

	items, err := z.createLoot(info.Items, true)
	if err != nil {
		return nil, err
	}
	for _, entry := range items {
		merchant.AddGood(entry.itemID, entry.amount)
	}

	if err = z.placeSite(merchant, pos, true); err != nil {
		return nil, err
	}
	return merchant, z.guardObject(merchant.MapElement, info.Guard)
}

func (z *Zone) placeMageSite(pos scenario.Position, info template.MageInfo) (*scenario.Site, error) {
	rand := z.gen.rand

	mage := scenario.NewSite(z.gen.m.CreateID(scenario.TypeSite), scenario.SiteMage)
	mage.Title, mage.Description = siteText(info.Name, info.Description,
		z.gen.catalog.MageTexts, rand)
	mage.ImgISO = *rng.PickElement(z.gen.catalog.Settings.MageImages, rand)
	mage.AiPriority = info.AiPriority

	if info.Value.IsSet() {
		desiredValue := rand.PickValue(info.Value)
		currentValue := 0

		picked := make(map[string]bool)

		noDuplicates := func(spell *game.SpellInfo) bool {
			return picked[spell.SpellID]
		}
		noWrongType := func(spell *game.SpellInfo) bool {
			if len(info.SpellTypes) == 0 {
				return false
			}
			return !info.SpellTypes[spell.Type]
		}
		noWrongLevel := func(spell *game.SpellInfo) bool {
			if !info.SpellLevels.IsSet() {
				return false
			}
			return spell.Level < info.SpellLevels.Min || spell.Level > info.SpellLevels.Max
		}
		noForbidden := func(spell *game.SpellInfo) bool {
			return z.gen.tmpl.Settings.ForbiddenSpells[spell.SpellID]
		}

		for currentValue <= desiredValue {
			remainingValue := desiredValue - currentValue

			noWrongValue := func(spell *game.SpellInfo) bool {
				return spell.Value > remainingValue
			}

			spell := z.gen.catalog.PickSpell(rand, []game.SpellFilter{
				noWrongType, noWrongLevel, noWrongValue, noForbidden, noDuplicates,
			})
			if spell == nil {
				break
			}

			currentValue += spell.Value
			mage.Spells = append(mage.Spells, spell.SpellID)
			picked[spell.SpellID] = true
		}
	}

	mage.Spells = append(mage.Spells, info.RequiredSpells...)

	if err := z.placeSite(mage, pos, true); err != nil {
		return nil, err
	}
	return mage, z.guardObject(mage.MapElement, info.Guard)
}

func (z *Zone) placeMercenarySite(pos scenario.Position, info template.MercenaryInfo) (*scenario.Site, error) {
	rand := z.gen.rand

	mercenary := scenario.NewSite(z.gen.m.CreateID(scenario.TypeSite), scenario.SiteMercenary)
	mercenary.Title, mercenary.Description = siteText(info.Name, info.Description,
		z.gen.catalog.MercenaryTexts, rand)
	mercenary.ImgISO = *rng.PickElement(z.gen.catalog.Settings.MercenaryImages, rand)
	mercenary.AiPriority = info.AiPriority

	if info.Value.IsSet() {
		desiredValue := rand.PickValue(info.Value)
		currentValue := 0

		noWrongType := func(unit *game.UnitInfo) bool {
			if len(info.SubraceTypes) == 0 {
				return false
			}
			return !info.SubraceTypes[unit.Subrace]
		}

		for currentValue <= desiredValue {
			remainingValue := desiredValue - currentValue

			noWrongValue := func(unit *game.UnitInfo) bool {
				if info.EnrollValue.IsSet() &&
					(unit.EnrollCost < info.EnrollValue.Min || unit.EnrollCost > info.EnrollValue.Max) {
					return true
				}
				return unit.EnrollCost > remainingValue
			}

			unit := z.gen.catalog.PickUnit(rand, []game.UnitFilter{
				noWrongType, noWrongValue, z.noForbiddenUnit,
			})
			if unit == nil {
				break
			}

			currentValue += unit.EnrollCost
			mercenary.Hires = append(mercenary.Hires, scenario.HireEntry{
				UnitID: unit.UnitID,
				Level:  unit.Level,
				Unique: true,
			})
		}
	}

	for _, unit := range info.RequiredUnits {
		mercenary.Hires = append(mercenary.Hires, scenario.HireEntry{
			UnitID: unit.UnitID,
			Level:  unit.Level,
			Unique: unit.Unique,
		})
	}

	if err := z.placeSite(mercenary, pos, true); err != nil {
		return nil, err
	}
	return mercenary, z.guardObject(mercenary.MapElement, info.Guard)
}

func (z *Zone) placeTrainerSite(pos scenario.Position, info template.TrainerInfo) (*scenario.Site, error) {
	rand := z.gen.rand

	trainer := scenario.NewSite(z.gen.m.CreateID(scenario.TypeSite), scenario.SiteTrainer)
	trainer.Title, trainer.Description = siteText(info.Name, info.Description,
		z.gen.catalog.TrainerTexts, rand)
	trainer.ImgISO = *rng.PickElement(z.gen.catalog.Settings.TrainerImages, rand)
	trainer.AiPriority = info.AiPriority

	if err := z.placeSite(trainer, pos, true); err != nil {
		return nil, err
	}
	return trainer, z.guardObject(trainer.MapElement, info.Guard)
}

func (z *Zone) placeMarketSite(pos scenario.Position, info template.ResourceMarketInfo) (*scenario.Site, error) {
	rand := z.gen.rand

	market := scenario.NewSite(z.gen.m.CreateID(scenario.TypeSite), scenario.SiteMarket)
	market.Title, market.Description = siteText(info.Name, info.Description,
		z.gen.catalog.MarketTexts, rand)
	market.ImgISO = *rng.PickElement(z.gen.catalog.Settings.MarketImages, rand)
	market.AiPriority = info.AiPriority
	market.ExchangeRates = info.ExchangeRates

	stock := scenario.Currency{}
	for _, resource := range []scenario.ResourceType{
		scenario.ResourceGold, scenario.ResourceLifeMana, scenario.ResourceDeathMana,
		scenario.ResourceInfernalMana, scenario.ResourceRunicMana, scenario.ResourceGroveMana,
	} {
		entry, ok := info.Stock[resource]
		if !ok {
			continue
		}

		if entry.Infinite {
			if market.InfiniteStock == nil {
				market.InfiniteStock = make(map[scenario.ResourceType]bool)
			}
			market.InfiniteStock[resource] = true
		} else {
			stock.Set(resource, rand.PickValue(entry.Amount))
		}
	}
	if len(stock) > 0 {
		market.Stock = stock
	}

	if err := z.placeSite(market, pos, true); err != nil {
		return nil, err
	}
	return market, z.guardObject(market.MapElement, info.Guard)
}

// placeRuinSite creates a ruin with its fixed six-slot guard group,
// gold and single loot item.
func (z *Zone) placeRuinSite(pos scenario.Position, info template.RuinInfo) (*scenario.Ruin, error) {
	rand := z.gen.rand

	ruin := scenario.NewRuin(z.gen.m.CreateID(scenario.TypeRuin))

	text := rng.PickElement(z.gen.catalog.RuinTexts, rand)
	if info.Name == "" && text != nil {
		ruin.Title = text.Name
	} else {
		ruin.Title = info.Name
	}
	ruin.Image = *rng.PickElement(z.gen.catalog.Settings.RuinImages, rand)
	ruin.AiPriority = info.AiPriority

	if info.Guard.Value.IsSet() {
		unusedValue := 0
		positions := allSlots()
		var units groupUnits

		value := rand.PickValue(info.Guard.Value)
		values := rng.ConstrainedSum(scenario.GroupSize, value, rand)

		z.createGroup(&unusedValue, positions, &units, values, info.Guard.SubraceTypes)
		z.tightenGroup(&unusedValue, positions, &units, info.Guard.SubraceTypes)
		if err := z.createGroupUnits(&ruin.Guard, units); err != nil {
			return nil, err
		}
	}

	if info.Gold.IsSet() {
		cash := scenario.Currency{}
		cash.Set(scenario.ResourceGold, rand.PickValue(info.Gold))
		ruin.Cash = cash
	}

	lootItem, err := z.createRuinLoot(info.Loot)
	if err != nil {
		return nil, err
	}
	if lootItem != "" {
		ruin.ItemID = z.createItem(lootItem)
	}

	return ruin, z.placeRuinObject(ruin, pos, true)
}

// placeZoneGuard puts a connection guard stack on a gate tile. A guard
// spec without value means no guard.
func (z *Zone) placeZoneGuard(pos scenario.Position, guardInfo template.GroupInfo) (*scenario.Stack, error) {
	if !guardInfo.Value.IsSet() {
		return nil, nil
	}

	stack, err := z.createStack(guardInfo)
	if err != nil || stack == nil {
		return nil, err
	}

	ownerID, subraceID := z.gen.ownerIDs(guardInfo.Owner)
	stack.OwnerID = ownerID
	stack.SubraceID = subraceID

	z.applyLeaderExtras(stack, guardInfo.Name, guardInfo.LeaderModifiers)
	stack.AiPriority = guardInfo.AiPriority
	stack.Order = guardInfo.Order

	return stack, z.placeStack(stack, pos, true)
}

// placeBagAt creates a bag with a ground-appropriate image.
func (z *Zone) placeBagAt(pos scenario.Position) (*scenario.Bag, error) {
	bag := scenario.NewBag(z.gen.m.CreateID(scenario.TypeBag))

	images := z.gen.catalog.Settings.BagImages
	if water := z.gen.catalog.Settings.BagWaterImages; len(water) > 0 && z.gen.m.GetTile(pos).IsWater() {
		images = water
	}
	bag.Image = *rng.PickElement(images, z.gen.rand)

	return bag, z.placeBagObject(bag, pos, true)
}
