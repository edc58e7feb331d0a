package generator

import (
	"math"
	"sort"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// Default guard strength for required objects whose template does not
// say otherwise.
const defaultGuardStrength = 500

// addRequiredObject queues an object for distance-maximizing placement.
func (z *Zone) addRequiredObject(object placeable, dec *decoration, guardStrength int, objectSize scenario.Position) {
	z.requiredObjects = append(z.requiredObjects, objectPlacement{
		object:        object,
		decoration:    dec,
		objectSize:    objectSize,
		guardStrength: guardStrength,
	})
}

// addCloseObject queues an object that prefers proximity to the zone
// anchor (or its requested position).
func (z *Zone) addCloseObject(object placeable, dec *decoration, guardStrength int, objectSize scenario.Position) {
	z.closeObjects = append(z.closeObjects, objectPlacement{
		object:        object,
		decoration:    dec,
		objectSize:    objectSize,
		guardStrength: guardStrength,
	})
}

// findAndConnect repeats the probe-place loop shared by all site
// placers: search the zone, connect, and retry a fresh search after
// any failed probe. kind names the object for the error message.
func (z *Zone) findAndConnect(element *scenario.MapElement, minDistance int, kind string) (scenario.Position, error) {
	for {
		pos, ok := z.findPlaceForObject(*element, minDistance)
		if !ok {
			return scenario.InvalidPosition, errors.LackOfSpacef(
				"failed to place %s in zone %d due to lack of space", kind, z.ID)
		}

		if z.tryToPlaceObjectAndConnectToPath(element, pos) == placingSuccess {
			return pos, nil
		}
	}
}

// placeCities places the remaining declared cities; starting zones
// place all of them here, other zones placed their first city centrally
// during initTowns.
func (z *Zone) placeCities() error {
	first := 1
	if z.Type == template.ZonePlayerStart || z.Type == template.ZoneAiStart {
		first = 0
	}

	for i := first; i < len(z.NeutralCities); i++ {
		element := scenario.NewMapElement(scenario.Position{X: 4, Y: 4})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "city")
		if err != nil {
			return err
		}

		if _, err := z.placeCity(pos, z.NeutralCities[i]); err != nil {
			return err
		}
	}

	return nil
}

func (z *Zone) placeMerchants() error {
	for _, info := range z.Merchants {
		element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "merchant")
		if err != nil {
			return err
		}

		site, err := z.placeMerchantSite(pos, info)
		if err != nil {
			return err
		}
		z.decorations = append(z.decorations, z.siteDecoration(site))
	}
	return nil
}

func (z *Zone) placeMages() error {
	for _, info := range z.Mages {
		element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "mage")
		if err != nil {
			return err
		}

		site, err := z.placeMageSite(pos, info)
		if err != nil {
			return err
		}
		z.decorations = append(z.decorations, z.siteDecoration(site))
	}
	return nil
}

func (z *Zone) placeMercenaries() error {
	for _, info := range z.Mercenaries {
		element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "mercenary")
		if err != nil {
			return err
		}

		site, err := z.placeMercenarySite(pos, info)
		if err != nil {
			return err
		}
		z.decorations = append(z.decorations, z.siteDecoration(site))
	}
	return nil
}

func (z *Zone) placeTrainers() error {
	for _, info := range z.Trainers {
		element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "trainer")
		if err != nil {
			return err
		}

		site, err := z.placeTrainerSite(pos, info)
		if err != nil {
			return err
		}
		z.decorations = append(z.decorations, z.siteDecoration(site))
	}
	return nil
}

func (z *Zone) placeMarkets() error {
	for _, info := range z.Markets {
		element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "resource market")
		if err != nil {
			return err
		}

		site, err := z.placeMarketSite(pos, info)
		if err != nil {
			return err
		}
		z.decorations = append(z.decorations, z.siteDecoration(site))
	}
	return nil
}

func (z *Zone) placeRuins() error {
	for _, info := range z.Ruins {
		element := scenario.NewMapElement(scenario.Position{X: 3, Y: 3})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "ruin")
		if err != nil {
			return err
		}

		ruin, err := z.placeRuinSite(pos, info)
		if err != nil {
			return err
		}
		z.decorations = append(z.decorations, z.ruinDecoration(ruin))
	}
	return nil
}

// placeMines queues the zone's resource crystals. The first crystal of
// the owner's native mana and the first gold crystal hug the capital as
// close objects, unguarded in owned zones; everything else spreads out
// as required objects.
func (z *Zone) placeMines() error {
	zoneHasOwner := z.ownerID != ""

	nativeResource := scenario.NativeResource(scenario.RaceNeutral)
	crystalTerrain := scenario.TerrainNeutral

	if zoneHasOwner {
		nativeResource = scenario.NativeResource(z.ownerRace)
		crystalTerrain = scenario.RaceTerrain(z.ownerRace)
	}

	resources := make([]scenario.ResourceType, 0, len(z.Mines))
	for resource := range z.Mines {
		resources = append(resources, resource)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i] < resources[j] })

	for _, resource := range resources {
		for i := 0; i < z.Mines[resource]; i++ {
			crystal := scenario.NewCrystal(z.gen.m.CreateID(scenario.TypeCrystal), resource)

			// Crystals reserve a 3x3 probe so a rod always fits nearby
			crystalSize := scenario.Position{X: 3, Y: 3}

			if i == 0 && (resource == nativeResource || resource == scenario.ResourceGold) {
				guardStrength := defaultGuardStrength
				if zoneHasOwner {
					guardStrength = 0
				}
				z.addCloseObject(crystal, z.capturedCrystalDecoration(crystal, crystalTerrain),
					guardStrength, crystalSize)
			} else {
				z.addRequiredObject(crystal, z.crystalDecoration(crystal),
					defaultGuardStrength, crystalSize)
			}
		}
	}

	return nil
}

// createRequiredObjects places everything queued by placeMines and the
// template's required list. Required objects maximize the distance to
// the nearest placed object; close objects work through candidates
// sorted towards their target, restarting the sort whenever a sealed
// off probe shrinks the candidate set.
func (z *Zone) createRequiredObjects() error {
	for i := range z.requiredObjects {
		placement := &z.requiredObjects[i]
		element := placement.object.Element()

		probeElement := *element
		if placement.objectSize.IsValid() {
			probeElement = scenario.NewMapElement(placement.objectSize)
		}

		minDistance := probeElement.GetSize().X * 2

		pos, ok := z.findPlaceInArea(z.tileInfo.Sorted(), probeElement, minDistance, true)
		if !ok {
			return errors.LackOfSpacef("failed to fill zone %d due to lack of space", z.ID)
		}

		// A requested probe size centers the object inside the probed area
		if placement.objectSize.IsValid() {
			pos = pos.Add(placement.objectSize.Div(2))
		}

		if z.tryToPlaceObjectAndConnectToPath(element, pos) != placingSuccess {
			// Required placements have no fallback; sealed off tiles
			// only shrink the zone further
			return errors.LackOfSpacef("failed to fill zone %d due to lack of space", z.ID)
		}

		if err := z.commitPlacement(placement, pos); err != nil {
			return err
		}
	}

	for i := range z.closeObjects {
		placement := &z.closeObjects[i]
		if err := z.placeCloseObject(placement); err != nil {
			return err
		}
	}

	z.requiredObjects = nil
	z.closeObjects = nil
	return nil
}

func (z *Zone) commitPlacement(placement *objectPlacement, pos scenario.Position) error {
	if err := z.placeScenarioObject(placement.object, pos); err != nil {
		return err
	}

	if placement.guardStrength > 0 {
		guard := template.GroupInfo{
			Value: rng.RandomValue{Min: placement.guardStrength, Max: placement.guardStrength},
			Owner: scenario.RaceNeutral,
			Order: scenario.OrderNormal,
		}
		if err := z.guardObject(*placement.object.Element(), guard); err != nil {
			return err
		}
	}

	if placement.decoration != nil {
		z.decorations = append(z.decorations, placement.decoration)
	}
	return nil
}

// placeCloseObject walks candidates sorted by a two-term score: close
// to the target first, far from other objects second. Distances beyond
// radius 12 are penalized tenfold.
func (z *Zone) placeCloseObject(placement *objectPlacement) error {
	element := placement.object.Element()

	probeElement := *element
	if placement.objectSize.IsValid() {
		probeElement = scenario.NewMapElement(placement.objectSize)
	}
	blockedOffsets := probeElement.BlockedOffsets()

	target := z.pos
	if requested, ok := z.requestedPositions[placement.object]; ok {
		target = requested
	}

	for attempt := true; attempt; {
		attempt = false

		var tiles []scenario.Position
		for _, tile := range z.possibleTiles.Sorted() {
			if z.gen.m.IsAtTheBorder(tile) || z.gen.m.ElementAtTheBorder(probeElement, tile) {
				continue
			}
			if !z.isAccessibleFromSomewhere(probeElement, tile) {
				continue
			}
			tiles = append(tiles, tile)
		}

		if len(tiles) == 0 {
			return errors.LackOfSpacef("failed to fill zone %d due to lack of space", z.ID)
		}

		score := func(tile scenario.Position) float32 {
			targetDistance := float32(math.Inf(1))
			for _, offset := range blockedOffsets {
				blockedTile := target.Add(offset)
				distance := float32(blockedTile.Distance(tile))
				if distance < targetDistance {
					targetDistance = distance
				}
			}
			if targetDistance > 12 {
				targetDistance *= 10
			}

			nearest := float32(math.Sqrt(float64(z.gen.GetNearestObjectDistance(tile))))
			return targetDistance*0.5 - nearest
		}

		sort.SliceStable(tiles, func(i, j int) bool {
			return score(tiles[i]) < score(tiles[j])
		})

		for _, tile := range tiles {
			if !z.areAllTilesAvailable(tile, blockedOffsets) {
				continue
			}

			attempt = true

			pos := tile
			if placement.objectSize.IsValid() {
				pos = pos.Add(placement.objectSize.Div(2))
			}

			switch z.tryToPlaceObjectAndConnectToPath(element, pos) {
			case placingSuccess:
				return z.commitPlacement(placement, pos)

			case placingCannotFit:
				continue

			case placingSealedOff:
				// Candidates expired, resort and retry
			}
			break
		}
	}

	return errors.LackOfSpacef("failed to fill zone %d due to lack of space", z.ID)
}

// placeStacks reserves positions for every declared neutral stack, then
// generates the stacks group by group with positions shuffled so groups
// mix across the zone. Required loot items land in random stacks.
func (z *Zone) placeStacks() error {
	stacksTotal := 0
	for _, group := range z.Stacks.StackGroups {
		stacksTotal += group.Count
	}
	if stacksTotal == 0 {
		return nil
	}

	positions := make([]scenario.Position, stacksTotal)
	for i := 0; i < stacksTotal; i++ {
		element := scenario.NewMapElement(scenario.Position{X: 1, Y: 1})

		for {
			pos, ok := z.findPlaceForObject(element, 1)
			if !ok {
				return errors.LackOfSpacef("failed to place stacks in zone %d due to lack of space", z.ID)
			}

			if z.tryToPlaceObjectAndConnectToPath(&element, pos) == placingSuccess {
				positions[i] = pos
				// Update distances now so the next search sees this
				// claim; the stack itself is placed later
				z.updateDistances(pos)
				break
			}
		}
	}

	rng.Shuffle(positions, z.gen.rand)

	positionIndex := 0
	for _, stackGroup := range z.Stacks.StackGroups {
		if stackGroup.Count == 0 {
			continue
		}

		ownerID, subraceID := z.gen.ownerIDs(stackGroup.Owner)

		randomStacks := make([]*scenario.Stack, stackGroup.Count)
		// Group value splits evenly across the stacks
		randomStackInfo := template.GroupInfo{
			Value:        stackGroup.Stacks.Value.Div(stackGroup.Count),
			SubraceTypes: stackGroup.Stacks.SubraceTypes,
			LeaderIDs:    stackGroup.Stacks.LeaderIDs,
		}

		for stackIndex := 0; stackIndex < stackGroup.Count; stackIndex++ {
			stack, err := z.createStack(randomStackInfo)
			if err != nil {
				return err
			}
			if stack == nil {
				continue
			}

			stack.OwnerID = ownerID
			stack.SubraceID = subraceID

			z.applyLeaderExtras(stack, stackGroup.Name, stackGroup.LeaderModifiers)
			stack.AiPriority = stackGroup.AiPriority
			stack.Order = stackGroup.Order

			randomStacks[stackIndex] = stack
			if err := z.placeStack(stack, positions[positionIndex], true); err != nil {
				return err
			}
			positionIndex++
		}

		// Per-stack loot from the group's split value
		stackLoot := template.LootInfo{
			Value:     stackGroup.Stacks.Loot.Value.Div(stackGroup.Count),
			ItemTypes: stackGroup.Stacks.Loot.ItemTypes,
			ItemValue: stackGroup.Stacks.Loot.ItemValue,
		}

		items := make([][]string, stackGroup.Count)
		for i := 0; i < stackGroup.Count; i++ {
			loot, err := z.createLoot(stackLoot, false)
			if err != nil {
				return err
			}
			items[i] = lootItemIDs(loot)
		}

		requiredLoot, err := z.createLoot(template.LootInfo{
			RequiredItems: stackGroup.Stacks.Loot.RequiredItems,
		}, false)
		if err != nil {
			return err
		}

		// Required items spread across random stacks of the group
		for _, itemID := range lootItemIDs(requiredLoot) {
			index := z.gen.rand.Int(0, len(items)-1)
			items[index] = append(items[index], itemID)
		}

		for i, stack := range randomStacks {
			if stack == nil {
				continue
			}
			for _, itemID := range items[i] {
				stack.Items.Add(z.createItem(itemID))
			}
		}
	}

	return nil
}

// placeBags generates per-bag loot from the evenly split bag value,
// sprinkles required items into random bags, then places and fills the
// bags. Empty bags are the template author's problem.
func (z *Zone) placeBags() error {
	if z.Bags.Count == 0 {
		return nil
	}

	bagLoot := template.LootInfo{
		Value:     z.Bags.Loot.Value.Div(z.Bags.Count),
		ItemTypes: z.Bags.Loot.ItemTypes,
		ItemValue: z.Bags.Loot.ItemValue,
	}

	items := make([][]string, z.Bags.Count)
	for i := 0; i < z.Bags.Count; i++ {
		loot, err := z.createLoot(bagLoot, false)
		if err != nil {
			return err
		}
		items[i] = lootItemIDs(loot)
	}

	requiredLoot, err := z.createLoot(template.LootInfo{
		RequiredItems: z.Bags.Loot.RequiredItems,
	}, false)
	if err != nil {
		return err
	}

	for _, itemID := range lootItemIDs(requiredLoot) {
		index := z.gen.rand.Int(0, len(items)-1)
		items[index] = append(items[index], itemID)
	}

	var placedBags []*scenario.Bag
	for i := 0; i < z.Bags.Count; i++ {
		element := scenario.NewMapElement(scenario.Position{X: 1, Y: 1})

		pos, err := z.findAndConnect(&element, element.GetSize().X*2, "bags")
		if err != nil {
			return err
		}

		// No decorations near bags
		bag, err := z.placeBagAt(pos)
		if err != nil {
			return err
		}
		bag.AiPriority = z.Bags.AiPriority
		placedBags = append(placedBags, bag)
	}

	for i := 0; i < len(items) && i < len(placedBags); i++ {
		for _, itemID := range items[i] {
			placedBags[i].Add(z.createItem(itemID))
		}
	}

	return nil
}
