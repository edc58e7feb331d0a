package generator

import (
	"log/slog"

	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
	"github.com/KirkDiggler/scenario-gen/internal/template"
)

// lootEntry is one item type with its amount in a generated loot list.
type lootEntry struct {
	itemID string
	amount int
}

// createLoot instantiates required items first, then draws random items
// until the rolled value budget is spent or no candidate fits the
// remainder. Merchants never receive valuables as goods.
func (z *Zone) createLoot(loot template.LootInfo, forMerchant bool) ([]lootEntry, error) {
	var items []lootEntry

	for _, required := range loot.RequiredItems {
		if required.ItemID == "" {
			continue
		}

		amount := z.gen.rand.PickValue(required.Amount)
		if amount > 0 {
			items = append(items, lootEntry{itemID: required.ItemID, amount: amount})
		}
	}

	if loot.Value.IsSet() {
		desiredValue := z.gen.rand.PickValue(loot.Value)
		currentValue := 0

		noWrongType := func(info *game.ItemInfo) bool {
			if forMerchant && info.Type == scenario.ItemValuable {
				return true
			}
			if len(loot.ItemTypes) == 0 {
				return false
			}
			return !loot.ItemTypes[info.Type]
		}

		noForbidden := func(info *game.ItemInfo) bool {
			return z.gen.tmpl.Settings.ForbiddenItems[info.ItemID]
		}

		picked := 0
		for currentValue <= desiredValue {
			remainingValue := desiredValue - currentValue

			noWrongValue := func(info *game.ItemInfo) bool {
				if loot.ItemValue.IsSet() &&
					(info.Value < loot.ItemValue.Min || info.Value > loot.ItemValue.Max) {
					return true
				}
				return info.Value > remainingValue
			}

			item := z.gen.catalog.PickItem(z.gen.rand, []game.ItemFilter{
				noWrongType, noWrongValue, noForbidden,
			})
			if item == nil {
				break
			}

			picked++
			currentValue += item.Value
			items = append(items, lootEntry{itemID: item.ItemID, amount: 1})
		}

		if z.gen.debug {
			slog.Debug("loot generated",
				"desired", desiredValue, "created", currentValue, "items", picked)
		}
	}

	return items, nil
}

// createRuinLoot generates the single loot item of a ruin.
func (z *Zone) createRuinLoot(loot template.LootInfo) (string, error) {
	items, err := z.createLoot(loot, false)
	if err != nil || len(items) == 0 {
		return "", err
	}
	return items[0].itemID, nil
}

// lootItemIDs expands loot entries to one catalog id per item instance.
func lootItemIDs(entries []lootEntry) []string {
	var ids []string
	for _, entry := range entries {
		for i := 0; i < entry.amount; i++ {
			ids = append(ids, entry.itemID)
		}
	}
	return ids
}
