package game

import (
	"encoding/json"
	"os"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// Catalog is the full set of game data the generator needs. It is
// immutable once loaded.
type Catalog struct {
	Units     []UnitInfo     `json:"units"`
	Items     []ItemInfo     `json:"items"`
	Spells    []SpellInfo    `json:"spells"`
	Landmarks []LandmarkInfo `json:"landmarks"`
	Races     []RaceInfo     `json:"races"`

	CityNames []string `json:"cityNames"`

	MerchantTexts  []SiteText `json:"merchantTexts"`
	MageTexts      []SiteText `json:"mageTexts"`
	MercenaryTexts []SiteText `json:"mercenaryTexts"`
	TrainerTexts   []SiteText `json:"trainerTexts"`
	MarketTexts    []SiteText `json:"marketTexts"`
	RuinTexts      []SiteText `json:"ruinTexts"`

	Settings Settings `json:"settings"`

	leaders  []UnitInfo
	soldiers []UnitInfo
	units    map[string]*UnitInfo
}

// Load reads a catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog %s", path)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog %s", path)
	}

	if err := catalog.Init(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

// Init builds the lookup indices and checks the catalog is usable.
// Constructed (non-loaded) catalogs must call it before use.
func (c *Catalog) Init() error {
	c.units = make(map[string]*UnitInfo, len(c.Units))
	c.leaders = nil
	c.soldiers = nil

	for i := range c.Units {
		unit := &c.Units[i]
		c.units[unit.UnitID] = unit
		if unit.Leader {
			c.leaders = append(c.leaders, *unit)
		} else {
			c.soldiers = append(c.soldiers, *unit)
		}
	}

	if len(c.leaders) == 0 {
		return errors.CatalogMissing("catalog has no leader units")
	}
	if len(c.soldiers) == 0 {
		return errors.CatalogMissing("catalog has no soldier units")
	}
	if len(c.CityNames) == 0 {
		return errors.CatalogMissing("catalog has no city names")
	}
	if len(c.Settings.Mountains) == 0 {
		return errors.CatalogMissing("catalog has no mountain size table")
	}

	imageSets := map[string][]int{
		"merchant":  c.Settings.MerchantImages,
		"mage":      c.Settings.MageImages,
		"mercenary": c.Settings.MercenaryImages,
		"trainer":   c.Settings.TrainerImages,
		"market":    c.Settings.MarketImages,
		"ruin":      c.Settings.RuinImages,
		"bag":       c.Settings.BagImages,
	}
	for _, kind := range []string{"merchant", "mage", "mercenary", "trainer", "market", "ruin", "bag"} {
		if len(imageSets[kind]) == 0 {
			return errors.CatalogMissingf("catalog has no %s images", kind)
		}
	}

	return nil
}

// FindUnit returns the unit with the given id.
func (c *Catalog) FindUnit(unitID string) (*UnitInfo, error) {
	unit, ok := c.units[unitID]
	if !ok {
		return nil, errors.CatalogMissingf("unit %q not found in catalog", unitID)
	}
	return unit, nil
}

// FindRace returns race data.
func (c *Catalog) FindRace(race scenario.RaceType) (*RaceInfo, error) {
	for i := range c.Races {
		if c.Races[i].Race == race {
			return &c.Races[i], nil
		}
	}
	return nil, errors.CatalogMissingf("race %q not found in catalog", race)
}

// Leaders returns all leader units.
func (c *Catalog) Leaders() []UnitInfo {
	return c.leaders
}

// Soldiers returns all non-leader units.
func (c *Catalog) Soldiers() []UnitInfo {
	return c.soldiers
}

// MinLeaderValue is the value of the cheapest leader.
func (c *Catalog) MinLeaderValue() int {
	return minValue(c.leaders)
}

// MinSoldierValue is the value of the cheapest soldier.
func (c *Catalog) MinSoldierValue() int {
	return minValue(c.soldiers)
}

func minValue(units []UnitInfo) int {
	lowest := 0
	for i := range units {
		if lowest == 0 || units[i].Value < lowest {
			lowest = units[i].Value
		}
	}
	return lowest
}
