package generator

import (
	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// decoration paints the surroundings of a placed object with landmarks
// and forest patches. Each object kind configures a strategy record
// instead of subclassing: the area around the object, the landmark
// filters, the terrain both paints use, and whether forests go first
// (crystals do, so landmarks stop hogging the top tile).
type decoration struct {
	zone *Zone

	area                func() *posSet
	landmarkFilters     func() []game.LandmarkFilter
	landmarksTerrain    func() scenario.TerrainType
	forestsTerrain      func() scenario.TerrainType
	minLandmarkDistance func(info *game.LandmarkInfo) int
	forestsFirst        bool

	landmarks rng.RandomValue
	forests   rng.RandomValue
}

func neutralTerrain() scenario.TerrainType {
	return scenario.TerrainNeutral
}

// mapElementArea collects the possible tiles in a gap-sized band around
// the element, excluding the footprint and the entrance neighborhood.
func (z *Zone) mapElementArea(element scenario.MapElement, gapX, gapY int) *posSet {
	start := element.GetPosition()
	end := start.Add(element.GetSize())
	entrance := element.Entrance()

	blocked := newPosSet()
	for _, tile := range element.BlockedPositions() {
		blocked.Add(tile)
	}
	blocked.Add(entrance)
	for _, offset := range element.EntranceOffsets() {
		blocked.Add(entrance.Add(offset))
	}

	area := newPosSet()
	for x := start.X - gapX; x < end.X+gapX; x++ {
		for y := start.Y - gapY; y < end.Y+gapY; y++ {
			tile := scenario.Position{X: x, Y: y}
			if blocked.Has(tile) {
				continue
			}
			if !z.gen.m.IsInTheMap(tile) || !z.gen.IsPossible(tile) {
				continue
			}
			area.Add(tile)
		}
	}

	return area
}

func (d *decoration) decorate() error {
	area := d.area()
	if area.Empty() {
		return nil
	}

	first, second := d.placeLandmarks, d.placeForests
	if d.forestsFirst {
		first, second = d.placeForests, d.placeLandmarks
	}

	if err := first(area); err != nil {
		return err
	}
	if area.Empty() {
		return nil
	}
	return second(area)
}

func (d *decoration) placeLandmarks(area *posSet) error {
	z := d.zone
	rand := z.gen.rand

	total := rand.PickValue(d.landmarks)
	filters := d.landmarkFilters()

	for i := 0; i < total; i++ {
		info := z.gen.catalog.PickLandmark(rand, filters)
		if info == nil {
			break
		}

		element := scenario.NewMapElement(info.Size)
		pos, ok := z.findPlaceInArea(area.Sorted(), element, d.minLandmarkDistance(info), false)
		if !ok {
			continue
		}

		landmark := scenario.NewLandmark(z.gen.m.CreateID(scenario.TypeLandmark), info.Size)
		landmark.LandmarkID = info.LandmarkID

		if err := z.placeLandmark(landmark, pos, true); err != nil {
			return err
		}

		terrain := d.landmarksTerrain()
		tiles := landmark.BlockedPositions()
		tiles = append(tiles, landmark.Entrance())
		for _, tile := range tiles {
			z.gen.m.PaintTerrain(tile, terrain, scenario.GroundPlain)
			area.Remove(tile)
		}
	}

	return nil
}

func (d *decoration) placeForests(area *posSet) error {
	z := d.zone
	rand := z.gen.rand

	total := rand.PickValue(d.forests)

	tiles := area.Sorted()
	rng.Shuffle(tiles, rand)

	terrain := d.forestsTerrain()

	for i := 0; i < total && i < len(tiles); i++ {
		tile := tiles[i]

		mapTile := z.gen.m.GetTile(tile)
		mapTile.SetTerrainGround(terrain, scenario.GroundForest)
		mapTile.TreeImage = z.randomTreeImage()

		z.gen.SetOccupied(tile, tileUsed)
		area.Remove(tile)
	}

	return nil
}

// capitalDecoration spreads the owner's terrain: landmarks of the
// owner race, both paints race colored.
func (z *Zone) capitalDecoration(capital *scenario.Fortification) *decoration {
	race := z.ownerRace
	terrain := func() scenario.TerrainType { return scenario.RaceTerrain(race) }

	return &decoration{
		zone: z,
		area: func() *posSet { return z.mapElementArea(*capital.Element(), 3, 3) },
		landmarkFilters: func() []game.LandmarkFilter {
			return []game.LandmarkFilter{
				// Smaller than the capital
				func(info *game.LandmarkInfo) bool { return info.Size.X >= capital.GetSize().X },
				// Terrain-spreading landmarks only
				func(info *game.LandmarkInfo) bool { return info.Mountain },
			}
		},
		landmarksTerrain:    terrain,
		forestsTerrain:      terrain,
		minLandmarkDistance: func(info *game.LandmarkInfo) int { return info.Size.X * 2 },
		landmarks:           rng.RandomValue{Min: 1, Max: 3},
		forests:             rng.RandomValue{Min: 4, Max: 10},
	}
}

func (z *Zone) villageDecoration(village *scenario.Fortification) *decoration {
	return &decoration{
		zone: z,
		area: func() *posSet { return z.mapElementArea(*village.Element(), 4, 4) },
		landmarkFilters: func() []game.LandmarkFilter {
			return []game.LandmarkFilter{
				func(info *game.LandmarkInfo) bool { return info.Size.X > village.GetSize().X },
				func(info *game.LandmarkInfo) bool { return info.Mountain },
				// Cemeteries and skeletons look wrong around big cities
				func(info *game.LandmarkInfo) bool {
					return info.Kind == scenario.LandmarkMisc && village.Tier >= 3
				},
			}
		},
		landmarksTerrain:    neutralTerrain,
		forestsTerrain:      neutralTerrain,
		minLandmarkDistance: func(info *game.LandmarkInfo) int { return info.Size.X * 3 },
		landmarks:           rng.RandomValue{Min: 1, Max: 3},
		forests:             rng.RandomValue{Min: 3, Max: 8},
	}
}

func (z *Zone) siteDecoration(site *scenario.Site) *decoration {
	return &decoration{
		zone: z,
		area: func() *posSet { return z.mapElementArea(*site.Element(), 3, 3) },
		landmarkFilters: func() []game.LandmarkFilter {
			return []game.LandmarkFilter{
				func(info *game.LandmarkInfo) bool { return info.Size.X > site.GetSize().X },
			}
		},
		landmarksTerrain:    neutralTerrain,
		forestsTerrain:      neutralTerrain,
		minLandmarkDistance: func(info *game.LandmarkInfo) int { return info.Size.X * 3 },
		landmarks:           rng.RandomValue{Min: 0, Max: 2},
		forests:             rng.RandomValue{Min: 2, Max: 6},
	}
}

func (z *Zone) ruinDecoration(ruin *scenario.Ruin) *decoration {
	return &decoration{
		zone: z,
		area: func() *posSet { return z.mapElementArea(*ruin.Element(), 4, 4) },
		landmarkFilters: func() []game.LandmarkFilter {
			return []game.LandmarkFilter{
				func(info *game.LandmarkInfo) bool { return info.Size.X > ruin.GetSize().X },
			}
		},
		landmarksTerrain:    neutralTerrain,
		forestsTerrain:      neutralTerrain,
		minLandmarkDistance: func(info *game.LandmarkInfo) int { return info.Size.X * 3 },
		landmarks:           rng.RandomValue{Min: 0, Max: 2},
		forests:             rng.RandomValue{Min: 2, Max: 6},
	}
}

func (z *Zone) crystalDecoration(crystal *scenario.Crystal) *decoration {
	return &decoration{
		zone: z,
		area: func() *posSet { return z.mapElementArea(*crystal.Element(), 1, 1) },
		landmarkFilters: func() []game.LandmarkFilter {
			return []game.LandmarkFilter{
				func(info *game.LandmarkInfo) bool { return info.Size.X > crystal.GetSize().X },
				func(info *game.LandmarkInfo) bool { return info.Mountain },
			}
		},
		landmarksTerrain:    neutralTerrain,
		forestsTerrain:      neutralTerrain,
		minLandmarkDistance: func(info *game.LandmarkInfo) int { return info.Size.X * 2 },
		// Forests first so landmarks stop claiming the top tile
		forestsFirst: true,
		landmarks:    rng.RandomValue{Min: 0, Max: 1},
		forests:      rng.RandomValue{Min: 1, Max: 3},
	}
}

// capturedCrystalDecoration paints the owner's terrain around the close
// crystals next to a capital.
func (z *Zone) capturedCrystalDecoration(crystal *scenario.Crystal, terrain scenario.TerrainType) *decoration {
	dec := z.crystalDecoration(crystal)
	dec.landmarksTerrain = func() scenario.TerrainType { return terrain }
	dec.forestsTerrain = func() scenario.TerrainType { return terrain }
	return dec
}
