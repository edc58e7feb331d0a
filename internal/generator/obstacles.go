package generator

import (
	"sort"

	"github.com/KirkDiggler/scenario-gen/internal/game"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/rng"
	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// createObstacles runs after filling: decorations paint their areas
// first, then every blocked tile gets the biggest mountain that fits,
// and the forest percentage converts leftover possible tiles into
// forests or frees them for roads.
func (z *Zone) createObstacles() error {
	for _, dec := range z.decorations {
		if err := dec.decorate(); err != nil {
			return err
		}
	}
	z.decorations = nil

	if err := z.placeMountains(); err != nil {
		return err
	}

	z.placeZoneForests()
	return nil
}

// mountainSizes groups the catalog mountain table by size, biggest
// first, so placement tries the largest footprint that fits.
func (z *Zone) mountainSizes() []mountainGroup {
	bySize := make(map[int][]game.Mountain)
	for _, mountain := range z.gen.catalog.Settings.Mountains {
		bySize[mountain.Size] = append(bySize[mountain.Size], mountain)
	}

	groups := make([]mountainGroup, 0, len(bySize))
	for size, mountains := range bySize {
		groups = append(groups, mountainGroup{size: size, mountains: mountains})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].size > groups[j].size
	})
	return groups
}

type mountainGroup struct {
	size      int
	mountains []game.Mountain
}

func (z *Zone) placeMountains() error {
	groups := z.mountainSizes()

	for _, tile := range z.tileInfo.Sorted() {
		if !z.gen.ShouldBeBlocked(tile) {
			continue
		}

		for i := range groups {
			placed, err := z.tryPlaceMountainHere(tile, groups[i])
			if err != nil {
				return err
			}
			if placed {
				break
			}
		}
	}

	return nil
}

func (z *Zone) tryPlaceMountainHere(tile scenario.Position, group mountainGroup) (bool, error) {
	rand := z.gen.rand

	mountain := rng.PickElement(group.mountains, rand)
	element := scenario.NewMapElement(scenario.Position{X: mountain.Size, Y: mountain.Size})

	if !z.canObstacleBePlacedHere(element, tile) {
		return false, nil
	}

	// Sizes 3 and 5 occasionally become a mountain landmark instead
	if (mountain.Size == 3 || mountain.Size == 5) && rand.Chance(10) {
		info := z.gen.catalog.PickMountainLandmark(rand, []game.LandmarkFilter{
			func(info *game.LandmarkInfo) bool {
				return info.Size.X != mountain.Size || info.Size.Y != mountain.Size
			},
		})

		if info != nil {
			landmark := scenario.NewLandmark(z.gen.m.CreateID(scenario.TypeLandmark), info.Size)
			landmark.LandmarkID = info.LandmarkID
			return true, z.placeLandmark(landmark, tile, true)
		}
	}

	return true, z.placeMountain(tile, element.GetSize(), mountain.Image)
}

// placeZoneForests resolves the remaining possible tiles: road tiles
// are always freed, a zero forest setting frees everything, otherwise
// each tile rolls the forest percentage.
func (z *Zone) placeZoneForests() {
	forests := z.gen.tmpl.Settings.Forest

	if forests == 0 {
		for _, tile := range z.tileInfo.Sorted() {
			if z.gen.IsPossible(tile) {
				z.gen.SetOccupied(tile, tileFree)
			}
		}
		return
	}

	rand := z.gen.rand

	for _, tile := range z.tileInfo.Sorted() {
		if !z.gen.IsPossible(tile) {
			continue
		}

		if z.gen.IsRoad(tile) {
			z.gen.SetOccupied(tile, tileFree)
			continue
		}

		shouldPlace := forests == 100 || rand.Chance(forests)
		if !shouldPlace {
			z.gen.SetOccupied(tile, tileFree)
			continue
		}

		z.gen.SetOccupied(tile, tileUsed)

		mapTile := z.gen.m.GetTile(tile)
		mapTile.SetTerrainGround(scenario.TerrainNeutral, scenario.GroundForest)
		mapTile.TreeImage = z.randomTreeImage()
	}
}

func (z *Zone) randomTreeImage() uint8 {
	trees := z.gen.catalog.Settings.TreeImages
	if trees <= 0 {
		return 0
	}
	return uint8(z.gen.rand.Int(0, trees-1))
}
