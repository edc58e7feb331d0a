package generator

import (
	"math"

	"github.com/KirkDiggler/scenario-gen/internal/scenario"
)

// layoutZones assigns every map tile to a zone. Zone centers spread on
// a ring around the map middle (a single zone takes the middle itself),
// with a small random jitter so maps differ between seeds. Each tile
// goes to the zone whose center is closest after weighting by the
// declared zone size, which grows bigger zones at their neighbors'
// expense.
func (g *Generator) layoutZones() {
	count := len(g.zoneOrder)

	for index, id := range g.zoneOrder {
		zone := g.zones[id]

		var center scenario.VPosition
		if count == 1 {
			center = scenario.VPosition{X: 0.5, Y: 0.5}
		} else {
			angle := 2 * math.Pi * float64(index) / float64(count)
			jitter := float32(g.rand.Int(-5, 5)) / 100

			center = scenario.VPosition{
				X: 0.5 + 0.3*float32(math.Cos(angle)) + jitter,
				Y: 0.5 + 0.3*float32(math.Sin(angle)) + jitter,
			}
		}

		zone.setCenter(center)
		zone.pos = zone.center.ToPosition(g.size)
		zone.pos = g.clampToMap(zone.pos)
	}

	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			tile := scenario.Position{X: x, Y: y}

			best := g.zoneOrder[0]
			bestDistance := float32(math.Inf(1))
			for _, id := range g.zoneOrder {
				zone := g.zones[id]
				weight := float32(zone.Size)
				if weight <= 0 {
					weight = 1
				}

				distance := float32(tile.DistanceSquared(zone.pos)) / weight
				if distance < bestDistance {
					bestDistance = distance
					best = id
				}
			}

			g.SetZoneID(tile, best)
			g.zones[best].tileInfo.Add(tile)
		}
	}
}

// clampElement keeps an element of the given size fully inside the map
// with a one tile margin off the border.
func (g *Generator) clampElement(pos, size scenario.Position) scenario.Position {
	pos = g.clampToMap(pos)
	if pos.X+size.X > g.size-1 {
		pos.X = g.size - 1 - size.X
	}
	if pos.Y+size.Y > g.size-1 {
		pos.Y = g.size - 1 - size.Y
	}
	return pos
}

func (g *Generator) clampToMap(pos scenario.Position) scenario.Position {
	if pos.X < 1 {
		pos.X = 1
	}
	if pos.Y < 1 {
		pos.Y = 1
	}
	if pos.X > g.size-2 {
		pos.X = g.size - 2
	}
	if pos.Y > g.size-2 {
		pos.Y = g.size - 2
	}
	return pos
}

// carveConnections opens one gate per template connection: the border
// tile pair between the two zones closest to the midpoint of their
// centers. Gate tiles become free entry points that fractalize links
// into each zone's path network. Guards are placed after filling.
func (g *Generator) carveConnections() error {
	for _, connection := range g.tmpl.Contents.Connections {
		from := g.zones[connection.From]
		to := g.zones[connection.To]

		middle := scenario.Position{
			X: (from.pos.X + to.pos.X) / 2,
			Y: (from.pos.Y + to.pos.Y) / 2,
		}

		gatePos := scenario.InvalidPosition
		otherPos := scenario.InvalidPosition
		best := float32(math.Inf(1))

		for _, tile := range from.tileInfo.Sorted() {
			if g.m.IsAtTheBorder(tile) {
				continue
			}

			g.ForeachDirectNeighbor(tile, func(neighbor scenario.Position) {
				if g.GetZoneID(neighbor) != to.ID {
					return
				}

				distance := float32(tile.DistanceSquared(middle))
				if distance < best {
					best = distance
					gatePos = tile
					otherPos = neighbor
				}
			})
		}

		if !gatePos.IsValid() {
			// Zones are not adjacent; the midpoint tile bridges them
			gatePos = middle
			otherPos = middle
		}

		g.openGate(from, gatePos)
		g.openGate(to, otherPos)

		g.connections = append(g.connections, gate{
			pos:   gatePos,
			from:  connection.From,
			to:    connection.To,
			guard: connection.Guard,
		})
	}

	return nil
}

func (g *Generator) openGate(zone *Zone, pos scenario.Position) {
	g.SetOccupied(pos, tileFree)
	zone.freePaths.Add(pos)
}
