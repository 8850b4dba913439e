package engine

import "sort"

// PlacedTile is a tile fixed on the board. It never changes after placement.
type PlacedTile struct {
	Tile     *Tile      `json:"-"`
	Rotation Rotation   `json:"rotation"`
	At       Coordinate `json:"at"`
	Index    int        `json:"index"` // placement order, 0 for the start tile
	Player   PlayerID   `json:"player,omitempty"`
}

// EdgeAt returns the kind facing world direction dir
func (p *PlacedTile) EdgeAt(dir Edge) FeatureKind {
	return p.Tile.EdgeAt(p.Rotation, dir)
}

// Neighbor is one of the four orthogonal cells around a coordinate. Tile is
// nil when the cell is empty.
type Neighbor struct {
	Edge Edge
	At   Coordinate
	Tile *PlacedTile
}

// Grid is the sparse board
type Grid struct {
	cells map[Coordinate]*PlacedTile
	order []*PlacedTile
}

// NewGrid creates an empty board
func NewGrid() *Grid {
	return &Grid{
		cells: make(map[Coordinate]*PlacedTile),
	}
}

// Get returns the tile at c
func (g *Grid) Get(c Coordinate) (*PlacedTile, bool) {
	p, ok := g.cells[c]
	return p, ok
}

// Occupied reports whether a tile sits at c
func (g *Grid) Occupied(c Coordinate) bool {
	_, ok := g.cells[c]
	return ok
}

// Put stores a placed tile. Callers must validate first; putting onto an
// occupied cell is an invariant violation.
func (g *Grid) Put(p *PlacedTile) {
	if p == nil || p.Tile == nil {
		invariant("grid.put", "nil tile")
	}
	if existing, ok := g.cells[p.At]; ok {
		invariant("grid.put", "cell %s already holds %s", p.At, existing.Tile.ID())
	}
	g.cells[p.At] = p
	g.order = append(g.order, p)
}

// NeighborsOf returns the four orthogonal neighbours of c, North first
func (g *Grid) NeighborsOf(c Coordinate) [4]Neighbor {
	var out [4]Neighbor
	for _, e := range Edges {
		at := c.Step(e)
		out[e] = Neighbor{Edge: e, At: at, Tile: g.cells[at]}
	}
	return out
}

// OccupiedAround counts the occupied cells among the 8 surrounding c
func (g *Grid) OccupiedAround(c Coordinate) int {
	count := 0
	for _, at := range c.Ring() {
		if g.Occupied(at) {
			count++
		}
	}
	return count
}

// Len returns the number of placed tiles
func (g *Grid) Len() int {
	return len(g.order)
}

// Tiles returns the placed tiles in placement order
func (g *Grid) Tiles() []*PlacedTile {
	out := make([]*PlacedTile, len(g.order))
	copy(out, g.order)
	return out
}

// Bounds returns the smallest rectangle holding every tile
func (g *Grid) Bounds() (min, max Coordinate, ok bool) {
	if len(g.order) == 0 {
		return Coordinate{}, Coordinate{}, false
	}
	min, max = g.order[0].At, g.order[0].At
	for _, p := range g.order[1:] {
		if p.At.X < min.X {
			min.X = p.At.X
		}
		if p.At.Y < min.Y {
			min.Y = p.At.Y
		}
		if p.At.X > max.X {
			max.X = p.At.X
		}
		if p.At.Y > max.Y {
			max.Y = p.At.Y
		}
	}
	return min, max, true
}

// Frontier returns every empty cell orthogonally adjacent to the layout,
// ordered top row first and then left to right
func (g *Grid) Frontier() []Coordinate {
	seen := make(map[Coordinate]bool)
	var out []Coordinate
	for _, p := range g.order {
		for _, e := range Edges {
			at := p.At.Step(e)
			if seen[at] || g.Occupied(at) {
				continue
			}
			seen[at] = true
			out = append(out, at)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y > out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
