package engine

import "sort"

// Every placed tile owns five side slots: its four edges then its center.
// Side id = tile index * sidesPerTile + slot.
const (
	sidesPerTile = 5
	centerSlot   = 4
)

// aggregate is the rolling summary kept on a union-find root
type aggregate struct {
	kind      FeatureKind
	tiles     int
	openSides int
	shields   int
	center    Coordinate // monastery tile

	// Tiles contributing two or more separate segments of this kind. Needed to
	// keep tiles a count of distinct coordinates when those segments meet.
	split map[int]struct{}

	claims []Claim
	closed bool
}

// featureGraph is a union-find over feature sides with path compression and
// union by size
type featureGraph struct {
	grid   *Grid
	parent []int
	size   []int
	kind   []FeatureKind // Field marks an unregistered slot
	agg    []aggregate   // meaningful on roots only

	monasteries map[Coordinate]int
}

func newFeatureGraph(grid *Grid) *featureGraph {
	return &featureGraph{
		grid:        grid,
		monasteries: make(map[Coordinate]int),
	}
}

func (fg *featureGraph) grow(n int) {
	for len(fg.parent) < n {
		id := len(fg.parent)
		fg.parent = append(fg.parent, id)
		fg.size = append(fg.size, 1)
		fg.kind = append(fg.kind, Field)
		fg.agg = append(fg.agg, aggregate{})
	}
}

// registered reports whether side id belongs to a tracked feature
func (fg *featureGraph) registered(id int) bool {
	return id >= 0 && id < len(fg.kind) && fg.kind[id] != Field
}

func (fg *featureGraph) find(x int) int {
	root := x
	for fg.parent[root] != root {
		root = fg.parent[root]
	}
	for fg.parent[x] != root {
		next := fg.parent[x]
		fg.parent[x] = root
		x = next
	}
	return root
}

// sideID returns the side holding world direction dir of a placed tile
func sideID(p *PlacedTile, dir Edge) int {
	return p.Index*sidesPerTile + int(dir)
}

func centerID(p *PlacedTile) int {
	return p.Index*sidesPerTile + centerSlot
}

// registerTile adds the sides of a freshly placed tile and merges them with
// matching neighbour sides. It returns the distinct roots holding the tile's
// sides afterwards, ascending.
func (fg *featureGraph) registerTile(p *PlacedTile) []int {
	base := p.Index * sidesPerTile
	if len(fg.parent) > base && fg.registeredTile(base) {
		invariant("features.register", "tile %d at %s registered twice", p.Index, p.At)
	}
	fg.grow(base + sidesPerTile)

	// Intra-tile unions: each segment's edges hang off its first edge
	segments := p.Tile.segments
	perKind := map[FeatureKind]int{}
	for _, seg := range segments {
		perKind[seg.Kind]++
	}
	for _, seg := range segments {
		seed := sideID(p, seg.Edges[0].Rotate(p.Rotation))
		for _, e := range seg.Edges {
			s := sideID(p, e.Rotate(p.Rotation))
			fg.kind[s] = seg.Kind
			if s != seed {
				fg.parent[s] = seed
				fg.size[seed]++
			}
		}

		a := aggregate{
			kind:      seg.Kind,
			tiles:     1,
			openSides: len(seg.Edges),
		}
		if seg.Shield {
			a.shields = 1
		}
		if perKind[seg.Kind] > 1 {
			a.split = map[int]struct{}{p.Index: {}}
		}
		fg.agg[seed] = a
	}

	if p.Tile.HasMonastery() {
		c := centerID(p)
		fg.kind[c] = Monastery
		fg.agg[c] = aggregate{kind: Monastery, tiles: 1, center: p.At}
		fg.monasteries[p.At] = c
	}

	// Inter-tile unions across every shared border
	for _, n := range fg.grid.NeighborsOf(p.At) {
		kind := p.EdgeAt(n.Edge)
		if n.Tile == nil || (kind != Road && kind != City) {
			continue
		}
		if theirs := n.Tile.EdgeAt(n.Edge.Opposite()); theirs != kind {
			invariant("features.register", "%s edge of %s is %s but neighbour has %s", n.Edge, p.At, kind, theirs)
		}
		fg.joinBorder(sideID(p, n.Edge), sideID(n.Tile, n.Edge.Opposite()))
	}

	return fg.rootsOf(p)
}

func (fg *featureGraph) registeredTile(base int) bool {
	for slot := 0; slot < sidesPerTile; slot++ {
		if fg.kind[base+slot] != Field {
			return true
		}
	}
	return false
}

// joinBorder merges two sides that face each other across a border. Both
// sides stop being open whether or not their classes were already joined.
func (fg *featureGraph) joinBorder(a, b int) int {
	ra, rb := fg.find(a), fg.find(b)
	if ra == rb {
		// The border closes a loop inside one feature
		fg.agg[ra].openSides -= 2
		fg.checkAggregate(ra)
		return ra
	}

	if fg.size[ra] < fg.size[rb] {
		ra, rb = rb, ra
	}
	fg.parent[rb] = ra
	fg.size[ra] += fg.size[rb]

	into, from := &fg.agg[ra], &fg.agg[rb]
	if into.kind != from.kind {
		invariant("features.union", "cannot merge %s with %s", into.kind, from.kind)
	}
	if into.closed || from.closed {
		invariant("features.union", "merge touches a closed feature")
	}

	into.tiles += from.tiles - mergeSplit(into, from)
	into.openSides += from.openSides - 2
	into.shields += from.shields
	into.claims = append(into.claims, from.claims...)
	*from = aggregate{}

	fg.checkAggregate(ra)
	return ra
}

// mergeSplit folds from.split into into.split and returns how many tiles the
// two classes had in common
func mergeSplit(into, from *aggregate) int {
	if len(from.split) == 0 {
		return 0
	}
	if len(into.split) < len(from.split) {
		into.split, from.split = from.split, into.split
	}
	if into.split == nil {
		into.split = make(map[int]struct{}, len(from.split))
	}
	shared := 0
	for t := range from.split {
		if _, ok := into.split[t]; ok {
			shared++
			continue
		}
		into.split[t] = struct{}{}
	}
	return shared
}

func (fg *featureGraph) checkAggregate(root int) {
	a := &fg.agg[root]
	if a.openSides < 0 || a.tiles < 1 || a.shields > a.tiles {
		invariant("features.aggregate", "root %d has tiles=%d open=%d shields=%d", root, a.tiles, a.openSides, a.shields)
	}
}

// rootsOf returns the distinct roots of a placed tile's registered sides
func (fg *featureGraph) rootsOf(p *PlacedTile) []int {
	base := p.Index * sidesPerTile
	seen := map[int]bool{}
	var roots []int
	for slot := 0; slot < sidesPerTile; slot++ {
		id := base + slot
		if !fg.registered(id) {
			continue
		}
		r := fg.find(id)
		if !seen[r] {
			seen[r] = true
			roots = append(roots, r)
		}
	}
	sort.Ints(roots)
	return roots
}

// monasteriesNear returns the roots of monasteries on c or around it
func (fg *featureGraph) monasteriesNear(c Coordinate) []int {
	var out []int
	if id, ok := fg.monasteries[c]; ok {
		out = append(out, id)
	}
	for _, at := range c.Ring() {
		if id, ok := fg.monasteries[at]; ok {
			out = append(out, id)
		}
	}
	return out
}

// openSides reports the open count of a root. Monasteries count the empty
// cells around them.
func (fg *featureGraph) openSides(root int) int {
	a := &fg.agg[root]
	if a.kind == Monastery {
		return 8 - fg.grid.OccupiedAround(a.center)
	}
	return a.openSides
}

// FeatureView is a read-only snapshot of a feature
type FeatureView struct {
	ID        FeatureID   `json:"id"`
	Kind      FeatureKind `json:"kind"`
	Tiles     int         `json:"tiles"`
	OpenSides int         `json:"open_sides"`
	Shields   int         `json:"shields,omitempty"`
	Closed    bool        `json:"closed"`
	Claims    []Claim     `json:"claims,omitempty"`
	Center    *Coordinate `json:"center,omitempty"` // monasteries only
}

func (fg *featureGraph) view(root int) FeatureView {
	a := &fg.agg[root]
	v := FeatureView{
		ID:        FeatureID(root),
		Kind:      a.kind,
		Tiles:     a.tiles,
		OpenSides: fg.openSides(root),
		Shields:   a.shields,
		Closed:    a.closed,
		Claims:    append([]Claim(nil), a.claims...),
	}
	if a.kind == Monastery {
		c := a.center
		v.Center = &c
	}
	return v
}

// roots returns every registered root, ascending
func (fg *featureGraph) roots() []int {
	var out []int
	for id := range fg.parent {
		if fg.registered(id) && fg.parent[id] == id {
			out = append(out, id)
		}
	}
	return out
}
