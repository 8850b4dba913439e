package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidTile is wrapped by every tile construction failure
var ErrInvalidTile = errors.New("invalid tile")

// Segment is a run of same-kind edges that the tile connects internally.
// Every Road or City edge belongs to exactly one segment; an edge that is not
// listed in any connection forms a segment on its own.
type Segment struct {
	Kind   FeatureKind `json:"kind"`
	Edges  []Edge      `json:"edges"`
	Shield bool        `json:"shield,omitempty"`
}

// Tile is an immutable tile template: four edge kinds in the unrotated
// orientation, an optional monastery center, an optional city shield and the
// internal connectivity of its edges.
type Tile struct {
	id          string
	edges       [4]FeatureKind
	center      FeatureKind
	shield      bool
	connections [][]Edge
	segments    []Segment
}

// TileOption configures NewTile
type TileOption func(*Tile)

// WithMonastery puts a monastery in the tile center
func WithMonastery() TileOption {
	return func(t *Tile) {
		t.center = Monastery
	}
}

// WithShield marks the tile's first city segment as shielded
func WithShield() TileOption {
	return func(t *Tile) {
		t.shield = true
	}
}

// WithConnections declares that the listed edges form one continuous feature
// across the tile
func WithConnections(edges ...Edge) TileOption {
	return func(t *Tile) {
		group := make([]Edge, len(edges))
		copy(group, edges)
		t.connections = append(t.connections, group)
	}
}

// NewTile builds and validates a tile template. Edges are given North, East,
// South, West.
func NewTile(id string, edges [4]FeatureKind, opts ...TileOption) (*Tile, error) {
	t := &Tile{
		id:     id,
		edges:  edges,
		center: Field,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidTile)
	}
	for _, e := range Edges {
		switch t.edges[e] {
		case Field, Road, City:
		default:
			return nil, fmt.Errorf("%w: %s: %s edge cannot be %s", ErrInvalidTile, t.id, e, t.edges[e])
		}
	}
	if t.center != Field && t.center != Monastery {
		return nil, fmt.Errorf("%w: %s: center must be a monastery or empty", ErrInvalidTile, t.id)
	}

	grouped := map[Edge]bool{}
	for i, group := range t.connections {
		if len(group) < 2 {
			return nil, fmt.Errorf("%w: %s: connection %d needs at least two edges", ErrInvalidTile, t.id, i+1)
		}
		kind := Field
		for _, e := range group {
			if !e.Valid() {
				return nil, fmt.Errorf("%w: %s: connection %d has invalid edge %d", ErrInvalidTile, t.id, i+1, int(e))
			}
			if grouped[e] {
				return nil, fmt.Errorf("%w: %s: %s edge is connected twice", ErrInvalidTile, t.id, e)
			}
			grouped[e] = true
			if kind == Field {
				kind = t.edges[e]
			}
			if t.edges[e] != kind || kind == Field {
				return nil, fmt.Errorf("%w: %s: connection %d must join road or city edges of one kind", ErrInvalidTile, t.id, i+1)
			}
		}
	}

	t.segments = buildSegments(t)
	if t.shield {
		shielded := false
		for i := range t.segments {
			if t.segments[i].Kind == City {
				t.segments[i].Shield = true
				shielded = true
				break
			}
		}
		if !shielded {
			return nil, fmt.Errorf("%w: %s: shield requires a city edge", ErrInvalidTile, t.id)
		}
	}

	return t, nil
}

// MustTile is NewTile that panics on error. Intended for fixed catalogues and tests.
func MustTile(id string, edges [4]FeatureKind, opts ...TileOption) *Tile {
	t, err := NewTile(id, edges, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// buildSegments lists declared connections first, then every remaining road or
// city edge as its own segment
func buildSegments(t *Tile) []Segment {
	var segments []Segment
	used := map[Edge]bool{}
	for _, group := range t.connections {
		edges := make([]Edge, len(group))
		copy(edges, group)
		for _, e := range group {
			used[e] = true
		}
		segments = append(segments, Segment{Kind: t.edges[group[0]], Edges: edges})
	}
	for _, e := range Edges {
		kind := t.edges[e]
		if used[e] || (kind != Road && kind != City) {
			continue
		}
		segments = append(segments, Segment{Kind: kind, Edges: []Edge{e}})
	}
	return segments
}

// ID returns the template id
func (t *Tile) ID() string {
	return t.id
}

// Edge returns the kind of an edge in the unrotated orientation
func (t *Tile) Edge(e Edge) FeatureKind {
	return t.edges[e]
}

// EdgeAt returns the kind facing world direction dir when the tile is turned r
// quarter turns clockwise
func (t *Tile) EdgeAt(r Rotation, dir Edge) FeatureKind {
	return t.edges[(int(dir)-int(r)%4+4)%4]
}

// Rotated returns the four world-facing kinds for rotation r
func (t *Tile) Rotated(r Rotation) [4]FeatureKind {
	var out [4]FeatureKind
	for _, dir := range Edges {
		out[dir] = t.EdgeAt(r, dir)
	}
	return out
}

// Center returns Monastery or Field
func (t *Tile) Center() FeatureKind {
	return t.center
}

// HasMonastery reports whether the tile carries a monastery
func (t *Tile) HasMonastery() bool {
	return t.center == Monastery
}

// HasShield reports whether the tile carries a city shield
func (t *Tile) HasShield() bool {
	return t.shield
}

// Connections returns a copy of the declared connection groups
func (t *Tile) Connections() [][]Edge {
	out := make([][]Edge, len(t.connections))
	for i, g := range t.connections {
		out[i] = append([]Edge(nil), g...)
	}
	return out
}

// Segments returns a copy of the tile's road and city segments in the
// unrotated orientation
func (t *Tile) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	for i, s := range t.segments {
		out[i] = s
		out[i].Edges = append([]Edge(nil), s.Edges...)
	}
	return out
}

// String renders the tile as id[N E S W]
func (t *Tile) String() string {
	s := fmt.Sprintf("%s[%s %s %s %s]", t.id, t.edges[North], t.edges[East], t.edges[South], t.edges[West])
	if t.center == Monastery {
		s += "+monastery"
	}
	if t.shield {
		s += "+shield"
	}
	return s
}
