package engine

import (
	"fmt"
	"strings"
)

// Edge is one of the four borders of a square tile
type Edge int

const (
	North Edge = iota
	East
	South
	West
)

// Edges lists the four borders in clockwise order starting at North
var Edges = [4]Edge{North, East, South, West}

// String returns the lowercase name of the edge
func (e Edge) String() string {
	switch e {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Valid reports whether e is one of the four borders
func (e Edge) Valid() bool {
	return e >= North && e <= West
}

// Opposite returns the border facing e across a shared edge
func (e Edge) Opposite() Edge {
	return (e + 2) % 4
}

// Rotate returns the world direction a tile-local edge faces after r clockwise quarter turns
func (e Edge) Rotate(r Rotation) Edge {
	return Edge((int(e) + int(r)) % 4)
}

// ParseEdge parses "n", "north", "N" and friends
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return 0, fmt.Errorf("unknown edge %q", s)
}

// Side addresses a marker target on a tile: one of the four edges or the center
type Side int

// Center is the side used for monasteries
const Center Side = 4

// SideOf converts an edge to its side
func SideOf(e Edge) Side {
	return Side(e)
}

// Edge returns the edge for an edge side; ok is false for Center
func (s Side) Edge() (Edge, bool) {
	if s >= Side(North) && s <= Side(West) {
		return Edge(s), true
	}
	return 0, false
}

// String returns the lowercase name of the side
func (s Side) String() string {
	if s == Center {
		return "center"
	}
	return Edge(s).String()
}

// MarshalText implements encoding.TextMarshaler
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSide parses an edge name or "c"/"center"
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "center", "centre":
		return Center, nil
	}
	e, err := ParseEdge(s)
	if err != nil {
		return 0, fmt.Errorf("unknown side %q", s)
	}
	return SideOf(e), nil
}

// FeatureKind is the terrain carried by a tile edge or center
type FeatureKind int

const (
	Field FeatureKind = iota
	Road
	City
	Monastery
)

// String returns the lowercase name of the kind
func (k FeatureKind) String() string {
	switch k {
	case Field:
		return "field"
	case Road:
		return "road"
	case City:
		return "city"
	case Monastery:
		return "monastery"
	default:
		return "unknown"
	}
}

// Scorable reports whether features of this kind are tracked and scored.
// Fields are inert.
func (k FeatureKind) Scorable() bool {
	return k == Road || k == City || k == Monastery
}

// MarshalText implements encoding.TextMarshaler
func (k FeatureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *FeatureKind) UnmarshalText(b []byte) error {
	v, err := ParseFeatureKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseFeatureKind parses a kind name
func ParseFeatureKind(s string) (FeatureKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "field", "":
		return Field, nil
	case "road":
		return Road, nil
	case "city":
		return City, nil
	case "monastery":
		return Monastery, nil
	}
	return Field, fmt.Errorf("unknown feature kind %q", s)
}

// Rotation counts clockwise quarter turns, 0-3
type Rotation int

// Valid reports whether r is within 0-3
func (r Rotation) Valid() bool {
	return r >= 0 && r < 4
}

// Coordinate is a cell on the unbounded board. North is +Y, East is +X.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is where the first tile of every game goes
var Origin = Coordinate{}

// Step returns the adjacent cell across edge e
func (c Coordinate) Step(e Edge) Coordinate {
	switch e {
	case North:
		return Coordinate{c.X, c.Y + 1}
	case East:
		return Coordinate{c.X + 1, c.Y}
	case South:
		return Coordinate{c.X, c.Y - 1}
	case West:
		return Coordinate{c.X - 1, c.Y}
	}
	return c
}

// Ring returns the 8 cells surrounding c, clockwise from North
func (c Coordinate) Ring() [8]Coordinate {
	offsets := [8]struct{ dx, dy int }{
		{0, 1},   // North
		{1, 1},   // North-East
		{1, 0},   // East
		{1, -1},  // South-East
		{0, -1},  // South
		{-1, -1}, // South-West
		{-1, 0},  // West
		{-1, 1},  // North-West
	}

	var ring [8]Coordinate
	for i, o := range offsets {
		ring[i] = Coordinate{c.X + o.dx, c.Y + o.dy}
	}
	return ring
}

// String formats the coordinate as (x,y)
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// PlayerID identifies a player. The engine never interprets it.
type PlayerID string

// NoPlayer marks placements not made by any player, such as the start tile
const NoPlayer PlayerID = ""

// FeatureID names a feature by its current union-find root. Roots move when
// features merge; stale ids still resolve to the merged feature.
type FeatureID int

// Placement is a candidate position and rotation for a tile
type Placement struct {
	At       Coordinate `json:"at"`
	Rotation Rotation   `json:"rotation"`
}
