package engine

import (
	"fmt"
	"sort"
)

// Engine is the boundary the turn loop drives
type Engine interface {
	// Placement
	Place(t *Tile, r Rotation, at Coordinate, player PlayerID) (*PlaceResult, error)
	LegalPlacements(t *Tile) []Placement

	// Markers
	ClaimMarker(f FeatureID, player PlayerID) error
	ClaimSide(side Side, player PlayerID) (FeatureID, error)

	// End of game
	EndGame() ([]ScoreEvent, error)
	Over() bool

	// Read side
	Grid() *Grid
	Feature(f FeatureID) (FeatureView, error)
	FeatureAt(at Coordinate, side Side) (FeatureView, error)
	OpenFeatures() []FeatureView
	Claims() []Claim
	Placements() int
}

// PlaceResult describes an accepted placement
type PlaceResult struct {
	Accepted        bool         `json:"accepted"`
	Placed          *PlacedTile  `json:"placed,omitempty"`
	ScoreEvents     []ScoreEvent `json:"score_events,omitempty"`
	TouchedFeatures []FeatureID  `json:"touched_features,omitempty"`
}

// Game owns the board, the feature graph and the claims of one match. It is
// not safe for concurrent use.
type Game struct {
	grid     *Grid
	features *featureGraph

	// Claim window of the most recent placement
	last    *PlacedTile
	claimed bool

	over bool
}

// NewGame creates an empty game
func NewGame() *Game {
	grid := NewGrid()
	return &Game{
		grid:     grid,
		features: newFeatureGraph(grid),
	}
}

// Place validates and commits a tile, then scores every feature it closes.
// A rejected placement returns a result with Accepted false together with an
// error matching ErrIllegalPlacement, and leaves the game untouched.
func (g *Game) Place(t *Tile, r Rotation, at Coordinate, player PlayerID) (*PlaceResult, error) {
	if g.over {
		return &PlaceResult{}, ErrGameOver
	}
	if err := CheckPlacement(g.grid, t, r, at); err != nil {
		return &PlaceResult{}, err
	}

	p := &PlacedTile{
		Tile:     t,
		Rotation: r,
		At:       at,
		Index:    g.grid.Len(),
		Player:   player,
	}
	g.grid.Put(p)
	roots := g.features.registerTile(p)
	events := g.features.onPlacement(roots, at)

	g.last = p
	g.claimed = false

	touched := make([]FeatureID, len(roots))
	for i, root := range roots {
		touched[i] = FeatureID(root)
	}
	return &PlaceResult{
		Accepted:        true,
		Placed:          p,
		ScoreEvents:     events,
		TouchedFeatures: touched,
	}, nil
}

// ClaimMarker puts player's marker on feature f. Only features touched by the
// most recent placement are claimable, only by the player who placed it and
// only once per placement.
func (g *Game) ClaimMarker(f FeatureID, player PlayerID) error {
	if !g.features.registered(int(f)) {
		return fmt.Errorf("%w: %d", ErrUnknownFeature, f)
	}
	root := g.features.find(int(f))

	side, ok := g.sideOnLast(root)
	if !ok {
		if err := g.checkWindow(player); err != nil {
			return err
		}
		return fmt.Errorf("%w: feature %d is not on the tile at %s", ErrClaimWindowClosed, f, g.last.At)
	}
	_, err := g.claimSide(side, player)
	return err
}

// ClaimSide puts player's marker on the feature holding side of the tile just
// placed and returns that feature
func (g *Game) ClaimSide(side Side, player PlayerID) (FeatureID, error) {
	return g.claimSide(side, player)
}

func (g *Game) claimSide(side Side, player PlayerID) (FeatureID, error) {
	if err := g.checkWindow(player); err != nil {
		return 0, err
	}
	if side < Side(North) || side > Center {
		return 0, fmt.Errorf("%w: side %d", ErrNotClaimable, int(side))
	}

	id := g.last.Index*sidesPerTile + int(side)
	if !g.features.registered(id) {
		return 0, fmt.Errorf("%w: %s side of %s is a field", ErrNotClaimable, side, g.last.At)
	}
	root := g.features.find(id)
	err := g.features.claim(root, Claim{Player: player, At: g.last.At, Side: side})
	if err != nil {
		return 0, err
	}
	g.claimed = true
	return FeatureID(root), nil
}

func (g *Game) checkWindow(player PlayerID) error {
	if g.over {
		return ErrGameOver
	}
	if g.last == nil {
		return ErrClaimWindowClosed
	}
	if player != g.last.Player {
		return fmt.Errorf("%w: tile at %s was placed by %q", ErrWrongPlayer, g.last.At, g.last.Player)
	}
	if g.claimed {
		return ErrMarkerAlreadyPlaced
	}
	return nil
}

// sideOnLast finds the first side of the last placed tile in class root
func (g *Game) sideOnLast(root int) (Side, bool) {
	if g.last == nil {
		return 0, false
	}
	base := g.last.Index * sidesPerTile
	for slot := 0; slot < sidesPerTile; slot++ {
		id := base + slot
		if g.features.registered(id) && g.features.find(id) == root {
			return Side(slot), true
		}
	}
	return 0, false
}

// EndGame scores every open claimed feature at terminal value and closes the
// game. It can only run once.
func (g *Game) EndGame() ([]ScoreEvent, error) {
	if g.over {
		return nil, ErrGameOver
	}
	g.over = true
	g.last = nil
	return g.features.finalize(), nil
}

// Over reports whether EndGame has run
func (g *Game) Over() bool {
	return g.over
}

// Grid exposes the board. Callers must not Put tiles on it directly.
func (g *Game) Grid() *Grid {
	return g.grid
}

// LegalPlacements lists every legal spot for t on the current board
func (g *Game) LegalPlacements(t *Tile) []Placement {
	return LegalPlacements(g.grid, t)
}

// Placements returns the number of tiles on the board
func (g *Game) Placements() int {
	return g.grid.Len()
}

// LastPlaced returns the most recent placement, or nil
func (g *Game) LastPlaced() *PlacedTile {
	return g.last
}

// Feature resolves f, which may be a stale root, to its current feature
func (g *Game) Feature(f FeatureID) (FeatureView, error) {
	if !g.features.registered(int(f)) {
		return FeatureView{}, fmt.Errorf("%w: %d", ErrUnknownFeature, f)
	}
	return g.features.view(g.features.find(int(f))), nil
}

// FeatureAt returns the feature holding side of the tile at at
func (g *Game) FeatureAt(at Coordinate, side Side) (FeatureView, error) {
	p, ok := g.grid.Get(at)
	if !ok {
		return FeatureView{}, fmt.Errorf("%w: no tile at %s", ErrUnknownFeature, at)
	}
	if side < Side(North) || side > Center {
		return FeatureView{}, fmt.Errorf("%w: side %d", ErrUnknownFeature, int(side))
	}
	id := p.Index*sidesPerTile + int(side)
	if !g.features.registered(id) {
		return FeatureView{}, fmt.Errorf("%w: %s side of %s is a field", ErrNotClaimable, side, at)
	}
	return g.features.view(g.features.find(id)), nil
}

// OpenFeatures lists every feature not yet closed, by id
func (g *Game) OpenFeatures() []FeatureView {
	var out []FeatureView
	for _, root := range g.features.roots() {
		if !g.features.agg[root].closed {
			out = append(out, g.features.view(root))
		}
	}
	return out
}

// Claims lists every marker still on the board, ordered by position
func (g *Game) Claims() []Claim {
	var out []Claim
	for _, root := range g.features.roots() {
		out = append(out, g.features.agg[root].claims...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Y != out[j].At.Y {
			return out[i].At.Y > out[j].At.Y
		}
		if out[i].At.X != out[j].At.X {
			return out[i].At.X < out[j].At.X
		}
		return out[i].Side < out[j].Side
	})
	return out
}

var _ Engine = (*Game)(nil)
