package turn

import (
	"errors"
	"testing"

	"github.com/wricardo/carcassonne-engine/game/deck"
	"github.com/wricardo/carcassonne-engine/game/engine"
)

func straight() *engine.Tile {
	return engine.MustTile("straight", [4]engine.FeatureKind{engine.Field, engine.Road, engine.Field, engine.Road},
		engine.WithConnections(engine.East, engine.West))
}

func meadow() *engine.Tile {
	return engine.MustTile("meadow", [4]engine.FeatureKind{})
}

func createTestMatch(t *testing.T, players []string, markers int, start *engine.Tile, entries ...deck.Entry) *Match {
	t.Helper()
	d, err := deck.New(entries, 1)
	if err != nil {
		t.Fatalf("deck.New() error = %v", err)
	}
	m, err := NewMatch(Options{Players: players, Markers: markers, Start: start, Deck: d})
	if err != nil {
		t.Fatalf("NewMatch() error = %v", err)
	}
	return m
}

func takeTurn(t *testing.T, m *Match, at engine.Coordinate, claim *engine.Side) {
	t.Helper()
	if _, err := m.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if _, err := m.Place(at, 0); err != nil {
		t.Fatalf("Place(%s) error = %v", at, err)
	}
	if claim != nil {
		if _, err := m.Claim(*claim); err != nil {
			t.Fatalf("Claim(%s) error = %v", *claim, err)
		}
	}
	if err := m.EndTurn(); err != nil {
		t.Fatalf("EndTurn() error = %v", err)
	}
}

func TestMatchFullGame(t *testing.T) {
	m := createTestMatch(t, []string{"alice", "bob"}, 0, straight(), deck.Entry{Tile: straight(), Count: 3})

	if m.Game().Placements() != 1 {
		t.Fatal("start tile not placed")
	}
	if m.Current().ID != "alice" || m.Phase() != PhaseDraw {
		t.Fatalf("initial turn = %s/%s", m.Current().ID, m.Phase())
	}

	east := engine.SideOf(engine.East)
	takeTurn(t, m, engine.Coordinate{X: 1}, &east)
	if got := m.Players()[0].Markers; got != DefaultMarkers-1 {
		t.Errorf("alice markers = %d, want %d", got, DefaultMarkers-1)
	}

	// Bob extends alice's road and cannot claim it
	if _, err := m.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if _, err := m.Place(engine.Coordinate{X: 2}, 0); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if _, err := m.Claim(engine.SideOf(engine.West)); !errors.Is(err, engine.ErrAlreadyClaimed) {
		t.Errorf("Claim() error = %v, want ErrAlreadyClaimed", err)
	}
	if m.Players()[1].Markers != DefaultMarkers {
		t.Error("failed claim spent a marker")
	}
	if err := m.EndTurn(); err != nil {
		t.Fatalf("EndTurn() error = %v", err)
	}

	takeTurn(t, m, engine.Coordinate{X: -1}, nil)
	if !m.Over() {
		t.Fatal("match should end with the deck")
	}

	// Open four-tile road scores 2 at the end and the marker comes home
	alice, bob := m.Players()[0], m.Players()[1]
	if alice.Score != 2 || alice.Markers != DefaultMarkers {
		t.Errorf("alice = %+v, want score 2 with all markers", alice)
	}
	if bob.Score != 0 {
		t.Errorf("bob = %+v, want score 0", bob)
	}
	winners := m.Winners()
	if len(winners) != 1 || winners[0].ID != "alice" {
		t.Errorf("Winners() = %v", winners)
	}
	if _, err := m.Draw(); !errors.Is(err, ErrMatchOver) {
		t.Errorf("Draw() after end = %v", err)
	}

	s := m.State()
	if s.Phase != PhaseOver || len(s.Tiles) != 4 || len(s.Winners) != 1 {
		t.Errorf("State() = %+v", s)
	}
}

func TestMatchDiscardsUnplaceableTiles(t *testing.T) {
	fortress := engine.MustTile("fortress", [4]engine.FeatureKind{engine.City, engine.City, engine.City, engine.City},
		engine.WithConnections(engine.North, engine.East, engine.South, engine.West))
	m := createTestMatch(t, []string{"solo"}, 0, meadow(),
		deck.Entry{Tile: fortress, Count: 2},
		deck.Entry{Tile: meadow(), Count: 1},
	)

	tile, err := m.Draw()
	if err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if tile.ID() != "meadow" {
		t.Fatalf("Draw() = %s, want the only placeable tile", tile.ID())
	}
	if _, err := m.Place(engine.Coordinate{Y: 1}, 0); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if err := m.EndTurn(); err != nil {
		t.Fatalf("EndTurn() error = %v", err)
	}
	if !m.Over() {
		if _, err := m.Draw(); !errors.Is(err, ErrMatchOver) {
			t.Fatalf("Draw() error = %v, want ErrMatchOver", err)
		}
	}
	if !m.Over() || len(m.Discarded()) != 2 {
		t.Errorf("over = %v, discarded = %d; want over with 2 discarded", m.Over(), len(m.Discarded()))
	}
}

func TestMatchMarkerSupply(t *testing.T) {
	m := createTestMatch(t, []string{"solo"}, 1, straight(), deck.Entry{Tile: straight(), Count: 3})

	east := engine.SideOf(engine.East)
	takeTurn(t, m, engine.Coordinate{X: 1}, &east)

	if _, err := m.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if _, err := m.Place(engine.Coordinate{X: -1}, 0); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if _, err := m.Claim(engine.SideOf(engine.West)); !errors.Is(err, ErrNoMarkers) {
		t.Errorf("Claim() error = %v, want ErrNoMarkers", err)
	}
}

func TestMatchPhases(t *testing.T) {
	m := createTestMatch(t, []string{"alice", "bob"}, 0, straight(), deck.Entry{Tile: straight(), Count: 2})

	if _, err := m.Place(engine.Coordinate{X: 1}, 0); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Place() before Draw() = %v", err)
	}
	if _, err := m.Claim(engine.Center); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Claim() before Draw() = %v", err)
	}
	if _, err := m.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if err := m.EndTurn(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("EndTurn() before Place() = %v", err)
	}

	// A rejected placement keeps the tile in hand
	if _, err := m.Place(engine.Coordinate{X: 5, Y: 5}, 0); !errors.Is(err, engine.ErrIllegalPlacement) {
		t.Errorf("Place() error = %v, want illegal", err)
	}
	if m.Phase() != PhasePlace || m.Drawn() == nil {
		t.Errorf("phase = %s after rejected placement", m.Phase())
	}

	if len(m.Winners()) != 2 {
		t.Error("players tied at zero should both lead")
	}
}

func TestNewMatchValidation(t *testing.T) {
	d, _ := deck.New([]deck.Entry{{Tile: straight(), Count: 1}}, 1)
	tests := []struct {
		name    string
		players []string
	}{
		{"no players", nil},
		{"empty name", []string{"alice", ""}},
		{"duplicate", []string{"alice", "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatch(Options{Players: tt.players, Start: straight(), Deck: d})
			if !errors.Is(err, ErrInvalidPlayers) {
				t.Errorf("NewMatch() error = %v, want ErrInvalidPlayers", err)
			}
		})
	}
}
