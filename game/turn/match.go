package turn

import (
	"errors"
	"fmt"

	"github.com/wricardo/carcassonne-engine/game/deck"
	"github.com/wricardo/carcassonne-engine/game/engine"
)

// DefaultMarkers is the marker supply each player starts with
const DefaultMarkers = 7

var (
	ErrWrongPhase     = errors.New("action not allowed in this phase")
	ErrNoMarkers      = errors.New("no markers left")
	ErrMatchOver      = errors.New("match is over")
	ErrInvalidPlayers = errors.New("invalid players")
)

// Phase is where the current turn stands
type Phase string

const (
	PhaseDraw  Phase = "draw"
	PhasePlace Phase = "place"
	PhaseClaim Phase = "claim"
	PhaseOver  Phase = "over"
)

// Player is a seat at the table and its running totals
type Player struct {
	ID      engine.PlayerID `json:"id"`
	Score   int             `json:"score"`
	Markers int             `json:"markers"`
}

// Options configures NewMatch
type Options struct {
	Players []string
	Markers int // per player, DefaultMarkers when zero
	Start   *engine.Tile
	Deck    *deck.Deck
}

// Match drives one game: whose turn it is, which tile is in hand and how
// many markers everyone has. Not safe for concurrent use.
type Match struct {
	game    *engine.Game
	deck    *deck.Deck
	players []*Player
	current int
	phase   Phase

	drawn     *engine.Tile
	discarded []*engine.Tile
	events    []engine.ScoreEvent
}

// NewMatch seats the players and puts the start tile at the origin
func NewMatch(opts Options) (*Match, error) {
	if len(opts.Players) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidPlayers)
	}
	if opts.Start == nil || opts.Deck == nil {
		return nil, fmt.Errorf("match needs a start tile and a deck")
	}
	markers := opts.Markers
	if markers <= 0 {
		markers = DefaultMarkers
	}

	seen := map[string]bool{}
	players := make([]*Player, 0, len(opts.Players))
	for _, name := range opts.Players {
		if name == "" {
			return nil, fmt.Errorf("%w: empty player name", ErrInvalidPlayers)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrInvalidPlayers, name)
		}
		seen[name] = true
		players = append(players, &Player{ID: engine.PlayerID(name), Markers: markers})
	}

	game := engine.NewGame()
	if _, err := game.Place(opts.Start, 0, engine.Origin, engine.NoPlayer); err != nil {
		return nil, fmt.Errorf("failed to place start tile: %w", err)
	}

	return &Match{
		game:    game,
		deck:    opts.Deck,
		players: players,
		phase:   PhaseDraw,
	}, nil
}

// Draw takes the next placeable tile from the deck. Tiles that fit nowhere
// are discarded. When the deck runs out the match ends and ErrMatchOver is
// returned.
func (m *Match) Draw() (*engine.Tile, error) {
	if m.phase == PhaseOver {
		return nil, ErrMatchOver
	}
	if m.phase != PhaseDraw {
		return nil, fmt.Errorf("%w: draw during %s", ErrWrongPhase, m.phase)
	}

	for {
		t, ok := m.deck.Next()
		if !ok {
			m.finish()
			return nil, ErrMatchOver
		}
		if len(m.game.LegalPlacements(t)) == 0 {
			m.discarded = append(m.discarded, t)
			continue
		}
		m.drawn = t
		m.phase = PhasePlace
		return t, nil
	}
}

// Place puts the drawn tile on the board for the current player
func (m *Match) Place(at engine.Coordinate, r engine.Rotation) (*engine.PlaceResult, error) {
	if m.phase != PhasePlace {
		return nil, fmt.Errorf("%w: place during %s", ErrWrongPhase, m.phase)
	}

	res, err := m.game.Place(m.drawn, r, at, m.Current().ID)
	if err != nil {
		return res, err
	}
	m.credit(res.ScoreEvents)
	m.drawn = nil
	m.phase = PhaseClaim
	return res, nil
}

// Claim spends one of the current player's markers on a side of the tile
// just placed
func (m *Match) Claim(side engine.Side) (engine.FeatureID, error) {
	if m.phase != PhaseClaim {
		return 0, fmt.Errorf("%w: claim during %s", ErrWrongPhase, m.phase)
	}
	p := m.Current()
	if p.Markers == 0 {
		return 0, ErrNoMarkers
	}

	id, err := m.game.ClaimSide(side, p.ID)
	if err != nil {
		return 0, err
	}
	p.Markers--
	return id, nil
}

// EndTurn passes to the next player. The match ends when no tiles remain.
func (m *Match) EndTurn() error {
	if m.phase != PhaseClaim {
		return fmt.Errorf("%w: end turn during %s", ErrWrongPhase, m.phase)
	}
	if m.deck.Remaining() == 0 {
		m.finish()
		return nil
	}
	m.current = (m.current + 1) % len(m.players)
	m.phase = PhaseDraw
	return nil
}

// Finish ends the match early and runs terminal scoring
func (m *Match) Finish() error {
	if m.phase == PhaseOver {
		return ErrMatchOver
	}
	m.finish()
	return nil
}

func (m *Match) finish() {
	events, err := m.game.EndGame()
	if err == nil {
		m.credit(events)
	}
	m.drawn = nil
	m.phase = PhaseOver
}

// credit adds points and returns markers
func (m *Match) credit(events []engine.ScoreEvent) {
	for _, ev := range events {
		if p := m.player(ev.Player); p != nil {
			p.Score += ev.Points
			p.Markers += ev.Markers
		}
	}
	m.events = append(m.events, events...)
}

func (m *Match) player(id engine.PlayerID) *Player {
	for _, p := range m.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Current returns the player whose turn it is
func (m *Match) Current() *Player {
	return m.players[m.current]
}

// Phase returns the current phase
func (m *Match) Phase() Phase {
	return m.phase
}

// Over reports whether the match has ended
func (m *Match) Over() bool {
	return m.phase == PhaseOver
}

// Drawn returns the tile in hand during PhasePlace
func (m *Match) Drawn() *engine.Tile {
	return m.drawn
}

// Game exposes the underlying engine for read access
func (m *Match) Game() *engine.Game {
	return m.game
}

// Players returns the seats in turn order
func (m *Match) Players() []*Player {
	return m.players
}

// Discarded returns the tiles that could not be placed anywhere
func (m *Match) Discarded() []*engine.Tile {
	return m.discarded
}

// Events returns every score event so far
func (m *Match) Events() []engine.ScoreEvent {
	return m.events
}

// Remaining returns the number of tiles left in the deck
func (m *Match) Remaining() int {
	return m.deck.Remaining()
}

// Winners returns the players with the highest score. Ties return several.
func (m *Match) Winners() []*Player {
	best := -1
	var out []*Player
	for _, p := range m.players {
		switch {
		case p.Score > best:
			best = p.Score
			out = []*Player{p}
		case p.Score == best:
			out = append(out, p)
		}
	}
	return out
}
