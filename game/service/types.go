package service

import (
	"time"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/turn"
)

// CreateSessionRequest describes a new match. An empty Ruleset selects the
// default one; a zero Seed picks a random shuffle.
type CreateSessionRequest struct {
	Ruleset string   `json:"ruleset"`
	Players []string `json:"players"`
	Seed    uint64   `json:"seed,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string      `json:"id"`
	Ruleset        string      `json:"ruleset"`
	Seed           uint64      `json:"seed"`
	CreatedAt      time.Time   `json:"created_at"`
	LastAccessedAt time.Time   `json:"last_accessed_at"`
	State          *turn.State `json:"state"`
}

// TileInfo describes the tile in hand
type TileInfo struct {
	ID        string    `json:"id"`
	Edges     [4]string `json:"edges"` // N, E, S, W before rotation
	Monastery bool      `json:"monastery,omitempty"`
	Shield    bool      `json:"shield,omitempty"`
}

// DrawResult contains the result of a draw
type DrawResult struct {
	Tile       *TileInfo           `json:"tile,omitempty"`
	Placements []engine.Placement  `json:"placements,omitempty"`
	Discarded  []string            `json:"discarded,omitempty"` // tiles that fit nowhere
	GameOver   bool                `json:"game_over"`
	Final      []engine.ScoreEvent `json:"final_scores,omitempty"`
	State      *turn.State         `json:"state"`
}

// PlaceResult contains the result of a placement
type PlaceResult struct {
	Placed      *engine.PlacedTile   `json:"placed"`
	ScoreEvents []engine.ScoreEvent  `json:"score_events,omitempty"`
	Features    []engine.FeatureView `json:"features,omitempty"` // features the tile touches
	State       *turn.State          `json:"state"`
}

// ClaimResult contains the result of a marker claim
type ClaimResult struct {
	Feature engine.FeatureView `json:"feature"`
	State   *turn.State        `json:"state"`
}

// TurnResult contains the result of ending a turn or the match
type TurnResult struct {
	GameOver    bool                `json:"game_over"`
	ScoreEvents []engine.ScoreEvent `json:"score_events,omitempty"`
	Winners     []engine.PlayerID   `json:"winners,omitempty"`
	State       *turn.State         `json:"state"`
}

// RulesetInfo provides information about a ruleset file
type RulesetInfo struct {
	Filename    string `json:"filename"`
	RulesetID   string `json:"ruleset_id"` // The identifier to use for session creation
	Name        string `json:"name"`       // Display name
	Description string `json:"description"`
	MinPlayers  int    `json:"min_players"`
	MaxPlayers  int    `json:"max_players"`
	DeckSize    int    `json:"deck_size"`
}
