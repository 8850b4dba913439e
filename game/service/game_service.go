package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/ruleset"
	"github.com/wricardo/carcassonne-engine/game/turn"
	"github.com/wricardo/carcassonne-engine/journal"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn Operations
	Draw(ctx context.Context, sessionID string) (*DrawResult, error)
	PlaceTile(ctx context.Context, sessionID string, at engine.Coordinate, r engine.Rotation) (*PlaceResult, error)
	ClaimMarker(ctx context.Context, sessionID string, side engine.Side) (*ClaimResult, error)
	EndTurn(ctx context.Context, sessionID string) (*TurnResult, error)
	Finish(ctx context.Context, sessionID string) (*TurnResult, error)

	// Game State
	LegalPlacements(ctx context.Context, sessionID string) ([]engine.Placement, error)
	GetState(ctx context.Context, sessionID string) (*turn.State, error)

	// Rulesets
	ListRulesets(ctx context.Context) ([]*RulesetInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, spec MatchSpec) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// RulesetManager handles ruleset loading
type RulesetManager interface {
	LoadRuleset(name string) (*ruleset.Ruleset, error)
	ListRulesets() ([]*RulesetInfo, error)
	GetDefault() *ruleset.Ruleset
	SaveRuleset(name string, r *ruleset.Ruleset) error
}

// Journal records match events
type Journal interface {
	Write(e journal.Entry) error
}

// MatchSpec is everything a session manager needs to deal a new match
type MatchSpec struct {
	Ruleset     *ruleset.Ruleset
	RulesetName string
	Players     []string
	Seed        uint64
}

// Session represents an active match. Lock it around every use of Match.
type Session struct {
	sync.Mutex

	ID             string
	Match          *turn.Match
	Ruleset        *ruleset.Ruleset
	RulesetName    string
	Seed           uint64
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
