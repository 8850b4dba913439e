package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/ruleset"
	"github.com/wricardo/carcassonne-engine/game/turn"
	"github.com/wricardo/carcassonne-engine/journal"
	"github.com/wricardo/carcassonne-engine/logger"
)

var (
	ErrPlayerCount     = errors.New("player count outside ruleset limits")
	ErrSessionNotFound = errors.New("session not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	rulesets RulesetManager
	journal  Journal
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithJournal records every match event to j
func WithJournal(j Journal) Option {
	return func(s *gameServiceImpl) {
		s.journal = j
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, rulesets RulesetManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		rulesets: rulesets,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession deals a new match
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := req.Ruleset
	var rules *ruleset.Ruleset
	if name != "" {
		var err error
		rules, err = s.rulesets.LoadRuleset(name)
		if err != nil {
			return nil, s.rulesetError(name, err)
		}
	} else {
		rules = s.rulesets.GetDefault()
		name = rules.Name
	}

	if n := len(req.Players); n < rules.MinPlayers || n > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: %s seats %d to %d players, got %d",
			ErrPlayerCount, rules.Name, rules.MinPlayers, rules.MaxPlayers, n)
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	sess, err := s.sessions.Create("", MatchSpec{
		Ruleset:     rules,
		RulesetName: name,
		Players:     req.Players,
		Seed:        seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Info("session created", "session", sess.ID, "ruleset", name, "players", len(req.Players), "seed", seed)
	s.record(sess.ID, "create", "", map[string]any{
		"ruleset": name,
		"players": req.Players,
		"seed":    seed,
	})

	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

// rulesetError lists the available rulesets when the requested one is missing
func (s *gameServiceImpl) rulesetError(name string, err error) error {
	infos, listErr := s.rulesets.ListRulesets()
	if listErr != nil || len(infos) == 0 {
		return fmt.Errorf("failed to load ruleset %s: %w", name, err)
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.RulesetID)
	}
	return fmt.Errorf("failed to load ruleset %s (available: %v): %w", name, ids, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		result = append(result, sessionInfo(sess))
		sess.Unlock()
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	logger.Info("session deleted", "session", sessionID)
	s.record(sessionID, "delete", "", nil)
	return nil
}

// Draw gives the current player the next placeable tile
func (s *gameServiceImpl) Draw(ctx context.Context, sessionID string) (*DrawResult, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	m := sess.Match
	if m.Over() {
		return nil, turn.ErrMatchOver
	}
	player := m.Current().ID
	discardedBefore := len(m.Discarded())
	eventsBefore := len(m.Events())

	t, err := m.Draw()

	result := &DrawResult{}
	for _, d := range m.Discarded()[discardedBefore:] {
		result.Discarded = append(result.Discarded, d.ID())
		logger.Debug("tile discarded", "session", sess.ID, "tile", d.ID())
		s.record(sess.ID, "discard", string(player), map[string]string{"tile": d.ID()})
	}

	if errors.Is(err, turn.ErrMatchOver) && m.Over() {
		result.GameOver = true
		result.Final = m.Events()[eventsBefore:]
		s.recordEnd(sess, result.Final)
		result.State = state(m)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Tile = tileInfo(t)
	result.Placements = m.Game().LegalPlacements(t)
	result.State = state(m)
	s.record(sess.ID, "draw", string(player), map[string]any{
		"tile":       t.ID(),
		"placements": len(result.Placements),
	})
	return result, nil
}

// PlaceTile puts the drawn tile on the board
func (s *gameServiceImpl) PlaceTile(ctx context.Context, sessionID string, at engine.Coordinate, r engine.Rotation) (*PlaceResult, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	m := sess.Match
	player := m.Current().ID
	res, err := m.Place(at, r)
	if err != nil {
		logger.Debug("placement rejected", "session", sess.ID, "player", player, "at", at.String(), "rotation", int(r), "error", err)
		return nil, err
	}

	result := &PlaceResult{
		Placed:      res.Placed,
		ScoreEvents: res.ScoreEvents,
		State:       state(m),
	}
	for _, f := range res.TouchedFeatures {
		if view, err := m.Game().Feature(f); err == nil {
			result.Features = append(result.Features, view)
		}
	}

	s.record(sess.ID, "place", string(player), res.Placed)
	for _, ev := range res.ScoreEvents {
		logger.Info("feature scored", "session", sess.ID, "player", ev.Player, "kind", ev.Kind.String(), "points", ev.Points)
		s.record(sess.ID, "score", string(ev.Player), ev)
	}
	return result, nil
}

// ClaimMarker places a marker on a side of the tile just placed
func (s *gameServiceImpl) ClaimMarker(ctx context.Context, sessionID string, side engine.Side) (*ClaimResult, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	m := sess.Match
	player := m.Current().ID
	id, err := m.Claim(side)
	if err != nil {
		return nil, err
	}
	view, err := m.Game().Feature(id)
	if err != nil {
		return nil, err
	}

	s.record(sess.ID, "claim", string(player), map[string]any{
		"side":    side,
		"feature": id,
		"kind":    view.Kind,
	})
	return &ClaimResult{Feature: view, State: state(m)}, nil
}

// EndTurn passes play to the next player, ending the match when the deck is
// empty
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*TurnResult, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	m := sess.Match
	player := m.Current().ID
	eventsBefore := len(m.Events())
	if err := m.EndTurn(); err != nil {
		return nil, err
	}
	s.record(sess.ID, "end_turn", string(player), nil)
	return s.turnResult(sess, eventsBefore), nil
}

// Finish ends the match early with terminal scoring
func (s *gameServiceImpl) Finish(ctx context.Context, sessionID string) (*TurnResult, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	eventsBefore := len(sess.Match.Events())
	if err := sess.Match.Finish(); err != nil {
		return nil, err
	}
	return s.turnResult(sess, eventsBefore), nil
}

func (s *gameServiceImpl) turnResult(sess *Session, eventsBefore int) *TurnResult {
	m := sess.Match
	result := &TurnResult{
		GameOver: m.Over(),
		State:    state(m),
	}
	if m.Over() {
		result.ScoreEvents = m.Events()[eventsBefore:]
		result.Winners = result.State.Winners
		s.recordEnd(sess, result.ScoreEvents)
	}
	return result
}

// LegalPlacements lists where the drawn tile fits
func (s *gameServiceImpl) LegalPlacements(ctx context.Context, sessionID string) ([]engine.Placement, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	t := sess.Match.Drawn()
	if t == nil {
		return nil, fmt.Errorf("%w: no tile in hand", turn.ErrWrongPhase)
	}
	return sess.Match.Game().LegalPlacements(t), nil
}

// GetState returns a snapshot of the match
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*turn.State, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return state(sess.Match), nil
}

// ListRulesets returns the rulesets sessions can be created from
func (s *gameServiceImpl) ListRulesets(ctx context.Context) ([]*RulesetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.rulesets.ListRulesets()
}

// session looks a session up and marks it accessed
func (s *gameServiceImpl) session(ctx context.Context, sessionID string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) recordEnd(sess *Session, final []engine.ScoreEvent) {
	for _, ev := range final {
		s.record(sess.ID, "score", string(ev.Player), ev)
	}
	st := state(sess.Match)
	logger.Info("match over", "session", sess.ID, "winners", st.Winners)
	s.record(sess.ID, "over", "", map[string]any{
		"players": st.Players,
		"winners": st.Winners,
	})
}

func (s *gameServiceImpl) record(sessionID, kind, player string, data any) {
	if s.journal == nil {
		return
	}
	err := s.journal.Write(journal.Entry{
		Session: sessionID,
		Type:    kind,
		Player:  player,
		Data:    data,
	})
	if err != nil {
		logger.Warning("journal write failed", "session", sessionID, "type", kind, "error", err)
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		Ruleset:        sess.RulesetName,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          state(sess.Match),
	}
}

func state(m *turn.Match) *turn.State {
	st := m.State()
	return &st
}

func tileInfo(t *engine.Tile) *TileInfo {
	info := &TileInfo{
		ID:        t.ID(),
		Monastery: t.HasMonastery(),
		Shield:    t.HasShield(),
	}
	for i, e := range engine.Edges {
		info.Edges[i] = t.Edge(e).String()
	}
	return info
}
