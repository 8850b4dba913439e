package turn

import "github.com/wricardo/carcassonne-engine/game/engine"

// TileState is a placed tile in a snapshot
type TileState struct {
	ID       string            `json:"id"`
	At       engine.Coordinate `json:"at"`
	Rotation engine.Rotation   `json:"rotation"`
	Player   engine.PlayerID   `json:"player,omitempty"`
}

// State is a read-only snapshot of a match
type State struct {
	Phase     Phase                `json:"phase"`
	Current   engine.PlayerID      `json:"current"`
	Drawn     string               `json:"drawn,omitempty"`
	Remaining int                  `json:"remaining"`
	Discarded int                  `json:"discarded"`
	Players   []Player             `json:"players"`
	Tiles     []TileState          `json:"tiles"`
	Claims    []engine.Claim       `json:"claims,omitempty"`
	Open      []engine.FeatureView `json:"open_features,omitempty"`
	Winners   []engine.PlayerID    `json:"winners,omitempty"`
}

// State captures the match as it stands
func (m *Match) State() State {
	s := State{
		Phase:     m.phase,
		Current:   m.Current().ID,
		Remaining: m.deck.Remaining(),
		Discarded: len(m.discarded),
		Claims:    m.game.Claims(),
		Open:      m.game.OpenFeatures(),
	}
	if m.drawn != nil {
		s.Drawn = m.drawn.ID()
	}
	for _, p := range m.players {
		s.Players = append(s.Players, *p)
	}
	for _, p := range m.game.Grid().Tiles() {
		s.Tiles = append(s.Tiles, TileState{
			ID:       p.Tile.ID(),
			At:       p.At,
			Rotation: p.Rotation,
			Player:   p.Player,
		})
	}
	if m.Over() {
		for _, p := range m.Winners() {
			s.Winners = append(s.Winners, p.ID)
		}
	}
	return s
}
