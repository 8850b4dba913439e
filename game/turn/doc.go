// Package turn runs the turn loop around the engine.
//
// A Match seats the players, places the start tile and then cycles each
// player through draw, place, an optional claim and end of turn until the
// deck is empty. Score events from the engine are credited to players as
// they happen and markers go back to their owners.
//
//	m, err := turn.NewMatch(turn.Options{
//		Players: []string{"alice", "bob"},
//		Start:   start,
//		Deck:    d,
//	})
//	tile, err := m.Draw()
//	res, err := m.Place(engine.Coordinate{X: 1}, 0)
//	_, err = m.Claim(engine.SideOf(engine.East))
//	err = m.EndTurn()
package turn
