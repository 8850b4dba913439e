// Package service provides the business logic layer for tile-laying matches.
//
// The service package implements:
//   - Multi-session match management
//   - Ruleset selection and player count checks
//   - Turn processing (draw, place, claim, end turn)
//   - Journaling of every match event
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// RulesetManager loads and lists rulesets.
// Journal receives an entry for every state change.
//
// Architecture:
//
// The service layer sits between the front ends (console, simulator) and the
// turn loop in package turn, which in turn drives the engine. Each session
// owns one turn.Match; the session's mutex serialises every mutation of that
// match, so different sessions can be played concurrently while each match
// sees exactly one writer.
//
// Usage:
//
//	sessions := session.NewManager()
//	rulesets, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, rulesets, service.WithJournal(j))
//
//	info, err := svc.CreateSession(ctx, service.CreateSessionRequest{
//		Ruleset: "classic",
//		Players: []string{"alice", "bob"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	draw, _ := svc.Draw(ctx, info.ID)
//	placed, err := svc.PlaceTile(ctx, info.ID, draw.Placements[0].At, draw.Placements[0].Rotation)
//
// Seeds:
//
// Every session records the seed its deck was shuffled with. Creating a
// session with the same ruleset, players and seed deals the same match.
package service
