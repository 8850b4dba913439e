// Package session provides in-memory session management for matches.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Dealing a fresh match from a ruleset, player list and seed
//   - Session cleanup and expiration
//
// Session Identifiers:
//
// Generated IDs are the first eight hex characters of a random UUID. Callers
// may also choose their own ID; lookups ignore case.
//
// Concurrency:
//
// The manager is safe for concurrent use. It only guards the session map;
// a session's match is guarded by the session's own mutex, which the
// service layer takes around every turn operation.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", service.MatchSpec{
//		Ruleset: ruleset.Classic(),
//		Players: []string{"alice", "bob"},
//		Seed:    42,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions live only as long as the process. Call CleanupExpiredSessions
// periodically to drop idle ones.
package session
