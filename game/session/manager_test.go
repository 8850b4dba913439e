package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/ruleset"
	"github.com/wricardo/carcassonne-engine/game/service"
	"github.com/wricardo/carcassonne-engine/game/turn"
)

func createTestSpec() service.MatchSpec {
	return service.MatchSpec{
		Ruleset:     ruleset.Classic(),
		RulesetName: "classic",
		Players:     []string{"alice", "bob"},
		Seed:        42,
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	spec := createTestSpec()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", spec)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Match == nil {
			t.Fatal("Expected match to be dealt")
		}
		if session.Match.Phase() != turn.PhaseDraw || session.Match.Remaining() != 71 {
			t.Errorf("Unexpected fresh match: phase %s, %d tiles left", session.Match.Phase(), session.Match.Remaining())
		}
		if session.Match.Players()[0].Markers != 7 {
			t.Errorf("Expected 7 markers, got %d", session.Match.Players()[0].Markers)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", spec)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != idLength {
			t.Errorf("Expected %d-character session ID, got %q", idLength, session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		if _, err := manager.Create("test-session", spec); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		if _, err := manager.Create("TEST-SESSION", spec); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		if _, err := manager.Create("has space", spec); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid players", func(t *testing.T) {
		bad := createTestSpec()
		bad.Players = []string{"alice", "alice"}
		if _, err := manager.Create("dup-players", bad); !errors.Is(err, turn.ErrInvalidPlayers) {
			t.Errorf("Expected ErrInvalidPlayers, got %v", err)
		}
	})

	t.Run("missing ruleset", func(t *testing.T) {
		if _, err := manager.Create("no-rules", service.MatchSpec{Players: []string{"a"}}); err == nil {
			t.Error("Expected error without a ruleset")
		}
	})
}

func TestManager_SameSeedSameDeal(t *testing.T) {
	manager := NewManager()
	a, _ := manager.Create("a", createTestSpec())
	b, _ := manager.Create("b", createTestSpec())

	for i := 0; i < 10; i++ {
		ta, errA := a.Match.Draw()
		tb, errB := b.Match.Draw()
		if errA != nil || errB != nil {
			t.Fatalf("Draw() errors = %v, %v", errA, errB)
		}
		if ta.ID() != tb.ID() {
			t.Fatalf("draw %d: %s != %s", i, ta.ID(), tb.ID())
		}
		// Keep both matches in step with the same legal move
		p := a.Match.Game().LegalPlacements(ta)[0]
		if _, err := a.Match.Place(p.At, p.Rotation); err != nil {
			t.Fatalf("Place() error = %v", err)
		}
		if _, err := b.Match.Place(p.At, p.Rotation); err != nil {
			t.Fatalf("Place() error = %v", err)
		}
		a.Match.EndTurn()
		b.Match.EndTurn()
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createTestSpec())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the created session")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := manager.Get("non-existent"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("delete-test", createTestSpec())

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", createTestSpec())
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if manager.Count() != 0 {
			t.Errorf("Expected no sessions left, got %d", manager.Count())
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	spec := createTestSpec()

	var created []*service.Session
	for i := 1; i <= 3; i++ {
		s, err := manager.Create(fmt.Sprintf("list-%d", i), spec)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		created = append(created, s)
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for i, s := range sessions {
		if s != created[i] {
			t.Errorf("List()[%d] = %s, want %s", i, s.ID, created[i].ID)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	spec := createTestSpec()

	active, _ := manager.Create("active", spec)
	expired, _ := manager.Create("expired", spec)
	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	if deleted := manager.CleanupExpiredSessions(time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", createTestSpec())
	session.LastAccessedAt = time.Now().Add(-time.Minute)
	originalTime := session.LastAccessedAt

	if err := manager.UpdateLastAccessed("ACCESS-TEST"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	spec := createTestSpec()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := manager.Create("", spec)
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(s.ID); err != nil {
				errs <- err
			}
			manager.List()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	session1, _ := manager.Create("iso-1", createTestSpec())
	session2, _ := manager.Create("iso-2", createTestSpec())

	tile, err := session1.Match.Draw()
	if err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	p := session1.Match.Game().LegalPlacements(tile)[0]
	if _, err := session1.Match.Place(p.At, p.Rotation); err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	if session2.Match.Game().Grid().Len() != 1 || session2.Match.Remaining() != 71 {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if _, ok := session1.Match.Game().Grid().Get(p.At); !ok {
		t.Error("Session 1 should hold the placed tile")
	}
	if session1.Match.Game().Grid().Occupied(engine.Coordinate{X: 40, Y: 40}) {
		t.Error("unexpected tile far from origin")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	spec := createTestSpec()

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", spec)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true
		if len(session.ID) != idLength {
			t.Errorf("Expected %d-character ID, got %q", idLength, session.ID)
		}
	}
}
