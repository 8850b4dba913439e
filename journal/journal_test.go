package journal

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "matches")
	w.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }

	entries := []Entry{
		{Session: "s1", Type: "create", Data: map[string]any{"ruleset": "classic"}},
		{Session: "s1", Type: "place", Player: "alice", Data: map[string]int{"x": 1, "y": 0}},
		{Session: "s1", Type: "score", Player: "alice", Data: map[string]int{"points": 4}},
	}
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	path := filepath.Join(dir, "matches-2025-03-14.jsonl.zst")
	if w.Path() != path {
		t.Errorf("Path() = %s, want %s", w.Path(), path)
	}

	records, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("read %d records, want 3", len(records))
	}
	if records[1].Type != "place" || records[1].Player != "alice" {
		t.Errorf("record 1 = %+v", records[1])
	}
	if !records[0].Time.Equal(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Time not stamped: %v", records[0].Time)
	}

	var score map[string]int
	if err := json.Unmarshal(records[2].Data, &score); err != nil {
		t.Fatalf("Data not JSON: %v", err)
	}
	if score["points"] != 4 {
		t.Errorf("score data = %v", score)
	}
}

func TestAppendAcrossCloses(t *testing.T) {
	dir := t.TempDir()
	fixed := func() time.Time { return time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC) }

	for i := 0; i < 2; i++ {
		w := NewWriter(dir, "matches")
		w.now = fixed
		if err := w.Write(Entry{Session: "s", Type: "draw"}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	records, err := ReadFile(filepath.Join(dir, "matches-2025-03-14.jsonl.zst"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("read %d records across two frames, want 2", len(records))
	}
}

func TestReadableBeforeClose(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "matches")
	w.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }
	defer w.Close()

	for i := 1; i <= 5; i++ {
		if err := w.Write(Entry{Session: "s", Type: "place", Data: map[string]int{"turn": i}}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		// The process may die at any point of a match
		records, err := ReadFile(w.Path())
		if err != nil {
			t.Fatalf("ReadFile() after %d writes error = %v", i, err)
		}
		if len(records) != i {
			t.Fatalf("read %d records after %d writes without Close", len(records), i)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	records, err := ReadFile(w.Path())
	if err != nil {
		t.Fatalf("ReadFile() after Close error = %v", err)
	}
	if len(records) != 5 {
		t.Errorf("read %d records after Close, want 5", len(records))
	}
}

func TestRotatesByDay(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	w := NewWriter(dir, "matches")
	w.now = func() time.Time { return day }

	if err := w.Write(Entry{Session: "s", Type: "draw"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	day = day.Add(2 * time.Minute)
	if err := w.Write(Entry{Session: "s", Type: "place"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for _, name := range []string{"matches-2025-03-14.jsonl.zst", "matches-2025-03-15.jsonl.zst"} {
		records, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		if len(records) != 1 {
			t.Errorf("%s holds %d records, want 1", name, len(records))
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.jsonl.zst")); err == nil {
		t.Error("ReadFile() should fail for a missing file")
	}
}
