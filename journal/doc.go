// Package journal appends match events to zstd-compressed JSON Lines files.
//
// The journal is an audit trail; matches are never restored from it.
//
// File Layout:
//
// A Writer keeps one file per UTC day named <prefix>-YYYY-MM-DD.jsonl.zst
// and switches files when the day changes. Every entry is written as its
// own zstd frame, so a file is readable at any time, including while a
// match is still running or after the process was killed. Reopening an
// existing file appends further frames.
//
// Usage:
//
//	w := journal.NewWriter("journal", "matches")
//	defer w.Close()
//
//	err := w.Write(journal.Entry{Session: id, Type: "place", Player: "alice", Data: placed})
//
//	records, err := journal.ReadFile(w.Path())
//
// Writer is safe for concurrent use.
package journal
