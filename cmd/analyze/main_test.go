package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/ruleset"
)

const testRuleset = `
name: Test Ruleset
description: Test ruleset
min_players: 2
max_players: 4
markers_per_player: 5
start_tile: city-road
tiles:
  - id: city-road
    edges: {n: city, e: road, s: field, w: road}
    connections: [[e, w]]
    count: 2
  - id: shield-corner
    edges: {n: city, e: field, s: field, w: city}
    connections: [[n, w]]
    shield: true
    count: 1
  - id: junction
    edges: {n: field, e: road, s: road, w: road}
    count: 1
  - id: cloister
    edges: {n: field, e: field, s: road, w: field}
    center: monastery
    count: 3
`

func TestAnalyze(t *testing.T) {
	rules, err := ruleset.Parse([]byte(testRuleset))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	a, err := analyze(rules)
	if err != nil {
		t.Fatalf("analyze() error = %v", err)
	}

	if a.Name != "Test Ruleset" || a.DeckSize != 7 {
		t.Errorf("Name/DeckSize = %s/%d", a.Name, a.DeckSize)
	}
	wantEdges := map[engine.FeatureKind]int{
		engine.City:  2*1 + 2,
		engine.Road:  2*2 + 3 + 3,
		engine.Field: 2*1 + 2 + 1 + 3*3,
	}
	for k, want := range wantEdges {
		if a.Edges[k] != want {
			t.Errorf("Edges[%s] = %d, want %d", k, a.Edges[k], want)
		}
	}
	if a.Monasteries != 3 {
		t.Errorf("Monasteries = %d, want 3", a.Monasteries)
	}
	if a.Shields != 1 {
		t.Errorf("Shields = %d, want 1", a.Shields)
	}
	// junction ends three roads and each cloister one
	if a.RoadEnds != 6 {
		t.Errorf("RoadEnds = %d, want 6", a.RoadEnds)
	}
	if a.CityCaps != 2 {
		t.Errorf("CityCaps = %d, want 2", a.CityCaps)
	}
	if a.StartFits != 7 {
		t.Errorf("StartFits = %d, want 7", a.StartFits)
	}
	if w := a.Warnings(); len(w) != 0 {
		t.Errorf("Warnings() = %v", w)
	}
}

func TestAnalysisWarnings(t *testing.T) {
	tests := []struct {
		name string
		a    Analysis
		want string
	}{
		{
			name: "road loops only",
			a:    Analysis{DeckSize: 4, StartFits: 4, Edges: map[engine.FeatureKind]int{engine.Road: 8}},
			want: "roads can close only as loops",
		},
		{
			name: "city rings only",
			a:    Analysis{DeckSize: 4, StartFits: 4, RoadEnds: 2, Edges: map[engine.FeatureKind]int{engine.City: 8}},
			want: "cities can close only as rings",
		},
		{
			name: "nothing fits the start",
			a:    Analysis{DeckSize: 4, Edges: map[engine.FeatureKind]int{}},
			want: "no deck tile fits",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.a.Warnings()
			if len(w) != 1 || !strings.Contains(w[0], tt.want) {
				t.Errorf("Warnings() = %v, want one containing %q", w, tt.want)
			}
		})
	}
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(testRuleset), 0644); err != nil {
		t.Fatalf("Failed to write ruleset: %v", err)
	}

	var buf bytes.Buffer
	analyzeFile(&buf, path)
	out := buf.String()
	for _, want := range []string{"Name: Test Ruleset", "Deck: 7 tiles", "Monasteries: 3", "Fit beside start: 7/7 (100%)", "✅"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeFile_Errors(t *testing.T) {
	var buf bytes.Buffer
	analyzeFile(&buf, "/non/existent/file.yaml")
	if !strings.Contains(buf.String(), "Error reading file") {
		t.Errorf("output = %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("name: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write ruleset: %v", err)
	}
	buf.Reset()
	analyzeFile(&buf, path)
	if !strings.Contains(buf.String(), "Error parsing ruleset") {
		t.Errorf("output = %q", buf.String())
	}
}
