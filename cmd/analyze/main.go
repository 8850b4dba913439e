// Command analyze prints quick, human-readable statistics about the rulesets
// in the project's configs directory. It summarizes the deck, counts edge
// kinds, monasteries, shields and feature ends, and warns about tile mixes
// that make roads or cities hard to close.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/ruleset"
)

// Analysis holds the deck statistics of one ruleset. Every count is over the
// deck, so a tile with count 3 contributes three times.
type Analysis struct {
	Name        string
	DeckSize    int
	Edges       map[engine.FeatureKind]int
	Monasteries int
	Shields     int
	RoadEnds    int // road segments that touch a single edge
	CityCaps    int // city segments that touch a single edge
	StartFits   int // deck tiles with a legal spot beside the start tile
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding rulesets: %v\n", err)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeFile(os.Stdout, file)
	}
}

func analyzeFile(w io.Writer, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "Error reading file: %v\n", err)
		return
	}

	rules, err := ruleset.Parse(data)
	if err != nil {
		fmt.Fprintf(w, "Error parsing ruleset: %v\n", err)
		return
	}

	a, err := analyze(rules)
	if err != nil {
		fmt.Fprintf(w, "Error building tiles: %v\n", err)
		return
	}
	a.Print(w)
}

func analyze(rules *ruleset.Ruleset) (*Analysis, error) {
	tiles, err := rules.Templates()
	if err != nil {
		return nil, err
	}
	start, err := rules.Start()
	if err != nil {
		return nil, err
	}

	board := engine.NewGrid()
	board.Put(&engine.PlacedTile{Tile: start, At: engine.Origin})

	a := &Analysis{
		Name:     rules.Name,
		DeckSize: rules.DeckSize(),
		Edges:    make(map[engine.FeatureKind]int),
	}
	for _, spec := range rules.Tiles {
		t, n := tiles[spec.ID], spec.Count
		for _, e := range engine.Edges {
			a.Edges[t.Edge(e)] += n
		}
		if t.HasMonastery() {
			a.Monasteries += n
		}
		if t.HasShield() {
			a.Shields += n
		}
		for _, seg := range t.Segments() {
			if len(seg.Edges) != 1 {
				continue
			}
			switch seg.Kind {
			case engine.Road:
				a.RoadEnds += n
			case engine.City:
				a.CityCaps += n
			}
		}
		if len(engine.LegalPlacements(board, t)) > 0 {
			a.StartFits += n
		}
	}
	return a, nil
}

// Print writes the report
func (a *Analysis) Print(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Deck: %d tiles\n", a.DeckSize)
	fmt.Fprintf(w, "Edges: city %d, road %d, field %d\n", a.Edges[engine.City], a.Edges[engine.Road], a.Edges[engine.Field])
	fmt.Fprintf(w, "Monasteries: %d\n", a.Monasteries)
	fmt.Fprintf(w, "Shields: %d\n", a.Shields)
	fmt.Fprintf(w, "Road ends: %d\n", a.RoadEnds)
	fmt.Fprintf(w, "City caps: %d\n", a.CityCaps)
	if a.DeckSize > 0 {
		fmt.Fprintf(w, "Fit beside start: %d/%d (%.0f%%)\n", a.StartFits, a.DeckSize, 100*float64(a.StartFits)/float64(a.DeckSize))
	}

	for _, warning := range a.Warnings() {
		fmt.Fprintf(w, "⚠️  WARNING: %s\n", warning)
	}
	if len(a.Warnings()) == 0 {
		fmt.Fprintf(w, "✅ Roads and cities can be closed\n")
	}
}

// Warnings lists deck properties that keep features from closing
func (a *Analysis) Warnings() []string {
	var out []string
	if a.Edges[engine.Road] > 0 && a.RoadEnds < 2 {
		out = append(out, fmt.Sprintf("only %d road ends, roads can close only as loops", a.RoadEnds))
	}
	if a.Edges[engine.City] > 0 && a.CityCaps == 0 {
		out = append(out, "no city caps, cities can close only as rings")
	}
	if a.DeckSize > 0 && a.StartFits == 0 {
		out = append(out, "no deck tile fits beside the start tile")
	}
	return out
}
