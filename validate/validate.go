// Command validate checks the ruleset YAML files in a directory (../configs
// by default). It checks:
//   - YAML structure against the ruleset schema
//   - Table limits and the start tile reference
//   - Every tile can be placed beside some other tile
//   - The start tile accepts at least one deck tile on each of its sides
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/ruleset"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateRuleset loads and validates a single ruleset file
func validateRuleset(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	rules, err := ruleset.Parse(data)
	if err != nil {
		result.fail("Invalid ruleset: %v", err)
		return result
	}

	tiles, err := rules.Templates()
	if err != nil {
		result.fail("Invalid tiles: %v", err)
		return result
	}

	for _, msg := range validatePlacement(rules, tiles) {
		if strings.HasPrefix(msg, "✓") {
			result.Errors = append(result.Errors, msg)
		} else {
			result.fail("%s", msg)
		}
	}

	if result.Valid {
		result.info("Name: %s", rules.Name)
		result.info("Players: %d-%d", rules.MinPlayers, rules.MaxPlayers)
		result.info("Markers per player: %d", rules.Markers)
		result.info("Deck: %d tiles of %d kinds", rules.DeckSize(), len(rules.Tiles))
		result.info("Start tile: %s", rules.StartTile)
	}
	return result
}

// validatePlacement checks that the tile set can actually be played. A tile
// whose edges match no edge of any other tile could never leave the deck,
// and a start tile with a side nothing fits against stalls the opening.
func validatePlacement(rules *ruleset.Ruleset, tiles map[string]*engine.Tile) []string {
	var msgs []string

	start := tiles[rules.StartTile]
	kinds := make(map[engine.FeatureKind]int)
	for _, spec := range rules.Tiles {
		if spec.Count == 0 && spec.ID != rules.StartTile {
			continue
		}
		for _, e := range engine.Edges {
			kinds[tiles[spec.ID].Edge(e)] += spec.Count
		}
	}
	for _, e := range engine.Edges {
		kinds[start.Edge(e)]++
	}

	var stuck []string
	for _, spec := range rules.Tiles {
		if spec.Count == 0 {
			continue
		}
		if !fitsAnything(tiles[spec.ID], spec.Count, kinds) {
			stuck = append(stuck, spec.ID)
		}
	}
	if len(stuck) > 0 {
		sort.Strings(stuck)
		msgs = append(msgs, fmt.Sprintf("Placement failure: %d tile kinds match no other tile", len(stuck)))
		for _, id := range stuck {
			msgs = append(msgs, fmt.Sprintf("Unplaceable: %s", id))
		}
	}

	board := engine.NewGrid()
	board.Put(&engine.PlacedTile{Tile: start, At: engine.Origin})
	open := map[engine.Coordinate]bool{}
	fits := 0
	for _, spec := range rules.Tiles {
		if spec.Count == 0 {
			continue
		}
		ps := engine.LegalPlacements(board, tiles[spec.ID])
		if len(ps) > 0 {
			fits++
		}
		for _, p := range ps {
			open[p.At] = true
		}
	}
	for _, e := range engine.Edges {
		if at := engine.Origin.Step(e); !open[at] {
			msgs = append(msgs, fmt.Sprintf("Start tile %s: no deck tile fits on its %s side", rules.StartTile, e))
		}
	}
	if len(stuck) == 0 && len(open) == 4 {
		msgs = append(msgs, fmt.Sprintf("✓ Placement: %d/%d tile kinds fit beside the start tile", fits, countKinds(rules)))
	}
	return msgs
}

// fitsAnything reports whether t shares an edge kind with some other tile.
// Any single matching edge is enough because both tiles can rotate.
func fitsAnything(t *engine.Tile, count int, kinds map[engine.FeatureKind]int) bool {
	if count > 1 {
		// Two copies of the same tile always fit edge to edge
		return true
	}
	own := make(map[engine.FeatureKind]int)
	for _, e := range engine.Edges {
		own[t.Edge(e)]++
	}
	for k, n := range own {
		if kinds[k]-n > 0 {
			return true
		}
	}
	return false
}

func countKinds(rules *ruleset.Ruleset) int {
	n := 0
	for _, spec := range rules.Tiles {
		if spec.Count > 0 {
			n++
		}
	}
	return n
}

// main validates every *.yaml file in the directory given as the first
// argument, printing a concise report and exiting with non-zero status if any
// are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding ruleset files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No ruleset files in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateRuleset(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All rulesets are valid!")
	} else {
		fmt.Println("❌ Some rulesets have errors")
		os.Exit(1)
	}
}
