// Package config provides ruleset management for the tile game.
//
// The config package handles:
//   - Loading rulesets from YAML files in a directory
//   - Schema and semantic validation through package ruleset
//   - Default ruleset selection
//   - Ruleset discovery and listing
//
// Ruleset Format:
//
// Rulesets are stored as YAML files in the configs directory. Each ruleset
// defines its player limits, the markers each player starts with, the start
// tile and the tile catalogue with a copy count per tile.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadRuleset("classic")
//	if errors.Is(err, config.ErrRulesetNotFound) {
//		rules = manager.GetDefault()
//	}
//
//	infos, err := manager.ListRulesets()
//
// When the directory holds no usable ruleset the manager falls back to the
// classic ruleset built into the binary.
package config
