package ruleset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/carcassonne-engine/game/deck"
	"github.com/wricardo/carcassonne-engine/game/engine"
)

const (
	MinPlayers = 1
	MaxPlayers = 8
)

//go:embed schema.json
var schemaJSON string

//go:embed classic.yaml
var classicYAML []byte

var schema = jsonschema.MustCompileString("ruleset.schema.json", schemaJSON)

// EdgeSpec lists the edge kinds North, East, South, West
type EdgeSpec struct {
	N string `yaml:"n" json:"n"`
	E string `yaml:"e" json:"e"`
	S string `yaml:"s" json:"s"`
	W string `yaml:"w" json:"w"`
}

// TileSpec is one tile template of a ruleset
type TileSpec struct {
	ID          string     `yaml:"id" json:"id"`
	Edges       EdgeSpec   `yaml:"edges" json:"edges"`
	Center      string     `yaml:"center,omitempty" json:"center,omitempty"`
	Shield      bool       `yaml:"shield,omitempty" json:"shield,omitempty"`
	Connections [][]string `yaml:"connections,omitempty" json:"connections,omitempty"`
	Count       int        `yaml:"count" json:"count"`
}

// Ruleset is a playable tile set with its table limits
type Ruleset struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	MinPlayers  int        `yaml:"min_players" json:"min_players"`
	MaxPlayers  int        `yaml:"max_players" json:"max_players"`
	Markers     int        `yaml:"markers_per_player" json:"markers_per_player"`
	StartTile   string     `yaml:"start_tile" json:"start_tile"`
	Tiles       []TileSpec `yaml:"tiles" json:"tiles"`
}

// Parse decodes YAML, checks it against the ruleset schema and validates it
func Parse(data []byte) (*Ruleset, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset YAML: %w", err)
	}
	if err := CheckSchema(doc); err != nil {
		return nil, err
	}

	var r Ruleset
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode ruleset: %w", err)
	}
	if err := Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CheckSchema validates a decoded YAML or JSON document against the schema
func CheckSchema(doc any) error {
	// The validator only understands values produced by encoding/json
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("ruleset schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("ruleset schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("ruleset schema: %w", err)
	}
	return nil
}

// Classic returns the built-in base game ruleset
func Classic() *Ruleset {
	r, err := Parse(classicYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded classic ruleset is invalid: %v", err))
	}
	return r
}

// Marshal encodes a ruleset as YAML
func Marshal(r *Ruleset) ([]byte, error) {
	return yaml.Marshal(r)
}

// Validate checks a ruleset for correctness and playability
func Validate(r *Ruleset) error {
	if r.Name == "" {
		return fmt.Errorf("ruleset validation: name is required")
	}
	if r.MinPlayers < MinPlayers || r.MaxPlayers > MaxPlayers || r.MinPlayers > r.MaxPlayers {
		return fmt.Errorf("ruleset validation: players must satisfy %d <= min_players (%d) <= max_players (%d) <= %d",
			MinPlayers, r.MinPlayers, r.MaxPlayers, MaxPlayers)
	}
	if r.Markers < 1 {
		return fmt.Errorf("ruleset validation: markers_per_player must be positive, got %d", r.Markers)
	}

	tiles, err := r.Templates()
	if err != nil {
		return err
	}
	if _, ok := tiles[r.StartTile]; !ok {
		return fmt.Errorf("ruleset validation: start_tile %q is not in the tile list", r.StartTile)
	}

	total := 0
	for _, spec := range r.Tiles {
		if spec.Count < 0 {
			return fmt.Errorf("ruleset validation: tile %s has negative count", spec.ID)
		}
		total += spec.Count
	}
	if total == 0 {
		return fmt.Errorf("ruleset validation: the deck holds no tiles")
	}
	return nil
}

// Templates builds the engine tile for every spec, keyed by id
func (r *Ruleset) Templates() (map[string]*engine.Tile, error) {
	out := make(map[string]*engine.Tile, len(r.Tiles))
	for i, spec := range r.Tiles {
		if _, dup := out[spec.ID]; dup {
			return nil, fmt.Errorf("ruleset validation: duplicate tile id %q", spec.ID)
		}
		t, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("ruleset validation: tile %d: %w", i+1, err)
		}
		out[spec.ID] = t
	}
	return out, nil
}

// Build converts the spec into an engine tile
func (s TileSpec) Build() (*engine.Tile, error) {
	var edges [4]engine.FeatureKind
	for i, name := range []string{s.Edges.N, s.Edges.E, s.Edges.S, s.Edges.W} {
		k, err := engine.ParseFeatureKind(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.ID, err)
		}
		edges[i] = k
	}

	var opts []engine.TileOption
	switch strings.ToLower(s.Center) {
	case "", "field":
	case "monastery":
		opts = append(opts, engine.WithMonastery())
	default:
		return nil, fmt.Errorf("%s: unknown center %q", s.ID, s.Center)
	}
	if s.Shield {
		opts = append(opts, engine.WithShield())
	}
	for _, group := range s.Connections {
		es := make([]engine.Edge, 0, len(group))
		for _, name := range group {
			e, err := engine.ParseEdge(name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.ID, err)
			}
			es = append(es, e)
		}
		opts = append(opts, engine.WithConnections(es...))
	}

	return engine.NewTile(s.ID, edges, opts...)
}

// Start returns the opening tile
func (r *Ruleset) Start() (*engine.Tile, error) {
	tiles, err := r.Templates()
	if err != nil {
		return nil, err
	}
	t, ok := tiles[r.StartTile]
	if !ok {
		return nil, fmt.Errorf("start tile %q not found", r.StartTile)
	}
	return t, nil
}

// NewDeck shuffles the ruleset's tiles with seed. The start tile is not part
// of the deck.
func (r *Ruleset) NewDeck(seed uint64) (*deck.Deck, error) {
	tiles, err := r.Templates()
	if err != nil {
		return nil, err
	}
	entries := make([]deck.Entry, 0, len(r.Tiles))
	for _, spec := range r.Tiles {
		entries = append(entries, deck.Entry{Tile: tiles[spec.ID], Count: spec.Count})
	}
	return deck.New(entries, seed)
}

// DeckSize returns the number of tiles in the deck
func (r *Ruleset) DeckSize() int {
	n := 0
	for _, spec := range r.Tiles {
		n += spec.Count
	}
	return n
}
