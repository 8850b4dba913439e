package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/wricardo/carcassonne-engine/game/engine"
)

// ErrEmptyDeck is returned when a deck would contain no tiles
var ErrEmptyDeck = errors.New("deck has no tiles")

// Entry is one tile template and how many copies the deck holds
type Entry struct {
	Tile  *engine.Tile
	Count int
}

// Deck is a shuffled, exhaustible tile supply. Not safe for concurrent use.
type Deck struct {
	tiles []*engine.Tile
	next  int
	seed  uint64
}

// New expands entries and shuffles them. The same entries and seed always
// give the same order.
func New(entries []Entry, seed uint64) (*Deck, error) {
	var tiles []*engine.Tile
	for _, e := range entries {
		if e.Tile == nil {
			return nil, fmt.Errorf("deck entry without a tile")
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("tile %s has negative count %d", e.Tile.ID(), e.Count)
		}
		for i := 0; i < e.Count; i++ {
			tiles = append(tiles, e.Tile)
		}
	}
	if len(tiles) == 0 {
		return nil, ErrEmptyDeck
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})

	return &Deck{tiles: tiles, seed: seed}, nil
}

// Next draws the top tile. ok is false once the deck is exhausted.
func (d *Deck) Next() (*engine.Tile, bool) {
	if d.next >= len(d.tiles) {
		return nil, false
	}
	t := d.tiles[d.next]
	d.next++
	return t, true
}

// Remaining returns how many tiles are left
func (d *Deck) Remaining() int {
	return len(d.tiles) - d.next
}

// Len returns the size of the full deck
func (d *Deck) Len() int {
	return len(d.tiles)
}

// Seed returns the shuffle seed
func (d *Deck) Seed() uint64 {
	return d.seed
}
