// Package deck provides the shuffled tile supply drawn by the turn loop.
//
// A Deck is built from entries that pair a tile template with a copy count.
// The copies are shuffled once with a PCG generator seeded by the caller,
// so the same entries and seed always deal the same order.
//
// Usage:
//
//	d, err := deck.New([]deck.Entry{
//		{Tile: straight, Count: 8},
//		{Tile: curve, Count: 9},
//	}, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for t, ok := d.Next(); ok; t, ok = d.Next() {
//		fmt.Println(t.ID(), d.Remaining())
//	}
//
// A Deck is not safe for concurrent use; the match that owns it is guarded
// by its session.
package deck
