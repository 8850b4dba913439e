// Package ruleset describes tile catalogues and table limits in YAML and
// turns them into engine tiles and shuffled decks.
//
// Ruleset Format:
//
//	name: Classic
//	description: The 72 tiles of the base game without farmers
//	min_players: 2
//	max_players: 5
//	markers_per_player: 7
//	start_tile: city-road-straight
//	tiles:
//	  - id: city-road-straight
//	    edges: {n: city, e: road, s: field, w: road}
//	    connections: [[e, w]]
//	    count: 3
//
// Edges are listed unrotated as North, East, South, West. Road and city
// edges not named in a connection group are separate features. A center of
// "monastery" makes the tile a monastery; shield adds a pennant to its city.
// The start tile is placed before play and is not part of the deck, so
// count only sets the copies that are drawn.
//
// Validation:
//
// Parse checks a document against the embedded JSON Schema first and then
// semantically: player limits, a positive marker supply, unique tile ids,
// tiles the engine accepts, a start tile from the list and a non-empty deck.
//
// Usage:
//
//	r, err := ruleset.Parse(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	start, _ := r.Start()
//	d, _ := r.NewDeck(seed)
//
// Classic returns the embedded base game.
package ruleset
