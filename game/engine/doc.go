// Package engine provides tile placement and feature connectivity for a
// Carcassonne-style game.
//
// The engine package implements the rules that need real bookkeeping:
//   - Edge matching of rotated tiles on an unbounded grid
//   - Incremental tracking of roads, cities and monasteries across tiles
//   - Marker claims on features
//   - Closure detection with immediate scoring and terminal scoring
//
// Core Types:
//
// Tile is an immutable template with four edge kinds, an optional monastery
// center, an optional city shield and its internal edge connections. Grid is
// the sparse board of PlacedTile values. Game combines the grid with a
// union-find over feature sides and implements the Engine interface.
//
// Usage:
//
//	g := engine.NewGame()
//	start := engine.MustTile("start", [4]engine.FeatureKind{
//		engine.City, engine.Road, engine.Field, engine.Road,
//	}, engine.WithConnections(engine.East, engine.West))
//
//	res, err := g.Place(start, 0, engine.Origin, engine.NoPlayer)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// A player places a tile and puts a marker on its road
//	res, err = g.Place(straight, 1, engine.Coordinate{X: 1}, "alice")
//	if errors.Is(err, engine.ErrIllegalPlacement) {
//		// try another cell or rotation
//	}
//	_, err = g.ClaimSide(engine.SideOf(engine.East), "alice")
//
//	// Once the tile supply runs out
//	events, _ := g.EndGame()
//
// Rules:
//
// A road scores one point per tile when closed, a city two points per tile
// and two per shield, a monastery nine points once all eight surrounding
// cells are filled. Features still open at the end score half, rounded
// down, and a monastery scores one point plus one per neighbour. When two
// separately claimed fragments join, every claimant scores the full value.
//
// Errors:
//
// Illegal moves return errors matching the exported sentinels and leave the
// game unchanged. Misuse that would corrupt the feature graph, such as
// putting a tile on the grid without validation, panics with *InvariantError.
package engine
