package engine

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
)

// loopAroundJunction closes a road that leaves a junction east and comes
// back in from the south. The junction is one tile even though two of its
// separate road ends belong to the road.
var loopAroundJunction = []move{
	{junction(), 0, Origin, NoPlayer, nil},
	{curve(), 2, Coordinate{1, 0}, "alice", side(SideOf(West))},
	{curve(), 3, Coordinate{1, -1}, "bob", nil},
	{curve(), 0, Coordinate{0, -1}, "alice", nil},
}

func TestLoopCountsEachTileOnce(t *testing.T) {
	g := NewGame()
	events := play(t, g, loopAroundJunction)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	if events[0].Tiles != 4 || events[0].Points != 4 {
		t.Errorf("event = %+v, want 4 tiles worth 4", events[0])
	}

	east, _ := g.FeatureAt(Origin, SideOf(East))
	south, _ := g.FeatureAt(Origin, SideOf(South))
	west, _ := g.FeatureAt(Origin, SideOf(West))
	if east.ID != south.ID {
		t.Errorf("east and south ends should share a feature: %d vs %d", east.ID, south.ID)
	}
	if west.ID == east.ID || west.Closed || west.Tiles != 1 || west.OpenSides != 1 {
		t.Errorf("west end = %+v, want its own open one-tile road", west)
	}
}

func TestSplitCitySegmentsStaySeparate(t *testing.T) {
	g := NewGame()
	twoCaps := MustTile("two-caps", [4]FeatureKind{City, Field, City, Field})
	play(t, g, []move{{twoCaps, 0, Origin, NoPlayer, nil}})

	north, _ := g.FeatureAt(Origin, SideOf(North))
	south, _ := g.FeatureAt(Origin, SideOf(South))
	if north.ID == south.ID {
		t.Fatal("unconnected city edges were merged")
	}
	if north.Tiles != 1 || north.OpenSides != 1 {
		t.Errorf("north cap = %+v", north)
	}
}

// partition maps every tracked side, named by coordinate and side, to the
// smallest name in its feature
func partition(g *Game) map[string]string {
	groups := map[FeatureID][]string{}
	for _, p := range g.Grid().Tiles() {
		for s := Side(North); s <= Center; s++ {
			f, err := g.FeatureAt(p.At, s)
			if err != nil {
				continue
			}
			groups[f.ID] = append(groups[f.ID], fmt.Sprintf("%s/%s", p.At, s))
		}
	}

	out := map[string]string{}
	for _, names := range groups {
		sort.Strings(names)
		for _, n := range names {
			out[n] = names[0]
		}
	}
	return out
}

func TestUnionOrderIndependence(t *testing.T) {
	tiles := map[Coordinate]move{}
	for _, m := range loopAroundJunction {
		m.claim = nil
		m.player = NoPlayer
		tiles[m.at] = m
	}
	orders := [][]Coordinate{
		{Origin, {1, 0}, {1, -1}, {0, -1}},
		{Origin, {0, -1}, {1, -1}, {1, 0}},
		{Origin, {1, 0}, {0, -1}, {1, -1}},
	}

	var want map[string]string
	var wantOpen []int
	for i, order := range orders {
		g := NewGame()
		var moves []move
		for _, at := range order {
			moves = append(moves, tiles[at])
		}
		play(t, g, moves)

		got := partition(g)
		var open []int
		for _, f := range g.OpenFeatures() {
			open = append(open, f.Tiles*10+f.OpenSides)
		}
		sort.Ints(open)

		if i == 0 {
			want, wantOpen = got, open
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("order %d partition = %v, want %v", i, got, want)
		}
		if !reflect.DeepEqual(open, wantOpen) {
			t.Errorf("order %d open features = %v, want %v", i, open, wantOpen)
		}
	}
}

func TestClosedFeatureNeverChanges(t *testing.T) {
	g := NewGame()
	play(t, g, []move{
		{straightEW(), 0, Origin, NoPlayer, nil},
		{junction(), 0, Coordinate{-1, 0}, "alice", nil},
		{junction(), 0, Coordinate{1, 0}, "bob", nil},
	})
	closed, _ := g.FeatureAt(Origin, SideOf(East))
	if !closed.Closed {
		t.Fatalf("road should be closed: %+v", closed)
	}

	// Grow the board around it
	play(t, g, []move{
		{meadow(), 0, Coordinate{0, 1}, "alice", nil},
		{meadow(), 0, Coordinate{0, -1}, "bob", nil},
		{straightEW(), 0, Coordinate{2, 0}, "alice", nil},
		{straightEW(), 0, Coordinate{-2, 0}, "bob", nil},
	})

	after, _ := g.Feature(closed.ID)
	if !after.Closed || after.OpenSides != 0 || after.Tiles != closed.Tiles {
		t.Errorf("closed road changed: %+v -> %+v", closed, after)
	}
	for _, f := range g.OpenFeatures() {
		if f.ID == closed.ID {
			t.Error("closed road listed as open")
		}
	}
}

func TestScoresAddUp(t *testing.T) {
	g := NewGame()
	events := play(t, g, []move{
		{cityCorner(), 0, Origin, NoPlayer, nil},
		{cityCorner(), 3, Coordinate{1, 0}, "alice", side(SideOf(North))},
		{cityCorner(), 1, Coordinate{0, 1}, "bob", nil},
		{cityCorner(WithShield()), 2, Coordinate{1, 1}, "bob", nil},
		{straightEW(), 0, Coordinate{0, -1}, "bob", side(SideOf(East))},
		{straightEW(), 0, Coordinate{1, -1}, "alice", nil},
		{straightEW(), 0, Coordinate{2, -1}, "alice", nil},
		{straightEW(), 0, Coordinate{-1, -1}, "bob", nil},
	})
	final, err := g.EndGame()
	if err != nil {
		t.Fatalf("EndGame: %v", err)
	}
	events = append(events, final...)

	// Closed city 2*4+2*1 to alice, open four-tile road 4/2 to bob
	want := map[PlayerID]int{"alice": 10, "bob": 2}
	if got := totalPoints(events); !reflect.DeepEqual(got, want) {
		t.Errorf("totals = %v, want %v", got, want)
	}
	if len(final) != 1 || !final[0].Final || final[0].Tiles != 4 {
		t.Errorf("final events = %+v", final)
	}
}

func TestInvariantViolations(t *testing.T) {
	expectInvariant := func(t *testing.T, op string, fn func()) {
		t.Helper()
		defer func() {
			r := recover()
			ie, ok := r.(*InvariantError)
			if !ok {
				t.Fatalf("expected *InvariantError panic, got %v", r)
			}
			if ie.Op != op {
				t.Errorf("invariant op = %q, want %q", ie.Op, op)
			}
		}()
		fn()
	}

	t.Run("double put", func(t *testing.T) {
		g := NewGame()
		g.Place(meadow(), 0, Origin, NoPlayer)
		expectInvariant(t, "grid.put", func() {
			g.Grid().Put(&PlacedTile{Tile: meadow(), At: Origin, Index: 1})
		})
	})

	t.Run("unvalidated mismatch", func(t *testing.T) {
		grid := NewGrid()
		fg := newFeatureGraph(grid)
		a := &PlacedTile{Tile: straightEW(), At: Origin, Index: 0}
		grid.Put(a)
		fg.registerTile(a)

		b := &PlacedTile{Tile: cityCorner(), Rotation: 3, At: Coordinate{1, 0}, Index: 1}
		grid.Put(b)
		expectInvariant(t, "features.register", func() {
			fg.registerTile(b)
		})
	})

	t.Run("double register", func(t *testing.T) {
		grid := NewGrid()
		fg := newFeatureGraph(grid)
		a := &PlacedTile{Tile: straightEW(), At: Origin, Index: 0}
		grid.Put(a)
		fg.registerTile(a)
		expectInvariant(t, "features.register", func() {
			fg.registerTile(a)
		})
	})

	t.Run("nil tile", func(t *testing.T) {
		expectInvariant(t, "placement.check", func() {
			CheckPlacement(NewGrid(), nil, 0, Origin)
		})
	})
}
