package engine

import "sort"

// ScoreEvent credits one player for one feature. When several players hold
// markers on a feature each of them receives the full value.
type ScoreEvent struct {
	Player  PlayerID    `json:"player"`
	Feature FeatureID   `json:"feature"`
	Kind    FeatureKind `json:"kind"`
	Points  int         `json:"points"`
	Tiles   int         `json:"tiles"`
	Markers int         `json:"markers"` // markers returned to Player
	Final   bool        `json:"final,omitempty"`
}

// closedValue is the score of a completed feature
func closedValue(a *aggregate) int {
	switch a.kind {
	case Road:
		return a.tiles
	case City:
		return 2*a.tiles + 2*a.shields
	case Monastery:
		return 9
	}
	return 0
}

// terminalValue is the score of a feature still open at game end
func (fg *featureGraph) terminalValue(a *aggregate) int {
	switch a.kind {
	case Road:
		return a.tiles / 2
	case City:
		return (2*a.tiles + 2*a.shields) / 2
	case Monastery:
		return 1 + fg.grid.OccupiedAround(a.center)
	}
	return 0
}

// isClosed checks closure from the aggregate, or from the surrounding cells
// for a monastery
func (fg *featureGraph) isClosed(root int) bool {
	a := &fg.agg[root]
	if a.closed {
		return true
	}
	if a.kind == Monastery {
		return fg.grid.OccupiedAround(a.center) == 8
	}
	return a.openSides == 0
}

// onPlacement scores and retires every feature closed by the placement at at.
// roots are the classes holding the placed tile's sides.
func (fg *featureGraph) onPlacement(roots []int, at Coordinate) []ScoreEvent {
	candidates := append([]int(nil), roots...)
	candidates = append(candidates, fg.monasteriesNear(at)...)
	sort.Ints(candidates)

	var events []ScoreEvent
	for i, root := range candidates {
		if i > 0 && candidates[i-1] == root {
			continue
		}
		if fg.agg[root].closed || !fg.isClosed(root) {
			continue
		}
		events = append(events, fg.award(root, closedValue(&fg.agg[root]), false)...)
		fg.agg[root].closed = true
	}
	return events
}

// finalize scores every open claimed feature at terminal value and releases
// all remaining markers
func (fg *featureGraph) finalize() []ScoreEvent {
	var events []ScoreEvent
	for _, root := range fg.roots() {
		a := &fg.agg[root]
		if a.closed || len(a.claims) == 0 {
			continue
		}
		events = append(events, fg.award(root, fg.terminalValue(a), true)...)
	}
	return events
}

// award emits one event per distinct claimant of root and releases the claims
func (fg *featureGraph) award(root, points int, final bool) []ScoreEvent {
	a := &fg.agg[root]
	order, counts := claimants(fg.release(root))
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	events := make([]ScoreEvent, 0, len(order))
	for _, p := range order {
		events = append(events, ScoreEvent{
			Player:  p,
			Feature: FeatureID(root),
			Kind:    a.kind,
			Points:  points,
			Tiles:   a.tiles,
			Markers: counts[p],
			Final:   final,
		})
	}
	return events
}
