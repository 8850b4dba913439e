package engine

// CheckPlacement reports whether tile t turned r may go at cell at. It
// returns nil for a legal placement and a *PlacementError otherwise. It never
// modifies the grid.
func CheckPlacement(g *Grid, t *Tile, r Rotation, at Coordinate) error {
	if t == nil {
		invariant("placement.check", "nil tile")
	}
	if !r.Valid() {
		return &PlacementError{At: at, Rotation: r, Reason: ErrInvalidRotation}
	}

	// The opening tile goes at the origin with nothing to match
	if g.Len() == 0 {
		if at != Origin {
			return &PlacementError{At: at, Rotation: r, Reason: ErrNotOrigin}
		}
		return nil
	}

	if g.Occupied(at) {
		return &PlacementError{At: at, Rotation: r, Reason: ErrCellOccupied}
	}

	hasNeighbor := false
	for _, n := range g.NeighborsOf(at) {
		if n.Tile == nil {
			continue
		}
		hasNeighbor = true

		mine := t.EdgeAt(r, n.Edge)
		theirs := n.Tile.EdgeAt(n.Edge.Opposite())
		if mine != theirs {
			return &PlacementError{
				At:       at,
				Rotation: r,
				Reason:   ErrEdgeMismatch,
				Edge:     n.Edge,
				Have:     mine,
				Want:     theirs,
			}
		}
	}

	if !hasNeighbor {
		return &PlacementError{At: at, Rotation: r, Reason: ErrNoNeighbor}
	}
	return nil
}

// IsLegal is the boolean form of CheckPlacement
func IsLegal(g *Grid, t *Tile, r Rotation, at Coordinate) bool {
	return CheckPlacement(g, t, r, at) == nil
}

// LegalPlacements lists every legal cell and rotation for t, frontier order
// then rotation order
func LegalPlacements(g *Grid, t *Tile) []Placement {
	if g.Len() == 0 {
		out := make([]Placement, 0, 4)
		for r := Rotation(0); r < 4; r++ {
			out = append(out, Placement{At: Origin, Rotation: r})
		}
		return out
	}

	var out []Placement
	for _, at := range g.Frontier() {
		for r := Rotation(0); r < 4; r++ {
			if IsLegal(g, t, r, at) {
				out = append(out, Placement{At: at, Rotation: r})
			}
		}
	}
	return out
}
