package engine

import "fmt"

// Claim is one marker sitting on a feature
type Claim struct {
	Player PlayerID   `json:"player"`
	At     Coordinate `json:"at"`
	Side   Side       `json:"side"`
}

// claim puts a marker on the feature rooted at root. The merged class must be
// open and hold no marker yet.
func (fg *featureGraph) claim(root int, c Claim) error {
	if !fg.registered(root) {
		return fmt.Errorf("%w: feature %d", ErrNotClaimable, root)
	}
	root = fg.find(root)
	a := &fg.agg[root]
	if a.closed {
		return fmt.Errorf("%w: feature %d", ErrFeatureClosed, root)
	}
	if len(a.claims) > 0 {
		return fmt.Errorf("%w: feature %d held by %s", ErrAlreadyClaimed, root, a.claims[0].Player)
	}
	a.claims = append(a.claims, c)
	return nil
}

// release clears and returns every claim on root
func (fg *featureGraph) release(root int) []Claim {
	a := &fg.agg[fg.find(root)]
	out := a.claims
	a.claims = nil
	return out
}

// claimants groups claims by player, in first-claim order
func claimants(claims []Claim) ([]PlayerID, map[PlayerID]int) {
	var order []PlayerID
	counts := make(map[PlayerID]int, len(claims))
	for _, c := range claims {
		if counts[c.Player] == 0 {
			order = append(order, c.Player)
		}
		counts[c.Player]++
	}
	return order, counts
}
