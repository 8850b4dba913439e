package engine

import (
	"errors"
	"fmt"
)

// Recoverable errors. A rejected call never changes game state.
var (
	ErrIllegalPlacement = errors.New("illegal placement")
	ErrCellOccupied     = errors.New("cell already occupied")
	ErrNoNeighbor       = errors.New("no adjacent tile")
	ErrEdgeMismatch     = errors.New("edge does not match neighbour")
	ErrNotOrigin        = errors.New("first tile must go at the origin")
	ErrInvalidRotation  = errors.New("rotation must be between 0 and 3")

	ErrAlreadyClaimed      = errors.New("feature already claimed")
	ErrFeatureClosed       = errors.New("feature is closed")
	ErrNotClaimable        = errors.New("nothing to claim there")
	ErrUnknownFeature      = errors.New("unknown feature")
	ErrClaimWindowClosed   = errors.New("markers may only go on the tile just placed")
	ErrWrongPlayer         = errors.New("only the player who placed the tile may claim")
	ErrMarkerAlreadyPlaced = errors.New("a marker was already placed this turn")

	ErrGameOver = errors.New("game is over")
)

// PlacementError explains why a placement was rejected. It matches both
// ErrIllegalPlacement and its Reason with errors.Is.
type PlacementError struct {
	At       Coordinate
	Rotation Rotation
	Reason   error

	// Set for ErrEdgeMismatch
	Edge Edge
	Have FeatureKind
	Want FeatureKind
}

// Error implements error
func (e *PlacementError) Error() string {
	if errors.Is(e.Reason, ErrEdgeMismatch) {
		return fmt.Sprintf("%s at %s rotation %d: %s edge is %s but neighbour needs %s",
			ErrIllegalPlacement, e.At, e.Rotation, e.Edge, e.Have, e.Want)
	}
	return fmt.Sprintf("%s at %s rotation %d: %v", ErrIllegalPlacement, e.At, e.Rotation, e.Reason)
}

// Unwrap exposes both the category and the reason
func (e *PlacementError) Unwrap() []error {
	return []error{ErrIllegalPlacement, e.Reason}
}

// InvariantError reports a broken engine invariant, which can only come from
// a caller skipping validation or from a bug. It is raised with panic.
type InvariantError struct {
	Op     string
	Detail string
}

// Error implements error
func (e *InvariantError) Error() string {
	return fmt.Sprintf("engine invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
