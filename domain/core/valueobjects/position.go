package valueobjects

import (
	"math"

	pkgerrors "booklog-backend/pkg/errors"
)

// Position is a point in the untransformed layout plane
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position, rejecting NaN and infinite coordinates
func NewPosition(x, y float64) (Position, error) {
	if !isValidCoordinate(x) || !isValidCoordinate(y) {
		return Position{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Position{X: x, Y: y}, nil
}

// DistanceTo calculates the Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Translate moves the position by the given offsets
func (p Position) Translate(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Scale multiplies both coordinates by k
func (p Position) Scale(k float64) Position {
	return Position{X: p.X * k, Y: p.Y * k}
}

// Equals compares with a small tolerance
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.X-other.X) < epsilon && math.Abs(p.Y-other.Y) < epsilon
}

func isValidCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
