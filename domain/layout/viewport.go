package layout

import (
	"fmt"
	"math"

	"booklog-backend/domain/core/valueobjects"
)

const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// Viewport is the zoom/pan transform between layout space and the screen:
// screen = world*K + (X, Y)
type Viewport struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IdentityViewport is the unzoomed, unpanned view
func IdentityViewport() Viewport {
	return Viewport{K: 1}
}

func clampZoom(k float64) float64 {
	if math.IsNaN(k) || k <= 0 {
		return MinZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, k))
}

// ZoomAt scales by factor around anchor (a screen point that stays put)
func (v Viewport) ZoomAt(factor float64, anchor valueobjects.Position) Viewport {
	return v.ZoomTo(v.K*factor, anchor)
}

// ZoomTo sets the scale, clamped to [MinZoom, MaxZoom], around anchor
func (v Viewport) ZoomTo(k float64, anchor valueobjects.Position) Viewport {
	world := v.Invert(anchor)
	k = clampZoom(k)
	return Viewport{
		K: k,
		X: anchor.X - world.X*k,
		Y: anchor.Y - world.Y*k,
	}
}

// Pan translates the view by a screen-space offset
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// Apply maps a layout position to the screen
func (v Viewport) Apply(p valueobjects.Position) valueobjects.Position {
	return valueobjects.Position{X: p.X*v.K + v.X, Y: p.Y*v.K + v.Y}
}

// Invert maps a screen point back to layout space
func (v Viewport) Invert(p valueobjects.Position) valueobjects.Position {
	k := v.K
	if k == 0 {
		k = 1
	}
	return valueobjects.Position{X: (p.X - v.X) / k, Y: (p.Y - v.Y) / k}
}

// Transform is the SVG transform attribute of the view
func (v Viewport) Transform() string {
	return fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", v.X, v.Y, v.K)
}
