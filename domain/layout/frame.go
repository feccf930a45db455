package layout

import "fmt"

// Mode is how the graph is presented on the page
type Mode string

const (
	ModeInline     Mode = "inline"
	ModeFullscreen Mode = "fullscreen"
)

const (
	InlineHeight       = 400
	DefaultInlineWidth = 800
	minDimension       = 100
	maxDimension       = 8192
)

// Presentation is the mode and pixel size of the drawing surface
type Presentation struct {
	Mode   Mode `json:"mode"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

func clampDimension(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	if v < minDimension {
		return minDimension
	}
	if v > maxDimension {
		return maxDimension
	}
	return v
}

// Inline is the embedded view: container width, fixed height
func Inline(width int) Presentation {
	return Presentation{Mode: ModeInline, Width: clampDimension(width, DefaultInlineWidth), Height: InlineHeight}
}

// Fullscreen expands to the viewport size
func Fullscreen(viewportWidth, viewportHeight int) Presentation {
	return Presentation{
		Mode:   ModeFullscreen,
		Width:  clampDimension(viewportWidth, DefaultInlineWidth),
		Height: clampDimension(viewportHeight, InlineHeight),
	}
}

// ParsePresentation builds a presentation from request values
func ParsePresentation(mode string, width, height int) (Presentation, error) {
	switch Mode(mode) {
	case "", ModeInline:
		return Inline(width), nil
	case ModeFullscreen:
		return Fullscreen(width, height), nil
	default:
		return Presentation{}, fmt.Errorf("unknown presentation mode %q", mode)
	}
}

// Frame is everything needed to draw one simulation step
type Frame struct {
	Presentation Presentation          `json:"presentation"`
	Viewport     Viewport       `json:"viewport"`
	Nodes        []NodePosition `json:"nodes"`
	Edges        []Segment      `json:"edges"`
	Alpha        float64               `json:"alpha"`
}

// FrameOf snapshots the simulation's current state
func FrameOf(sim *Simulation, viewport Viewport, p Presentation) Frame {
	return Frame{
		Presentation: p,
		Viewport:     viewport,
		Nodes:        sim.Positions(),
		Edges:        sim.Segments(),
		Alpha:        sim.Alpha(),
	}
}
