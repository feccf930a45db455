package websocket

import (
	"errors"
	"fmt"

	"booklog-backend/domain/core/valueobjects"
	"booklog-backend/domain/layout"
	knowledge "booklog-backend/domain/services"
)

var (
	errNoGraph        = errors.New("graph is not loaded yet")
	errUnknownCommand = errors.New("unknown command")
	errInvalidZoom    = errors.New("zoom factor must be positive")
)

// liveView is the state of one open graph view. It is owned by the session's run
// goroutine and never shared.
type liveView struct {
	graph        *knowledge.KnowledgeGraph
	sim          *layout.Simulation
	viewport     layout.Viewport
	presentation layout.Presentation

	// dirty is set when something visible changed without a physics step
	dirty bool
}

func newLiveView(p layout.Presentation) *liveView {
	return &liveView{viewport: layout.IdentityViewport(), presentation: p}
}

// load replaces the graph and its simulation. Zoom and pan start over with the new
// graph, the same way pins do.
func (v *liveView) load(g *knowledge.KnowledgeGraph, sim *layout.Simulation) {
	v.graph = g
	v.sim = sim
	v.viewport = layout.IdentityViewport()
	v.dirty = true
}

func (v *liveView) screenToWorld(cmd Command) valueobjects.Position {
	return v.viewport.Invert(valueobjects.Position{X: cmd.X, Y: cmd.Y})
}

// apply handles one client command
func (v *liveView) apply(cmd Command) error {
	switch cmd.Type {
	case CommandDragStart, CommandDragMove, CommandDragEnd:
		if v.sim == nil {
			return errNoGraph
		}
		var err error
		switch cmd.Type {
		case CommandDragStart:
			err = v.sim.DragStart(cmd.ID, v.screenToWorld(cmd))
		case CommandDragMove:
			err = v.sim.DragMove(cmd.ID, v.screenToWorld(cmd))
		default:
			err = v.sim.DragEnd(cmd.ID)
		}
		if err != nil {
			return fmt.Errorf("%s %q: %w", cmd.Type, cmd.ID, err)
		}
		v.dirty = true
		return nil

	case CommandZoom:
		if cmd.Factor <= 0 {
			return errInvalidZoom
		}
		v.viewport = v.viewport.ZoomAt(cmd.Factor, valueobjects.Position{X: cmd.X, Y: cmd.Y})
		v.dirty = true
		return nil

	case CommandPan:
		v.viewport = v.viewport.Pan(cmd.DX, cmd.DY)
		v.dirty = true
		return nil

	case CommandResize:
		p, err := layout.ParsePresentation(cmd.Mode, cmd.Width, cmd.Height)
		if err != nil {
			return err
		}
		v.presentation = p
		if v.sim != nil {
			v.sim.Resize(float64(p.Width), float64(p.Height))
		}
		v.dirty = true
		return nil

	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd.Type)
	}
}

// advance runs one step while the layout is hot and reports whether a new frame
// should be drawn
func (v *liveView) advance() bool {
	if v.sim == nil {
		return false
	}
	stepped := v.sim.Step()
	if stepped || v.dirty {
		v.dirty = false
		return true
	}
	return false
}

func (v *liveView) frame() layout.Frame {
	return layout.FrameOf(v.sim, v.viewport, v.presentation)
}

func (v *liveView) graphPayload() GraphPayload {
	return GraphPayload{
		Nodes:        v.graph.Nodes,
		Edges:        v.graph.Edges,
		Stats:        v.graph.Stats(),
		Presentation: v.presentation,
	}
}
