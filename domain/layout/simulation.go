package layout

import (
	"errors"
	"math"
	"math/rand"

	"booklog-backend/domain/core/valueobjects"
	"booklog-backend/domain/services"
)

// ErrUnknownNode is returned by pin and drag operations for ids not in the graph
var ErrUnknownNode = errors.New("layout: unknown node")

// initialAngle spaces the starting spiral (the golden angle)
var initialAngle = math.Pi * (3 - math.Sqrt(5))

const initialRadius = 10.0

// Node is a graph node with its physics state
type Node struct {
	ID     string
	Kind   services.NodeKind
	Label  string
	X, Y   float64
	VX, VY float64
	Radius float64

	fixed  bool
	fx, fy float64
}

type link struct {
	source, target int
	strength, bias float64
}

// NodePosition is a node's state as seen by renderers
type NodePosition struct {
	ID     string            `json:"id"`
	Kind   services.NodeKind `json:"kind"`
	Label  string            `json:"label"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Pinned bool              `json:"pinned,omitempty"`
}

// Segment is an edge between two current node positions
type Segment struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Simulation is a force-directed layout of one graph. It is not safe for concurrent
// use: the owner drives it from a single goroutine and replaces it when the data changes.
type Simulation struct {
	nodes []*Node
	index map[string]int
	links []link

	width, height float64
	alpha         float64
	alphaTarget   float64

	params Params
	rng    *rand.Rand
}

// NewSimulation places the graph's nodes on a spiral around the canvas center and
// starts hot (alpha = 1)
func NewSimulation(g *services.KnowledgeGraph, width, height float64, params Params) *Simulation {
	params = params.WithDefaults()
	s := &Simulation{
		index:  make(map[string]int, len(g.Nodes)),
		width:  width,
		height: height,
		alpha:  1,
		params: params,
		rng:    rand.New(rand.NewSource(params.Seed)),
	}

	for i, gn := range g.Nodes {
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		s.index[gn.ID] = i
		s.nodes = append(s.nodes, &Node{
			ID:     gn.ID,
			Kind:   gn.Kind,
			Label:  gn.Label,
			X:      width/2 + radius*math.Cos(angle),
			Y:      height/2 + radius*math.Sin(angle),
			Radius: params.CollideRadius,
		})
	}

	degree := make([]int, len(s.nodes))
	for _, e := range g.Edges {
		src, okS := s.index[e.Source]
		tgt, okT := s.index[e.Target]
		if !okS || !okT || src == tgt {
			continue
		}
		s.links = append(s.links, link{source: src, target: tgt})
		degree[src]++
		degree[tgt]++
	}
	for i := range s.links {
		l := &s.links[i]
		ds, dt := float64(degree[l.source]), float64(degree[l.target])
		l.strength = 1 / math.Min(ds, dt)
		l.bias = ds / (ds + dt)
	}

	return s
}

// Tick advances the simulation by one relaxation step regardless of temperature
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.params.AlphaDecay

	s.applyLinks(s.alpha)
	s.applyCharge(s.alpha)
	s.applyCenter()
	s.applyCollide()

	keep := 1 - s.params.VelocityDecay
	for _, n := range s.nodes {
		if n.fixed {
			n.X, n.Y = n.fx, n.fy
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}
}

// Step is the per-frame callback: it ticks while the simulation is warm and returns
// false without touching positions once it has cooled down.
func (s *Simulation) Step() bool {
	if s.Stable() {
		return false
	}
	s.Tick()
	return true
}

// Stable reports whether alpha has decayed below AlphaMin with nothing reheating it
func (s *Simulation) Stable() bool {
	return s.alpha < s.params.AlphaMin && s.alphaTarget < s.params.AlphaMin
}

// RunUntilStable ticks until the layout cools or maxTicks is reached and returns the
// number of ticks run
func (s *Simulation) RunUntilStable(maxTicks int) int {
	n := 0
	for n < maxTicks && s.Step() {
		n++
	}
	return n
}

// Reheat raises the target temperature so neighbours react to a moving node
func (s *Simulation) Reheat() {
	s.alphaTarget = s.params.ReheatTarget
}

// Cool lets the simulation decay back to rest
func (s *Simulation) Cool() {
	s.alphaTarget = 0
}

// Restart sets alpha back to 1
func (s *Simulation) Restart() {
	s.alpha = 1
}

// Resize moves the centering target to the middle of the new canvas and restarts
func (s *Simulation) Resize(width, height float64) {
	s.width, s.height = width, height
	s.Restart()
}

// Pin fixes a node at pos; physics no longer moves it
func (s *Simulation) Pin(id string, pos valueobjects.Position) error {
	i, ok := s.index[id]
	if !ok {
		return ErrUnknownNode
	}
	n := s.nodes[i]
	n.fixed = true
	n.fx, n.fy = pos.X, pos.Y
	return nil
}

// Unpin releases a pinned node
func (s *Simulation) Unpin(id string) error {
	i, ok := s.index[id]
	if !ok {
		return ErrUnknownNode
	}
	s.nodes[i].fixed = false
	return nil
}

// DragStart pins the node under the pointer and reheats
func (s *Simulation) DragStart(id string, pos valueobjects.Position) error {
	if err := s.Pin(id, pos); err != nil {
		return err
	}
	s.Reheat()
	return nil
}

// DragMove keeps the dragged node on the pointer
func (s *Simulation) DragMove(id string, pos valueobjects.Position) error {
	return s.Pin(id, pos)
}

// DragEnd releases the node and lets the layout cool
func (s *Simulation) DragEnd(id string) error {
	if err := s.Unpin(id); err != nil {
		return err
	}
	s.Cool()
	return nil
}

// Alpha returns the current temperature
func (s *Simulation) Alpha() float64 { return s.alpha }

// Size returns the canvas the layout is centered in
func (s *Simulation) Size() (width, height float64) { return s.width, s.height }

// Len returns the number of nodes
func (s *Simulation) Len() int { return len(s.nodes) }

// Position returns a node's current position
func (s *Simulation) Position(id string) (valueobjects.Position, bool) {
	i, ok := s.index[id]
	if !ok {
		return valueobjects.Position{}, false
	}
	return valueobjects.Position{X: s.nodes[i].X, Y: s.nodes[i].Y}, true
}

// Positions snapshots all nodes in graph order
func (s *Simulation) Positions() []NodePosition {
	out := make([]NodePosition, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = NodePosition{ID: n.ID, Kind: n.Kind, Label: n.Label, X: n.X, Y: n.Y, Pinned: n.fixed}
	}
	return out
}

// Segments snapshots the edges as line segments between current positions
func (s *Simulation) Segments() []Segment {
	out := make([]Segment, len(s.links))
	for i, l := range s.links {
		src, tgt := s.nodes[l.source], s.nodes[l.target]
		out[i] = Segment{Source: src.ID, Target: tgt.ID, X1: src.X, Y1: src.Y, X2: tgt.X, Y2: tgt.Y}
	}
	return out
}
