package layout

import (
	"fmt"
	"math"
	"testing"

	"booklog-backend/domain/core/entities"
	"booklog-backend/domain/core/valueobjects"
	"booklog-backend/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWidth  = 800.0
	testHeight = 400.0
)

func treeGraph(books int) *services.KnowledgeGraph {
	var records []entities.BookRecord
	for i := 0; i < books; i++ {
		records = append(records, entities.BookRecord{
			ID:     fmt.Sprintf("b%d", i),
			Title:  fmt.Sprintf("book %d", i),
			Author: fmt.Sprintf("author %d", i),
		})
	}
	return services.NewGraphBuilder(nil, 0).Build(records)
}

func maxDisplacement(before, after []NodePosition) float64 {
	var worst float64
	for i := range before {
		d := math.Hypot(after[i].X-before[i].X, after[i].Y-before[i].Y)
		worst = math.Max(worst, d)
	}
	return worst
}

func centroid(ps []NodePosition) valueobjects.Position {
	var c valueobjects.Position
	for _, p := range ps {
		c.X += p.X
		c.Y += p.Y
	}
	return c.Scale(1 / float64(len(ps)))
}

func TestNewSimulation_StartsAroundCenter(t *testing.T) {
	sim := NewSimulation(treeGraph(3), testWidth, testHeight, Params{})

	assert.Equal(t, 7, sim.Len())
	assert.Equal(t, 1.0, sim.Alpha())
	assert.False(t, sim.Stable())

	for _, p := range sim.Positions() {
		assert.Less(t, math.Hypot(p.X-testWidth/2, p.Y-testHeight/2), 50.0, p.ID)
	}
}

func TestSimulation_Converges(t *testing.T) {
	sim := NewSimulation(treeGraph(3), testWidth, testHeight, DefaultParams())

	ticks := sim.RunUntilStable(2000)
	require.True(t, sim.Stable())
	assert.Less(t, ticks, 2000)
	assert.Less(t, sim.Alpha(), DefaultParams().AlphaMin)

	before := sim.Positions()
	sim.Tick()
	assert.Less(t, maxDisplacement(before, sim.Positions()), 0.5)

	c := centroid(sim.Positions())
	assert.InDelta(t, testWidth/2, c.X, 1)
	assert.InDelta(t, testHeight/2, c.Y, 1)
}

func TestSimulation_StepStopsWhenCool(t *testing.T) {
	sim := NewSimulation(treeGraph(2), testWidth, testHeight, Params{})
	sim.RunUntilStable(2000)

	before := sim.Positions()
	assert.False(t, sim.Step())
	assert.Equal(t, before, sim.Positions())

	sim.Reheat()
	assert.True(t, sim.Step())
}

func TestSimulation_SpringsAndCollisions(t *testing.T) {
	sim := NewSimulation(treeGraph(6), testWidth, testHeight, Params{})
	sim.RunUntilStable(2000)

	root, ok := sim.Position(services.RootNodeID)
	require.True(t, ok)
	for i := 0; i < 6; i++ {
		b, ok := sim.Position(fmt.Sprintf("b%d", i))
		require.True(t, ok)
		// repulsion stretches springs a little beyond their rest length
		d := b.DistanceTo(root)
		assert.Greater(t, d, 60.0)
		assert.Less(t, d, 200.0)
	}

	ps := sim.Positions()
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			d := math.Hypot(ps[i].X-ps[j].X, ps[i].Y-ps[j].Y)
			assert.Greater(t, d, 55.0, "%s and %s overlap", ps[i].ID, ps[j].ID)
		}
	}
}

func TestSimulation_DragPinsAndReleases(t *testing.T) {
	sim := NewSimulation(treeGraph(3), testWidth, testHeight, Params{})
	sim.RunUntilStable(2000)

	neighbourBefore, _ := sim.Position(services.AuthorNodeID("author 0"))
	pointer := valueobjects.Position{X: 20, Y: 20}

	require.NoError(t, sim.DragStart("b0", pointer))
	assert.False(t, sim.Stable())
	for i := 0; i < 50; i++ {
		require.NoError(t, sim.DragMove("b0", pointer))
		require.True(t, sim.Step())
	}

	pinned, _ := sim.Position("b0")
	assert.True(t, pinned.Equals(pointer))
	neighbourAfter, _ := sim.Position(services.AuthorNodeID("author 0"))
	assert.Greater(t, neighbourAfter.DistanceTo(neighbourBefore), 1.0, "neighbour should follow the dragged node")

	require.NoError(t, sim.DragEnd("b0"))
	for i := 0; i < 100; i++ {
		sim.Step()
	}
	released, _ := sim.Position("b0")
	assert.Greater(t, released.DistanceTo(pointer), 1.0, "released node moves under the forces again")

	sim.RunUntilStable(3000)
	assert.True(t, sim.Stable())
	for _, p := range sim.Positions() {
		assert.False(t, p.Pinned)
	}
}

func TestSimulation_UnknownNode(t *testing.T) {
	sim := NewSimulation(treeGraph(1), testWidth, testHeight, Params{})

	assert.ErrorIs(t, sim.Pin("nope", valueobjects.Position{}), ErrUnknownNode)
	assert.ErrorIs(t, sim.Unpin("nope"), ErrUnknownNode)
	assert.ErrorIs(t, sim.DragStart("nope", valueobjects.Position{}), ErrUnknownNode)
	assert.ErrorIs(t, sim.DragEnd("nope"), ErrUnknownNode)
	_, ok := sim.Position("nope")
	assert.False(t, ok)
}

func TestSimulation_Resize(t *testing.T) {
	sim := NewSimulation(treeGraph(3), testWidth, testHeight, Params{})
	sim.RunUntilStable(2000)

	sim.Resize(1600, 900)
	assert.Equal(t, 1.0, sim.Alpha())
	w, h := sim.Size()
	assert.Equal(t, 1600.0, w)
	assert.Equal(t, 900.0, h)

	sim.RunUntilStable(2000)
	c := centroid(sim.Positions())
	assert.InDelta(t, 800, c.X, 1)
	assert.InDelta(t, 450, c.Y, 1)
}

func TestSimulation_Deterministic(t *testing.T) {
	g := treeGraph(5)
	a := NewSimulation(g, testWidth, testHeight, Params{})
	b := NewSimulation(g, testWidth, testHeight, Params{})
	for i := 0; i < 120; i++ {
		a.Tick()
		b.Tick()
	}
	assert.Equal(t, a.Positions(), b.Positions())
}

func TestSimulation_Segments(t *testing.T) {
	g := treeGraph(2)
	sim := NewSimulation(g, testWidth, testHeight, Params{})

	segs := sim.Segments()
	require.Len(t, segs, len(g.Edges))
	root, _ := sim.Position(services.RootNodeID)
	assert.Equal(t, services.RootNodeID, segs[0].Source)
	assert.Equal(t, root.X, segs[0].X1)
	assert.Equal(t, root.Y, segs[0].Y1)
}

func TestParams_WithDefaults(t *testing.T) {
	p := Params{LinkDistance: 120}.WithDefaults()
	d := DefaultParams()

	assert.Equal(t, 120.0, p.LinkDistance)
	assert.Equal(t, d.ChargeStrength, p.ChargeStrength)
	assert.Equal(t, d.CollideRadius, p.CollideRadius)
	assert.InDelta(t, 0.0228, p.AlphaDecay, 1e-4)
}
