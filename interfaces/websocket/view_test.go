package websocket

import (
	"testing"

	"booklog-backend/domain/core/entities"
	"booklog-backend/domain/core/valueobjects"
	"booklog-backend/domain/layout"
	knowledge "booklog-backend/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooks() []entities.BookRecord {
	return []entities.BookRecord{
		{ID: "b1", Title: "데미안", Author: "헤르만 헤세", OwnerID: "엄마", Keywords: []string{"성장", "자아"}},
		{ID: "b2", Title: "수레바퀴 아래서", Author: "헤르만 헤세", OwnerID: "엄마", Keywords: []string{"성장"}},
	}
}

func loadedView(t *testing.T) *liveView {
	t.Helper()
	p := layout.Inline(600)
	g := knowledge.NewGraphBuilder(nil, 0).Build(sampleBooks())
	v := newLiveView(p)
	v.load(g, layout.NewSimulation(g, float64(p.Width), float64(p.Height), layout.DefaultParams()))
	return v
}

func TestLiveView_DragBeforeLoad(t *testing.T) {
	v := newLiveView(layout.Inline(600))

	err := v.apply(Command{Type: CommandDragStart, ID: "b1"})
	assert.ErrorIs(t, err, errNoGraph)
	assert.False(t, v.advance())
}

func TestLiveView_DragUsesWorldCoordinates(t *testing.T) {
	v := loadedView(t)
	v.viewport = layout.IdentityViewport().ZoomTo(2, valueobjects.Position{})

	require.NoError(t, v.apply(Command{Type: CommandDragStart, ID: "b1", X: 100, Y: 60}))
	v.sim.Tick()

	pos, ok := v.sim.Position("b1")
	require.True(t, ok)
	assert.InDelta(t, 50, pos.X, 1e-9)
	assert.InDelta(t, 30, pos.Y, 1e-9)

	require.NoError(t, v.apply(Command{Type: CommandDragMove, ID: "b1", X: 200, Y: 200}))
	v.sim.Tick()
	pos, _ = v.sim.Position("b1")
	assert.InDelta(t, 100, pos.X, 1e-9)

	require.NoError(t, v.apply(Command{Type: CommandDragEnd, ID: "b1"}))
	for _, n := range v.sim.Positions() {
		assert.False(t, n.Pinned, n.ID)
	}
}

func TestLiveView_UnknownNode(t *testing.T) {
	v := loadedView(t)

	err := v.apply(Command{Type: CommandDragStart, ID: "missing"})
	assert.ErrorIs(t, err, layout.ErrUnknownNode)
}

func TestLiveView_Viewport(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr error
		check   func(t *testing.T, v *liveView)
	}{
		{
			name: "zoom at anchor",
			cmd:  Command{Type: CommandZoom, Factor: 2, X: 10, Y: 10},
			check: func(t *testing.T, v *liveView) {
				assert.Equal(t, 2.0, v.viewport.K)
				assert.Equal(t, -10.0, v.viewport.X)
				assert.Equal(t, -10.0, v.viewport.Y)
			},
		},
		{
			name: "zoom is clamped",
			cmd:  Command{Type: CommandZoom, Factor: 100},
			check: func(t *testing.T, v *liveView) {
				assert.Equal(t, layout.MaxZoom, v.viewport.K)
			},
		},
		{
			name:    "zero zoom factor",
			cmd:     Command{Type: CommandZoom},
			wantErr: errInvalidZoom,
		},
		{
			name: "pan",
			cmd:  Command{Type: CommandPan, DX: 15, DY: -5},
			check: func(t *testing.T, v *liveView) {
				assert.Equal(t, 15.0, v.viewport.X)
				assert.Equal(t, -5.0, v.viewport.Y)
			},
		},
		{
			name: "resize to fullscreen",
			cmd:  Command{Type: CommandResize, Mode: "fullscreen", Width: 1200, Height: 900},
			check: func(t *testing.T, v *liveView) {
				assert.Equal(t, layout.ModeFullscreen, v.presentation.Mode)
				w, h := v.sim.Size()
				assert.Equal(t, 1200.0, w)
				assert.Equal(t, 900.0, h)
				assert.Equal(t, 1.0, v.sim.Alpha())
			},
		},
		{
			name: "unknown mode",
			cmd:  Command{Type: CommandResize, Mode: "poster"},
		},
		{
			name:    "unknown command",
			cmd:     Command{Type: "explode"},
			wantErr: errUnknownCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := loadedView(t)
			v.sim.RunUntilStable(1000)
			v.dirty = false

			err := v.apply(tt.cmd)
			if tt.check == nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.True(t, v.dirty)
			tt.check(t, v)
		})
	}
}

func TestLiveView_ReloadResetsViewport(t *testing.T) {
	v := loadedView(t)
	require.NoError(t, v.apply(Command{Type: CommandZoom, Factor: 3, X: 50, Y: 50}))
	require.NoError(t, v.apply(Command{Type: CommandDragStart, ID: "b1", X: 10, Y: 10}))
	require.NotEqual(t, layout.IdentityViewport(), v.viewport)

	books := append(sampleBooks(), entities.BookRecord{ID: "b3", Title: "싯다르타", Author: "헤르만 헤세", OwnerID: "엄마"})
	g := knowledge.NewGraphBuilder(nil, 0).Build(books)
	p := v.presentation
	v.load(g, layout.NewSimulation(g, float64(p.Width), float64(p.Height), layout.DefaultParams()))

	assert.Equal(t, layout.IdentityViewport(), v.viewport)
	for _, n := range v.sim.Positions() {
		assert.False(t, n.Pinned, n.ID)
	}
}

func TestLiveView_AdvanceStopsWhenCool(t *testing.T) {
	v := loadedView(t)

	assert.True(t, v.advance())
	v.sim.RunUntilStable(1000)
	assert.False(t, v.advance())

	require.NoError(t, v.apply(Command{Type: CommandPan, DX: 1}))
	assert.True(t, v.advance(), "viewport change redraws a cooled layout")
	assert.False(t, v.advance())
}

func TestLiveView_GraphPayload(t *testing.T) {
	v := loadedView(t)

	payload := v.graphPayload()
	assert.Len(t, payload.Nodes, 6)
	assert.Equal(t, 2, payload.Stats.Books)
	assert.Equal(t, 1, payload.Stats.Authors)
	assert.Equal(t, 2, payload.Stats.Keywords)
	assert.Equal(t, 600, payload.Presentation.Width)
}
