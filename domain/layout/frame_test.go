package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentation(t *testing.T) {
	inline := Inline(0)
	assert.Equal(t, Presentation{Mode: ModeInline, Width: DefaultInlineWidth, Height: InlineHeight}, inline)
	assert.Equal(t, InlineHeight, Inline(1200).Height)

	full := Fullscreen(1920, 1080)
	assert.Equal(t, Presentation{Mode: ModeFullscreen, Width: 1920, Height: 1080}, full)
	assert.Equal(t, maxDimension, Fullscreen(100000, 500).Width)
	assert.Equal(t, minDimension, Fullscreen(20, 500).Width)

	p, err := ParsePresentation("fullscreen", 1024, 768)
	require.NoError(t, err)
	assert.Equal(t, ModeFullscreen, p.Mode)

	_, err = ParsePresentation("poster", 1, 1)
	assert.Error(t, err)
}
