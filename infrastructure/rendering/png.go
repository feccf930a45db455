package rendering

import (
	"fmt"
	"io"

	"booklog-backend/domain/layout"

	"github.com/fogleman/gg"
)

// RenderPNG rasterizes the frame. Labels use gg's built-in face, so glyphs it lacks
// are skipped.
func RenderPNG(w io.Writer, f layout.Frame) error {
	dc := gg.NewContext(f.Presentation.Width, f.Presentation.Height)
	dc.SetColor(background)
	dc.Clear()

	dc.Push()
	dc.Translate(f.Viewport.X, f.Viewport.Y)
	dc.Scale(f.Viewport.K, f.Viewport.K)

	dc.SetRGBA255(int(edgeColor.R), int(edgeColor.G), int(edgeColor.B), int(edgeOpacity*255))
	dc.SetLineWidth(edgeWidth)
	for _, e := range f.Edges {
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
	}

	for _, n := range f.Nodes {
		style := StyleFor(n.Kind)
		dc.DrawCircle(n.X, n.Y, style.Radius)
		dc.SetColor(style.Fill)
		dc.FillPreserve()
		dc.SetRGB(1, 1, 1)
		dc.SetLineWidth(1.5)
		dc.Stroke()

		dc.SetColor(labelColor)
		dc.DrawString(n.Label, n.X+labelOffsetX, n.Y+labelOffsetY)
	}
	dc.Pop()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
