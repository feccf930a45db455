package rendering

import (
	"fmt"
	"io"
	"math"

	"booklog-backend/domain/layout"
	"booklog-backend/domain/services"

	svg "github.com/ajstarks/svgo"
)

func round(v float64) int {
	return int(math.Round(v))
}

// RenderSVG draws the frame as a standalone SVG document: edges first, then nodes with labels,
// all inside the viewport transform
func RenderSVG(w io.Writer, f layout.Frame) error {
	ew := &errWriter{w: w}
	width, height := f.Presentation.Width, f.Presentation.Height

	canvas := svg.New(ew)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))
	canvas.Title(services.RootNodeLabel)
	canvas.Rect(0, 0, width, height, "fill:"+cssHex(background))
	canvas.Gtransform(f.Viewport.Transform())

	canvas.Gid("links")
	edgeStyle := fmt.Sprintf("stroke:%s;stroke-opacity:%.1f;stroke-width:%.1f", cssHex(edgeColor), edgeOpacity, edgeWidth)
	for _, e := range f.Edges {
		canvas.Line(round(e.X1), round(e.Y1), round(e.X2), round(e.Y2), edgeStyle)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range f.Nodes {
		style := StyleFor(n.Kind)
		x, y := round(n.X), round(n.Y)
		canvas.Circle(x, y, round(style.Radius),
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1.5", cssHex(style.Fill)),
			fmt.Sprintf(`data-id="%s"`, escapeAttr(n.ID)),
			fmt.Sprintf(`data-kind="%s"`, n.Kind))

		weight := "normal"
		if style.Bold {
			weight = "bold"
		}
		canvas.Text(x+labelOffsetX, y+labelOffsetY, n.Label,
			fmt.Sprintf("fill:%s;font-size:%.0fpx;font-weight:%s;font-family:sans-serif", cssHex(labelColor), style.FontSize, weight))
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return ew.err
}

// errWriter remembers the first write error; svgo does not report them
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func escapeAttr(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '"', '<', '>', '&':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
