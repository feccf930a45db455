package rendering

import (
	"fmt"
	"io"
	"math"

	"booklog-backend/domain/services"

	svg "github.com/ajstarks/svgo"
)

// minVisibleBarPercent keeps empty bars visible as a sliver
const minVisibleBarPercent = 2.0

var medalColors = map[services.Medal]string{
	services.MedalGold:   "#ffd700",
	services.MedalSilver: "#c0c0c0",
	services.MedalBronze: "#cd7f32",
}

var medalGlyphs = map[services.Medal]string{
	services.MedalGold:   "🥇",
	services.MedalSilver: "🥈",
	services.MedalBronze: "🥉",
}

// VisibleHeight is the drawn bar height: the computed percentage with a floor
func VisibleHeight(percent float64) float64 {
	return math.Max(percent, minVisibleBarPercent)
}

// RenderChartSVG draws the challenge bar chart. unit is appended to each value label.
func RenderChartSVG(w io.Writer, bars []services.ChartBar, unit string, width, height int) error {
	ew := &errWriter{w: w}
	if width <= 0 {
		width = 600
	}
	if height <= 0 {
		height = 360
	}

	const (
		top    = 20
		bottom = 40
	)
	plot := height - top - bottom

	canvas := svg.New(ew)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))
	canvas.Rect(0, 0, width, height, "fill:#ffffff")
	canvas.Line(0, top+plot, width, top+plot, "stroke:#dddddd;stroke-width:1")

	if len(bars) > 0 {
		slot := width / len(bars)
		barWidth := slot / 2
		for i, b := range bars {
			h := int(math.Round(float64(plot) * VisibleHeight(b.HeightPercent) / 100))
			x := i*slot + (slot-barWidth)/2
			y := top + plot - h

			fill := b.Color
			if fill == "" {
				fill = "#6d5dfc"
			}
			canvas.Roundrect(x, y, barWidth, h, 6, 6, "fill:"+fill, fmt.Sprintf(`data-name="%s"`, escapeAttr(b.Name)))
			if c, ok := medalColors[b.Medal]; ok {
				canvas.Circle(x+barWidth/2, y-18, 12, "fill:"+c+";fill-opacity:0.4")
				canvas.Text(x+barWidth/2, y-12, medalGlyphs[b.Medal], "text-anchor:middle;font-size:16px")
			}
			canvas.Text(x+barWidth/2, y+16, fmt.Sprintf("%d%s", b.Value, unit),
				"text-anchor:middle;font-size:11px;fill:#ffffff;font-family:sans-serif")
			canvas.Text(x+barWidth/2, top+plot+24, b.Name,
				"text-anchor:middle;font-size:14px;font-weight:bold;fill:#555555;font-family:sans-serif")
		}
	}

	canvas.End()
	return ew.err
}
