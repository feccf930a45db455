package rendering

import (
	"fmt"
	"image/color"

	"booklog-backend/domain/services"
)

// NodeStyle is how one kind of node is drawn
type NodeStyle struct {
	Radius   float64
	Fill     color.RGBA
	FontSize float64
	Bold     bool
}

var (
	edgeColor  = color.RGBA{0x99, 0x99, 0x99, 0xff}
	labelColor = color.RGBA{0x33, 0x33, 0x33, 0xff}
	background = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const (
	edgeOpacity  = 0.6
	edgeWidth    = 1.5
	labelOffsetX = 15
	labelOffsetY = 5
)

// nodeStyles sizes root > book > author > keyword
var nodeStyles = map[services.NodeKind]NodeStyle{
	services.NodeKindRoot:    {Radius: 20, Fill: color.RGBA{0x6d, 0x5d, 0xfc, 0xff}, FontSize: 12},
	services.NodeKindBook:    {Radius: 15, Fill: color.RGBA{0xe9, 0x1e, 0x63, 0xff}, FontSize: 12, Bold: true},
	services.NodeKindAuthor:  {Radius: 10, Fill: color.RGBA{0xf3, 0x9c, 0x12, 0xff}, FontSize: 12},
	services.NodeKindKeyword: {Radius: 8, Fill: color.RGBA{0x00, 0xb8, 0x94, 0xff}, FontSize: 10},
}

// StyleFor returns the style of a node kind; unknown kinds draw like keywords
func StyleFor(kind services.NodeKind) NodeStyle {
	if s, ok := nodeStyles[kind]; ok {
		return s
	}
	return nodeStyles[services.NodeKindKeyword]
}

func cssHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
