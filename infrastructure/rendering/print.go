package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"booklog-backend/domain/layout"
)

// PrintSettleDelay lets the new window lay the SVG out before the print dialog opens
const PrintSettleDelay = 500 * time.Millisecond

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4 landscape; margin: 10mm; }
html, body { margin: 0; padding: 0; background: #fff; }
.page { width: 277mm; height: 190mm; display: flex; align-items: center; justify-content: center; }
.page svg { max-width: 100%; max-height: 100%; width: auto; height: auto; }
</style>
</head>
<body>
<div class="page">{{.Markup}}</div>
<script>
window.addEventListener("load", function () {
  setTimeout(function () { window.print(); }, {{.DelayMillis}});
});
</script>
</body>
</html>
`))

// RenderPrintDocument wraps the frame's SVG in a standalone HTML page sized to one landscape
// page that opens the print dialog after PrintSettleDelay
func RenderPrintDocument(w io.Writer, title string, f layout.Frame) error {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, f); err != nil {
		return err
	}
	markup := bytes.TrimPrefix(buf.Bytes(), []byte(`<?xml version="1.0"?>`))

	err := printTemplate.Execute(w, struct {
		Title       string
		Markup      template.HTML
		DelayMillis int64
	}{
		Title:       title,
		Markup:      template.HTML(bytes.TrimSpace(markup)),
		DelayMillis: PrintSettleDelay.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("render print document: %w", err)
	}
	return nil
}
