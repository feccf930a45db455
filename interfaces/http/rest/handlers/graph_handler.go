package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"booklog-backend/application/services"
	"booklog-backend/domain/core/valueobjects"
	"booklog-backend/domain/layout"
	knowledge "booklog-backend/domain/services"
	"booklog-backend/infrastructure/rendering"
	"booklog-backend/pkg/common"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// GraphHandler serves laid-out snapshots of the signed-in profile's knowledge graph
type GraphHandler struct {
	graphs *services.GraphService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(graphs *services.GraphService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{graphs: graphs, errors: errors, logger: logger}
}

// GetGraph handles GET /graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	frame, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, frame)
}

// SnapshotSVG handles GET /graph/snapshot.svg
func (h *GraphHandler) SnapshotSVG(w http.ResponseWriter, r *http.Request) {
	frame, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := rendering.RenderSVG(&buf, *frame); err != nil {
		h.errors.Handle(w, r, pkgerrors.Wrap(err, "render svg"))
		return
	}
	writeBody(w, "image/svg+xml", buf.Bytes())
}

// SnapshotPNG handles GET /graph/snapshot.png
func (h *GraphHandler) SnapshotPNG(w http.ResponseWriter, r *http.Request) {
	frame, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := rendering.RenderPNG(&buf, *frame); err != nil {
		h.errors.Handle(w, r, pkgerrors.Wrap(err, "render png"))
		return
	}
	writeBody(w, "image/png", buf.Bytes())
}

// Print handles GET /graph/print: a standalone page that opens the print dialog
func (h *GraphHandler) Print(w http.ResponseWriter, r *http.Request) {
	frame, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	title := r.URL.Query().Get("title")
	if title == "" {
		title = knowledge.RootNodeLabel
	}
	var buf bytes.Buffer
	if err := rendering.RenderPrintDocument(&buf, title, *frame); err != nil {
		h.errors.Handle(w, r, pkgerrors.Wrap(err, "render print document"))
		return
	}
	writeBody(w, "text/html; charset=utf-8", buf.Bytes())
}

func (h *GraphHandler) snapshot(w http.ResponseWriter, r *http.Request) (*layout.Frame, bool) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return nil, false
	}

	p, err := layout.ParsePresentation(r.URL.Query().Get("mode"), queryInt(r, "width"), queryInt(r, "height"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return nil, false
	}

	frame, err := h.graphs.Snapshot(r.Context(), user.ProfileName, p, viewportFromQuery(r, p))
	if err != nil {
		h.errors.Handle(w, r, err)
		return nil, false
	}
	return frame, true
}

// viewportFromQuery applies the optional zoom parameter around the canvas center
func viewportFromQuery(r *http.Request, p layout.Presentation) layout.Viewport {
	v := layout.IdentityViewport()
	k, err := strconv.ParseFloat(r.URL.Query().Get("zoom"), 64)
	if err != nil {
		return v
	}
	center := valueobjects.Position{X: float64(p.Width) / 2, Y: float64(p.Height) / 2}
	return v.ZoomTo(k, center)
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
