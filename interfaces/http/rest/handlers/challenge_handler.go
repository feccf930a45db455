package handlers

import (
	"bytes"
	"net/http"

	"booklog-backend/application/services"
	knowledge "booklog-backend/domain/services"
	"booklog-backend/infrastructure/rendering"
	"booklog-backend/pkg/common"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// ChallengeHandler serves the family reading challenge
type ChallengeHandler struct {
	challenge *services.ChallengeService
	errors    *pkgerrors.ErrorHandler
	logger    *zap.Logger
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challenge *services.ChallengeService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{challenge: challenge, errors: errors, logger: logger}
}

// ChallengeResponse is the board plus the unit its values are counted in
type ChallengeResponse struct {
	*services.ChallengeBoard
	Unit string `json:"unit"`
}

// GetBoard handles GET /challenge?metric=count|words
func (h *ChallengeHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, ok := h.board(w, r)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, ChallengeResponse{
		ChallengeBoard: board,
		Unit:           services.Unit(board.Metric),
	})
}

// ChartSVG handles GET /challenge/chart.svg
func (h *ChallengeHandler) ChartSVG(w http.ResponseWriter, r *http.Request) {
	board, ok := h.board(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	err := rendering.RenderChartSVG(&buf, board.Bars, services.Unit(board.Metric), queryInt(r, "width"), queryInt(r, "height"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.Wrap(err, "render chart"))
		return
	}
	writeBody(w, "image/svg+xml", buf.Bytes())
}

func (h *ChallengeHandler) board(w http.ResponseWriter, r *http.Request) (*services.ChallengeBoard, bool) {
	metric, err := knowledge.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return nil, false
	}
	board, err := h.challenge.Board(r.Context(), metric)
	if err != nil {
		h.errors.Handle(w, r, err)
		return nil, false
	}
	return board, true
}
