package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"booklog-backend/application/services"
	"booklog-backend/domain/core/entities"
	"booklog-backend/pkg/common"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// maxImageBytes bounds an uploaded cover photo
const maxImageBytes = 8 << 20

// AutofillHandler pre-populates the book form. Extraction failures are not HTTP errors:
// the response carries the unchanged draft and the message to show inline.
type AutofillHandler struct {
	autofill *services.AutofillService
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewAutofillHandler creates a new autofill handler
func NewAutofillHandler(autofill *services.AutofillService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *AutofillHandler {
	return &AutofillHandler{autofill: autofill, errors: errors, logger: logger}
}

// LinkRequest asks for metadata from a store page
type LinkRequest struct {
	Link  string             `json:"link" validate:"omitempty,url"`
	Draft entities.BookDraft `json:"draft"`
}

// CoverRequest asks for a cover by the draft's title
type CoverRequest struct {
	Draft         entities.BookDraft `json:"draft"`
	OnlyIfMissing bool               `json:"onlyIfMissing"`
}

// FromLink handles POST /autofill/link
func (h *AutofillHandler) FromLink(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.autofill.FromLink(r.Context(), req.Link, req.Draft))
}

// FromImage handles POST /autofill/image. The photo is the multipart file "image"; the
// optional form value "draft" holds the current form as JSON.
func (h *AutofillHandler) FromImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+maxJSONBodyBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid multipart form: "+err.Error()))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var draft entities.BookDraft
	if raw := strings.TrimSpace(r.FormValue("draft")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &draft); err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid draft: "+err.Error()))
			return
		}
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("image is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("read image: "+err.Error()))
		return
	}
	if len(data) == 0 {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("image is empty"))
		return
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	common.RespondJSON(w, http.StatusOK, h.autofill.FromImage(r.Context(), encoded, draft))
}

// SearchCover handles POST /autofill/cover
func (h *AutofillHandler) SearchCover(w http.ResponseWriter, r *http.Request) {
	var req CoverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var result services.AutofillResult
	if req.OnlyIfMissing {
		result = h.autofill.SearchCoverIfMissing(r.Context(), req.Draft)
	} else {
		result = h.autofill.SearchCover(r.Context(), req.Draft)
	}
	common.RespondJSON(w, http.StatusOK, result)
}
