package handlers

import (
	"net/http"

	"booklog-backend/application/services"
	"booklog-backend/domain/core/entities"
	"booklog-backend/infrastructure/observability"
	"booklog-backend/pkg/common"
	pkgerrors "booklog-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BookHandler handles the signed-in profile's book records
type BookHandler struct {
	books   *services.BookService
	errors  *pkgerrors.ErrorHandler
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewBookHandler creates a new book handler. metrics may be nil.
func NewBookHandler(books *services.BookService, errors *pkgerrors.ErrorHandler, metrics *observability.Metrics, logger *zap.Logger) *BookHandler {
	return &BookHandler{books: books, errors: errors, metrics: metrics, logger: logger}
}

// BookRequest is the body of create and update. Defaults (rating, read date) are
// filled in by the domain.
type BookRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Author        string `json:"author" validate:"max=200"`
	Publisher     string `json:"publisher" validate:"max=200"`
	CoverURL      string `json:"coverUrl" validate:"omitempty,url"`
	Rating        int    `json:"rating" validate:"omitempty,min=1,max=5"`
	ReviewContent string `json:"reviewContent" validate:"required"`
	RecommendTo   string `json:"recommendTo" validate:"max=200"`
	ReadDate      string `json:"readDate" validate:"omitempty,datetime=2006-01-02"`
	Link          string `json:"link" validate:"omitempty,url"`
}

func (req BookRequest) draft() entities.BookDraft {
	return entities.BookDraft{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		CoverURL:      req.CoverURL,
		Rating:        req.Rating,
		ReviewContent: req.ReviewContent,
		RecommendTo:   req.RecommendTo,
		ReadDate:      req.ReadDate,
		Link:          req.Link,
	}
}

// ListBooks handles GET /books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	books, err := h.books.List(r.Context(), user.ProfileName)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondList(w, middleware.GetReqID(r.Context()), books, len(books))
}

// CreateBook handles POST /books
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req BookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	book, err := h.books.Create(r.Context(), user.ProfileName, req.draft())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.metrics.RecordBookSaved("create")
	common.RespondJSON(w, http.StatusCreated, book)
}

// UpdateBook handles PUT /books/{bookID}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req BookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	book, err := h.books.Update(r.Context(), user.ProfileName, chi.URLParam(r, "bookID"), req.draft())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.metrics.RecordBookSaved("update")
	common.RespondJSON(w, http.StatusOK, book)
}

// DeleteBook handles DELETE /books/{bookID}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.books.Delete(r.Context(), user.ProfileName, chi.URLParam(r, "bookID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.metrics.RecordBookSaved("delete")
	w.WriteHeader(http.StatusNoContent)
}
