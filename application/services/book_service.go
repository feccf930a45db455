package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"booklog-backend/application/ports"
	"booklog-backend/domain/core/entities"
	knowledge "booklog-backend/domain/services"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// minReviewRunesForKeywords is the review length above which keywords are extracted on save
const minReviewRunesForKeywords = 20

// BookService records, edits and deletes a profile's books
type BookService struct {
	books        ports.BookRepository
	extractor    ports.KeywordExtractor
	filter       *knowledge.KeywordFilter
	notifier     ports.ChangeNotifier
	keywordLimit int
	logger       *zap.Logger
	now          func() time.Time
}

// NewBookService creates a book service. notifier may be nil.
func NewBookService(
	books ports.BookRepository,
	extractor ports.KeywordExtractor,
	filter *knowledge.KeywordFilter,
	notifier ports.ChangeNotifier,
	logger *zap.Logger,
) *BookService {
	if filter == nil {
		filter = knowledge.NewKeywordFilter()
	}
	return &BookService{
		books:        books,
		extractor:    extractor,
		filter:       filter,
		notifier:     notifier,
		keywordLimit: knowledge.DefaultKeywordsPerBook,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns the owner's books, newest first
func (s *BookService) List(ctx context.Context, owner string) ([]entities.BookRecord, error) {
	books, err := s.books.ListBooksByOwner(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list books")
	}
	return books, nil
}

// Create stores a new book for owner. Keywords are extracted from long reviews; a failed
// extraction just leaves the record without keywords.
func (s *BookService) Create(ctx context.Context, owner string, draft entities.BookDraft) (*entities.BookRecord, error) {
	draft, err := draft.Normalize(s.now())
	if err != nil {
		return nil, err
	}

	record, err := entities.NewBookRecord(owner, draft, s.keywordsFor(ctx, draft.ReviewContent))
	if err != nil {
		return nil, err
	}

	created, err := s.books.CreateBook(ctx, record)
	if err != nil {
		s.logger.Error("Failed to create book", zap.String("owner", owner), zap.Error(err))
		return nil, pkgerrors.Wrap(err, "create book")
	}

	s.logger.Info("Book created",
		zap.String("owner", owner),
		zap.String("bookID", created.ID),
		zap.Int("keywords", len(created.Keywords)),
	)
	s.notify(owner)
	return created, nil
}

// Update replaces the editable fields of one of owner's books and re-derives the
// review count and keywords
func (s *BookService) Update(ctx context.Context, owner, id string, draft entities.BookDraft) (*entities.BookRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidationError("book id is required")
	}
	draft, err := draft.Normalize(s.now())
	if err != nil {
		return nil, err
	}

	record, err := entities.NewBookRecord(owner, draft, s.keywordsFor(ctx, draft.ReviewContent))
	if err != nil {
		return nil, err
	}
	record.ID = id

	updated, err := s.books.UpdateBook(ctx, id, record)
	if err != nil {
		s.logger.Error("Failed to update book", zap.String("bookID", id), zap.Error(err))
		return nil, pkgerrors.Wrap(err, "update book")
	}

	s.notify(owner)
	return updated, nil
}

// Delete removes one of owner's books
func (s *BookService) Delete(ctx context.Context, owner, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.NewValidationError("book id is required")
	}
	if err := s.books.DeleteBook(ctx, id, owner); err != nil {
		s.logger.Error("Failed to delete book", zap.String("bookID", id), zap.Error(err))
		return pkgerrors.Wrap(err, "delete book")
	}
	s.notify(owner)
	return nil
}

func (s *BookService) keywordsFor(ctx context.Context, review string) []string {
	if s.extractor == nil || utf8.RuneCountInString(review) <= minReviewRunesForKeywords {
		return nil
	}
	return s.filter.Labels(s.extractor.ExtractKeywords(ctx, review), s.keywordLimit)
}

func (s *BookService) notify(owner string) {
	if s.notifier != nil {
		s.notifier.NotifyBooksChanged(owner)
	}
}
