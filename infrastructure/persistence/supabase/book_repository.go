package supabase

import (
	"context"
	"time"

	"booklog-backend/domain/core/entities"
	pkgerrors "booklog-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

// bookRow is the books table row; user_id holds the owner's profile name
type bookRow struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       string     `json:"publisher"`
	CoverURL        string     `json:"cover_url"`
	Rating          int        `json:"rating"`
	ReviewContent   string     `json:"review_content"`
	ReviewWordCount int        `json:"review_word_count"`
	RecommendTo     string     `json:"recommend_to"`
	ReadDate        string     `json:"read_date"`
	Link            string     `json:"link"`
	UserID          string     `json:"user_id"`
	Keywords        []string   `json:"keywords"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

func toRow(b *entities.BookRecord) bookRow {
	keywords := b.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return bookRow{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		CoverURL:        b.CoverURL,
		Rating:          b.Rating,
		ReviewContent:   b.ReviewContent,
		ReviewWordCount: b.ReviewWordCount,
		RecommendTo:     b.RecommendTo,
		ReadDate:        b.ReadDate,
		Link:            b.Link,
		UserID:          b.OwnerID,
		Keywords:        keywords,
	}
}

func (r bookRow) toEntity() entities.BookRecord {
	b := entities.BookRecord{
		ID:              r.ID,
		Title:           r.Title,
		Author:          r.Author,
		Publisher:       r.Publisher,
		CoverURL:        r.CoverURL,
		Rating:          r.Rating,
		ReviewContent:   r.ReviewContent,
		ReviewWordCount: r.ReviewWordCount,
		RecommendTo:     r.RecommendTo,
		ReadDate:        r.ReadDate,
		Link:            r.Link,
		OwnerID:         r.UserID,
		Keywords:        r.Keywords,
	}
	if r.CreatedAt != nil {
		b.CreatedAt = *r.CreatedAt
	}
	b.Normalize()
	return b
}

func toEntities(rows []bookRow) []entities.BookRecord {
	books := make([]entities.BookRecord, len(rows))
	for i, row := range rows {
		books[i] = row.toEntity()
	}
	return books
}

// BookRepository implements ports.BookRepository on the books table
type BookRepository struct {
	client TableClient
}

// NewBookRepository creates a book repository
func NewBookRepository(client TableClient) *BookRepository {
	return &BookRepository{client: client}
}

func newestFirst() *postgrest.OrderOpts {
	return &postgrest.OrderOpts{Ascending: false}
}

// ListBooksByOwner returns the owner's books, newest first
func (r *BookRepository) ListBooksByOwner(ctx context.Context, owner string) ([]entities.BookRecord, error) {
	var rows []bookRow
	_, err := r.client.From(booksTable).
		Select("*", "", false).
		Eq("user_id", owner).
		Order("created_at", newestFirst()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list books", err)
	}
	return toEntities(rows), nil
}

// ListAllBooks returns every profile's books
func (r *BookRepository) ListAllBooks(ctx context.Context) ([]entities.BookRecord, error) {
	var rows []bookRow
	_, err := r.client.From(booksTable).
		Select("*", "", false).
		Order("created_at", newestFirst()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list all books", err)
	}
	return toEntities(rows), nil
}

// CreateBook inserts the record and returns the stored row
func (r *BookRepository) CreateBook(ctx context.Context, book *entities.BookRecord) (*entities.BookRecord, error) {
	row := toRow(book)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	var rows []bookRow
	_, err := r.client.From(booksTable).
		Insert(row, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("create book", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewDatabaseError("create book", errEmptyResult)
	}
	created := rows[0].toEntity()
	return &created, nil
}

// UpdateBook replaces the editable fields of a book the owner holds
func (r *BookRepository) UpdateBook(ctx context.Context, id string, book *entities.BookRecord) (*entities.BookRecord, error) {
	row := toRow(book)
	row.ID = ""

	var rows []bookRow
	_, err := r.client.From(booksTable).
		Update(row, "representation", "").
		Eq("id", id).
		Eq("user_id", book.OwnerID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("update book", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("book")
	}
	updated := rows[0].toEntity()
	return &updated, nil
}

// DeleteBook removes a book the owner holds
func (r *BookRepository) DeleteBook(ctx context.Context, id, owner string) error {
	var rows []bookRow
	_, err := r.client.From(booksTable).
		Delete("representation", "").
		Eq("id", id).
		Eq("user_id", owner).
		ExecuteTo(&rows)
	if err != nil {
		return pkgerrors.NewDatabaseError("delete book", err)
	}
	if len(rows) == 0 {
		return pkgerrors.NewNotFoundError("book")
	}
	return nil
}
