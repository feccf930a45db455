// Package sqlite is the local single-file store used for development, the CLI and tests
package sqlite

import (
	"context"
	"errors"
	"time"

	"booklog-backend/domain/core/entities"
	pkgerrors "booklog-backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the database file at path
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// Repository implements both ports.BookRepository and ports.ProfileRepository
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a repository on an opened and migrated database
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// EnsureProfiles creates a profile without PIN for every name not stored yet and
// returns how many were created
func (r *Repository) EnsureProfiles(ctx context.Context, names []string) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			var n int64
			if err := tx.Model(&UserModel{}).Where("name = ?", name).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&UserModel{ID: uuid.NewString(), Name: name}).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("ensure profiles", err)
	}
	return created, nil
}

// ListProfiles returns every profile
func (r *Repository) ListProfiles(ctx context.Context) ([]entities.Profile, error) {
	rows := make([]UserModel, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, pkgerrors.NewDatabaseError("list profiles", err)
	}
	profiles := make([]entities.Profile, 0, len(rows))
	for _, m := range rows {
		profiles = append(profiles, entities.Profile{ID: m.ID, Name: m.Name, PIN: m.PIN})
	}
	return profiles, nil
}

// GetProfile returns one profile
func (r *Repository) GetProfile(ctx context.Context, id string) (*entities.Profile, error) {
	var m UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NewNotFoundError("profile")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get profile", err)
	}
	return &entities.Profile{ID: m.ID, Name: m.Name, PIN: m.PIN}, nil
}

// ClaimProfilePin stores the PIN chosen on first login if the profile has none yet
func (r *Repository) ClaimProfilePin(ctx context.Context, id, pin string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ? AND (pin IS NULL OR pin = '')", id).
		Update("pin", pin)
	if res.Error != nil {
		return false, pkgerrors.NewDatabaseError("set profile pin", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	if _, err := r.GetProfile(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// ListBooksByOwner returns the owner's books, newest first
func (r *Repository) ListBooksByOwner(ctx context.Context, owner string) ([]entities.BookRecord, error) {
	rows := make([]BookModel, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", owner).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list books", err)
	}
	return toEntities(rows), nil
}

// ListAllBooks returns every profile's books, newest first
func (r *Repository) ListAllBooks(ctx context.Context) ([]entities.BookRecord, error) {
	rows := make([]BookModel, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.NewDatabaseError("list all books", err)
	}
	return toEntities(rows), nil
}

// CreateBook stores a new record with a fresh id and creation time
func (r *Repository) CreateBook(ctx context.Context, book *entities.BookRecord) (*entities.BookRecord, error) {
	m := toModel(book)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = r.now().UTC()
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, pkgerrors.NewDatabaseError("create book", err)
	}
	created := m.toEntity()
	return &created, nil
}

// UpdateBook replaces the editable fields of a book owned by book.OwnerID
func (r *Repository) UpdateBook(ctx context.Context, id string, book *entities.BookRecord) (*entities.BookRecord, error) {
	var m BookModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ? AND user_id = ?", id, book.OwnerID).Error; err != nil {
			return err
		}
		next := toModel(book)
		next.ID = m.ID
		next.CreatedAt = m.CreatedAt
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		m = next
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NewNotFoundError("book")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("update book", err)
	}
	updated := m.toEntity()
	return &updated, nil
}

// DeleteBook removes a book the owner holds
func (r *Repository) DeleteBook(ctx context.Context, id, owner string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(&BookModel{})
	if res.Error != nil {
		return pkgerrors.NewDatabaseError("delete book", res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("book")
	}
	return nil
}

func toModel(b *entities.BookRecord) BookModel {
	keywords := b.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return BookModel{
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

func (m BookModel) toEntity() entities.BookRecord {
	b := entities.BookRecord{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		Publisher:       m.Publisher,
		CoverURL:        m.CoverURL,
		Rating:          m.Rating,
		ReviewContent:   m.ReviewContent,
		ReviewWordCount: m.ReviewWordCount,
		RecommendTo:     m.RecommendTo,
		ReadDate:        m.ReadDate,
		Link:            m.Link,
		OwnerID:         m.UserID,
		Keywords:        m.Keywords,
		CreatedAt:       m.CreatedAt,
	}
	b.Normalize()
	return b
}

func toEntities(rows []BookModel) []entities.BookRecord {
	books := make([]entities.BookRecord, 0, len(rows))
	for _, m := range rows {
		books = append(books, m.toEntity())
	}
	return books
}
