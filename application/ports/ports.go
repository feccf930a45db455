package ports

import (
	"context"
	"errors"

	"booklog-backend/domain/core/entities"
)

// ProfileRepository is the persistence collaborator for family profiles
type ProfileRepository interface {
	// ListProfiles returns every profile
	ListProfiles(ctx context.Context) ([]entities.Profile, error)

	// GetProfile returns one profile or a NOT_FOUND error
	GetProfile(ctx context.Context, id string) (*entities.Profile, error)

	// ClaimProfilePin stores the PIN chosen on first login, only while the profile has none.
	// claimed is false when another PIN was stored first.
	ClaimProfilePin(ctx context.Context, id, pin string) (claimed bool, err error)
}

// BookRepository is the persistence collaborator for book records. Implementations
// normalize records before returning them.
type BookRepository interface {
	// ListBooksByOwner returns the owner's books, newest first
	ListBooksByOwner(ctx context.Context, owner string) ([]entities.BookRecord, error)

	// ListAllBooks returns the books of every profile
	ListAllBooks(ctx context.Context) ([]entities.BookRecord, error)

	// CreateBook stores a new record and returns it with id and creation time set
	CreateBook(ctx context.Context, book *entities.BookRecord) (*entities.BookRecord, error)

	// UpdateBook replaces the editable fields of the record id owned by book.OwnerID
	UpdateBook(ctx context.Context, id string, book *entities.BookRecord) (*entities.BookRecord, error)

	// DeleteBook removes the record id owned by owner
	DeleteBook(ctx context.Context, id, owner string) error
}

// SourceKind is what a metadata extraction reads
type SourceKind string

const (
	SourceLink  SourceKind = "link"
	SourceImage SourceKind = "image"
)

// BookMetadata is what the AI or the catalog found about a book. Empty fields are unknown.
type BookMetadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	CoverURL  string `json:"coverUrl,omitempty"`
}

// MetadataExtractor reads book metadata from a store link or a photo of the cover
type MetadataExtractor interface {
	ExtractBookMetadata(ctx context.Context, kind SourceKind, content string) (*BookMetadata, error)
}

// KeywordExtractor proposes up to five keywords for a review. It returns an empty
// slice on any failure and never reports errors.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, review string) []string
}

// ErrCoverNotFound is returned by CoverSearcher when the catalog has no match
var ErrCoverNotFound = errors.New("cover not found")

// CoverSearcher looks a title up in a book catalog
type CoverSearcher interface {
	SearchCoverByTitle(ctx context.Context, title string) (*BookMetadata, error)
}

// ChangeNotifier tells open graph views of a profile that its books changed
type ChangeNotifier interface {
	NotifyBooksChanged(owner string)
}
