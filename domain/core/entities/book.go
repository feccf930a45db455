package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	pkgerrors "booklog-backend/pkg/errors"
)

// ReadDateLayout is the calendar-day format of BookRecord.ReadDate
const ReadDateLayout = "2006-01-02"

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
	maxTitleRunes = 200
)

// BookRecord is one book a profile has read, together with the review written about it.
// OwnerID holds the owning profile's name.
type BookRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	CoverURL        string    `json:"coverUrl,omitempty"`
	Rating          int       `json:"rating"`
	ReviewContent   string    `json:"reviewContent"`
	ReviewWordCount int       `json:"reviewWordCount"`
	RecommendTo     string    `json:"recommendTo,omitempty"`
	ReadDate        string    `json:"readDate"`
	Link            string    `json:"link,omitempty"`
	OwnerID         string    `json:"ownerId"`
	Keywords        []string  `json:"keywords"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookDraft holds the user-editable fields of a book
type BookDraft struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	CoverURL      string `json:"coverUrl"`
	Rating        int    `json:"rating"`
	ReviewContent string `json:"reviewContent"`
	RecommendTo   string `json:"recommendTo"`
	ReadDate      string `json:"readDate"`
	Link          string `json:"link"`
}

// ReviewCharacterCount is the stored "word count" of a review: characters of the trimmed text
func ReviewCharacterCount(review string) int {
	return utf8.RuneCountInString(strings.TrimSpace(review))
}

// Normalize trims the draft, fills defaults and rejects values a record may not hold
func (d BookDraft) Normalize(now time.Time) (BookDraft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.Publisher = strings.TrimSpace(d.Publisher)
	d.CoverURL = strings.TrimSpace(d.CoverURL)
	d.RecommendTo = strings.TrimSpace(d.RecommendTo)
	d.ReadDate = strings.TrimSpace(d.ReadDate)
	d.Link = strings.TrimSpace(d.Link)

	if d.Title == "" {
		return d, pkgerrors.NewValidationError("title is required")
	}
	if utf8.RuneCountInString(d.Title) > maxTitleRunes {
		return d, pkgerrors.NewValidationError("title is too long")
	}
	if strings.TrimSpace(d.ReviewContent) == "" {
		return d, pkgerrors.NewValidationError("review content is required")
	}
	if d.Rating == 0 {
		d.Rating = DefaultRating
	}
	if d.Rating < MinRating || d.Rating > MaxRating {
		return d, pkgerrors.NewValidationError("rating must be between 1 and 5")
	}
	if d.ReadDate == "" {
		d.ReadDate = now.Format(ReadDateLayout)
	} else if _, err := time.Parse(ReadDateLayout, d.ReadDate); err != nil {
		return d, pkgerrors.NewValidationError("readDate must be formatted as YYYY-MM-DD")
	}
	return d, nil
}

// NewBookRecord builds a record for owner from an already normalized draft.
// The id and creation time are assigned by the store.
func NewBookRecord(owner string, draft BookDraft, keywords []string) (*BookRecord, error) {
	if owner == "" {
		return nil, pkgerrors.NewValidationError("owner cannot be empty")
	}
	b := &BookRecord{OwnerID: owner}
	b.Apply(draft, keywords)
	return b, nil
}

// Apply overwrites the editable fields and re-derives the review count
func (b *BookRecord) Apply(draft BookDraft, keywords []string) {
	b.Title = draft.Title
	b.Author = draft.Author
	b.Publisher = draft.Publisher
	b.CoverURL = draft.CoverURL
	b.Rating = draft.Rating
	b.ReviewContent = draft.ReviewContent
	b.ReviewWordCount = ReviewCharacterCount(draft.ReviewContent)
	b.RecommendTo = draft.RecommendTo
	b.ReadDate = draft.ReadDate
	b.Link = draft.Link
	b.Keywords = append([]string(nil), keywords...)
}

// Draft returns the editable part of the record
func (b *BookRecord) Draft() BookDraft {
	return BookDraft{
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		CoverURL:      b.CoverURL,
		Rating:        b.Rating,
		ReviewContent: b.ReviewContent,
		RecommendTo:   b.RecommendTo,
		ReadDate:      b.ReadDate,
		Link:          b.Link,
	}
}

// Normalize cleans a record read from a store before it reaches the graph or stats code.
// Rows written by older clients may carry a stale count, so it is always re-derived.
func (b *BookRecord) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.OwnerID = strings.TrimSpace(b.OwnerID)
	b.ReviewWordCount = ReviewCharacterCount(b.ReviewContent)
	if b.Rating < MinRating || b.Rating > MaxRating {
		b.Rating = DefaultRating
	}

	kept := make([]string, 0, len(b.Keywords))
	for _, k := range b.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			kept = append(kept, k)
		}
	}
	b.Keywords = kept
}
