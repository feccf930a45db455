package entities

import (
	"testing"
	"time"

	pkgerrors "booklog-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCharacterCount(t *testing.T) {
	assert.Equal(t, 0, ReviewCharacterCount("   "))
	assert.Equal(t, 5, ReviewCharacterCount("  hello \n"))
	assert.Equal(t, 7, ReviewCharacterCount("정말 좋은 책"))
}

func TestBookDraft_Normalize(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		draft   BookDraft
		wantErr bool
		check   func(t *testing.T, d BookDraft)
	}{
		{
			name:  "fills defaults",
			draft: BookDraft{Title: "  어린 왕자 ", ReviewContent: "좋았다"},
			check: func(t *testing.T, d BookDraft) {
				assert.Equal(t, "어린 왕자", d.Title)
				assert.Equal(t, DefaultRating, d.Rating)
				assert.Equal(t, "2026-03-14", d.ReadDate)
			},
		},
		{name: "missing title", draft: BookDraft{ReviewContent: "x"}, wantErr: true},
		{name: "missing review", draft: BookDraft{Title: "t", ReviewContent: "  "}, wantErr: true},
		{name: "rating too high", draft: BookDraft{Title: "t", ReviewContent: "x", Rating: 6}, wantErr: true},
		{name: "bad date", draft: BookDraft{Title: "t", ReviewContent: "x", ReadDate: "14/03/2026"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.draft.Normalize(now)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestNewBookRecord_DerivesCount(t *testing.T) {
	rec, err := NewBookRecord("엄마", BookDraft{Title: "t", ReviewContent: " 네 글자임 ", Rating: 4}, []string{"성장"})
	require.NoError(t, err)

	assert.Equal(t, "엄마", rec.OwnerID)
	assert.Equal(t, 5, rec.ReviewWordCount)
	assert.Equal(t, []string{"성장"}, rec.Keywords)

	rec.Apply(BookDraft{Title: "t", ReviewContent: "ab", Rating: 4}, nil)
	assert.Equal(t, 2, rec.ReviewWordCount)
	assert.Empty(t, rec.Keywords)

	_, err = NewBookRecord("", BookDraft{}, nil)
	assert.Error(t, err)
}

func TestBookRecord_Normalize(t *testing.T) {
	rec := BookRecord{
		Title:           " t ",
		ReviewContent:   "abc",
		ReviewWordCount: 99,
		Rating:          0,
		Keywords:        []string{" 사랑 ", "", "  "},
	}
	rec.Normalize()

	assert.Equal(t, "t", rec.Title)
	assert.Equal(t, 3, rec.ReviewWordCount)
	assert.Equal(t, DefaultRating, rec.Rating)
	assert.Equal(t, []string{"사랑"}, rec.Keywords)
}
