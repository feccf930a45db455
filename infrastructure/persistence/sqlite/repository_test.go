package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"booklog-backend/domain/core/entities"
	pkgerrors "booklog-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "booklog_test.db"))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repo := NewRepository(db)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return repo
}

func TestRunMigrations_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	db, err := Open(filepath.Join(t.TempDir(), "migrate_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, RunMigrations(context.Background(), db, zap.New(core)))

	assert.NotZero(t, logs.FilterLoggerName("goose").Len())
}

func TestRepository_Profiles(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.EnsureProfiles(ctx, entities.DefaultFamily)
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	created, err = repo.EnsureProfiles(ctx, entities.DefaultFamily)
	require.NoError(t, err)
	assert.Zero(t, created)

	profiles, err := repo.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 4)

	id := profiles[0].ID
	claimed, err := repo.ClaimProfilePin(ctx, id, "1234")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimProfilePin(ctx, id, "9999")
	require.NoError(t, err)
	assert.False(t, claimed)

	p, err := repo.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.True(t, p.HasPIN())
	assert.Equal(t, "1234", *p.PIN)

	_, err = repo.GetProfile(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = repo.ClaimProfilePin(ctx, "missing", "1111")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRepository_BookLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first, err := repo.CreateBook(ctx, &entities.BookRecord{
		Title: "코스모스", Author: "칼 세이건", Rating: 5,
		ReviewContent: "우주는 넓다", OwnerID: "찬민", Keywords: []string{"우주", "과학"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := repo.CreateBook(ctx, &entities.BookRecord{
		Title: "데미안", Rating: 4, ReviewContent: "알을 깨고 나온다", OwnerID: "찬민",
	})
	require.NoError(t, err)
	_, err = repo.CreateBook(ctx, &entities.BookRecord{
		Title: "토지", Rating: 5, ReviewContent: "대하소설", OwnerID: "엄마",
	})
	require.NoError(t, err)

	books, err := repo.ListBooksByOwner(ctx, "찬민")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, second.ID, books[0].ID, "newest first")
	assert.Equal(t, []string{"우주", "과학"}, books[1].Keywords)
	assert.Equal(t, []string{}, books[0].Keywords)

	all, err := repo.ListAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	edit := *first
	edit.Title = "코스모스 (개정판)"
	edit.Keywords = []string{"우주"}
	updated, err := repo.UpdateBook(ctx, first.ID, &edit)
	require.NoError(t, err)
	assert.Equal(t, "코스모스 (개정판)", updated.Title)
	assert.Equal(t, first.CreatedAt.Unix(), updated.CreatedAt.Unix())

	stranger := edit
	stranger.OwnerID = "엄마"
	_, err = repo.UpdateBook(ctx, first.ID, &stranger)
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.True(t, pkgerrors.IsNotFound(repo.DeleteBook(ctx, first.ID, "엄마")))
	require.NoError(t, repo.DeleteBook(ctx, first.ID, "찬민"))

	books, err = repo.ListBooksByOwner(ctx, "찬민")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}
