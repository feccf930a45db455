package googlebooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"booklog-backend/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, nil, zap.NewNop())
}

func TestClient_SearchCoverByTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "총균쇠", r.URL.Query().Get("q"))
		assert.Equal(t, "ko", r.URL.Query().Get("langRestrict"))
		assert.Equal(t, "books", r.URL.Query().Get("printType"))
		_, _ = w.Write([]byte(`{"items":[
			{"volumeInfo":{"title":"총균쇠","authors":["재레드 다이아몬드","김진준"],"publisher":"문학사상",
			 "imageLinks":{"smallThumbnail":"http://books.google.com/s.jpg","thumbnail":"http://books.google.com/t.jpg"}}},
			{"volumeInfo":{"title":"다른 책"}}
		]}`))
	})

	meta, err := client.SearchCoverByTitle(context.Background(), "총균쇠")

	require.NoError(t, err)
	assert.Equal(t, &ports.BookMetadata{
		Title:     "총균쇠",
		Author:    "재레드 다이아몬드",
		Publisher: "문학사상",
		CoverURL:  "https://books.google.com/t.jpg",
	}, meta)
}

func TestClient_SmallThumbnailFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"title":"책","imageLinks":{"smallThumbnail":"http://x/s.jpg"}}}]}`))
	})

	meta, err := client.SearchCoverByTitle(context.Background(), "책")

	require.NoError(t, err)
	assert.Equal(t, "https://x/s.jpg", meta.CoverURL)
	assert.Empty(t, meta.Author)
}

func TestClient_NotFoundIsDistinct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	})

	_, err := client.SearchCoverByTitle(context.Background(), "없는 책")

	assert.ErrorIs(t, err, ports.ErrCoverNotFound)
}

func TestClient_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.SearchCoverByTitle(context.Background(), "책")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrCoverNotFound))
}
