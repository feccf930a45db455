package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"booklog-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	users := tokenTable{"good": {ProfileID: "p1", ProfileName: "찬민"}}

	tests := []struct {
		name        string
		path        string
		token       string
		wantLevel   zapcore.Level
		wantRoute   string
		wantProfile string
	}{
		{name: "signed in", path: "/books/b1", token: "good", wantLevel: zapcore.InfoLevel, wantRoute: "/books/{bookID}", wantProfile: "찬민"},
		{name: "rejected token", path: "/books/b1", token: "bad", wantLevel: zapcore.WarnLevel},
		{name: "server error", path: "/boom", wantLevel: zapcore.ErrorLevel, wantRoute: "/boom"},
		{name: "health probe", path: "/health", wantLevel: zapcore.DebugLevel, wantRoute: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			r := chi.NewRouter()
			r.Use(Logger(zap.New(core)))
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})
			r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})
			r.Group(func(r chi.Router) {
				r.Use(Authenticate(users, zap.NewNop()))
				r.Get("/books/{bookID}", func(w http.ResponseWriter, r *http.Request) {
					_, err := auth.GetUserFromContext(r.Context())
					assert.NoError(t, err)
				})
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.path, fields["path"])
			if tt.wantRoute != "" {
				assert.Equal(t, tt.wantRoute, fields["route"])
			}
			if tt.wantProfile != "" {
				assert.Equal(t, tt.wantProfile, fields["profile"])
			} else {
				assert.NotContains(t, fields, "profile")
			}
		})
	}
}
