package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"booklog-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type tokenTable map[string]auth.UserContext

func (t tokenTable) Authenticate(token string) (auth.UserContext, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return auth.UserContext{}, errors.New("invalid token")
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc"},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "abc"},
		{"other scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth_token", Value: "cookie"}) }, "cookie"},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=query" }, "query"},
		{"none", func(r *http.Request) {}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(r)
			assert.Equal(t, tt.want, ExtractToken(r))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	users := tokenTable{"good": {ProfileID: "p1", ProfileName: "엄마"}}

	var seen auth.UserContext
	handler := Authenticate(users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"invalid", "Bearer bad", http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = auth.UserContext{}
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "엄마", seen.ProfileName)
			} else {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}
