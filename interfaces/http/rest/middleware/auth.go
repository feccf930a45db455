package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"booklog-backend/pkg/auth"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// Authenticator turns a bearer token into the profile it was issued to
type Authenticator interface {
	Authenticate(token string) (auth.UserContext, error)
}

// Authenticate rejects requests without a valid profile token and stores the profile
// on the request context
func Authenticate(authenticator Authenticator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				respondUnauthorized(w, "Missing authorization token")
				return
			}

			user, err := authenticator.Authenticate(token)
			if err != nil {
				logger.Debug("Token rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				respondUnauthorized(w, "Invalid token")
				return
			}

			annotateProfile(r.Context(), user.ProfileName)
			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken reads the token from the Authorization header, the auth_token cookie or,
// for browser WebSocket upgrades that cannot set headers, the token query parameter
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie("auth_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.URL.Query().Get("token")
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="booklog"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"type":    pkgerrors.ErrorTypeUnauthorized,
		"message": message,
	})
}
