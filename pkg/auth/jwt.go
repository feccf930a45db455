package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingToken  = errors.New("missing authentication token")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrNoUserContext = errors.New("no user in context")
)

// Claims identifies a logged-in family profile
type Claims struct {
	ProfileID   string `json:"pid"`
	ProfileName string `json:"name"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 session tokens
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a token service. The secret must be non-empty.
func NewJWTService(secret, issuer string, ttl time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("secret key required for HS256")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// GenerateToken signs a token for the profile
func (s *JWTService) GenerateToken(profileID, profileName string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		ProfileID:   profileID,
		ProfileName: profileName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileName,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken validates a token (with or without the Bearer prefix) and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
	}
	if claims.ProfileName == "" {
		return nil, fmt.Errorf("%w: missing profile", ErrInvalidClaims)
	}
	return claims, nil
}

// UserContext is the authenticated profile attached to a request
type UserContext struct {
	ProfileID   string
	ProfileName string
}

type contextKey struct{}

// SetUserInContext stores the profile on ctx
func SetUserInContext(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// GetUserFromContext returns the profile stored by the auth middleware
func GetUserFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(contextKey{}).(UserContext)
	if !ok || user.ProfileName == "" {
		return UserContext{}, ErrNoUserContext
	}
	return user, nil
}
