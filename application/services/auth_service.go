package services

import (
	"context"
	"sort"
	"time"

	"booklog-backend/application/ports"
	"booklog-backend/domain/core/entities"
	"booklog-backend/pkg/auth"
	pkgerrors "booklog-backend/pkg/errors"

	"go.uber.org/zap"
)

// ProfileView is a profile as shown on the login screen
type ProfileView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	HasPIN bool   `json:"hasPin"`
}

// LoginResult is returned after a successful PIN check
type LoginResult struct {
	Token      string      `json:"token"`
	ExpiresAt  time.Time   `json:"expiresAt"`
	Profile    ProfileView `json:"profile"`
	FirstLogin bool        `json:"firstLogin"`
}

// AuthService handles profile selection and PIN login
type AuthService struct {
	profiles ports.ProfileRepository
	tokens   *auth.JWTService
	family   []string
	logger   *zap.Logger
}

// NewAuthService creates an auth service. family fixes the display order of profiles.
func NewAuthService(profiles ports.ProfileRepository, tokens *auth.JWTService, family []string, logger *zap.Logger) *AuthService {
	return &AuthService{profiles: profiles, tokens: tokens, family: family, logger: logger}
}

// ListProfiles returns the profiles in family order; unknown names go last, by name
func (s *AuthService) ListProfiles(ctx context.Context) ([]ProfileView, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list profiles")
	}

	order := make(map[string]int, len(s.family))
	for i, name := range s.family {
		order[name] = i
	}
	position := func(name string) int {
		if i, ok := order[name]; ok {
			return i
		}
		return len(order)
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		pi, pj := position(profiles[i].Name), position(profiles[j].Name)
		if pi != pj {
			return pi < pj
		}
		return profiles[i].Name < profiles[j].Name
	})

	views := make([]ProfileView, len(profiles))
	for i, p := range profiles {
		views[i] = ProfileView{ID: p.ID, Name: p.Name, HasPIN: p.HasPIN()}
	}
	return views, nil
}

// Login checks pin for the profile. The first login stores the PIN; later logins must match it.
func (s *AuthService) Login(ctx context.Context, profileID, pin string) (*LoginResult, error) {
	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	firstLogin, err := profile.Authenticate(pin)
	if err != nil {
		s.logger.Info("Login rejected",
			zap.String("profileID", profileID),
			zap.Error(err),
		)
		return nil, err
	}

	if firstLogin {
		claimed, err := s.profiles.ClaimProfilePin(ctx, profile.ID, pin)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "set profile pin")
		}
		if !claimed {
			// A concurrent first login stored its PIN first
			if firstLogin, err = s.checkStoredPIN(ctx, profile.ID, pin); err != nil {
				return nil, err
			}
		} else {
			s.logger.Info("Profile PIN set on first login", zap.String("profile", profile.Name))
		}
	}

	token, expires, err := s.tokens.GenerateToken(profile.ID, profile.Name)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to issue session token").WithCause(err)
	}

	return &LoginResult{
		Token:      token,
		ExpiresAt:  expires,
		Profile:    ProfileView{ID: profile.ID, Name: profile.Name, HasPIN: true},
		FirstLogin: firstLogin,
	}, nil
}

func (s *AuthService) checkStoredPIN(ctx context.Context, profileID, pin string) (bool, error) {
	stored, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return false, err
	}
	if !stored.HasPIN() {
		return false, entities.ErrPINMismatch
	}
	if _, err := stored.Authenticate(pin); err != nil {
		s.logger.Info("Login rejected after concurrent first login", zap.String("profileID", profileID))
		return false, err
	}
	return false, nil
}

// Authenticate validates a session token
func (s *AuthService) Authenticate(token string) (auth.UserContext, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return auth.UserContext{}, pkgerrors.NewUnauthorizedError("invalid or expired session").WithCause(err)
	}
	return auth.UserContext{ProfileID: claims.ProfileID, ProfileName: claims.ProfileName}, nil
}
