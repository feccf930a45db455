package supabase

import (
	"context"
	"errors"

	"booklog-backend/domain/core/entities"
	pkgerrors "booklog-backend/pkg/errors"
)

var errEmptyResult = errors.New("no rows returned")

type userRow struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	PIN  *string `json:"pin"`
}

func (r userRow) toEntity() entities.Profile {
	return entities.Profile{ID: r.ID, Name: r.Name, PIN: r.PIN}
}

// ProfileRepository implements ports.ProfileRepository on the users table
type ProfileRepository struct {
	client TableClient
}

// NewProfileRepository creates a profile repository
func NewProfileRepository(client TableClient) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// ListProfiles returns every profile
func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]entities.Profile, error) {
	var rows []userRow
	if _, err := r.client.From(usersTable).Select("id,name,pin", "", false).ExecuteTo(&rows); err != nil {
		return nil, pkgerrors.NewDatabaseError("list profiles", err)
	}
	profiles := make([]entities.Profile, len(rows))
	for i, row := range rows {
		profiles[i] = row.toEntity()
	}
	return profiles, nil
}

// GetProfile returns one profile
func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (*entities.Profile, error) {
	var rows []userRow
	_, err := r.client.From(usersTable).
		Select("id,name,pin", "", false).
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get profile", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("profile")
	}
	p := rows[0].toEntity()
	return &p, nil
}

// ClaimProfilePin stores the PIN chosen on first login if the profile has none yet
func (r *ProfileRepository) ClaimProfilePin(ctx context.Context, id, pin string) (bool, error) {
	var rows []userRow
	_, err := r.client.From(usersTable).
		Update(map[string]string{"pin": pin}, "representation", "").
		Eq("id", id).
		Or(`pin.is.null,pin.eq.""`, "").
		ExecuteTo(&rows)
	if err != nil {
		return false, pkgerrors.NewDatabaseError("set profile pin", err)
	}
	if len(rows) > 0 {
		return true, nil
	}
	if _, err := r.GetProfile(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
