package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// finds an existing profile for the OAuth identity or creates one
func (r *Repository) FindOrCreateByProvider(ctx context.Context, provider, providerID, email, displayName, avatarURL string) (*Profile, error) {
	var p Profile
	err := r.db.QueryRow(
		ctx,
		queryFindOrCreateByProvider,
		provider,
		providerID,
		email,
		displayName,
		avatarURL,
	).Scan(
		&p.ID,
		&p.Email,
		&p.Provider,
		&p.ProviderID,
		&p.DisplayName,
		&p.School,
		&p.Course,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to find or create profile: %w", err)
	}

	return &p, nil
}

// returns the profile by id
func (r *Repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx, queryFindByID, id).Scan(
		&p.ID,
		&p.Email,
		&p.Provider,
		&p.ProviderID,
		&p.DisplayName,
		&p.School,
		&p.Course,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &p, nil
}

// updates the editable profile fields
func (r *Repository) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Profile, error) {
	var p Profile
	err := r.db.QueryRow(
		ctx,
		queryUpdateProfile,
		req.DisplayName,
		req.School,
		req.Course,
		req.AvatarURL,
		id,
	).Scan(
		&p.ID,
		&p.Email,
		&p.Provider,
		&p.ProviderID,
		&p.DisplayName,
		&p.School,
		&p.Course,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &p, nil
}
