package users

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles profile database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents an authenticated student profile
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"-"`
	DisplayName string    `json:"display_name"`
	School      string    `json:"school"`
	Course      string    `json:"course"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// contains data for updating a profile
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"max=100"`
	School      string `json:"school" binding:"max=200"`
	Course      string `json:"course" binding:"max=200"`
	AvatarURL   string `json:"avatar_url" binding:"max=512"`
}
