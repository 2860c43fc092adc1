package materials

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles material database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents a single uploaded study material and its counters
type MaterialRecord struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	School     string    `json:"school"`
	Course     string    `json:"course"`
	FileName   string    `json:"file_name,omitempty"`
	FileSize   int64     `json:"file_size,omitempty"`
	StorageKey string    `json:"-"` // object storage key, never exposed to clients
	Views      int64     `json:"views"`
	Downloads  int64     `json:"downloads"`
	Diamonds   int64     `json:"diamonds"`
	Earnings   float64   `json:"earnings"`
	CreatedAt  time.Time `json:"created_at"`
}

// contains data for registering an uploaded material
type CreateMaterialRequest struct {
	Title      string `json:"title" binding:"max=200"`
	Category   string `json:"category" binding:"max=100"`
	School     string `json:"school" binding:"max=200"`
	Course     string `json:"course" binding:"max=200"`
	FileName   string `json:"file_name" binding:"max=255"`
	FileSize   int64  `json:"file_size" binding:"min=0"`
	StorageKey string `json:"storage_key" binding:"max=512"`
}

type ListFilter struct {
	Search   string // search in title and course
	Category string // exact category match
}
