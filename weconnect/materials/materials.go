package materials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrMaterialNotFound = errors.New("material not found")
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// applies the ingestion defaults so downstream consumers can assume a
// well-formed record: blank titles become "Untitled", counters never go negative
func Normalize(rec *MaterialRecord) {
	if strings.TrimSpace(rec.Title) == "" {
		rec.Title = "Untitled"
	}

	if rec.Views < 0 {
		rec.Views = 0
	}

	if rec.Downloads < 0 {
		rec.Downloads = 0
	}

	if rec.Diamonds < 0 {
		rec.Diamonds = 0
	}

	if rec.Earnings < 0 {
		rec.Earnings = 0
	}
}

// registers an uploaded material for the owner
func (r *Repository) Create(ctx context.Context, ownerID string, req CreateMaterialRequest) (*MaterialRecord, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}

	var rec MaterialRecord
	err := r.db.QueryRow(
		ctx,
		queryCreate,
		uuid.NewString(),
		ownerID,
		title,
		req.Category,
		req.School,
		req.Course,
		req.FileName,
		req.FileSize,
		req.StorageKey,
	).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Category,
		&rec.School,
		&rec.Course,
		&rec.FileName,
		&rec.FileSize,
		&rec.StorageKey,
		&rec.Views,
		&rec.Downloads,
		&rec.Diamonds,
		&rec.Earnings,
		&rec.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	Normalize(&rec)

	return &rec, nil
}

// returns all materials owned by ownerID, newest first
func (r *Repository) FetchAll(ctx context.Context, ownerID string) ([]MaterialRecord, error) {
	rows, err := r.db.Query(ctx, queryFetchAll, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch materials: %w", err)
	}

	defer rows.Close()

	return scanRecords(rows)
}

// returns a single material by id
func (r *Repository) Get(ctx context.Context, id string) (*MaterialRecord, error) {
	var rec MaterialRecord
	err := r.db.QueryRow(ctx, queryGet, id).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Category,
		&rec.School,
		&rec.Course,
		&rec.FileName,
		&rec.FileSize,
		&rec.StorageKey,
		&rec.Views,
		&rec.Downloads,
		&rec.Diamonds,
		&rec.Earnings,
		&rec.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMaterialNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}

	Normalize(&rec)

	return &rec, nil
}

// returns the owner's materials matching the filter, newest first
func (r *Repository) Search(ctx context.Context, ownerID string, filter ListFilter) ([]MaterialRecord, error) {
	rows, err := r.db.Query(ctx, querySearch, ownerID, filter.Search, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to search materials: %w", err)
	}

	defer rows.Close()

	return scanRecords(rows)
}

// removes a material owned by ownerID
// callers must not remove the record from any in-memory view themselves:
// convergence happens through the DELETE delta published after this succeeds
func (r *Repository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx, queryDelete, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrMaterialNotFound
	}

	return nil
}

// adds buffered view/download counts to a material; used by the counter flusher
func (r *Repository) AddCounters(ctx context.Context, id string, views, downloads int64) (*MaterialRecord, error) {
	return r.scanUpdated(ctx, queryAddCounters, id, views, downloads)
}

// credits a diamond reward (and its earnings value) to a material
func (r *Repository) AddReward(ctx context.Context, id string, diamonds int64, earnings float64) (*MaterialRecord, error) {
	return r.scanUpdated(ctx, queryAddReward, id, diamonds, earnings)
}

func (r *Repository) scanUpdated(ctx context.Context, query string, args ...any) (*MaterialRecord, error) {
	var rec MaterialRecord
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Category,
		&rec.School,
		&rec.Course,
		&rec.FileName,
		&rec.FileSize,
		&rec.StorageKey,
		&rec.Views,
		&rec.Downloads,
		&rec.Diamonds,
		&rec.Earnings,
		&rec.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMaterialNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update material: %w", err)
	}

	Normalize(&rec)

	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]MaterialRecord, error) {
	var records []MaterialRecord

	for rows.Next() {
		var rec MaterialRecord
		err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.Title,
			&rec.Category,
			&rec.School,
			&rec.Course,
			&rec.FileName,
			&rec.FileSize,
			&rec.StorageKey,
			&rec.Views,
			&rec.Downloads,
			&rec.Diamonds,
			&rec.Earnings,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		Normalize(&rec)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
