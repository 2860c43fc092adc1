// Package feed implements the community feed: short posts with
// idempotent likes.
package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, authorID string, req *CreatePostRequest) (*Post, error) {
	post := Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
	}

	err := r.db.QueryRow(ctx, queryCreatePost, post.ID, authorID, req.Body).
		Scan(&post.ID, &post.AuthorID, &post.Body, &post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &post, nil
}

func (r *Repository) ListRecent(ctx context.Context, limit, offset int) (*PostList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, queryListRecent, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	defer rows.Close()

	posts := make([]Post, 0)

	for rows.Next() {
		var p Post
		err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Body, &p.Likes, &p.CreatedAt)
		if err != nil {
			return nil, err
		}

		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, queryCountPosts).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	return &PostList{Posts: posts, Total: total}, nil
}

// Like records a like; liking the same post twice is a no-op
func (r *Repository) Like(ctx context.Context, postID, userID string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, queryPostExists, postID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}

	if !exists {
		return ErrPostNotFound
	}

	if _, err := r.db.Exec(ctx, queryLikePost, postID, userID); err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}

	return nil
}

// Delete removes the post if it belongs to the caller
func (r *Repository) Delete(ctx context.Context, postID, authorID string) error {
	tag, err := r.db.Exec(ctx, queryDeletePost, postID, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}
