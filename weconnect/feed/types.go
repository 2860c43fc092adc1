package feed

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	Likes      int64     `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type PostList struct {
	Posts []Post `json:"posts"`
	Total int64  `json:"total"`
}
