package feed

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/errors"
	"codeberg.org/weconnect/server/weconnect/feed"
)

// CreatePostHandler publishes a post to the community feed
func CreatePostHandler(feedRepo *feed.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req feed.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid post", err)
			return
		}

		post, err := feedRepo.Create(c.Request.Context(), userID, &req)
		if err != nil {
			errors.InternalError(c, "failed to create post", err)
			return
		}

		c.JSON(http.StatusCreated, PostResponse{Post: post})
	}
}

// ListPostsHandler returns the most recent posts (no auth required)
func ListPostsHandler(feedRepo *feed.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", 20)
		offset := intQuery(c, "offset", 0)

		list, err := feedRepo.ListRecent(c.Request.Context(), limit, offset)
		if err != nil {
			errors.InternalError(c, "failed to list posts", err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// LikePostHandler records a like; repeated likes are no-ops
func LikePostHandler(feedRepo *feed.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		err := feedRepo.Like(c.Request.Context(), c.Param("id"), userID)
		if stderrors.Is(err, feed.ErrPostNotFound) {
			errors.NotFound(c, "post")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to like post", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "post liked"})
	}
}

// DeletePostHandler removes the caller's own post
func DeletePostHandler(feedRepo *feed.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		err := feedRepo.Delete(c.Request.Context(), c.Param("id"), userID)
		if stderrors.Is(err, feed.ErrPostNotFound) {
			errors.NotFound(c, "post")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to delete post", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "post deleted"})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return parsed
}
