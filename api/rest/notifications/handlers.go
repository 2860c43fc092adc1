package notifications

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/errors"
	"codeberg.org/weconnect/server/internal/notifications"
)

// ListHandler returns the authenticated user's notifications, newest first
func ListHandler(svc *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		limit := 50
		if l, ok := c.GetQuery("limit"); ok {
			if parsed, err := strconv.Atoi(l); err == nil {
				limit = parsed
			}
		}

		unreadOnly := c.Query("unread") == "true"

		list, err := svc.ListForUser(c.Request.Context(), userID, limit, unreadOnly)
		if err != nil {
			errors.InternalError(c, "failed to list notifications", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"notifications": list})
	}
}

// UnreadCountHandler returns how many notifications are unread
func UnreadCountHandler(svc *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		count, err := svc.UnreadCount(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to count notifications", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// MarkReadHandler marks one notification as read
func MarkReadHandler(svc *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		if err := svc.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
			errors.InternalError(c, "failed to mark notification read", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
	}
}

// MarkAllReadHandler marks every unread notification as read
func MarkAllReadHandler(svc *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		if err := svc.MarkAllRead(c.Request.Context(), userID); err != nil {
			errors.InternalError(c, "failed to mark notifications read", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "all notifications marked read"})
	}
}
