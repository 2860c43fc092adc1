package notifications

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/notifications"
)

func RegisterRoutes(router *gin.RouterGroup, svc *notifications.Service) {
	notificationsGroup := router.Group("/notifications")
	notificationsGroup.Use(auth.AuthMiddleware())
	{
		notificationsGroup.GET("", ListHandler(svc))
		notificationsGroup.GET("/unread-count", UnreadCountHandler(svc))
		notificationsGroup.PUT("/:id/read", MarkReadHandler(svc))
		notificationsGroup.PUT("/read-all", MarkAllReadHandler(svc))
	}
}
