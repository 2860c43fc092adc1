package dashboard

import (
	"context"

	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/weconnect/dashboard"
)

// raises best-effort user notifications for dashboard failures
type Notifier interface {
	Notify(ctx context.Context, userID, notifType, title, body string)
}

func RegisterRoutes(router *gin.RouterGroup, svc *dashboard.Service, notifier Notifier) {
	dashboardGroup := router.Group("/dashboard")
	dashboardGroup.Use(auth.AuthMiddleware())
	{
		dashboardGroup.GET("/stats", StatsHandler(svc, notifier))
		dashboardGroup.GET("/series", SeriesHandler(svc, notifier))
		dashboardGroup.GET("/export", ExportHandler(svc, notifier))
	}
}
