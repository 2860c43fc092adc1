package main

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/api/rest/auth"
	"codeberg.org/weconnect/server/api/rest/dashboard"
	"codeberg.org/weconnect/server/api/rest/feed"
	"codeberg.org/weconnect/server/api/rest/health"
	"codeberg.org/weconnect/server/api/rest/materials"
	"codeberg.org/weconnect/server/api/rest/notifications"
	"codeberg.org/weconnect/server/api/rest/wallet"
	"codeberg.org/weconnect/server/api/websocket"
	"codeberg.org/weconnect/server/internal/logger"
	"codeberg.org/weconnect/server/internal/ratelimit"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config))
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")

	// redis-backed per-IP limiting on the public API
	limit, err := ratelimit.Middleware(server.buffer.Client(), "120-M")
	if err != nil {
		logger.ErrorErr(err, "failed to initialize rate limiting, continuing without it")
	} else {
		v1.Use(limit)
	}

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.userRepo)
		materials.RegisterRoutes(v1, server.materialRepo, server.walletService, server.buffer, server.hub, server.notifier)
		dashboard.RegisterRoutes(v1, server.dashboardService, server.notifier)
		wallet.RegisterRoutes(v1, server.walletService, server.notifier)
		feed.RegisterRoutes(v1, server.feedRepo)
		notifications.RegisterRoutes(v1, server.notifier)
		websocket.RegisterRoutes(v1, server.hub)
	}
}
