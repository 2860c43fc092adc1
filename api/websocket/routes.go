package websocket

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/stream"
)

func RegisterRoutes(router *gin.RouterGroup, hub *stream.Hub) {
	router.GET("/ws", StreamHandler(hub))
}
