package feed

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/weconnect/feed"
)

func RegisterRoutes(router *gin.RouterGroup, feedRepo *feed.Repository) {
	// the feed is readable without an account
	router.GET("/feed", ListPostsHandler(feedRepo))

	feedGroup := router.Group("/feed")
	feedGroup.Use(auth.AuthMiddleware())
	{
		feedGroup.POST("", CreatePostHandler(feedRepo))
		feedGroup.POST("/:id/like", LikePostHandler(feedRepo))
		feedGroup.DELETE("/:id", DeletePostHandler(feedRepo))
	}
}
