package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/weconnect/users"
)

// registers all authentication routes
func RegisterRoutes(router *gin.RouterGroup, userRepo *users.Repository) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/:provider", BeginAuthHandler())
		authGroup.GET("/:provider/callback", CallbackHandler(userRepo))
		authGroup.POST("/logout", LogoutHandler())
		authGroup.GET("/me", auth.AuthMiddleware(), GetCurrentUserHandler(userRepo))
	}

	// profile lives beside auth; same repo, same handlers
	profileGroup := router.Group("/profile")
	profileGroup.Use(auth.AuthMiddleware())
	{
		profileGroup.GET("", GetCurrentUserHandler(userRepo))
		profileGroup.PUT("", UpdateProfileHandler(userRepo))
	}
}
