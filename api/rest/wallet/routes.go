package wallet

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/notifications"
	"codeberg.org/weconnect/server/weconnect/wallet"
)

func RegisterRoutes(router *gin.RouterGroup, walletService *wallet.Service, notifier *notifications.Service) {
	walletGroup := router.Group("/wallet")
	walletGroup.Use(auth.AuthMiddleware())
	{
		walletGroup.GET("", GetBalanceHandler(walletService))
		walletGroup.POST("/withdraw", WithdrawHandler(walletService, notifier))
		walletGroup.GET("/transactions", ListTransactionsHandler(walletService))
	}
}
