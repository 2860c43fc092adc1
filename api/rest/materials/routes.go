package materials

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/buffer"
	"codeberg.org/weconnect/server/internal/notifications"
	"codeberg.org/weconnect/server/weconnect/materials"
	"codeberg.org/weconnect/server/weconnect/wallet"
)

// publishes record deltas to everyone watching the owner's record set
type DeltaPublisher interface {
	PublishInsert(rec *materials.MaterialRecord)
	PublishUpdate(rec *materials.MaterialRecord)
	PublishDelete(ownerID, recordID string)
}

func RegisterRoutes(
	router *gin.RouterGroup,
	materialRepo *materials.Repository,
	walletService *wallet.Service,
	counters *buffer.CounterBuffer,
	publisher DeltaPublisher,
	notifier *notifications.Service,
) {
	// counter endpoints are open: views and downloads come from readers,
	// not owners
	router.POST("/materials/:id/view", RecordViewHandler(counters))
	router.POST("/materials/:id/download", RecordDownloadHandler(counters))

	materialsGroup := router.Group("/materials")
	materialsGroup.Use(auth.AuthMiddleware())
	{
		materialsGroup.GET("", ListMaterialsHandler(materialRepo))
		materialsGroup.POST("", CreateMaterialHandler(materialRepo, publisher))
		materialsGroup.GET("/:id", GetMaterialHandler(materialRepo))
		materialsGroup.DELETE("/:id", DeleteMaterialHandler(materialRepo, publisher, notifier))
		materialsGroup.POST("/:id/diamond", GiveDiamondHandler(materialRepo, walletService, publisher, notifier))
	}
}
