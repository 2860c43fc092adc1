package materials

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/buffer"
	"codeberg.org/weconnect/server/internal/errors"
	"codeberg.org/weconnect/server/internal/logger"
	"codeberg.org/weconnect/server/internal/notifications"
	"codeberg.org/weconnect/server/weconnect/materials"
	"codeberg.org/weconnect/server/weconnect/wallet"
)

// CreateMaterialHandler registers an uploaded material for the
// authenticated user and announces it to watchers
func CreateMaterialHandler(materialRepo *materials.Repository, publisher DeltaPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req materials.CreateMaterialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid material", err)
			return
		}

		material, err := materialRepo.Create(c.Request.Context(), userID, req)
		if err != nil {
			errors.InternalError(c, "failed to create material", err)
			return
		}

		publisher.PublishInsert(material)

		c.JSON(http.StatusCreated, MaterialResponse{Material: material})
	}
}

// ListMaterialsHandler lists the authenticated user's materials, newest
// first, optionally filtered by search text and category
func ListMaterialsHandler(materialRepo *materials.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		filter := materials.ListFilter{
			Search:   c.Query("search"),
			Category: c.Query("category"),
		}

		var (
			list []materials.MaterialRecord
			err  error
		)

		if filter.Search == "" && filter.Category == "" {
			list, err = materialRepo.FetchAll(c.Request.Context(), userID)
		} else {
			list, err = materialRepo.Search(c.Request.Context(), userID, filter)
		}

		if err != nil {
			errors.InternalError(c, "failed to list materials", err)
			return
		}

		if list == nil {
			list = []materials.MaterialRecord{}
		}

		c.JSON(http.StatusOK, MaterialListResponse{Materials: list})
	}
}

// GetMaterialHandler returns one of the authenticated user's materials
func GetMaterialHandler(materialRepo *materials.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		material, err := materialRepo.Get(c.Request.Context(), c.Param("id"))
		if err != nil || material.OwnerID != userID {
			errors.NotFound(c, "material")
			return
		}

		c.JSON(http.StatusOK, MaterialResponse{Material: material})
	}
}

// DeleteMaterialHandler removes one of the authenticated user's materials.
// Watchers converge through the DELETE delta published after the database
// delete succeeds; the handler never tells clients to drop the record early.
func DeleteMaterialHandler(materialRepo *materials.Repository, publisher DeltaPublisher, notifier *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		materialID := c.Param("id")

		err := materialRepo.Delete(c.Request.Context(), materialID, userID)
		if stderrors.Is(err, materials.ErrMaterialNotFound) {
			errors.NotFound(c, "material")
			return
		}

		if err != nil {
			notifier.Notify(c.Request.Context(), userID, notifications.TypeDeleteFailed,
				"Delete failed", "Your material could not be deleted. Please try again.")
			errors.InternalError(c, "failed to delete material", err)
			return
		}

		publisher.PublishDelete(userID, materialID)

		c.JSON(http.StatusOK, MessageResponse{Message: "material deleted"})
	}
}

// RecordViewHandler buffers one view of a material
func RecordViewHandler(counters *buffer.CounterBuffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := counters.RecordView(c.Request.Context(), c.Param("id")); err != nil {
			// counter loss is tolerable; never fail the request over it
			logger.ErrorErr(err, "failed to record view", "material_id", c.Param("id"))
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "view recorded"})
	}
}

// RecordDownloadHandler buffers one download of a material
func RecordDownloadHandler(counters *buffer.CounterBuffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := counters.RecordDownload(c.Request.Context(), c.Param("id")); err != nil {
			logger.ErrorErr(err, "failed to record download", "material_id", c.Param("id"))
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "download recorded"})
	}
}

// GiveDiamondHandler awards a diamond to a material, credits the owner's
// wallet, and announces the updated counters
func GiveDiamondHandler(materialRepo *materials.Repository, walletService *wallet.Service, publisher DeltaPublisher, notifier *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		material, err := materialRepo.AddReward(c.Request.Context(), c.Param("id"), 1, earningsPerDiamond)
		if stderrors.Is(err, materials.ErrMaterialNotFound) {
			errors.NotFound(c, "material")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to award diamond", err)
			return
		}

		_, err = walletService.Credit(c.Request.Context(), material.OwnerID, 1, earningsPerDiamond,
			wallet.KindReward, material.ID)
		if err != nil {
			// the material counters already moved; log and keep going
			logger.ErrorErr(err, "failed to credit reward",
				"owner_id", material.OwnerID,
				"material_id", material.ID,
			)
		}

		notifier.Notify(c.Request.Context(), material.OwnerID, notifications.TypeReward,
			"Diamond received", "Someone gave a diamond to \""+material.Title+"\".")

		publisher.PublishUpdate(material)

		c.JSON(http.StatusOK, MaterialResponse{Material: material})
	}
}
