package dashboard

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/errors"
	"codeberg.org/weconnect/server/internal/notifications"
	"codeberg.org/weconnect/server/weconnect/analytics"
	"codeberg.org/weconnect/server/weconnect/dashboard"
	"codeberg.org/weconnect/server/weconnect/export"
)

// StatsHandler returns summary stats over the authenticated user's
// materials for the requested range
func StatsHandler(svc *dashboard.Service, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		r, err := analytics.ParseRange(c.Query("range"))
		if err != nil {
			errors.BadRequest(c, "invalid range", err)
			return
		}

		stats, err := svc.Stats(c.Request.Context(), userID, r)
		if err != nil {
			notifyFetchFailed(c, notifier, userID)
			errors.InternalError(c, "failed to load dashboard stats", err)
			return
		}

		c.JSON(http.StatusOK, StatsResponse{Range: string(r), Stats: stats})
	}
}

// SeriesHandler returns the per-day diamonds/earnings series for the
// requested range
func SeriesHandler(svc *dashboard.Service, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		r, err := analytics.ParseRange(c.Query("range"))
		if err != nil {
			errors.BadRequest(c, "invalid range", err)
			return
		}

		buckets, err := svc.Series(c.Request.Context(), userID, r)
		if err != nil {
			notifyFetchFailed(c, notifier, userID)
			errors.InternalError(c, "failed to load dashboard series", err)
			return
		}

		c.JSON(http.StatusOK, SeriesResponse{Range: string(r), Buckets: buckets})
	}
}

// ExportHandler streams the range-filtered material list as a CSV or JSON
// download
func ExportHandler(svc *dashboard.Service, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		r, err := analytics.ParseRange(c.Query("range"))
		if err != nil {
			errors.BadRequest(c, "invalid range", err)
			return
		}

		format, err := export.ParseFormat(c.DefaultQuery("format", "csv"))
		if err != nil {
			errors.BadRequest(c, "invalid format", err)
			return
		}

		file, err := svc.Export(c.Request.Context(), userID, r, format)
		if stderrors.Is(err, export.ErrNoData) {
			notifier.Notify(c.Request.Context(), userID, notifications.TypeExportEmpty,
				"Nothing to export", "No materials matched the selected range.")
			errors.NoData(c, "")
			return
		}

		if err != nil {
			notifyFetchFailed(c, notifier, userID)
			errors.InternalError(c, "failed to export materials", err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
		c.Data(http.StatusOK, file.MIME, file.Data)
	}
}

func notifyFetchFailed(c *gin.Context, notifier Notifier, userID string) {
	notifier.Notify(c.Request.Context(), userID, notifications.TypeFetchFailed,
		"Dashboard unavailable", "Your materials could not be loaded. Please try again.")
}
