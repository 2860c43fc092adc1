package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/weconnect/server/weconnect/dashboard"
	"codeberg.org/weconnect/server/weconnect/materials"
)

type fakeSource struct {
	records []materials.MaterialRecord
	err     error
}

func (f *fakeSource) FetchAll(_ context.Context, _ string) ([]materials.MaterialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.records, nil
}

type fakeNotifier struct {
	types []string
}

func (f *fakeNotifier) Notify(_ context.Context, _, notifType, _, _ string) {
	f.types = append(f.types, notifType)
}

func newTestRouter(source *fakeSource, notifier *fakeNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})

	svc := dashboard.NewService(source, nil)

	api.GET("/dashboard/stats", StatsHandler(svc, notifier))
	api.GET("/dashboard/series", SeriesHandler(svc, notifier))
	api.GET("/dashboard/export", ExportHandler(svc, notifier))

	return router
}

func testRecords() []materials.MaterialRecord {
	now := time.Now()

	return []materials.MaterialRecord{
		{ID: "m1", OwnerID: "user-1", Title: "Calculus Notes", Views: 10, Downloads: 4, Diamonds: 3, Earnings: 0.15, CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "m2", OwnerID: "user-1", Title: "Linear Algebra", Views: 5, Downloads: 1, Diamonds: 2, Earnings: 0.10, CreatedAt: now.AddDate(0, 0, -3)},
	}
}

func TestStatsHandler(t *testing.T) {
	router := newTestRouter(&fakeSource{records: testRecords()}, &fakeNotifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats?range=7d", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "7d", resp.Range)
	assert.Equal(t, int64(2), resp.Stats.Count)
	assert.Equal(t, int64(5), resp.Stats.Diamonds)
	assert.InDelta(t, 0.25, resp.Stats.Earnings, 1e-9)
}

func TestStatsHandler_InvalidRange(t *testing.T) {
	router := newTestRouter(&fakeSource{records: testRecords()}, &fakeNotifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats?range=14d", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsHandler_FetchFailureNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(&fakeSource{err: errors.New("connection reset")}, notifier)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"fetch_failed"}, notifier.types)
}

func TestSeriesHandler(t *testing.T) {
	router := newTestRouter(&fakeSource{records: testRecords()}, &fakeNotifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/series?range=7d", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp SeriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Buckets, 7)
}

func TestExportHandler_CSV(t *testing.T) {
	router := newTestRouter(&fakeSource{records: testRecords()}, &fakeNotifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/export?range=30d&format=csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv;charset=utf-8", w.Header().Get("Content-Type"))

	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "my-materials-30d-")
	assert.Contains(t, disposition, ".csv")

	assert.True(t, strings.HasPrefix(w.Body.String(),
		"Title,Category,School,Course,Uploaded At,Views,Downloads,Diamonds,Earnings ($)"))
}

func TestExportHandler_DefaultsToCSV(t *testing.T) {
	router := newTestRouter(&fakeSource{records: testRecords()}, &fakeNotifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
}

func TestExportHandler_EmptyIsGuardedNotFailed(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(&fakeSource{}, notifier)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/export?format=json", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no_data", resp["error"])
	assert.Equal(t, []string{"export_empty"}, notifier.types)
}

func TestExportHandler_InvalidFormat(t *testing.T) {
	router := newTestRouter(&fakeSource{records: testRecords()}, &fakeNotifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/export?format=xml", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	svc := dashboard.NewService(&fakeSource{}, nil)
	router.GET("/stats", StatsHandler(svc, &fakeNotifier{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
