package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codeberg.org/weconnect/server/internal/stream"
	"codeberg.org/weconnect/server/weconnect/analytics"
	"codeberg.org/weconnect/server/weconnect/export"
	"codeberg.org/weconnect/server/weconnect/materials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 14, 30, 0, 0, time.Local)

type fakeSource struct {
	mu      sync.Mutex
	records []materials.MaterialRecord
	err     error

	// when set, FetchAll blocks until the channel is closed
	block chan struct{}
}

func (f *fakeSource) FetchAll(_ context.Context, _ string) ([]materials.MaterialRecord, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	out := make([]materials.MaterialRecord, len(f.records))
	copy(out, f.records)

	return out, nil
}

type fakeDeltaSource struct {
	ch        chan stream.Delta
	cancelled bool
}

func (f *fakeDeltaSource) Subscribe(_ string) (<-chan stream.Delta, stream.CancelFunc) {
	return f.ch, func() { f.cancelled = true }
}

func rec(id string, diamonds int64, createdAt time.Time) materials.MaterialRecord {
	return materials.MaterialRecord{ID: id, OwnerID: "owner-1", Title: "Untitled", Diamonds: diamonds, CreatedAt: createdAt}
}

func newTestService(source RecordSource, deltas DeltaSource) *Service {
	svc := NewService(source, deltas)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestOpen_FetchFailureCancelsSubscription(t *testing.T) {
	deltas := &fakeDeltaSource{ch: make(chan stream.Delta)}
	svc := newTestService(&fakeSource{err: errors.New("connection refused")}, deltas)

	view, err := svc.Open(context.Background(), "owner-1")

	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, deltas.cancelled, "failed open must release the subscription")
}

func TestView_InsertIdempotent(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	source := &fakeSource{records: []materials.MaterialRecord{rec("m1", 1, testNow)}}
	svc := newTestService(source, hub)

	view, err := svc.Open(context.Background(), "owner-1")
	require.NoError(t, err)
	defer view.Close()

	added := rec("m2", 2, testNow)
	hub.PublishInsert(&added)
	hub.PublishInsert(&added) // duplicate must be a no-op

	require.Eventually(t, func() bool {
		return len(view.Records()) == 2
	}, time.Second, 10*time.Millisecond)

	// give the duplicate a chance to misbehave
	time.Sleep(50 * time.Millisecond)

	records := view.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "m2", records[0].ID, "inserts prepend to keep newest-first order")
	assert.Equal(t, "m1", records[1].ID)
}

func TestView_UpdateReplacesMatchingRecord(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	source := &fakeSource{records: []materials.MaterialRecord{rec("m1", 1, testNow)}}
	svc := newTestService(source, hub)

	view, err := svc.Open(context.Background(), "owner-1")
	require.NoError(t, err)
	defer view.Close()

	updated := rec("m1", 42, testNow)
	hub.PublishUpdate(&updated)

	require.Eventually(t, func() bool {
		records := view.Records()
		return len(records) == 1 && records[0].Diamonds == 42
	}, time.Second, 10*time.Millisecond)

	// update for an unknown id is a no-op, not an insert
	unknown := rec("m9", 7, testNow)
	hub.PublishUpdate(&unknown)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, view.Records(), 1)
}

func TestView_DeleteAbsentIDIsNoop(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	source := &fakeSource{records: []materials.MaterialRecord{rec("m1", 1, testNow)}}
	svc := newTestService(source, hub)

	view, err := svc.Open(context.Background(), "owner-1")
	require.NoError(t, err)
	defer view.Close()

	hub.PublishDelete("owner-1", "m7")

	time.Sleep(50 * time.Millisecond)

	records := view.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "m1", records[0].ID)
}

func TestView_DeleteRemovesRecord(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	source := &fakeSource{records: []materials.MaterialRecord{
		rec("m1", 1, testNow),
		rec("m2", 2, testNow.Add(-time.Hour)),
	}}
	svc := newTestService(source, hub)

	view, err := svc.Open(context.Background(), "owner-1")
	require.NoError(t, err)
	defer view.Close()

	hub.PublishDelete("owner-1", "m1")

	require.Eventually(t, func() bool {
		records := view.Records()
		return len(records) == 1 && records[0].ID == "m2"
	}, time.Second, 10*time.Millisecond)
}

// Deltas delivered while the initial fetch is still in flight must be
// buffered and replayed, not dropped. Subscribing only after the fetch
// completes would silently lose them.
func TestOpen_ReplaysDeltasReceivedDuringFetch(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	block := make(chan struct{})
	source := &fakeSource{
		records: []materials.MaterialRecord{rec("m1", 1, testNow)},
		block:   block,
	}
	svc := newTestService(source, hub)

	type openResult struct {
		view *View
		err  error
	}

	results := make(chan openResult, 1)
	go func() {
		view, err := svc.Open(context.Background(), "owner-1")
		results <- openResult{view, err}
	}()

	// published mid-fetch: lands in the subscription buffer
	midFetch := rec("m2", 2, testNow)
	hub.PublishInsert(&midFetch)

	// let the delta reach the buffered subscription before the fetch resolves
	time.Sleep(50 * time.Millisecond)
	close(block)

	result := <-results
	require.NoError(t, result.err)
	view := result.view
	defer view.Close()

	require.Eventually(t, func() bool {
		return len(view.Records()) == 2
	}, time.Second, 10*time.Millisecond)

	records := view.Records()
	assert.Equal(t, "m2", records[0].ID, "mid-fetch delta applied exactly once")
	assert.Equal(t, "m1", records[1].ID)
}

func TestView_CloseStopsUpdates(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	source := &fakeSource{records: []materials.MaterialRecord{rec("m1", 1, testNow)}}
	svc := newTestService(source, hub)

	view, err := svc.Open(context.Background(), "owner-1")
	require.NoError(t, err)

	view.Close()

	extra := rec("m2", 2, testNow)
	hub.PublishInsert(&extra)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, view.Records(), 1, "closed view must not keep applying deltas")
}

func TestView_StatsAndExport(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	source := &fakeSource{records: []materials.MaterialRecord{
		rec("m1", 5, testNow),
		rec("m2", 3, testNow.AddDate(0, 0, -40)), // outside 30d
	}}
	svc := newTestService(source, hub)

	view, err := svc.Open(context.Background(), "owner-1")
	require.NoError(t, err)
	defer view.Close()

	stats := view.Stats(analytics.Range30Days)
	assert.Equal(t, int64(1), stats.Count)
	assert.Equal(t, int64(5), stats.Diamonds)

	buckets := view.Series(analytics.Range30Days)
	assert.Len(t, buckets, 30)

	file, err := view.Export(analytics.Range30Days, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "my-materials-30d-2025-06-15.csv", file.Name)
}

func TestService_StatsAndExportOneShot(t *testing.T) {
	deltas := &fakeDeltaSource{ch: make(chan stream.Delta)}
	source := &fakeSource{records: []materials.MaterialRecord{rec("m1", 5, testNow)}}
	svc := newTestService(source, deltas)

	stats, err := svc.Stats(context.Background(), "owner-1", analytics.RangeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Diamonds)

	buckets, err := svc.Series(context.Background(), "owner-1", analytics.Range7Days)
	require.NoError(t, err)
	assert.Len(t, buckets, 7)

	// empty filtered set surfaces the guard error, not a file
	empty := newTestService(&fakeSource{}, deltas)
	file, err := empty.Export(context.Background(), "owner-1", analytics.RangeAll, export.FormatJSON)
	assert.ErrorIs(t, err, export.ErrNoData)
	assert.Nil(t, file)
}
