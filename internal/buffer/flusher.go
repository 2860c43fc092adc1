package buffer

import (
	"context"
	"errors"
	"sync"
	"time"

	"codeberg.org/weconnect/server/internal/logger"
	"codeberg.org/weconnect/server/weconnect/materials"
)

// persists buffered counters into the materials table
type CounterStore interface {
	AddCounters(ctx context.Context, id string, views, downloads int64) (*materials.MaterialRecord, error)
}

// announces updated records to live dashboards
type DeltaPublisher interface {
	PublishUpdate(rec *materials.MaterialRecord)
}

// handles periodic flushing of buffered counters from Redis to Postgres
type Flusher struct {
	buffer   *CounterBuffer
	store    CounterStore
	deltas   DeltaPublisher
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// creates a new flusher that periodically flushes Redis counters to Postgres
func NewFlusher(buffer *CounterBuffer, store CounterStore, deltas DeltaPublisher, interval time.Duration) *Flusher {
	return &Flusher{
		buffer:   buffer,
		store:    store,
		deltas:   deltas,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// begins the background flush loop
func (f *Flusher) Start() {
	f.wg.Add(1)
	go f.run()
	logger.Info("counter flusher started", "interval", f.interval.String())
}

// gracefully stops the flusher and flushes any remaining counters
func (f *Flusher) Stop() {
	close(f.stopCh)
	f.wg.Wait()
	logger.Info("counter flusher stopped")
}

func (f *Flusher) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.flush()
		case <-f.stopCh:
			// final flush before stopping
			logger.Info("flushing remaining counters before shutdown")
			f.flush()
			return
		}
	}
}

func (f *Flusher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	materialIDs, err := f.buffer.DirtyMaterials(ctx)
	if err != nil {
		logger.ErrorErr(err, "failed to get dirty materials")
		return
	}

	if len(materialIDs) == 0 {
		return
	}

	logger.Debug("flushing counters", "count", len(materialIDs))

	for _, materialID := range materialIDs {
		views, downloads, err := f.buffer.FlushCounters(ctx, materialID)
		if err != nil {
			logger.ErrorErr(err, "failed to flush counters from buffer", "material_id", materialID)
			continue
		}

		if views == 0 && downloads == 0 {
			continue
		}

		rec, err := f.store.AddCounters(ctx, materialID, views, downloads)
		if errors.Is(err, materials.ErrMaterialNotFound) {
			// deleted while counters were buffered; drop them
			logger.Debug("discarding counters for deleted material", "material_id", materialID)
			continue
		}

		if err != nil {
			logger.ErrorErr(err, "failed to persist counters to postgres", "material_id", materialID)
			// re-add so we retry next flush
			f.buffer.Restore(ctx, materialID, views, downloads) //nolint:errcheck,gosec // best-effort retry
			continue
		}

		// live dashboards converge through the update delta
		f.deltas.PublishUpdate(rec)

		logger.Debug("flushed counters to postgres",
			"material_id", materialID,
			"views", views,
			"downloads", downloads,
		)
	}
}
