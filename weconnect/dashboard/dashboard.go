// Package dashboard maintains a live, per-owner view of the material record
// set: one initial fetch plus an idempotent application of push deltas. The
// aggregation and export packages consume its snapshots; they never see the
// remote source directly.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/weconnect/server/internal/stream"
	"codeberg.org/weconnect/server/weconnect/analytics"
	"codeberg.org/weconnect/server/weconnect/export"
	"codeberg.org/weconnect/server/weconnect/materials"
)

// the queried side of the remote record source
type RecordSource interface {
	FetchAll(ctx context.Context, ownerID string) ([]materials.MaterialRecord, error)
}

// the push side of the remote record source
type DeltaSource interface {
	Subscribe(ownerID string) (<-chan stream.Delta, stream.CancelFunc)
}

type Service struct {
	source RecordSource
	deltas DeltaSource
	now    func() time.Time
}

func NewService(source RecordSource, deltas DeltaSource) *Service {
	return &Service{
		source: source,
		deltas: deltas,
		now:    time.Now,
	}
}

// computes summary stats for the owner's records over the range
func (s *Service) Stats(ctx context.Context, ownerID string, r analytics.TimeRange) (analytics.SummaryStats, error) {
	records, err := s.source.FetchAll(ctx, ownerID)
	if err != nil {
		return analytics.SummaryStats{}, fmt.Errorf("failed to load records: %w", err)
	}

	return analytics.Summarize(records, r, s.now()), nil
}

// computes the per-day diamond/earnings series for the owner over the range
func (s *Service) Series(ctx context.Context, ownerID string, r analytics.TimeRange) ([]analytics.Bucket, error) {
	records, err := s.source.FetchAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	return analytics.DailySeries(records, r, s.now()), nil
}

// renders the owner's range-filtered records into a downloadable file.
// export.ErrNoData passes through untouched so handlers can treat it as the
// empty-export guard rather than a failure.
func (s *Service) Export(ctx context.Context, ownerID string, r analytics.TimeRange, format export.Format) (*export.File, error) {
	records, err := s.source.FetchAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	return export.Render(records, r, format, s.now())
}

// a live materialization of one owner's record set
type View struct {
	ownerID string
	now     func() time.Time
	cancel  stream.CancelFunc
	done    chan struct{}

	mu      sync.RWMutex
	records []materials.MaterialRecord
}

// opens a live view: subscribe first, then fetch. Deltas pushed while the
// fetch is in flight sit in the subscription buffer and replay once the pump
// starts, so none are dropped and none are applied twice. Subscribing after
// the fetch would open a window where a concurrent change is lost.
func (s *Service) Open(ctx context.Context, ownerID string) (*View, error) {
	ch, cancel := s.deltas.Subscribe(ownerID)

	records, err := s.source.FetchAll(ctx, ownerID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	v := &View{
		ownerID: ownerID,
		now:     s.now,
		cancel:  cancel,
		done:    make(chan struct{}),
		records: records,
	}

	go v.pump(ch)

	return v, nil
}

// releases the subscription and waits for the pump to stop, so the view is
// never mutated after disposal
func (v *View) Close() {
	v.cancel()
	<-v.done
}

func (v *View) OwnerID() string {
	return v.ownerID
}

// returns a snapshot of the current record list, newest first
func (v *View) Records() []materials.MaterialRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snapshot := make([]materials.MaterialRecord, len(v.records))
	copy(snapshot, v.records)

	return snapshot
}

// computes summary stats from the live record list
func (v *View) Stats(r analytics.TimeRange) analytics.SummaryStats {
	return analytics.Summarize(v.Records(), r, v.now())
}

// computes the daily series from the live record list
func (v *View) Series(r analytics.TimeRange) []analytics.Bucket {
	return analytics.DailySeries(v.Records(), r, v.now())
}

// renders the live record list into a downloadable file
func (v *View) Export(r analytics.TimeRange, format export.Format) (*export.File, error) {
	return export.Render(v.Records(), r, format, v.now())
}

func (v *View) pump(ch <-chan stream.Delta) {
	defer close(v.done)

	for delta := range ch {
		v.apply(delta)
	}
}

// applies one delta to the record list. All three cases are idempotent:
// re-applying the same delta leaves the list unchanged.
func (v *View) apply(delta stream.Delta) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch delta.EventType {
	case stream.EventInsert:
		if delta.New == nil || v.indexOf(delta.New.ID) >= 0 {
			return
		}

		// newest first, matching the source's descending order
		v.records = append([]materials.MaterialRecord{*delta.New}, v.records...)

	case stream.EventUpdate:
		if delta.New == nil {
			return
		}

		if i := v.indexOf(delta.New.ID); i >= 0 {
			v.records[i] = *delta.New
		}

	case stream.EventDelete:
		if delta.Old == nil {
			return
		}

		if i := v.indexOf(delta.Old.ID); i >= 0 {
			v.records = append(v.records[:i], v.records[i+1:]...)
		}
	}
}

// caller must hold v.mu
func (v *View) indexOf(id string) int {
	for i := range v.records {
		if v.records[i].ID == id {
			return i
		}
	}

	return -1
}
