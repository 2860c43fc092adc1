package buffer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/weconnect/server/internal/logger"
)

// handles Redis-backed buffering of view/download counters. Counter traffic
// is far hotter than the rest of the API, so increments land in Redis and a
// flusher folds them into Postgres periodically.
type CounterBuffer struct {
	client *redis.Client
}

// creates a new counter buffer with Redis connection
func NewCounterBuffer(redisURL string) (*CounterBuffer, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return &CounterBuffer{client: client}, nil
}

// exposes the underlying client for other Redis consumers (rate limiting)
func (b *CounterBuffer) Client() *redis.Client {
	return b.client
}

// closes the Redis connection
func (b *CounterBuffer) Close() error {
	return b.client.Close()
}

// records one view of a material and marks it dirty
func (b *CounterBuffer) RecordView(ctx context.Context, materialID string) error {
	return b.increment(ctx, materialID, fieldViews)
}

// records one download of a material and marks it dirty
func (b *CounterBuffer) RecordDownload(ctx context.Context, materialID string) error {
	return b.increment(ctx, materialID, fieldDownloads)
}

func (b *CounterBuffer) increment(ctx context.Context, materialID, field string) error {
	pipe := b.client.Pipeline()

	countersKey := fmt.Sprintf(keyMaterialCounters, materialID)
	pipe.HIncrBy(ctx, countersKey, field, 1)

	// mark material as dirty so the flusher picks it up
	pipe.SAdd(ctx, keyDirtyMaterials, materialID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to buffer %s counter: %w", field, err)
	}

	return nil
}

// returns all material IDs with unflushed counters
func (b *CounterBuffer) DirtyMaterials(ctx context.Context) ([]string, error) {
	return b.client.SMembers(ctx, keyDirtyMaterials).Result()
}

// retrieves and clears the pending counters for a material, removing it from
// the dirty set
func (b *CounterBuffer) FlushCounters(ctx context.Context, materialID string) (views, downloads int64, err error) {
	countersKey := fmt.Sprintf(keyMaterialCounters, materialID)

	fields, err := b.client.HGetAll(ctx, countersKey).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get counters for flush: %w", err)
	}

	pipe := b.client.Pipeline()
	pipe.Del(ctx, countersKey)
	pipe.SRem(ctx, keyDirtyMaterials, materialID)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to clear counters after flush: %w", err)
	}

	views = parseCounter(fields[fieldViews])
	downloads = parseCounter(fields[fieldDownloads])

	return views, downloads, nil
}

// re-adds counters after a failed Postgres write so the next flush retries
func (b *CounterBuffer) Restore(ctx context.Context, materialID string, views, downloads int64) error {
	pipe := b.client.Pipeline()

	countersKey := fmt.Sprintf(keyMaterialCounters, materialID)

	if views > 0 {
		pipe.HIncrBy(ctx, countersKey, fieldViews, views)
	}

	if downloads > 0 {
		pipe.HIncrBy(ctx, countersKey, fieldDownloads, downloads)
	}

	pipe.SAdd(ctx, keyDirtyMaterials, materialID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to restore counters: %w", err)
	}

	return nil
}

func parseCounter(s string) int64 {
	if s == "" {
		return 0
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}

	return n
}
