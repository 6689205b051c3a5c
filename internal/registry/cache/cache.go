// Package cache adds a Redis read-through layer in front of a record store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"workledger/internal/platform/metrics"
	"workledger/internal/registry/models"
	"workledger/internal/registry/store"
)

const recordKeyPrefix = "registry:record:"

// Verified records are terminal and can live in cache far longer than
// unverified ones, which still have a pending transition.
const verifiedTTL = 24 * time.Hour

// CachedStore wraps a record store with a Redis read-through cache for Get.
// Writes go to the inner store; a successful verification refreshes the cached
// entry so readers never observe a stale unverified copy longer than the
// unverified TTL.
type CachedStore struct {
	inner         store.Store
	client        *redis.Client
	unverifiedTTL time.Duration
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// New constructs a Redis-backed cached store. Metrics may be nil.
func New(inner store.Store, client *redis.Client, unverifiedTTL time.Duration, m *metrics.Metrics, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		inner:         inner,
		client:        client,
		unverifiedTTL: unverifiedTTL,
		metrics:       m,
		logger:        logger,
	}
}

func (c *CachedStore) Add(ctx context.Context, record *models.WorkRecord) (uint64, error) {
	return c.inner.Add(ctx, record)
}

func (c *CachedStore) Get(ctx context.Context, id uint64) (*models.WorkRecord, error) {
	data, err := c.client.Get(ctx, recordKey(id)).Bytes()
	if err == nil {
		var record models.WorkRecord
		if err := json.Unmarshal(data, &record); err == nil {
			if c.metrics != nil {
				c.metrics.RecordCacheHit()
			}
			return &record, nil
		}
		// Undecodable entry: fall through to the store and rewrite it.
	} else if !errors.Is(err, redis.Nil) {
		// Cache unavailability must not take reads down.
		if c.logger != nil {
			c.logger.WarnContext(ctx, "record cache read failed", "error", err, "record_id", id)
		}
	}
	if c.metrics != nil {
		c.metrics.RecordCacheMiss()
	}

	record, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.save(ctx, record)
	return record, nil
}

func (c *CachedStore) Verify(ctx context.Context, id uint64, verifier string, at time.Time) (*models.WorkRecord, error) {
	record, err := c.inner.Verify(ctx, id, verifier, at)
	if err != nil {
		return nil, err
	}
	c.save(ctx, record)
	return record, nil
}

func (c *CachedStore) Total(ctx context.Context) (uint64, error) {
	// The counter is authoritative; never serve it from cache.
	return c.inner.Total(ctx)
}

func (c *CachedStore) save(ctx context.Context, record *models.WorkRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	ttl := c.unverifiedTTL
	if record.Verified {
		ttl = verifiedTTL
	}
	if err := c.client.Set(ctx, recordKey(record.ID), payload, ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "record cache write failed", "error", err, "record_id", record.ID)
	}
}

func recordKey(id uint64) string {
	return fmt.Sprintf("%s%d", recordKeyPrefix, id)
}

// Verify interface is satisfied.
var _ store.Store = (*CachedStore)(nil)
