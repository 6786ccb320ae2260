// Package cache provides a Redis-backed read cache for availability
// answers.  Availability is the hottest read path of the system and is
// recomputed from a multi-way join; caching it for a short TTL keeps
// the database out of the loop for repeat lookups.  Allocation writes
// invalidate the affected slot eagerly so a booking is visible on the
// very next read.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dinehall/restaurant-table-booking/internal/config"
	"github.com/dinehall/restaurant-table-booking/internal/model"
)

// Availability caches table-status answers per (restaurant, slot, date).
// A nil client or a disabled config turns every method into a no-op, so
// callers never need to branch on whether Redis is reachable.
type Availability struct {
	client *redis.Client
	cfg    config.CacheConfig
}

// NewAvailability builds the cache around an optional Redis client.
func NewAvailability(client *redis.Client, cfg config.CacheConfig) *Availability {
	return &Availability{client: client, cfg: cfg}
}

func (c *Availability) enabled() bool {
	return c != nil && c.client != nil && c.cfg.Enabled
}

// key builds a stable cache key for one availability query.  The tail
// is hashed so keys stay short regardless of date formats.
func (c *Availability) key(restaurantID, timeSlotID uint64, date string) string {
	tail := fmt.Sprintf("r:%d:s:%d:d:%s", restaurantID, timeSlotID, date)
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", c.cfg.Prefix, sum[:])
}

// GetTableStatuses returns a cached availability answer and whether one
// was present.  Corrupt or missing entries count as absent.
func (c *Availability) GetTableStatuses(ctx context.Context, restaurantID, timeSlotID uint64, date string) ([]model.TableStatus, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key(restaurantID, timeSlotID, date)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []model.TableStatus
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// SetTableStatuses stores an availability answer for the configured
// TTL.  Failures are swallowed; the cache is best effort.
func (c *Availability) SetTableStatuses(ctx context.Context, restaurantID, timeSlotID uint64, date string, statuses []model.TableStatus) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(statuses)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(restaurantID, timeSlotID, date), raw, c.cfg.TTL).Err()
}

// InvalidateSlot drops the cached answer for one (restaurant, slot,
// date) after an allocation write.  Answers are only ever cached under
// the slot's own date (TablesForSlot enforces the match), so this one
// deletion covers every key the write could have staled.
func (c *Availability) InvalidateSlot(ctx context.Context, restaurantID, timeSlotID uint64, date string) {
	if !c.enabled() {
		return
	}
	_ = c.client.Del(ctx, c.key(restaurantID, timeSlotID, date)).Err()
}
