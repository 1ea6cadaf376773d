package periods

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCache memoises period-open lookups in Redis. Entries are versioned
// per company; open/close bumps the version instead of deleting keys.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache instantiates the cache helper. A nil client disables caching.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

func versionKey(companyID int64) string {
	return fmt.Sprintf("periods:%d:version", companyID)
}

func (c *StatusCache) version(ctx context.Context, companyID int64) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(companyID)).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, versionKey(companyID), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (c *StatusCache) key(ctx context.Context, companyID int64, date time.Time) (string, error) {
	ver, err := c.version(ctx, companyID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("periods:%d:open:%s:%d", companyID, date.Format("2006-01-02"), ver), nil
}

// GetOpen returns the cached answer for (company, date) and whether it was present.
func (c *StatusCache) GetOpen(ctx context.Context, companyID int64, date time.Time) (open, ok bool) {
	if c == nil || c.client == nil {
		return false, false
	}
	key, err := c.key(ctx, companyID, date)
	if err != nil {
		return false, false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

// SetOpen caches the answer for (company, date).
func (c *StatusCache) SetOpen(ctx context.Context, companyID int64, date time.Time, open bool) {
	if c == nil || c.client == nil {
		return
	}
	key, err := c.key(ctx, companyID, date)
	if err != nil {
		return
	}
	val := "0"
	if open {
		val = "1"
	}
	_ = c.client.Set(ctx, key, val, c.ttl).Err()
}

// Invalidate drops all cached answers for the company by bumping its version.
func (c *StatusCache) Invalidate(ctx context.Context, companyID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, versionKey(companyID)).Err()
}
