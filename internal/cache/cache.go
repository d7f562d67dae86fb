package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultTTL caps how long memoized read responses live.
const DefaultTTL = 5 * time.Minute

// Cache is a look-aside cache over Redis. A Cache built without a Redis URL
// is valid and disabled: every operation is a no-op or a miss. Redis errors
// are logged and absorbed so cache trouble never reaches a caller.
type Cache struct {
	client *redis.Client
	log    logrus.FieldLogger
}

// New connects to Redis when redisURL is non-empty. A failed initial ping
// only logs a warning; go-redis reconnects on later use.
func New(redisURL string, log logrus.FieldLogger) (*Cache, error) {
	if redisURL == "" {
		return &Cache{log: log}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis not reachable, cache degraded to direct reads")
	}

	return &Cache{client: client, log: log}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get unmarshals the cached value into dest and reports whether it was a hit.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache entry unreadable")
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).Warn("cache delete failed")
	}
}

// DeleteByPrefix removes every key under prefix via SCAN, avoiding KEYS.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WithError(err).WithField("prefix", prefix).Warn("cache scan failed")
		return
	}
	c.Delete(ctx, keys...)
}

func (c *Cache) Exists(ctx context.Context, key string) bool {
	if !c.Enabled() {
		return false
	}
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache exists failed")
		return false
	}
	return n == 1
}

// Ping reports backend reachability for health checks.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Key layout, owner-scoped so one user's writes never evict another's reads.

func UserTodosKey(userID uuid.UUID, query string) string {
	return fmt.Sprintf("todos:user:%s:%s", userID, query)
}

func UserTodosPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("todos:user:%s:", userID)
}

func UserStatsKey(userID uuid.UUID) string {
	return fmt.Sprintf("stats:user:%s", userID)
}

// InvalidateUser drops the user's memoized list and stats entries. Called on
// every todo write for that user.
func (c *Cache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	c.DeleteByPrefix(ctx, UserTodosPrefix(userID))
	c.Delete(ctx, UserStatsKey(userID))
}
