// Package mirror pushes a best-effort copy of ledger state to a secondary
// Redis store for out-of-band consumers. Failures here are logged and never
// roll back a primary write; at-most-once mirroring is acceptable.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"growfi/config"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Client struct {
	rdb *redis.Client
	log *logrus.Logger
	ttl time.Duration
}

// New connects to the secondary store. An empty Addr returns a no-op client
// so callers never have to branch on whether mirroring is configured.
func New(cfg *config.RedisConfig, log *logrus.Logger) *Client {
	c := &Client{log: log, ttl: cfg.MirrorTTL}
	if cfg.Addr == "" {
		return c
	}
	c.rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return c
}

// Mirror writes entity under key, fire-and-forget.
func (c *Client) Mirror(ctx context.Context, key string, entity interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	payload, err := json.Marshal(entity)
	if err != nil {
		c.log.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("mirror: marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, "mirror:"+key, payload, c.ttl).Err(); err != nil {
		c.log.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("mirror: write failed")
	}
}

// Locker exposes a distributed lock client on the same connection, used to
// serialize payout processor runs across instances. Nil when unconfigured.
func (c *Client) Locker() *redislock.Client {
	if c == nil || c.rdb == nil {
		return nil
	}
	return redislock.New(c.rdb)
}

// Ping verifies connectivity; used at startup for a log line only.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("mirror not configured")
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
