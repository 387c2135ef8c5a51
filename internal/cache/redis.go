package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notepath-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	codeKeyPrefix     = "auth:code:"
	attemptsKeyPrefix = "auth:attempts:"
	revokedKeyPrefix  = "auth:revoked:"
)

// Client stores one-time codes and revoked session ids in Redis
type Client struct {
	rdb *redis.Client
	log zerolog.Logger
}

// New connects to Redis and verifies the connection
func New(ctx context.Context, cfg *config.RedisConfig, log zerolog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	c := &Client{rdb: rdb, log: log.With().Str("component", "cache").Logger()}
	c.log.Info().Str("addr", cfg.Addr).Msg("Redis connection established")
	return c, nil
}

// NewWithClient wraps an existing redis client
func NewWithClient(rdb *redis.Client, log zerolog.Logger) *Client {
	return &Client{rdb: rdb, log: log.With().Str("component", "cache").Logger()}
}

func codeKey(purpose, email string) string {
	return codeKeyPrefix + purpose + ":" + email
}

func attemptsKey(purpose, email string) string {
	return attemptsKeyPrefix + purpose + ":" + email
}

// SaveCode stores a one-time code, replacing any earlier one for the same purpose and email.
// The failed-attempt counter starts over with the new code.
func (c *Client) SaveCode(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, codeKey(purpose, email), code, ttl)
	pipe.Del(ctx, attemptsKey(purpose, email))
	_, err := pipe.Exec(ctx)
	return err
}

// GetCode returns the stored code, or "" when none is pending
func (c *Client) GetCode(ctx context.Context, purpose, email string) (string, error) {
	code, err := c.rdb.Get(ctx, codeKey(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

// DeleteCode drops a code and its attempt counter
func (c *Client) DeleteCode(ctx context.Context, purpose, email string) error {
	return c.rdb.Del(ctx, codeKey(purpose, email), attemptsKey(purpose, email)).Err()
}

// RecordFailedAttempt counts a wrong guess against the pending code and returns the total so far.
// The counter expires with the code it guards.
func (c *Client) RecordFailedAttempt(ctx context.Context, purpose, email string, ttl time.Duration) (int64, error) {
	key := attemptsKey(purpose, email)
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Revoke marks a session token id as signed out until it would have expired anyway
func (c *Client) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether the token id was signed out
func (c *Client) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HealthCheck pings Redis
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}
