// Package cache remembers lead numbers that are already stored so repeated
// submissions skip the database. Only positive answers are cached; stored
// records are never deleted, so a cached entry cannot go stale.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "leadscore:known:"

// NewClient creates a Redis client from a redis:// or rediss:// URL.
func NewClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

// KnownLeads is a Redis-backed set of stored lead numbers.
type KnownLeads struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *KnownLeads {
	return &KnownLeads{client: client, ttl: ttl}
}

func key(leadNumber int64) string {
	return keyPrefix + strconv.FormatInt(leadNumber, 10)
}

// Known reports whether leadNumber was remembered.
func (k *KnownLeads) Known(ctx context.Context, leadNumber int64) (bool, error) {
	n, err := k.client.Exists(ctx, key(leadNumber)).Result()
	if err != nil {
		return false, fmt.Errorf("check known lead %d: %w", leadNumber, err)
	}
	return n > 0, nil
}

// Remember records that leadNumber is stored.
func (k *KnownLeads) Remember(ctx context.Context, leadNumber int64) error {
	if err := k.client.Set(ctx, key(leadNumber), 1, k.ttl).Err(); err != nil {
		return fmt.Errorf("remember lead %d: %w", leadNumber, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (k *KnownLeads) Ping(ctx context.Context) error {
	return k.client.Ping(ctx).Err()
}

func (k *KnownLeads) Close() error {
	return k.client.Close()
}
