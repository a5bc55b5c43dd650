package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "campusnav:"

// Cache implements ports.CacheService using Valkey (Redis-compatible).
// Keys are namespaced so several services can share one instance.
type Cache struct {
	client valkey.Client
}

// New creates a new Valkey cache client.
func New(addr, password string, db int) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
		Password:    password,
		SelectDB:    db,
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client}, nil
}

func key(k string) string {
	return keyPrefix + k
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, k string) ([]byte, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(key(k)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get %s: %w", k, err)
	}
	return b, nil
}

// Set stores a value with a TTL in seconds. A non-positive TTL stores
// the key without expiry.
func (c *Cache) Set(ctx context.Context, k string, value []byte, ttlSeconds int) error {
	if ttlSeconds <= 0 {
		return c.client.Do(ctx, c.client.B().Set().Key(key(k)).Value(valkey.BinaryString(value)).Build()).Error()
	}
	cmd := c.client.Do(ctx,
		c.client.B().Set().Key(key(k)).Value(valkey.BinaryString(value)).Ex(time.Duration(ttlSeconds)*time.Second).Build(),
	)
	return cmd.Error()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, k string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(key(k)).Build()).Error()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}
