// Package redis provides a CartStore shared by every instance of the service. Each cart is
// one JSON value under cart:<id> whose TTL is refreshed on every save.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "cart:"

// Connect parses a redis:// URL and checks the connection.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := goredis.NewClient(opt)
	if err = rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

type CartStore struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

func NewCartStore(rdb goredis.Cmdable, ttl time.Duration) *CartStore {
	return &CartStore{rdb: rdb, ttl: ttl}
}

func (s *CartStore) Save(ctx context.Context, c *cart.Cart) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(fromDomain(c))
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return s.rdb.Set(ctx, key(c.ID()), data, s.ttl).Err()
}

func (s *CartStore) Get(ctx context.Context, id kernel.UUID) (*cart.Cart, error) {
	val, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, errs.NewObjectNotFoundError("cart", id.String())
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var dto cartDTO
	if err = json.Unmarshal(val, &dto); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return toDomain(dto)
}

func (s *CartStore) Delete(ctx context.Context, id kernel.UUID) error {
	return s.rdb.Del(ctx, key(id)).Err()
}

func key(id kernel.UUID) string {
	return keyPrefix + id.String()
}
