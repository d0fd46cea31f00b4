// Package cache provides a Redis read-through cache in front of the product
// catalog. The cache is an optimization only: every Redis failure is logged
// and the call falls through to the underlying store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/example/quickstore/internal/domain/catalog"
)

const baseTTL = 10 * time.Minute

// CachedProducts decorates a catalog.Store with per-product Redis caching.
// Stock mutations always hit the underlying store so conditional writes stay
// authoritative; the cache entry is just invalidated afterwards.
type CachedProducts struct {
	next catalog.Store
	rdb  *redis.Client
	sf   singleflight.Group
}

func NewCachedProducts(next catalog.Store, rdb *redis.Client) *CachedProducts {
	return &CachedProducts{next: next, rdb: rdb}
}

func productKey(id string) string {
	return "product:" + id
}

func (c *CachedProducts) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	key := productKey(id)

	val, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var p catalog.Product
		if err := json.Unmarshal([]byte(val), &p); err == nil {
			return &p, nil
		}
		log.Printf("[CachedProducts] Corrupt cache entry for %s, falling through", key)
	} else if err != redis.Nil {
		log.Printf("[CachedProducts] Redis get failed for %s: %v", key, err)
	}

	// Collapse concurrent misses for the same product into one store read.
	result, err, _ := c.sf.Do(key, func() (any, error) {
		p, err := c.next.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}

		data, _ := json.Marshal(p)
		// Jitter the TTL so a burst of writes does not expire together.
		ttl := baseTTL + time.Duration(rand.Intn(60))*time.Second
		if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Printf("[CachedProducts] Redis set failed for %s: %v", key, err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*catalog.Product), nil
}

func (c *CachedProducts) ListProducts(ctx context.Context, activeOnly bool) ([]*catalog.Product, error) {
	return c.next.ListProducts(ctx, activeOnly)
}

func (c *CachedProducts) InsertProduct(ctx context.Context, p *catalog.Product) error {
	return c.next.InsertProduct(ctx, p)
}

func (c *CachedProducts) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	if err := c.next.UpdateProduct(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID)
	return nil
}

func (c *CachedProducts) DeleteProduct(ctx context.Context, id string) error {
	if err := c.next.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProducts) DecrementStock(ctx context.Context, id string, quantity int) (*catalog.Product, error) {
	p, err := c.next.DecrementStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return p, nil
}

func (c *CachedProducts) IncrementStock(ctx context.Context, id string, quantity int) error {
	if err := c.next.IncrementStock(ctx, id, quantity); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProducts) invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		log.Printf("[CachedProducts] Redis del failed for %s: %v", productKey(id), err)
	}
}

// ConnectRedis opens and verifies a Redis connection.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}
