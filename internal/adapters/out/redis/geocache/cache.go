// Package geocache stores geocoding hits in Redis as small JSON documents with a TTL.
package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

var _ ports.GeocodeCache = (*Cache)(nil)

type entry struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

type Option func(*Cache)

func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = strings.Trim(prefix, ":")
	}
}

// WithTTL sets how long a hit is kept. Zero keeps hits forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCache(rdb *redis.Client, opts ...Option) *Cache {
	c := &Cache{
		rdb:    rdb,
		prefix: "geocode",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Get(ctx context.Context, query string) (ports.GeocodeHit, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.GeocodeHit{}, false, nil
	}
	if err != nil {
		return ports.GeocodeHit{}, false, fmt.Errorf("geocache get: %w", err)
	}

	var e entry
	if err = json.Unmarshal(raw, &e); err != nil {
		return ports.GeocodeHit{}, false, fmt.Errorf("geocache decode: %w", err)
	}
	location, err := kernel.NewLocation(e.Lat, e.Lng)
	if err != nil {
		return ports.GeocodeHit{}, false, fmt.Errorf("geocache decode: %w", err)
	}
	return ports.GeocodeHit{Location: location, DisplayName: e.DisplayName}, true, nil
}

func (c *Cache) Put(ctx context.Context, query string, hit ports.GeocodeHit) error {
	if err := hit.Location.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(entry{
		Lat:         hit.Location.Lat(),
		Lng:         hit.Location.Lng(),
		DisplayName: hit.DisplayName,
	})
	if err != nil {
		return fmt.Errorf("geocache encode: %w", err)
	}
	if err = c.rdb.Set(ctx, c.key(query), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("geocache set: %w", err)
	}
	return nil
}

func (c *Cache) key(query string) string {
	return c.prefix + ":" + query
}
