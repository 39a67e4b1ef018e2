package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"grievance/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

type GeocodeCache struct {
	client *goredis.Client
	prefix string
}

func NewGeocodeCache(r *Redis) *GeocodeCache {
	return &GeocodeCache{
		client: r.Client,
		prefix: "grievance:geocode:",
	}
}

// Get returns nil, nil on a miss.
func (c *GeocodeCache) Get(ctx context.Context, key string) (*domain.GeoResult, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var res domain.GeoResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

func (c *GeocodeCache) Set(ctx context.Context, key string, res *domain.GeoResult, ttl time.Duration) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, b, ttl).Err()
}
