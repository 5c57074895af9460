package geo

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGeo implements Locator on Redis GEO commands so multiple API nodes
// share one live index.
type RedisGeo struct {
	client *redis.Client
	key    string
}

func NewRedisGeo(addr, password, key string) *RedisGeo {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisGeo{client: c, key: key}
}

func (r *RedisGeo) Upsert(ctx context.Context, p Position) error {
	if err := r.client.GeoAdd(ctx, r.key, &redis.GeoLocation{
		Name:      strconv.FormatInt(p.ID, 10),
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}).Err(); err != nil {
		return err
	}
	return r.client.HSet(ctx, metaKey(p.ID),
		"updated", time.Now().Format(time.RFC3339),
	).Err()
}

func (r *RedisGeo) Remove(ctx context.Context, id int64) error {
	if err := r.client.ZRem(ctx, r.key, strconv.FormatInt(id, 10)).Err(); err != nil {
		return err
	}
	return r.client.Del(ctx, metaKey(id)).Err()
}

func (r *RedisGeo) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]Position, error) {
	res, err := r.client.GeoRadius(ctx, r.key, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Count:     limit,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Position, 0, len(res))
	for _, g := range res {
		id, err := strconv.ParseInt(g.Name, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Position{ID: id, Latitude: g.Latitude, Longitude: g.Longitude})
	}
	return out, nil
}

func metaKey(id int64) string { return "mechanic:meta:" + strconv.FormatInt(id, 10) }
