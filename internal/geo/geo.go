// Package geo indexes live mechanic positions for radius queries.
package geo

import (
	"context"
	"math"
	"sync"
	"time"
)

// Position is one indexed entity with its last known coordinates.
type Position struct {
	ID        int64
	Latitude  float64
	Longitude float64
	Updated   time.Time
}

// Locator is the minimal interface the request module needs for
// nearby-mechanics lookups.
type Locator interface {
	Upsert(ctx context.Context, p Position) error
	// Nearby returns ids within radiusKm of the point, nearest first,
	// capped at limit.
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]Position, error)
	Remove(ctx context.Context, id int64) error
}

// Index is the in-memory fallback used when Redis is not configured: a naive
// scan with haversine distances. Fine for the fleet sizes a single node sees.
type Index struct {
	mu        sync.RWMutex
	positions map[int64]Position
}

func NewIndex() *Index {
	return &Index{positions: make(map[int64]Position)}
}

func (g *Index) Upsert(_ context.Context, p Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p.Updated = time.Now()
	g.positions[p.ID] = p
	return nil
}

func (g *Index) Remove(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.positions, id)
	return nil
}

func (g *Index) Nearby(_ context.Context, lat, lng, radiusKm float64, limit int) ([]Position, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	type scored struct {
		p    Position
		dist float64
	}
	arr := make([]scored, 0, len(g.positions))
	for _, p := range g.positions {
		d := Haversine(lat, lng, p.Latitude, p.Longitude)
		if d > radiusKm*1000 {
			continue
		}
		arr = append(arr, scored{p, d})
	}

	n := limit
	if n <= 0 || n > len(arr) {
		n = len(arr)
	}
	// partial selection sort for top-N
	for i := 0; i < n; i++ {
		minIdx := i
		for j := i + 1; j < len(arr); j++ {
			if arr[j].dist < arr[minIdx].dist {
				minIdx = j
			}
		}
		arr[i], arr[minIdx] = arr[minIdx], arr[i]
	}

	out := make([]Position, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, arr[i].p)
	}
	return out, nil
}

// Haversine distance in meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
