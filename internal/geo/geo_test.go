package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Times Square to the Empire State Building, roughly 1.1 km
	d := Haversine(40.7580, -73.9855, 40.7484, -73.9857)
	assert.InDelta(t, 1070, d, 80)
}

func TestHaversineZero(t *testing.T) {
	assert.Zero(t, Haversine(40.75, -73.98, 40.75, -73.98))
}

func TestIndexNearbySortsAndFilters(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	assert.NoError(t, idx.Upsert(ctx, Position{ID: 1, Latitude: 40.7580, Longitude: -73.9855}))
	assert.NoError(t, idx.Upsert(ctx, Position{ID: 2, Latitude: 40.7484, Longitude: -73.9857}))
	assert.NoError(t, idx.Upsert(ctx, Position{ID: 3, Latitude: 51.5, Longitude: -0.12})) // London

	out, err := idx.Nearby(ctx, 40.7580, -73.9855, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)
}

func TestIndexNearbyLimit(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		assert.NoError(t, idx.Upsert(ctx, Position{ID: i, Latitude: 40.75, Longitude: -73.98}))
	}

	out, err := idx.Nearby(ctx, 40.75, -73.98, 10, 3)
	assert.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestIndexUpsertReplacesAndRemoveDeletes(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	assert.NoError(t, idx.Upsert(ctx, Position{ID: 1, Latitude: 40.75, Longitude: -73.98}))
	assert.NoError(t, idx.Upsert(ctx, Position{ID: 1, Latitude: 41.00, Longitude: -74.00}))

	out, _ := idx.Nearby(ctx, 41.00, -74.00, 1, 0)
	assert.Len(t, out, 1)

	assert.NoError(t, idx.Remove(ctx, 1))
	out, _ = idx.Nearby(ctx, 41.00, -74.00, 1000, 0)
	assert.Empty(t, out)
}
