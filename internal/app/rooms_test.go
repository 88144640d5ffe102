package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhub/internal/domain"
)

// memCache records the listing-cache traffic so invalidation can be
// asserted without a redis instance.
type memCache struct {
	entries map[string][]byte
	sets    int
	dels    int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

func (c *memCache) Set(_ context.Context, key string, _ any, _ int) error {
	c.entries[key] = []byte("x")
	c.sets++
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	delete(c.entries, key)
	c.dels++
	return nil
}

func validNewRoom() domain.Room {
	return domain.Room{Number: "101", Beds: 2, Type: domain.RoomDouble, Available: true, BasePrice: 80}
}

func TestRoomCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and persists", func(t *testing.T) {
		store := newMemStore()
		svc := NewRoomService(store, store, nil, 0)

		r, err := svc.Create(ctx, validNewRoom())
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)

		got, err := store.GetRoom(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "101", got.Number)
	})

	t.Run("duplicate number conflicts", func(t *testing.T) {
		store := newMemStore()
		svc := NewRoomService(store, store, nil, 0)

		_, err := svc.Create(ctx, validNewRoom())
		require.NoError(t, err)
		_, err = svc.Create(ctx, validNewRoom())
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		store := newMemStore()
		svc := NewRoomService(store, store, nil, 0)

		_, err := svc.Create(ctx, domain.Room{})
		require.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{"number", "beds", "type"}, verr.Fields)
	})
}

func TestRoomUpdate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewRoomService(store, store, nil, 0)

	a, err := svc.Create(ctx, validNewRoom())
	require.NoError(t, err)
	other := validNewRoom()
	other.Number = "102"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	t.Run("partial patch applies", func(t *testing.T) {
		beds := 3
		got, err := svc.Update(ctx, a.ID, domain.RoomPatch{Beds: &beds})
		require.NoError(t, err)
		assert.Equal(t, 3, got.Beds)
		assert.Equal(t, "101", got.Number, "untouched fields survive")
	})

	t.Run("renumbering onto a taken number conflicts", func(t *testing.T) {
		taken := "102"
		_, err := svc.Update(ctx, a.ID, domain.RoomPatch{Number: &taken})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("seasonal rate can be cleared", func(t *testing.T) {
		rate := 150.0
		p := &rate
		got, err := svc.Update(ctx, a.ID, domain.RoomPatch{SeasonalPrice: &p})
		require.NoError(t, err)
		require.NotNil(t, got.SeasonalPrice)

		var cleared *float64
		got, err = svc.Update(ctx, a.ID, domain.RoomPatch{SeasonalPrice: &cleared})
		require.NoError(t, err)
		assert.Nil(t, got.SeasonalPrice)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := svc.Update(ctx, "nope", domain.RoomPatch{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRoomDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewRoomService(store, store, nil, 0)

	r, err := svc.Create(ctx, validNewRoom())
	require.NoError(t, err)

	t.Run("blocked by active booking", func(t *testing.T) {
		b := domain.Booking{ID: "b1", RoomID: r.ID, Status: domain.BookingConfirmed}
		require.NoError(t, store.CreateBooking(ctx, b))

		err := svc.Delete(ctx, r.ID)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("allowed once bookings are settled", func(t *testing.T) {
		b, _ := store.GetBooking(ctx, "b1")
		b.Status = domain.BookingCompleted
		require.NoError(t, store.UpdateBooking(ctx, b))

		require.NoError(t, svc.Delete(ctx, r.ID))
		_, err := store.GetRoom(ctx, r.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRoomListCaching(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cache := newMemCache()
	svc := NewRoomService(store, store, cache, time.Minute)

	_, err := svc.Create(ctx, validNewRoom())
	require.NoError(t, err)
	cache.dels = 0 // create already invalidated once

	t.Run("available listing fills the cache", func(t *testing.T) {
		_, err := svc.List(ctx, domain.RoomFilter{OnlyAvailable: true})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("full listing bypasses the cache", func(t *testing.T) {
		_, err := svc.List(ctx, domain.RoomFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("mutations invalidate", func(t *testing.T) {
		beds := 5
		room, _ := store.GetRoomByNumber(ctx, "101")
		_, err := svc.Update(ctx, room.ID, domain.RoomPatch{Beds: &beds})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.dels)
		assert.Empty(t, cache.entries)
	})
}
