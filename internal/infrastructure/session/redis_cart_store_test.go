package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps values in a map and records the TTL of each Set
type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func sampleCart(sessionID string) *cart.Cart {
	c := cart.New(sessionID)
	sizeID := uuid.New()
	c.Items = append(c.Items, cart.Item{
		ProductID: uuid.New(),
		SizeID:    &sizeID,
		Quantity:  2,
		Price:     decimal.RequireFromString("249.50"),
	})
	c.GiftWrap = true
	c.AppliedCoupon = &cart.AppliedCoupon{Code: "SAVE10", Discount: decimal.NewFromInt(50)}
	return c
}

func TestRedisCartStore_LoadMissingReturnsEmptyCart(t *testing.T) {
	store := NewRedisCartStore(newFakeRedis(), time.Hour)

	c, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", c.SessionID)
	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.SavedForLater)
}

func TestRedisCartStore_SaveAndLoad(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisCartStore(client, 14*24*time.Hour)
	ctx := context.Background()

	original := sampleCart("sess-2")
	require.NoError(t, store.Save(ctx, original))

	assert.Contains(t, client.values, "cart:sess-2")
	assert.Equal(t, 14*24*time.Hour, client.ttls["cart:sess-2"])
	assert.False(t, original.UpdatedAt.IsZero())

	loaded, err := store.Load(ctx, "sess-2")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, original.Items[0].ProductID, loaded.Items[0].ProductID)
	assert.Equal(t, *original.Items[0].SizeID, *loaded.Items[0].SizeID)
	assert.True(t, original.Items[0].Price.Equal(loaded.Items[0].Price))
	assert.Equal(t, 2, loaded.Count())
	assert.True(t, loaded.GiftWrap)
	require.NotNil(t, loaded.AppliedCoupon)
	assert.Equal(t, "SAVE10", loaded.AppliedCoupon.Code)
}

func TestRedisCartStore_Delete(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisCartStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart("sess-3")))
	require.NoError(t, store.Delete(ctx, "sess-3"))

	c, err := store.Load(ctx, "sess-3")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRedisCartStore_Errors(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisCartStore(client, time.Hour)
	ctx := context.Background()

	t.Run("corrupt document", func(t *testing.T) {
		client.values["cart:bad"] = "{not json"
		_, err := store.Load(ctx, "bad")
		assert.Error(t, err)
	})

	t.Run("connection failure", func(t *testing.T) {
		client.err = errors.New("connection refused")
		defer func() { client.err = nil }()

		_, err := store.Load(ctx, "sess-4")
		assert.ErrorContains(t, err, "connection refused")

		err = store.Save(ctx, cart.New("sess-4"))
		assert.ErrorContains(t, err, "failed to save cart")
	})
}
