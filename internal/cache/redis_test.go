package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedStore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())
	t.Cleanup(func() { client = nil })
	return mr
}

func TestGetSetJSON_RoundTrip(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	in := cachedStore{ID: "s1", Name: "Acme Outfitters"}
	SetJSON(ctx, StoreKey("s1"), in, StoreTTL)

	var out cachedStore
	require.True(t, GetJSON(ctx, StoreKey("s1"), &out))
	assert.Equal(t, in, out)
}

func TestGetJSON_MissAndExpiry(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	var out cachedStore
	assert.False(t, GetJSON(ctx, StoreKey("nope"), &out))

	SetJSON(ctx, ProductKey("p1"), cachedStore{ID: "p1"}, ProductTTL)
	mr.FastForward(ProductTTL + time.Second)
	assert.False(t, GetJSON(ctx, ProductKey("p1"), &out))
}

func TestInvalidateStore_DropsRelatedKeys(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	SetJSON(ctx, StoreKey("s1"), cachedStore{ID: "s1"}, StoreTTL)
	SetJSON(ctx, StoreSeoKey("s1"), map[string]string{"meta_title": "Acme"}, SeoTTL)

	InvalidateStore(ctx, "s1")

	var out cachedStore
	assert.False(t, GetJSON(ctx, StoreKey("s1"), &out))
	var seo map[string]string
	assert.False(t, GetJSON(ctx, StoreSeoKey("s1"), &seo))
}

func TestCacheIsOptional(t *testing.T) {
	client = nil
	ctx := context.Background()

	// Every operation is a no-op without a client.
	SetJSON(ctx, StoreKey("s1"), cachedStore{ID: "s1"}, StoreTTL)
	var out cachedStore
	assert.False(t, GetJSON(ctx, StoreKey("s1"), &out))
	Invalidate(ctx, StoreKey("s1"))
}
