package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StoreKeyPrefix     = "store:%s"
	StoreSeoKeyPrefix  = "store:%s:seo"
	ProductKeyPrefix   = "product:%s"
	ProductListPrefix  = "store:%s:products"
	WidgetListPrefix   = "store:%s:widgets"
	TrackingListPrefix = "store:%s:tracking"
)

const (
	StoreTTL       = 10 * time.Minute
	ProductTTL     = 5 * time.Minute
	ProductListTTL = 2 * time.Minute
	SeoTTL         = 30 * time.Minute
	WidgetTTL      = 10 * time.Minute
)

func StoreKey(storeID string) string {
	return fmt.Sprintf(StoreKeyPrefix, storeID)
}

func StoreSeoKey(storeID string) string {
	return fmt.Sprintf(StoreSeoKeyPrefix, storeID)
}

func ProductKey(productID string) string {
	return fmt.Sprintf(ProductKeyPrefix, productID)
}

func ProductListKey(storeID string) string {
	return fmt.Sprintf(ProductListPrefix, storeID)
}

func WidgetListKey(storeID string) string {
	return fmt.Sprintf(WidgetListPrefix, storeID)
}

func TrackingListKey(storeID string) string {
	return fmt.Sprintf(TrackingListPrefix, storeID)
}

// GetJSON loads a cached value into dest. Returns false on miss, on a
// disabled cache, or on any Redis/unmarshal error.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores a value as JSON with the given TTL. Best effort; failures
// are swallowed so callers never depend on the cache being up.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateStore(ctx context.Context, storeID string) {
	Invalidate(ctx, StoreKey(storeID), StoreSeoKey(storeID))
}

func InvalidateProduct(ctx context.Context, storeID, productID string) {
	Invalidate(ctx, ProductKey(productID), ProductListKey(storeID))
}

func InvalidateWidgets(ctx context.Context, storeID string) {
	Invalidate(ctx, WidgetListKey(storeID), TrackingListKey(storeID))
}
