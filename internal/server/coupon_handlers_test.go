package server

import (
	"net/http"
	"testing"
	"time"

	"vendora/internal/coupon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponLifecycle(t *testing.T) {
	s, app := setupTestServer(t)

	owner := createUser(t, s, "owner@example.com", "ownerpassword123")
	customer := createUser(t, s, "customer@example.com", "customerpassword1")
	store := createStore(t, s, owner.ID, "Acme Outfitters")
	auth := bearerFor(t, s, owner.ID)

	// Create a percentage coupon with a single remaining use.
	status, created := doJSON(t, app, http.MethodPost, "/api/stores/"+store.ID+"/coupons", auth, map[string]interface{}{
		"code":        "  summer-10  ",
		"type":        "percentage",
		"value":       10,
		"start_date":  time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
		"usage_limit": 1,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "SUMMER-10", created["code"])
	assert.Equal(t, float64(0), created["used_count"])

	customerAuth := bearerFor(t, s, customer.ID)
	cart := map[string]interface{}{
		"code":       "summer-10",
		"cart_total": 200.0,
		"order_id":   "order-1",
	}

	// Validation reports the discount without consuming a use.
	status, body := doJSON(t, app, http.MethodPost, "/api/stores/"+store.ID+"/coupons/validate", customerAuth, cart)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, 20.0, body["discount_amount"])

	// Redemption consumes the last use.
	status, body = doJSON(t, app, http.MethodPost, "/api/stores/"+store.ID+"/coupons/redeem", customerAuth, cart)
	require.Equal(t, http.StatusCreated, status)
	usage, ok := body["usage"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 20.0, usage["discount_amount"])
	assert.Equal(t, "SUMMER-10", usage["coupon_code"])

	// The limit is now exhausted for everyone.
	cart["order_id"] = "order-2"
	status, body = doJSON(t, app, http.MethodPost, "/api/stores/"+store.ID+"/coupons/redeem", customerAuth, cart)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, coupon.MsgUsageLimitReached, body["error"])

	// And the usage shows up in the audit listing.
	couponID, _ := created["id"].(string)
	status, body = doJSON(t, app, http.MethodGet, "/api/stores/"+store.ID+"/coupons/"+couponID+"/usages", auth, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["items"], 1)
}

func TestValidateCoupon_GateFailuresAreValues(t *testing.T) {
	s, app := setupTestServer(t)

	owner := createUser(t, s, "owner@example.com", "ownerpassword123")
	store := createStore(t, s, owner.ID, "Acme Outfitters")
	auth := bearerFor(t, s, owner.ID)

	status, body := doJSON(t, app, http.MethodPost, "/api/stores/"+store.ID+"/coupons/validate", auth, map[string]interface{}{
		"code":       "GHOST",
		"cart_total": 50.0,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, coupon.MsgCouponNotFound, body["error"])
}

func TestCreateCoupon_RejectsDuplicateActiveCode(t *testing.T) {
	s, app := setupTestServer(t)

	owner := createUser(t, s, "owner@example.com", "ownerpassword123")
	store := createStore(t, s, owner.ID, "Acme Outfitters")
	auth := bearerFor(t, s, owner.ID)

	payload := map[string]interface{}{
		"code":       "WELCOME5",
		"type":       "fixed",
		"value":      5,
		"start_date": time.Now().UTC().Format(time.RFC3339),
	}

	status, _ := doJSON(t, app, http.MethodPost, "/api/stores/"+store.ID+"/coupons", auth, payload)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/stores/"+store.ID+"/coupons", auth, payload)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Coupon code already exists", body["error"])
}
