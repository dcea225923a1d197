package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStore_CallerBecomesOwner(t *testing.T) {
	s, app := setupTestServer(t)
	user := createUser(t, s, "merchant@example.com", "merchantpassword1")

	status, body := doJSON(t, app, http.MethodPost, "/api/stores", bearerFor(t, s, user.ID), map[string]interface{}{
		"name":     "Acme Outfitters",
		"owner_id": "someone-else",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, user.ID, body["owner_id"])
	assert.Equal(t, "USD", body["currency"])
	assert.Equal(t, "active", body["status"])

	status, body = doJSON(t, app, http.MethodGet, "/api/me/stores", bearerFor(t, s, user.ID), nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["items"], 1)
}

func TestUpdateStore_OwnershipNotTransferable(t *testing.T) {
	s, app := setupTestServer(t)
	owner := createUser(t, s, "owner@example.com", "ownerpassword123")
	store := createStore(t, s, owner.ID, "Acme Outfitters")

	status, body := doJSON(t, app, http.MethodPut, "/api/stores/"+store.ID, bearerFor(t, s, owner.ID), map[string]interface{}{
		"name":     "Acme Renamed",
		"owner_id": "attacker",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Acme Renamed", body["name"])
	assert.Equal(t, owner.ID, body["owner_id"])
}

func TestGetPublicStore_NoAuthAndNoOwnerData(t *testing.T) {
	s, app := setupTestServer(t)
	owner := createUser(t, s, "owner@example.com", "ownerpassword123")
	store := createStore(t, s, owner.ID, "Acme Outfitters")

	status, body := doJSON(t, app, http.MethodGet, "/api/public/stores/"+store.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Acme Outfitters", body["name"])
	assert.Nil(t, body["owner"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/public/stores/no-such-store", "", nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestDeleteStore_OwnerOnlyThrough403(t *testing.T) {
	s, app := setupTestServer(t)
	owner := createUser(t, s, "owner@example.com", "ownerpassword123")
	viewer := createUser(t, s, "viewer@example.com", "viewerpassword123")
	store := createStore(t, s, owner.ID, "Acme Outfitters")
	addMember(t, s, store.ID, viewer.ID, "viewer")

	status, body := doJSON(t, app, http.MethodDelete, "/api/stores/"+store.ID, bearerFor(t, s, viewer.ID), nil)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Insufficient permissions", body["error"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/stores/"+store.ID, bearerFor(t, s, owner.ID), nil)
	require.Equal(t, http.StatusNoContent, status)
}
