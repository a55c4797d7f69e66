package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pc-maintenance/api/db"
	"github.com/pc-maintenance/api/models"
)

func TestGetAllServicesOrderedAndFiltered(t *testing.T) {
	app := setupApp(t)
	createService(t, "Virus Removal", 25000, true)
	createService(t, "Data Recovery", 120000, true)
	createService(t, "Fan Cleaning", 15000, false)

	resp := doRequest(t, app, http.MethodGet, "/api/services/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeList(t, resp)
	require.Len(t, list, 3)
	assert.Equal(t, "Data Recovery", list[0]["name"])
	assert.Equal(t, "Fan Cleaning", list[1]["name"])
	assert.Equal(t, "Virus Removal", list[2]["name"])
	// list shape carries id, name, price, is_active only
	assert.NotContains(t, list[0], "description")

	resp = doRequest(t, app, http.MethodGet, "/api/services/?is_active=true", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decodeList(t, resp)
	require.Len(t, list, 2)
	for _, s := range list {
		assert.Equal(t, true, s["is_active"])
	}

	// the filter value is case-insensitive
	resp = doRequest(t, app, http.MethodGet, "/api/services/?is_active=True", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decodeList(t, resp)
	require.Len(t, list, 2)
	for _, s := range list {
		assert.Equal(t, true, s["is_active"])
	}

	resp = doRequest(t, app, http.MethodGet, "/api/services/?is_active=false", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decodeList(t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Fan Cleaning", list[0]["name"])
}

func TestGetService(t *testing.T) {
	app := setupApp(t)
	service := createService(t, "Virus Removal", 25000, true)

	resp := doRequest(t, app, http.MethodGet, "/api/services/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, service.Name, body["name"])
	assert.Contains(t, body, "description")

	resp = doRequest(t, app, http.MethodGet, "/api/services/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServiceWriteRequiresAdmin(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "asha", false)
	token := accessToken(t, user)
	service := createService(t, "Virus Removal", 25000, true)

	resp := doRequest(t, app, http.MethodPost, "/api/services/", token, map[string]any{
		"name":  "Thermal Paste",
		"price": 10000,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/api/services/1", token, map[string]any{
		"price": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/services/1", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the catalog is unchanged
	var count int64
	db.DB.Model(&models.Service{}).Count(&count)
	assert.EqualValues(t, 1, count)
	var unchanged models.Service
	require.NoError(t, db.DB.First(&unchanged, service.ID).Error)
	assert.Equal(t, service.Price, unchanged.Price)

	// unauthenticated writes are 401, not 403
	resp = doRequest(t, app, http.MethodPost, "/api/services/", "", map[string]any{
		"name":  "Thermal Paste",
		"price": 10000,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServiceCRUDAsAdmin(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, "boss", true)
	token := accessToken(t, admin)

	resp := doRequest(t, app, http.MethodPost, "/api/services/", token, map[string]any{
		"name":        "OS Reinstall",
		"description": "Fresh install with drivers",
		"price":       50000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeMap(t, resp)
	assert.Equal(t, true, created["is_active"])

	resp = doRequest(t, app, http.MethodPatch, "/api/services/1", token, map[string]any{
		"price":     60000,
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved models.Service
	require.NoError(t, db.DB.First(&saved, 1).Error)
	assert.EqualValues(t, 60000, saved.Price)
	assert.False(t, saved.IsActive)
	assert.Equal(t, "OS Reinstall", saved.Name)

	resp = doRequest(t, app, http.MethodPut, "/api/services/999", token, map[string]any{
		"price": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/services/1", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doRequest(t, app, http.MethodDelete, "/api/services/1", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateServiceValidation(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, "boss", true)
	token := accessToken(t, admin)

	resp := doRequest(t, app, http.MethodPost, "/api/services/", token, map[string]any{
		"description": "nameless",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Contains(t, body, "name")
	assert.Contains(t, body, "price")

	resp = doRequest(t, app, http.MethodPost, "/api/services/", token, map[string]any{
		"name":  "Negative",
		"price": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServiceStats(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, "boss", true)
	user := createUser(t, "asha", false)
	createService(t, "A", 1000, true)
	createService(t, "B", 2000, true)
	createService(t, "C", 3000, false)

	resp := doRequest(t, app, http.MethodGet, "/api/services/stats", accessToken(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.EqualValues(t, 3, body["total_services"])
	assert.EqualValues(t, 2, body["active_services"])

	resp = doRequest(t, app, http.MethodGet, "/api/services/stats", accessToken(t, user), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/services/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
