package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causeway-org/causeway/internal/database"
	applog "github.com/causeway-org/causeway/internal/logger"
	"github.com/causeway-org/causeway/internal/settingsstore"
)

func setupSettingsRouter(t *testing.T) (*gin.Engine, *settingsstore.Store, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_settings_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	log, err := applog.New(t.TempDir(), applog.LevelError)
	require.NoError(t, err)

	db, err := database.New(dbPath, log)
	require.NoError(t, err)

	store, err := settingsstore.New(db, log)
	require.NoError(t, err)

	controller := NewSettingsController(store)
	router := gin.New()
	router.GET("/api/settings", controller.PublicSettings)
	router.GET("/api/admin/settings/:group", controller.Group)
	router.PUT("/api/admin/settings/:group", controller.UpdateGroup)
	router.DELETE("/api/admin/settings/:group/:key", controller.DeleteSetting)

	cleanup := func() {
		db.Close()
		log.Close()
		os.Remove(dbPath)
	}
	return router, store, cleanup
}

func TestSettingsController_UpdateAndReadGroup(t *testing.T) {
	router, _, cleanup := setupSettingsRouter(t)
	defer cleanup()

	body := `{"site_name": "Causeway", "tagline": "Building together"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/admin/settings/general", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/admin/settings/general", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var group map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &group))
	assert.Equal(t, "Causeway", group["site_name"])
	assert.Equal(t, "Building together", group["tagline"])
}

func TestSettingsController_UpdateGroup_BadPayload(t *testing.T) {
	router, _, cleanup := setupSettingsRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/admin/settings/general", strings.NewReader(`"just a string"`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/api/admin/settings/general", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsController_UpdateGroup_ValidationRejectsAll(t *testing.T) {
	router, store, cleanup := setupSettingsRouter(t)
	defer cleanup()

	body := `{"primary_color": "#336699", "accent_color": "not-a-color"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/admin/settings/theme", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	// The valid pair must not have landed either.
	assert.False(t, store.Has("primary_color", "theme"))
}

func TestSettingsController_DeleteSetting(t *testing.T) {
	router, store, cleanup := setupSettingsRouter(t)
	defer cleanup()

	require.NoError(t, store.Set("site_name", "general", "Causeway"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/admin/settings/general/site_name", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.Has("site_name", "general"))
}

func TestSettingsController_PublicSettings_HidesPrivate(t *testing.T) {
	router, store, cleanup := setupSettingsRouter(t)
	defer cleanup()

	require.NoError(t, store.Set("stripe_secret_key", "payment", "sk_test_12345678"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/settings", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var public map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	_, exposed := public["payment"]["stripe_secret_key"]
	assert.False(t, exposed)
}