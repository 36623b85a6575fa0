package settingsstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

func setupTestStore(t *testing.T) (*Store, *database.Database, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	log, err := applog.New(t.TempDir(), applog.LevelError)
	require.NoError(t, err)

	db, err := database.New(dbPath, log)
	require.NoError(t, err)

	store, err := New(db, log)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		log.Close()
		os.Remove(dbPath)
	}
	return store, db, cleanup
}

func TestStore_GetDefault(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, "fallback", store.Get("missing", "", "fallback"))
	assert.False(t, store.Has("missing", ""))
}

func TestStore_SetAndGet(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.Set("site_name", "", "Causeway"))
	assert.Equal(t, "Causeway", store.Get("site_name", "", ""))
	assert.True(t, store.Has("site_name", entities.DefaultSettingGroup))
}

func TestStore_Set_UpsertIdempotence(t *testing.T) {
	store, db, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.Set("site_name", "general", "First"))
	require.NoError(t, store.Set("site_name", "general", "Second"))

	assert.Equal(t, "Second", store.Get("site_name", "general", ""))

	// Only one row may exist for the (group, key) pair.
	var count int64
	require.NoError(t, db.DB.Model(&entities.Setting{}).
		Where("setting_group = ? AND setting_key = ?", "general", "site_name").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStore_Set_SurvivesRestart(t *testing.T) {
	store, db, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.Set("contact_email", "general", "hello@example.org"))

	// A fresh store must see the write.
	reloaded, err := New(db, db.Logger())
	require.NoError(t, err)
	assert.Equal(t, "hello@example.org", reloaded.Get("contact_email", "general", ""))
}

func TestStore_SetMany_RollbackOnValidationError(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SetMany(entities.SettingGroupTheme, map[string]string{
		"primary_color":   "#336699",
		"secondary_color": "not-a-color",
	})
	require.ErrorIs(t, err, ErrInvalidValue)

	// Neither pair may have landed.
	assert.False(t, store.Has("primary_color", entities.SettingGroupTheme))
	assert.False(t, store.Has("secondary_color", entities.SettingGroupTheme))
}

func TestStore_SetMany(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.SetMany("general", map[string]string{
		"site_name":    "Causeway",
		"site_tagline": "Community first",
	}))

	group := store.Group("general")
	assert.Equal(t, "Causeway", group["site_name"])
	assert.Equal(t, "Community first", group["site_tagline"])
}

func TestStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.Set("temp", "", "value"))
	require.NoError(t, store.Delete("temp", ""))
	assert.False(t, store.Has("temp", ""))

	// Deleting a missing key is a no-op.
	require.NoError(t, store.Delete("temp", ""))
}

func TestStore_PublicSettings(t *testing.T) {
	store, db, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.Set("site_name", "general", "Causeway"))
	require.NoError(t, store.Set("api_key", "payment", "supersecret"))

	// Flip api_key to private directly; visibility is read fresh per query.
	require.NoError(t, db.DB.Model(&entities.Setting{}).
		Where("setting_group = ? AND setting_key = ?", "payment", "api_key").
		Update("is_public", false).Error)

	public, err := store.PublicSettings()
	require.NoError(t, err)
	assert.Equal(t, "Causeway", public["general"]["site_name"])
	_, exposed := public["payment"]["api_key"]
	assert.False(t, exposed)
}

func TestValidateSettingValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		group   string
		value   string
		wantErr bool
	}{
		{"hex color ok", "primary_color", entities.SettingGroupTheme, "#aabbcc", false},
		{"short hex ok", "primary_color", entities.SettingGroupTheme, "#abc", false},
		{"bad color", "primary_color", entities.SettingGroupTheme, "blue", true},
		{"color empty ok", "primary_color", entities.SettingGroupTheme, "", false},
		{"non-color theme key", "font_family", entities.SettingGroupTheme, "serif", false},
		{"url ok", "twitter_url", entities.SettingGroupSocialMedia, "https://example.org/x", false},
		{"bad url", "twitter_url", entities.SettingGroupSocialMedia, "not a url", true},
		{"relative url rejected", "twitter_url", entities.SettingGroupSocialMedia, "/local/path", true},
		{"payment key long enough", "stripe_key", entities.SettingGroupPayment, "sk_live_abcdef", false},
		{"payment key too short", "stripe_key", entities.SettingGroupPayment, "short", true},
		{"unmatched group", "anything", "mail", "whatever", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettingValue(tt.key, tt.group, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
