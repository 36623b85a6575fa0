package grants

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_grants_" + t.Name() + ".db"

	log, err := applog.New(t.TempDir(), applog.LevelError)
	require.NoError(t, err)

	db, err := database.New(dbPath, log)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
		log.Close()
		os.Remove(dbPath)
	}
	return repo, cleanup
}

func TestRepository_CreateGrant(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	grant, err := repo.CreateGrant(NewGrant{
		Title:    "Community Arts Grant",
		Amount:   5000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, "community-arts-grant", grant.Slug)
	assert.Equal(t, entities.GrantStatusOpen, grant.Status)
}

func TestRepository_CreateGrant_PastDeadline(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateGrant(NewGrant{
		Title:    "Too Late",
		Amount:   1000,
		Deadline: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	// Nothing may have been persisted.
	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepository_Apply(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	grant, err := repo.CreateGrant(NewGrant{
		Title:    "Open Grant",
		Amount:   1000,
		Deadline: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	app, err := repo.Apply(grant.ID, "Ada Lovelace", "ada@example.org", "Computing outreach")
	require.NoError(t, err)
	assert.Equal(t, entities.GrantApplicationPending, app.Status)

	apps, err := repo.Applications(grant.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestRepository_Apply_ClosedGrant(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	grant := entities.Grant{
		Title: "Closed Grant", Slug: "closed-grant", Amount: 100,
		Deadline: time.Now().Add(-time.Hour), Status: entities.GrantStatusClosed,
	}
	require.NoError(t, repo.DB().Create(&grant).Error)

	_, err := repo.Apply(grant.ID, "Ada", "ada@example.org", "")
	assert.ErrorIs(t, err, ErrGrantClosed)
}

func TestRepository_DecideApplication(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	grant, err := repo.CreateGrant(NewGrant{
		Title:    "Decidable",
		Amount:   1000,
		Deadline: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	app, err := repo.Apply(grant.ID, "Ada", "ada@example.org", "")
	require.NoError(t, err)

	require.NoError(t, repo.DecideApplication(app.ID, true))

	// Deciding twice is rejected.
	assert.ErrorIs(t, repo.DecideApplication(app.ID, false), ErrAlreadyDecided)
}

func TestRepository_UpdateStatuses(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	expired := entities.Grant{
		Title: "Expired", Slug: "expired", Amount: 100,
		Deadline: now.Add(-time.Hour), Status: entities.GrantStatusOpen,
	}
	current := entities.Grant{
		Title: "Current", Slug: "current", Amount: 100,
		Deadline: now.Add(time.Hour), Status: entities.GrantStatusOpen,
	}
	require.NoError(t, repo.DB().Create(&expired).Error)
	require.NoError(t, repo.DB().Create(&current).Error)

	changed, err := repo.UpdateStatuses(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	after, err := repo.Find(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.GrantStatusClosed, after.Status)

	still, err := repo.Find(current.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.GrantStatusOpen, still.Status)
}
