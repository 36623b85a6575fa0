package campaigns

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
	dbPath := "./test_campaigns_" + t.Name() + ".db"

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

func TestRepository_CreateCampaign(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	campaign, err := repo.CreateCampaign(NewCampaign{
		Title:      "Save the Arts",
		GoalAmount: 1000,
		StartDate:  now.Add(-24 * time.Hour),
		EndDate:    now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, "save-the-arts", campaign.Slug)
	assert.Equal(t, entities.CampaignStatusActive, campaign.Status)
	assert.Equal(t, float64(0), campaign.CurrentAmount)
}

func TestRepository_CreateCampaign_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()

	_, err := repo.CreateCampaign(NewCampaign{GoalAmount: 100, StartDate: now, EndDate: now.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = repo.CreateCampaign(NewCampaign{Title: "No Goal", StartDate: now, EndDate: now.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidGoalAmount)

	_, err = repo.CreateCampaign(NewCampaign{Title: "Backwards", GoalAmount: 100, StartDate: now, EndDate: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestRepository_CreateCampaign_DuplicateSlug(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	in := NewCampaign{Title: "Winter Appeal", GoalAmount: 500, StartDate: now, EndDate: now.Add(time.Hour)}

	_, err := repo.CreateCampaign(in)
	require.NoError(t, err)

	_, err = repo.CreateCampaign(in)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestStatusFor(t *testing.T) {
	now := time.Now()

	assert.Equal(t, entities.CampaignStatusPending,
		StatusFor(now, now.Add(time.Hour), now.Add(2*time.Hour)))
	assert.Equal(t, entities.CampaignStatusActive,
		StatusFor(now, now.Add(-time.Hour), now.Add(time.Hour)))
	assert.Equal(t, entities.CampaignStatusCompleted,
		StatusFor(now, now.Add(-2*time.Hour), now.Add(-time.Hour)))
}

func TestRepository_UpdateStatuses(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()

	// Seed directly so statuses start stale.
	stale := []entities.Campaign{
		{Title: "Should Activate", Slug: "activate", GoalAmount: 100,
			StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
			Status: entities.CampaignStatusPending},
		{Title: "Should Complete", Slug: "complete", GoalAmount: 100,
			StartDate: now.Add(-3 * time.Hour), EndDate: now.Add(-time.Hour),
			Status: entities.CampaignStatusActive},
		{Title: "Still Pending", Slug: "pending", GoalAmount: 100,
			StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour),
			Status: entities.CampaignStatusPending},
	}
	for i := range stale {
		require.NoError(t, repo.DB().Create(&stale[i]).Error)
	}

	changed, err := repo.UpdateStatuses(now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	activated, err := repo.BySlug("activate")
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignStatusActive, activated.Status)

	completed, err := repo.BySlug("complete")
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignStatusCompleted, completed.Status)

	pending, err := repo.BySlug("pending")
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignStatusPending, pending.Status)
}

func TestRepository_UpdateStatuses_NeverReopens(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	done := entities.Campaign{
		Title: "Finished", Slug: "finished", GoalAmount: 100,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		Status: entities.CampaignStatusCompleted,
	}
	require.NoError(t, repo.DB().Create(&done).Error)

	changed, err := repo.UpdateStatuses(now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)

	after, err := repo.BySlug("finished")
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignStatusCompleted, after.Status)
}

func TestRepository_Active(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	_, err := repo.CreateCampaign(NewCampaign{
		Title: "Live Drive", GoalAmount: 100,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.CreateCampaign(NewCampaign{
		Title: "Future Drive", GoalAmount: 100,
		StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	page, err := repo.Active(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "live-drive", page.Data[0].Slug)
}
