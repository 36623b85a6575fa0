package projects

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
	dbPath := "./test_projects_" + t.Name() + ".db"

	log, err := applog.New(t.TempDir(), applog.LevelError)
	require.NoError(t, err)

	db, err := database.New(dbPath, log)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		log.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db), cleanup
}

func TestCreateProject(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	project, err := repo.CreateProject(NewProject{
		Title:     "Community Garden",
		StartDate: time.Now().AddDate(0, 1, 0),
		EndDate:   time.Now().AddDate(0, 6, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, "community-garden", project.Slug)
	assert.Equal(t, entities.ProjectStatusPending, project.Status)
	assert.Nil(t, project.ProgramID)
}

func TestCreateProject_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateProject(NewProject{
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = repo.CreateProject(NewProject{
		Title:     "Backwards",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = repo.CreateProject(NewProject{
		Title:     "Community Garden",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	_, err = repo.CreateProject(NewProject{
		Title:     "Community Garden",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestStatusFor(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  entities.ProjectStatus
	}{
		{"before start", now.AddDate(0, 0, 1), now.AddDate(0, 1, 0), entities.ProjectStatusPending},
		{"in range", now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), entities.ProjectStatusOngoing},
		{"after end", now.AddDate(0, -2, 0), now.AddDate(0, -1, 0), entities.ProjectStatusCompleted},
		{"starts now", now, now.AddDate(0, 0, 1), entities.ProjectStatusOngoing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(now, tt.start, tt.end))
		})
	}
}

func TestForProgram(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	programID := uint(7)
	older, err := repo.CreateProject(NewProject{
		Title:     "Older Project",
		ProgramID: &programID,
		StartDate: time.Now().AddDate(-1, 0, 0),
		EndDate:   time.Now().AddDate(0, 6, 0),
	})
	require.NoError(t, err)
	newer, err := repo.CreateProject(NewProject{
		Title:     "Newer Project",
		ProgramID: &programID,
		StartDate: time.Now().AddDate(0, -1, 0),
		EndDate:   time.Now().AddDate(0, 6, 0),
	})
	require.NoError(t, err)
	_, err = repo.CreateProject(NewProject{
		Title:     "Unrelated",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	projects, err := repo.ForProgram(programID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, newer.ID, projects[0].ID)
	assert.Equal(t, older.ID, projects[1].ID)
}

func TestUpdateStatuses(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()

	shouldStart, err := repo.CreateProject(NewProject{
		Title:     "Starting",
		StartDate: now.AddDate(0, 0, 1),
		EndDate:   now.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	shouldFinish, err := repo.CreateProject(NewProject{
		Title:     "Finishing",
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	stillPending, err := repo.CreateProject(NewProject{
		Title:     "Far Future",
		StartDate: now.AddDate(1, 0, 0),
		EndDate:   now.AddDate(1, 1, 0),
	})
	require.NoError(t, err)

	require.Equal(t, entities.ProjectStatusPending, shouldStart.Status)
	require.Equal(t, entities.ProjectStatusOngoing, shouldFinish.Status)

	changed, err := repo.UpdateStatuses(now.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	started, err := repo.Find(shouldStart.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ProjectStatusOngoing, started.Status)

	finished, err := repo.Find(shouldFinish.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ProjectStatusCompleted, finished.Status)

	pending, err := repo.Find(stillPending.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ProjectStatusPending, pending.Status)
}

func TestOngoing_Pagination(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := repo.CreateProject(NewProject{
			Title:     title + " Project",
			StartDate: time.Now().AddDate(0, 0, -1),
			EndDate:   time.Now().AddDate(0, 1, 0),
		})
		require.NoError(t, err)
	}
	_, err := repo.CreateProject(NewProject{
		Title:     "Future Project",
		StartDate: time.Now().AddDate(1, 0, 0),
		EndDate:   time.Now().AddDate(1, 1, 0),
	})
	require.NoError(t, err)

	page, err := repo.Ongoing(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.LastPage)
}
