package programs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_programs_" + t.Name() + ".db"

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

func TestCreateProgram(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	program, err := repo.CreateProgram("Youth Mentoring", "Weekly mentoring for teens", "/media/mentoring.jpg")
	require.NoError(t, err)
	assert.NotZero(t, program.ID)
	assert.Equal(t, "youth-mentoring", program.Slug)
	assert.Equal(t, entities.ProgramStatusActive, program.Status)

	_, err = repo.CreateProgram("", "desc", "")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = repo.CreateProgram("Youth Mentoring", "another", "")
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestActive_ExcludesDeactivated(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	a, err := repo.CreateProgram("Beta Program", "", "")
	require.NoError(t, err)
	_, err = repo.CreateProgram("Alpha Program", "", "")
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(a.ID))

	active, err := repo.Active()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Alpha Program", active[0].Name)
}

func TestReplaceSchedule(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	program, err := repo.CreateProgram("Youth Mentoring", "", "")
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceSchedule(program.ID, []entities.ProgramSession{
		{DayOfWeek: 3, StartTime: "18:00", EndTime: "19:30", Location: "Main hall"},
		{DayOfWeek: 1, StartTime: "17:00", EndTime: "18:00", Location: "Room 2"},
	}))

	sessions, err := repo.Schedule(program.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Ordered by day, then start time.
	assert.Equal(t, 1, sessions[0].DayOfWeek)
	assert.Equal(t, 3, sessions[1].DayOfWeek)
	assert.Equal(t, program.ID, sessions[0].ProgramID)

	// Replacing drops the old week entirely.
	require.NoError(t, repo.ReplaceSchedule(program.ID, []entities.ProgramSession{
		{DayOfWeek: 5, StartTime: "10:00"},
	}))
	sessions, err = repo.Schedule(program.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 5, sessions[0].DayOfWeek)
}

func TestReplaceSchedule_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	program, err := repo.CreateProgram("Youth Mentoring", "", "")
	require.NoError(t, err)

	err = repo.ReplaceSchedule(program.ID, []entities.ProgramSession{
		{DayOfWeek: 9, StartTime: "10:00"},
	})
	assert.ErrorIs(t, err, ErrBadSession)

	err = repo.ReplaceSchedule(program.ID, []entities.ProgramSession{
		{DayOfWeek: 2, StartTime: ""},
	})
	assert.ErrorIs(t, err, ErrBadSession)

	err = repo.ReplaceSchedule(999, []entities.ProgramSession{
		{DayOfWeek: 2, StartTime: "10:00"},
	})
	assert.ErrorIs(t, err, database.ErrNotFound)

	// A failed replace must not have touched existing rows.
	require.NoError(t, repo.ReplaceSchedule(program.ID, []entities.ProgramSession{
		{DayOfWeek: 2, StartTime: "10:00"},
	}))
	err = repo.ReplaceSchedule(program.ID, []entities.ProgramSession{
		{DayOfWeek: 2, StartTime: "11:00"},
		{DayOfWeek: -1, StartTime: "12:00"},
	})
	assert.ErrorIs(t, err, ErrBadSession)

	sessions, err := repo.Schedule(program.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "10:00", sessions[0].StartTime)
}

func TestBySlug(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateProgram("Food Bank", "", "")
	require.NoError(t, err)

	found, err := repo.BySlug("food-bank")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.BySlug("missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
