package media

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
	dbPath := "./test_media_" + t.Name() + ".db"

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

func TestCreateMedia(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	media, err := repo.CreateMedia(NewMedia{
		FileName:   "banner.jpg",
		FilePath:   "/uploads/2026/08/banner.jpg",
		MimeType:   "image/jpeg",
		Size:       204800,
		AltText:    "Fundraiser banner",
		UploadedBy: 1,
	})
	require.NoError(t, err)
	assert.NotZero(t, media.ID)

	_, err = repo.CreateMedia(NewMedia{FileName: "x.pdf"})
	assert.ErrorIs(t, err, ErrPathRequired)

	_, err = repo.CreateMedia(NewMedia{
		FileName: "banner-copy.jpg",
		FilePath: "/uploads/2026/08/banner.jpg",
	})
	assert.ErrorIs(t, err, ErrPathTaken)
}

func TestByPath(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateMedia(NewMedia{
		FileName: "report.pdf",
		FilePath: "/uploads/report.pdf",
		MimeType: "application/pdf",
	})
	require.NoError(t, err)

	found, err := repo.ByPath("/uploads/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.ByPath("/uploads/missing.pdf")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestImages_FiltersByMimeType(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateMedia(NewMedia{FileName: "a.jpg", FilePath: "/a.jpg", MimeType: "image/jpeg"})
	require.NoError(t, err)
	_, err = repo.CreateMedia(NewMedia{FileName: "b.png", FilePath: "/b.png", MimeType: "image/png"})
	require.NoError(t, err)
	_, err = repo.CreateMedia(NewMedia{FileName: "c.pdf", FilePath: "/c.pdf", MimeType: "application/pdf"})
	require.NoError(t, err)

	page, err := repo.Images(1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, m := range page.Data {
		assert.True(t, IsImage(&m))
	}

	all, err := repo.Recent(1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
}

func TestByUploader(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateMedia(NewMedia{FileName: "a.jpg", FilePath: "/a.jpg", UploadedBy: 1})
	require.NoError(t, err)
	_, err = repo.CreateMedia(NewMedia{FileName: "b.jpg", FilePath: "/b.jpg", UploadedBy: 1})
	require.NoError(t, err)
	_, err = repo.CreateMedia(NewMedia{FileName: "c.jpg", FilePath: "/c.jpg", UploadedBy: 2})
	require.NoError(t, err)

	page, err := repo.ByUploader(1, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage(&entities.Media{MimeType: "image/webp"}))
	assert.False(t, IsImage(&entities.Media{MimeType: "video/mp4"}))
	assert.False(t, IsImage(&entities.Media{MimeType: ""}))
}
