package categories

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

func setupTestDB(t *testing.T) (*Repository, *database.Database, func()) {
	dbPath := "./test_categories_" + t.Name() + ".db"

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
	return repo, db, cleanup
}

func TestRepository_CreateCategory(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	category, err := repo.CreateCategory("Youth Programs", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "youth-programs", category.Slug)

	_, err = repo.CreateCategory("Youth Programs", "", nil)
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = repo.CreateCategory("", "", nil)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestRepository_ChildrenAndRoots(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	parent, err := repo.CreateCategory("Programs", "", nil)
	require.NoError(t, err)
	_, err = repo.CreateCategory("After School", "", &parent.ID)
	require.NoError(t, err)

	roots, err := repo.Roots()
	require.NoError(t, err)
	assert.Len(t, roots, 1)
	assert.Equal(t, "Programs", roots[0].Name)

	children, err := repo.Children(parent.ID)
	require.NoError(t, err)
	assert.Len(t, children, 1)
}

func TestRepository_DeleteWithReassign(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	old, err := repo.CreateCategory("Old Home", "", nil)
	require.NoError(t, err)
	replacement, err := repo.CreateCategory("New Home", "", nil)
	require.NoError(t, err)
	child, err := repo.CreateCategory("Child", "", &old.ID)
	require.NoError(t, err)

	post := entities.Post{
		Title: "Orphaned Post", Slug: "orphaned-post", Content: "body",
		AuthorID: 1, Status: entities.PostStatusDraft, CategoryID: &old.ID,
	}
	require.NoError(t, db.DB.Create(&post).Error)

	require.NoError(t, repo.DeleteWithReassign(old.ID, &replacement.ID))

	_, err = repo.Find(old.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	movedChild, err := repo.Find(child.ID)
	require.NoError(t, err)
	require.NotNil(t, movedChild.ParentID)
	assert.Equal(t, replacement.ID, *movedChild.ParentID)

	var movedPost entities.Post
	require.NoError(t, db.DB.First(&movedPost, post.ID).Error)
	require.NotNil(t, movedPost.CategoryID)
	assert.Equal(t, replacement.ID, *movedPost.CategoryID)
}

func TestRepository_DeleteWithReassign_ToRoot(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	old, err := repo.CreateCategory("Going Away", "", nil)
	require.NoError(t, err)
	child, err := repo.CreateCategory("Promoted", "", &old.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteWithReassign(old.ID, nil))

	promoted, err := repo.Find(child.ID)
	require.NoError(t, err)
	assert.Nil(t, promoted.ParentID)
}

func TestRepository_DeleteWithReassign_SelfParent(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	category, err := repo.CreateCategory("Loop", "", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteWithReassign(category.ID, &category.ID), ErrSelfParent)
}
