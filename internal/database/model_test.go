package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	dbPath := "./test_model_" + t.Name() + ".db"

	log, err := applog.New(t.TempDir(), applog.LevelError)
	require.NoError(t, err)

	db, err := New(dbPath, log)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		log.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func newCategoryModel(db *Database) *Model[entities.Category] {
	return NewModel[entities.Category](db, []string{"name", "slug", "description", "parent_id"}, true)
}

func TestModel_CreateAndFind(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	category := entities.Category{Name: "News", Slug: "news"}
	require.NoError(t, model.Create(&category))
	assert.NotZero(t, category.ID)

	found, err := model.Find(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "News", found.Name)
	assert.Equal(t, "news", found.Slug)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestModel_Find_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	_, err := model.Find(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModel_Update_FiltersToFillable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	category := entities.Category{Name: "Events", Slug: "events"}
	require.NoError(t, model.Create(&category))

	err := model.Update(category.ID, map[string]any{
		"name": "Happenings",
		"id":   42, // not fillable, must be dropped
	})
	require.NoError(t, err)

	found, err := model.Find(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Happenings", found.Name)
	assert.Equal(t, category.ID, found.ID)
}

func TestModel_Update_AllColumnsFiltered(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	category := entities.Category{Name: "Original", Slug: "original"}
	require.NoError(t, model.Create(&category))

	// Nothing fillable remains, so the update is a no-op rather than an error.
	err := model.Update(category.ID, map[string]any{"id": 7})
	require.NoError(t, err)

	found, err := model.Find(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", found.Name)
}

func TestModel_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	category := entities.Category{Name: "Temp", Slug: "temp"}
	require.NoError(t, model.Create(&category))

	require.NoError(t, model.Delete(category.ID))

	_, err := model.Find(category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModel_Paginate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	for i := 0; i < 23; i++ {
		category := entities.Category{
			Name: "Category " + string(rune('A'+i)),
			Slug: "category-" + string(rune('a'+i)),
		}
		require.NoError(t, model.Create(&category))
	}

	page, err := model.Paginate(1, 10, nil, Asc("id"))
	require.NoError(t, err)
	assert.Equal(t, int64(23), page.Total)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)

	page, err = model.Paginate(3, 10, nil, Asc("id"))
	require.NoError(t, err)
	assert.Len(t, page.Data, 3)
	assert.Equal(t, 3, page.CurrentPage)
}

func TestModel_Paginate_Conditions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	parent := entities.Category{Name: "Parent", Slug: "parent"}
	require.NoError(t, model.Create(&parent))
	for _, slug := range []string{"a", "b", "c"} {
		child := entities.Category{Name: "Child " + slug, Slug: slug, ParentID: &parent.ID}
		require.NoError(t, model.Create(&child))
	}

	page, err := model.Paginate(1, 10, []Condition{Eq("parent_id", parent.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestModel_Search(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	for _, name := range []string{"Community Garden", "Garden Tools", "Fundraising"} {
		category := entities.Category{Name: name, Slug: name}
		require.NoError(t, model.Create(&category))
	}

	page, err := model.Search([]string{"name"}, "garden", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestModel_CountAndExists(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model := newCategoryModel(db)

	category := entities.Category{Name: "Only", Slug: "only"}
	require.NoError(t, model.Create(&category))

	count, err := model.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := model.Exists(Eq("slug", "only"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = model.Exists(Eq("slug", "absent"))
	require.NoError(t, err)
	assert.False(t, exists)
}
