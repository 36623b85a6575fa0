// Package categories maintains the content category tree.
package categories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	"github.com/causeway-org/causeway/internal/utils"
)

var (
	ErrNameRequired = errors.New("category name is required")
	ErrSlugTaken    = errors.New("a category with this slug already exists")
	ErrSelfParent   = errors.New("a category cannot be its own parent")
)

var fillable = []string{"name", "slug", "description", "parent_id"}

type Repository struct {
	*database.Model[entities.Category]
	db *database.Database
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{
		Model: database.NewModel[entities.Category](db, fillable, true),
		db:    db,
	}
}

func (r *Repository) CreateCategory(name, description string, parentID *uint) (*entities.Category, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	slug := utils.Slugify(name)
	taken, err := r.Exists(database.Eq("slug", slug))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	category := entities.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
		ParentID:    parentID,
	}
	if err := r.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) BySlug(slug string) (*entities.Category, error) {
	return r.FindOneBy("slug", slug)
}

// Children lists the direct children of a category.
func (r *Repository) Children(parentID uint) ([]entities.Category, error) {
	return r.FindBy("parent_id", parentID)
}

// Roots lists the top-level categories ordered by name.
func (r *Repository) Roots() ([]entities.Category, error) {
	var roots []entities.Category
	err := r.DB().Where("parent_id IS NULL").Order("name ASC").Find(&roots).Error
	if err != nil {
		return nil, r.StorageErr("roots", err)
	}
	return roots, nil
}

// DeleteWithReassign removes a category after moving its children and posts
// elsewhere, all in one transaction. A nil newParentID promotes children to
// the root and leaves posts uncategorized.
func (r *Repository) DeleteWithReassign(id uint, newParentID *uint) error {
	if newParentID != nil && *newParentID == id {
		return ErrSelfParent
	}
	if _, err := r.Find(id); err != nil {
		return err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", newParentID).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Post{}).
			Where("category_id = ?", id).
			Update("category_id", newParentID).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Category{}, id).Error
	})
	if err != nil {
		return r.StorageErr("delete_with_reassign", err)
	}
	return nil
}
