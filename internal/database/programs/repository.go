// Package programs manages long-running programs and their weekly schedules.
package programs

import (
	"errors"

	"gorm.io/gorm"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	"github.com/causeway-org/causeway/internal/utils"
)

var (
	ErrNameRequired = errors.New("program name is required")
	ErrSlugTaken    = errors.New("a program with this slug already exists")
	ErrBadSession   = errors.New("schedule sessions need a day and a start time")
)

var fillable = []string{"name", "slug", "description", "featured_image", "status"}

type Repository struct {
	*database.Model[entities.Program]
	db *database.Database
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{
		Model: database.NewModel[entities.Program](db, fillable, true),
		db:    db,
	}
}

func (r *Repository) CreateProgram(name, description, featuredImage string) (*entities.Program, error) {
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

	program := entities.Program{
		Name:          name,
		Slug:          slug,
		Description:   description,
		FeaturedImage: featuredImage,
		Status:        entities.ProgramStatusActive,
	}
	if err := r.Create(&program); err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *Repository) BySlug(slug string) (*entities.Program, error) {
	return r.FindOneBy("slug", slug)
}

// Active lists active programs ordered by name.
func (r *Repository) Active() ([]entities.Program, error) {
	var programs []entities.Program
	err := r.DB().
		Where("status = ?", entities.ProgramStatusActive).
		Order("name ASC").
		Find(&programs).Error
	if err != nil {
		return nil, r.StorageErr("active", err)
	}
	return programs, nil
}

// Schedule returns a program's weekly sessions ordered by day and time.
func (r *Repository) Schedule(programID uint) ([]entities.ProgramSession, error) {
	var sessions []entities.ProgramSession
	err := r.DB().
		Where("program_id = ?", programID).
		Order("day_of_week ASC, start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, r.StorageErr("schedule", err)
	}
	return sessions, nil
}

// ReplaceSchedule swaps a program's whole weekly schedule in one
// transaction, so readers never see a half-written week.
func (r *Repository) ReplaceSchedule(programID uint, sessions []entities.ProgramSession) error {
	if _, err := r.Find(programID); err != nil {
		return err
	}
	for _, s := range sessions {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 || s.StartTime == "" {
			return ErrBadSession
		}
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", programID).
			Delete(&entities.ProgramSession{}).Error; err != nil {
			return err
		}
		for i := range sessions {
			sessions[i].ID = 0
			sessions[i].ProgramID = programID
			if err := tx.Create(&sessions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.StorageErr("replace_schedule", err)
	}
	return nil
}

// Deactivate retires a program without touching its schedule history.
func (r *Repository) Deactivate(programID uint) error {
	if _, err := r.Find(programID); err != nil {
		return err
	}
	return r.Update(programID, map[string]any{"status": entities.ProgramStatusInactive})
}
