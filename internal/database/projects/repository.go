// Package projects tracks time-bounded projects, optionally under a program.
package projects

import (
	"errors"
	"time"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	"github.com/causeway-org/causeway/internal/utils"
)

var (
	ErrTitleRequired    = errors.New("project title is required")
	ErrInvalidDateRange = errors.New("project end date must not precede its start date")
	ErrSlugTaken        = errors.New("a project with this slug already exists")
)

var fillable = []string{
	"title", "slug", "description", "program_id",
	"start_date", "end_date", "featured_image", "status",
}

type Repository struct {
	*database.Model[entities.Project]
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{Model: database.NewModel[entities.Project](db, fillable, true)}
}

type NewProject struct {
	Title         string
	Description   string
	ProgramID     *uint
	StartDate     time.Time
	EndDate       time.Time
	FeaturedImage string
}

func (r *Repository) CreateProject(in NewProject) (*entities.Project, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidDateRange
	}
	slug := utils.Slugify(in.Title)
	taken, err := r.Exists(database.Eq("slug", slug))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	project := entities.Project{
		Title:         in.Title,
		Slug:          slug,
		Description:   in.Description,
		ProgramID:     in.ProgramID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		FeaturedImage: in.FeaturedImage,
		Status:        StatusFor(time.Now(), in.StartDate, in.EndDate),
	}
	if err := r.Create(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

// StatusFor derives a project's status from the clock: pending before the
// start, completed after the end, ongoing in between.
func StatusFor(now, start, end time.Time) entities.ProjectStatus {
	switch {
	case now.Before(start):
		return entities.ProjectStatusPending
	case now.After(end):
		return entities.ProjectStatusCompleted
	default:
		return entities.ProjectStatusOngoing
	}
}

func (r *Repository) BySlug(slug string) (*entities.Project, error) {
	return r.FindOneBy("slug", slug)
}

// ForProgram lists a program's projects, most recent first.
func (r *Repository) ForProgram(programID uint) ([]entities.Project, error) {
	var projects []entities.Project
	err := r.DB().
		Where("program_id = ?", programID).
		Order("start_date DESC").
		Find(&projects).Error
	if err != nil {
		return nil, r.StorageErr("for_program", err)
	}
	return projects, nil
}

// Ongoing pages through projects currently in flight.
func (r *Repository) Ongoing(page, perPage int) (*database.Page[entities.Project], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("status", entities.ProjectStatusOngoing)},
		database.Desc("start_date"))
}

// UpdateStatuses advances project statuses to match the clock. Transitions
// only move forward. Returns the number of rows that changed.
func (r *Repository) UpdateStatuses(now time.Time) (int64, error) {
	var changed int64

	res := r.DB().Model(&entities.Project{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?",
			entities.ProjectStatusPending, now, now).
		Update("status", entities.ProjectStatusOngoing)
	if res.Error != nil {
		return changed, r.StorageErr("update_statuses", res.Error)
	}
	changed += res.RowsAffected

	res = r.DB().Model(&entities.Project{}).
		Where("status IN ? AND end_date < ?",
			[]entities.ProjectStatus{entities.ProjectStatusPending, entities.ProjectStatusOngoing}, now).
		Update("status", entities.ProjectStatusCompleted)
	if res.Error != nil {
		return changed, r.StorageErr("update_statuses", res.Error)
	}
	changed += res.RowsAffected

	return changed, nil
}
