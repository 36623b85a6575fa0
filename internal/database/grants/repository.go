// Package grants manages grant opportunities and their applications.
package grants

import (
	"errors"
	"time"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	"github.com/causeway-org/causeway/internal/utils"
)

var (
	ErrTitleRequired    = errors.New("grant title is required")
	ErrInvalidAmount    = errors.New("grant amount must be greater than zero")
	ErrDeadlinePassed   = errors.New("grant deadline must be in the future")
	ErrSlugTaken        = errors.New("a grant with this slug already exists")
	ErrGrantClosed      = errors.New("grant is no longer accepting applications")
	ErrApplicantMissing = errors.New("applicant name and email are required")
	ErrAlreadyDecided   = errors.New("application has already been decided")
)

var fillable = []string{"title", "slug", "description", "amount", "deadline", "status"}

var applicationFillable = []string{"grant_id", "applicant_name", "email", "summary", "status"}

type Repository struct {
	*database.Model[entities.Grant]
	applications *database.Model[entities.GrantApplication]
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{
		Model:        database.NewModel[entities.Grant](db, fillable, true),
		applications: database.NewModel[entities.GrantApplication](db, applicationFillable, true),
	}
}

type NewGrant struct {
	Title       string
	Description string
	Amount      float64
	Deadline    time.Time
}

// CreateGrant validates and stores a grant. A deadline in the past is a
// validation error and persists nothing.
func (r *Repository) CreateGrant(in NewGrant) (*entities.Grant, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !in.Deadline.After(time.Now()) {
		return nil, ErrDeadlinePassed
	}

	slug := utils.Slugify(in.Title)
	taken, err := r.Exists(database.Eq("slug", slug))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	grant := entities.Grant{
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		Amount:      in.Amount,
		Deadline:    in.Deadline,
		Status:      entities.GrantStatusOpen,
	}
	if err := r.Create(&grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Open pages through grants still accepting applications.
func (r *Repository) Open(page, perPage int) (*database.Page[entities.Grant], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("status", entities.GrantStatusOpen)},
		database.Asc("deadline"))
}

// Apply files an application against an open grant.
func (r *Repository) Apply(grantID uint, applicantName, email, summary string) (*entities.GrantApplication, error) {
	if applicantName == "" || email == "" {
		return nil, ErrApplicantMissing
	}

	grant, err := r.Find(grantID)
	if err != nil {
		return nil, err
	}
	if grant.Status != entities.GrantStatusOpen {
		return nil, ErrGrantClosed
	}

	application := entities.GrantApplication{
		GrantID:       grantID,
		ApplicantName: applicantName,
		Email:         email,
		Summary:       summary,
		Status:        entities.GrantApplicationPending,
	}
	if err := r.applications.Create(&application); err != nil {
		return nil, err
	}
	return &application, nil
}

// Applications lists a grant's applications, newest first.
func (r *Repository) Applications(grantID uint) ([]entities.GrantApplication, error) {
	var apps []entities.GrantApplication
	err := r.DB().Where("grant_id = ?", grantID).Order("created_at DESC").Find(&apps).Error
	if err != nil {
		return nil, r.StorageErr("applications", err)
	}
	return apps, nil
}

// DecideApplication moves a pending application to approved or rejected.
// Decisions are final.
func (r *Repository) DecideApplication(applicationID uint, approved bool) error {
	app, err := r.applications.Find(applicationID)
	if err != nil {
		return err
	}
	if app.Status != entities.GrantApplicationPending {
		return ErrAlreadyDecided
	}

	status := entities.GrantApplicationRejected
	if approved {
		status = entities.GrantApplicationApproved
	}
	return r.applications.Update(applicationID, map[string]any{"status": status})
}

// UpdateStatuses closes grants whose deadline has passed. Forward-only;
// a closed grant never reopens. Returns how many rows changed.
func (r *Repository) UpdateStatuses(now time.Time) (int64, error) {
	res := r.DB().Model(&entities.Grant{}).
		Where("status = ? AND deadline < ?", entities.GrantStatusOpen, now).
		Update("status", entities.GrantStatusClosed)
	if res.Error != nil {
		return 0, r.StorageErr("update_statuses", res.Error)
	}
	return res.RowsAffected, nil
}
