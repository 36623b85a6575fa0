// Package campaigns manages fundraising campaign records.
package campaigns

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	"github.com/causeway-org/causeway/internal/utils"
)

var (
	ErrTitleRequired     = errors.New("campaign title is required")
	ErrInvalidGoalAmount = errors.New("campaign goal amount must be greater than zero")
	ErrInvalidDateRange  = errors.New("campaign end date must be after its start date")
	ErrSlugTaken         = errors.New("a campaign with this slug already exists")
)

var fillable = []string{
	"title", "slug", "description", "goal_amount", "current_amount",
	"start_date", "end_date", "status",
}

type Repository struct {
	*database.Model[entities.Campaign]
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{Model: database.NewModel[entities.Campaign](db, fillable, true)}
}

// NewCampaign carries the caller-supplied fields of a campaign. Slug,
// status and the running total are assigned by CreateCampaign.
type NewCampaign struct {
	Title       string
	Description string
	GoalAmount  float64
	StartDate   time.Time
	EndDate     time.Time
}

// CreateCampaign validates and stores a campaign. The slug is derived from
// the title, the initial status from the clock, and the running total
// starts at zero.
func (r *Repository) CreateCampaign(in NewCampaign) (*entities.Campaign, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.GoalAmount <= 0 {
		return nil, ErrInvalidGoalAmount
	}
	if !in.EndDate.After(in.StartDate) {
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

	campaign := entities.Campaign{
		Title:         in.Title,
		Slug:          slug,
		Description:   in.Description,
		GoalAmount:    in.GoalAmount,
		CurrentAmount: 0,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Status:        StatusFor(time.Now(), in.StartDate, in.EndDate),
	}
	if err := r.Create(&campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// StatusFor derives a campaign's status from the clock and its date window.
func StatusFor(now, start, end time.Time) entities.CampaignStatus {
	switch {
	case now.Before(start):
		return entities.CampaignStatusPending
	case now.After(end):
		return entities.CampaignStatusCompleted
	default:
		return entities.CampaignStatusActive
	}
}

// BySlug returns the campaign with the given slug, or database.ErrNotFound.
func (r *Repository) BySlug(slug string) (*entities.Campaign, error) {
	return r.FindOneBy("slug", slug)
}

// Active pages through campaigns currently accepting donations.
func (r *Repository) Active(page, perPage int) (*database.Page[entities.Campaign], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("status", entities.CampaignStatusActive)},
		database.Desc("start_date"))
}

// AddDonationAmount atomically increments a campaign's running total.
func (r *Repository) AddDonationAmount(tx *gorm.DB, campaignID uint, amount float64) error {
	res := tx.Model(&entities.Campaign{}).
		Where("id = ?", campaignID).
		UpdateColumn("current_amount", gorm.Expr("current_amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// UpdateStatuses moves campaigns forward through their lifecycle against
// the given clock. Transitions are strictly forward; there is no path back
// from completed. Returns how many rows changed.
func (r *Repository) UpdateStatuses(now time.Time) (int64, error) {
	db := r.DB()

	activated := db.Model(&entities.Campaign{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?",
			entities.CampaignStatusPending, now, now).
		Update("status", entities.CampaignStatusActive)
	if activated.Error != nil {
		return 0, r.StorageErr("update_statuses", activated.Error)
	}

	completed := db.Model(&entities.Campaign{}).
		Where("status IN ? AND end_date < ?",
			[]entities.CampaignStatus{entities.CampaignStatusPending, entities.CampaignStatusActive}, now).
		Update("status", entities.CampaignStatusCompleted)
	if completed.Error != nil {
		return activated.RowsAffected, r.StorageErr("update_statuses", completed.Error)
	}

	return activated.RowsAffected + completed.RowsAffected, nil
}
