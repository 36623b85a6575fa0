// Package events manages scheduled events and their lifecycle.
package events

import (
	"errors"
	"time"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
	"github.com/causeway-org/causeway/internal/utils"
)

var (
	ErrTitleRequired    = errors.New("event title is required")
	ErrInvalidDateRange = errors.New("event end date must not precede its start date")
	ErrSlugTaken        = errors.New("an event with this slug already exists")
)

var fillable = []string{
	"title", "slug", "description", "location",
	"start_date", "end_date", "capacity", "featured_image", "status",
}

type Repository struct {
	*database.Model[entities.Event]
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{Model: database.NewModel[entities.Event](db, fillable, true)}
}

type NewEvent struct {
	Title         string
	Description   string
	Location      string
	StartDate     time.Time
	EndDate       time.Time
	Capacity      int
	FeaturedImage string
}

func (r *Repository) CreateEvent(in NewEvent) (*entities.Event, error) {
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

	event := entities.Event{
		Title:         in.Title,
		Slug:          slug,
		Description:   in.Description,
		Location:      in.Location,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Capacity:      in.Capacity,
		FeaturedImage: in.FeaturedImage,
		Status:        StatusFor(time.Now(), in.StartDate, in.EndDate),
	}
	if err := r.Create(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

// StatusFor derives an event's status from the clock: upcoming before the
// start, completed after the end, ongoing in between.
func StatusFor(now, start, end time.Time) entities.EventStatus {
	switch {
	case now.Before(start):
		return entities.EventStatusUpcoming
	case now.After(end):
		return entities.EventStatusCompleted
	default:
		return entities.EventStatusOngoing
	}
}

func (r *Repository) BySlug(slug string) (*entities.Event, error) {
	return r.FindOneBy("slug", slug)
}

// Upcoming pages through events that have not started yet, soonest first.
func (r *Repository) Upcoming(page, perPage int) (*database.Page[entities.Event], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("status", entities.EventStatusUpcoming)},
		database.Asc("start_date"))
}

// UpdateStatuses advances event statuses to match the clock. Transitions
// only move forward; a completed event never reopens. Returns the number
// of rows that changed.
func (r *Repository) UpdateStatuses(now time.Time) (int64, error) {
	var changed int64

	res := r.DB().Model(&entities.Event{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?",
			entities.EventStatusUpcoming, now, now).
		Update("status", entities.EventStatusOngoing)
	if res.Error != nil {
		return changed, r.StorageErr("update_statuses", res.Error)
	}
	changed += res.RowsAffected

	res = r.DB().Model(&entities.Event{}).
		Where("status IN ? AND end_date < ?",
			[]entities.EventStatus{entities.EventStatusUpcoming, entities.EventStatusOngoing}, now).
		Update("status", entities.EventStatusCompleted)
	if res.Error != nil {
		return changed, r.StorageErr("update_statuses", res.Error)
	}
	changed += res.RowsAffected

	return changed, nil
}
