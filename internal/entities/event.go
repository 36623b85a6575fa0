package entities

import "time"

type EventStatus string

// Event statuses move strictly forward: upcoming -> ongoing -> completed.
const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
)

type Event struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Title         string      `gorm:"size:200" json:"title"`
	Slug          string      `gorm:"uniqueIndex;size:220" json:"slug"`
	Description   string      `gorm:"type:text" json:"description"`
	Location      string      `gorm:"size:300" json:"location"`
	StartDate     time.Time   `gorm:"index" json:"start_date"`
	EndDate       time.Time   `gorm:"index" json:"end_date"`
	Capacity      int         `json:"capacity"`
	FeaturedImage string      `gorm:"size:500" json:"featured_image,omitempty"`
	Status        EventStatus `gorm:"size:20;index;default:'upcoming'" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}
