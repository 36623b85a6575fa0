package entities

import "time"

type ProjectStatus string

// Project statuses move strictly forward: pending -> ongoing -> completed.
const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
)

type Project struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Title         string        `gorm:"size:200" json:"title"`
	Slug          string        `gorm:"uniqueIndex;size:220" json:"slug"`
	Description   string        `gorm:"type:text" json:"description"`
	ProgramID     *uint         `gorm:"index" json:"program_id,omitempty"`
	StartDate     time.Time     `gorm:"index" json:"start_date"`
	EndDate       time.Time     `gorm:"index" json:"end_date"`
	FeaturedImage string        `gorm:"size:500" json:"featured_image,omitempty"`
	Status        ProjectStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
