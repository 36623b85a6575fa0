package entities

import "time"

type GrantStatus string

const (
	GrantStatusOpen   GrantStatus = "open"
	GrantStatusClosed GrantStatus = "closed"
)

type Grant struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"size:200" json:"title"`
	Slug        string      `gorm:"uniqueIndex;size:220" json:"slug"`
	Description string      `gorm:"type:text" json:"description"`
	Amount      float64     `json:"amount"`
	Deadline    time.Time   `gorm:"index" json:"deadline"`
	Status      GrantStatus `gorm:"size:20;index;default:'open'" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Grant) TableName() string {
	return "grants"
}

type GrantApplicationStatus string

const (
	GrantApplicationPending  GrantApplicationStatus = "pending"
	GrantApplicationApproved GrantApplicationStatus = "approved"
	GrantApplicationRejected GrantApplicationStatus = "rejected"
)

// GrantApplication is a detail row of Grant; the grant reference is a plain
// foreign key resolved by explicit queries.
type GrantApplication struct {
	ID            uint                   `gorm:"primaryKey" json:"id"`
	GrantID       uint                   `gorm:"index" json:"grant_id"`
	ApplicantName string                 `gorm:"size:200" json:"applicant_name"`
	Email         string                 `gorm:"size:254" json:"email"`
	Summary       string                 `gorm:"type:text" json:"summary"`
	Status        GrantApplicationStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func (GrantApplication) TableName() string {
	return "grant_applications"
}
