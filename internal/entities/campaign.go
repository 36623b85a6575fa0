package entities

import "time"

type CampaignStatus string

// Campaign statuses move strictly forward: pending -> active -> completed.
const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Campaign is a fundraising drive with a monetary goal and a running total
// incremented by completed donations.
type Campaign struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:200" json:"title"`
	Slug          string         `gorm:"uniqueIndex;size:220" json:"slug"`
	Description   string         `gorm:"type:text" json:"description"`
	GoalAmount    float64        `json:"goal_amount"`
	CurrentAmount float64        `json:"current_amount"`
	StartDate     time.Time      `gorm:"index" json:"start_date"`
	EndDate       time.Time      `gorm:"index" json:"end_date"`
	Status        CampaignStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
