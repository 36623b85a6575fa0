package entities

import "time"

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

type Donation struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CampaignID    *uint          `gorm:"index" json:"campaign_id,omitempty"`
	DonorName     string         `gorm:"size:200" json:"donor_name"`
	Email         string         `gorm:"size:254" json:"email"`
	Amount        float64        `json:"amount"`
	PaymentMethod string         `gorm:"size:50" json:"payment_method"`
	Reference     string         `gorm:"size:100;index" json:"reference"`
	Status        DonationStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Donation) TableName() string {
	return "donations"
}
