// Package donations records donations and settles them against campaigns.
package donations

import (
	"errors"

	"gorm.io/gorm"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/database/campaigns"
	"github.com/causeway-org/causeway/internal/entities"
)

var (
	ErrInvalidAmount    = errors.New("donation amount must be greater than zero")
	ErrDonorRequired    = errors.New("donor name and email are required")
	ErrAlreadyCompleted = errors.New("donation has already been completed")
	ErrNotPending       = errors.New("only pending donations can be settled")
)

var fillable = []string{
	"campaign_id", "donor_name", "email", "amount",
	"payment_method", "reference", "status",
}

type Repository struct {
	*database.Model[entities.Donation]
	db        *database.Database
	campaigns *campaigns.Repository
}

func NewRepository(db *database.Database, campaignRepo *campaigns.Repository) *Repository {
	return &Repository{
		Model:     database.NewModel[entities.Donation](db, fillable, true),
		db:        db,
		campaigns: campaignRepo,
	}
}

type NewDonation struct {
	CampaignID    *uint
	DonorName     string
	Email         string
	Amount        float64
	PaymentMethod string
	Reference     string
}

// CreateDonation validates and stores a pending donation. Settlement (and
// the campaign total increment) happens in Complete once payment clears.
func (r *Repository) CreateDonation(in NewDonation) (*entities.Donation, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.DonorName == "" || in.Email == "" {
		return nil, ErrDonorRequired
	}

	donation := entities.Donation{
		CampaignID:    in.CampaignID,
		DonorName:     in.DonorName,
		Email:         in.Email,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Reference:     in.Reference,
		Status:        entities.DonationStatusPending,
	}
	if err := r.Create(&donation); err != nil {
		return nil, err
	}
	return &donation, nil
}

// Complete marks a pending donation completed and increments its campaign's
// running total, both inside one transaction. Completing a donation twice
// is an error, so the increment can never be applied twice.
func (r *Repository) Complete(donationID uint) error {
	donation, err := r.Find(donationID)
	if err != nil {
		return err
	}
	switch donation.Status {
	case entities.DonationStatusCompleted:
		return ErrAlreadyCompleted
	case entities.DonationStatusPending:
		// settle below
	default:
		return ErrNotPending
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Donation{}).
			Where("id = ? AND status = ?", donationID, entities.DonationStatusPending).
			Update("status", entities.DonationStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		if donation.CampaignID != nil {
			return r.campaigns.AddDonationAmount(tx, *donation.CampaignID, donation.Amount)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotPending) || errors.Is(err, database.ErrNotFound) {
			return err
		}
		return r.StorageErr("complete", err)
	}
	return nil
}

// Fail marks a pending donation failed. The campaign total is untouched.
func (r *Repository) Fail(donationID uint) error {
	donation, err := r.Find(donationID)
	if err != nil {
		return err
	}
	if donation.Status != entities.DonationStatusPending {
		return ErrNotPending
	}
	return r.Update(donationID, map[string]any{"status": entities.DonationStatusFailed})
}

// ForCampaign pages through a campaign's donations, newest first.
func (r *Repository) ForCampaign(campaignID uint, page, perPage int) (*database.Page[entities.Donation], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("campaign_id", campaignID)},
		database.Desc("created_at"))
}

// CompletedTotal sums the settled donations of a campaign.
func (r *Repository) CompletedTotal(campaignID uint) (float64, error) {
	var total float64
	err := r.DB().Model(&entities.Donation{}).
		Where("campaign_id = ? AND status = ?", campaignID, entities.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, r.StorageErr("completed_total", err)
	}
	return total, nil
}
