package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/database/campaigns"
	"github.com/causeway-org/causeway/internal/database/donations"
)

// CampaignsController serves fundraising campaigns and their donations.
type CampaignsController struct {
	campaigns *campaigns.Repository
	donations *donations.Repository
}

func NewCampaignsController(c *campaigns.Repository, d *donations.Repository) *CampaignsController {
	return &CampaignsController{campaigns: c, donations: d}
}

func (ctl *CampaignsController) ListActive(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := ctl.campaigns.Active(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctl *CampaignsController) BySlug(c *gin.Context) {
	campaign, err := ctl.campaigns.BySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

type createCampaignRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	GoalAmount  float64   `json:"goal_amount" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

func (ctl *CampaignsController) Create(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := ctl.campaigns.CreateCampaign(campaigns.NewCampaign{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

type donateRequest struct {
	DonorName     string  `json:"donor_name" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	Reference     string  `json:"reference"`
}

// Donate records a pending donation against a campaign.
func (ctl *CampaignsController) Donate(c *gin.Context) {
	campaign, err := ctl.campaigns.BySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req donateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, err := ctl.donations.CreateDonation(donations.NewDonation{
		CampaignID:    &campaign.ID,
		DonorName:     req.DonorName,
		Email:         req.Email,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, donation)
}

// CompleteDonation settles a pending donation, updating the campaign total.
func (ctl *CampaignsController) CompleteDonation(c *gin.Context) {
	donationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.donations.Complete(donationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// CampaignDonations pages through a campaign's donation history.
func (ctl *CampaignsController) CampaignDonations(c *gin.Context) {
	campaignID, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)
	result, err := ctl.donations.ForCampaign(campaignID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
