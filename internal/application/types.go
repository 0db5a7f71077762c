package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
)

type Config struct {
	ServiceName      string
	CreatorCacheTTL  time.Duration
	CampaignCacheTTL time.Duration
}

type SyncUserRequest struct {
	FullName string          `json:"full_name"`
	UserType domain.UserType `json:"user_type"`
}

type UpdateMeRequest struct {
	FullName        *string `json:"full_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Location        *string `json:"location,omitempty"`
	Phone           *string `json:"phone,omitempty"`
}

type PutCreatorProfileRequest struct {
	Bio            *string  `json:"bio,omitempty"`
	InstagramURL   *string  `json:"instagram_url,omitempty"`
	TikTokURL      *string  `json:"tiktok_url,omitempty"`
	YouTubeURL     *string  `json:"youtube_url,omitempty"`
	FollowersCount *int     `json:"followers_count,omitempty"`
	EngagementRate *float64 `json:"engagement_rate,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	Niches         []string `json:"niches,omitempty"`
	PortfolioURLs  []string `json:"portfolio_urls,omitempty"`
}

type SearchCreatorsRequest struct {
	Niche        string
	MinFollowers int
	MaxHourly    *float64
	VerifiedOnly bool
	Limit        int
	Offset       int
}

type SearchCreatorsResponse struct {
	Creators []domain.CreatorProfile `json:"creators"`
	Total    int64                   `json:"total"`
}

type CreateCampaignRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Budget       float64    `json:"budget"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Niche        string     `json:"niche"`
	Deliverables []string   `json:"deliverables,omitempty"`
}

type UpdateCampaignRequest struct {
	Title        *string                `json:"title,omitempty"`
	Description  *string                `json:"description,omitempty"`
	Budget       *float64               `json:"budget,omitempty"`
	Deadline     *time.Time             `json:"deadline,omitempty"`
	Niche        *string                `json:"niche,omitempty"`
	Status       *domain.CampaignStatus `json:"status,omitempty"`
	Deliverables []string               `json:"deliverables,omitempty"`
}

type ListCampaignsRequest struct {
	BusinessID *uuid.UUID
	Niche      string
	Status     domain.CampaignStatus
	MaxBudget  *float64
	Limit      int
	Offset     int
}

type ListCampaignsResponse struct {
	Campaigns []domain.Campaign `json:"campaigns"`
	Total     int64             `json:"total"`
}

type CreateDealRequest struct {
	CampaignID  uuid.UUID `json:"campaign_id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	AgreedPrice float64   `json:"agreed_price"`
	Notes       string    `json:"notes,omitempty"`
}

type AdvanceDealRequest struct {
	Status domain.DealStatus `json:"status"`
	Notes  *string           `json:"notes,omitempty"`
}

type InitiatePaymentRequest struct {
	DealID uuid.UUID `json:"deal_id"`
	Amount float64   `json:"amount"`
}

// InitiatePaymentResponse carries every field the client posts to the
// provider's hosted checkout form, pre-signed server-side.
type InitiatePaymentResponse struct {
	PaymentID             uuid.UUID `json:"payment_id"`
	GatewayURL            string    `json:"gateway_url"`
	Amount                float64   `json:"amount"`
	TaxAmount             float64   `json:"tax_amount"`
	TotalAmount           float64   `json:"total_amount"`
	TransactionUUID       string    `json:"transaction_uuid"`
	ProductCode           string    `json:"product_code"`
	ProductServiceCharge  float64   `json:"product_service_charge"`
	ProductDeliveryCharge float64   `json:"product_delivery_charge"`
	SuccessURL            string    `json:"success_url"`
	FailureURL            string    `json:"failure_url"`
	SignedFieldNames      string    `json:"signed_field_names"`
	Signature             string    `json:"signature"`
}

// CallbackResult is what the public callback endpoint gets back: the payment
// as settled (or not), plus whether this request confirmed it. A nil result
// upstream means the payload could not be tied to any payment at all.
type CallbackResult struct {
	Payment   domain.Payment
	Confirmed bool
}
