package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
)

type UpsertUserParams struct {
	ExternalUID string
	Email       string
	FullName    string
	UserType    domain.UserType
	Now         time.Time
}

type UpdateUserParams struct {
	UserID          uuid.UUID
	FullName        *string
	ProfileImageURL *string
	Location        *string
	Phone           *string
	UpdatedAt       time.Time
}

type UserRepository interface {
	UpsertByExternalUID(ctx context.Context, params UpsertUserParams) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetByExternalUID(ctx context.Context, externalUID string) (domain.User, error)
	Update(ctx context.Context, params UpdateUserParams) (domain.User, error)
}

type PutCreatorProfileParams struct {
	UserID         uuid.UUID
	Bio            *string
	InstagramURL   *string
	TikTokURL      *string
	YouTubeURL     *string
	FollowersCount *int
	EngagementRate *float64
	HourlyRate     *float64
	Niches         []string
	PortfolioURLs  []string
	Now            time.Time
}

type CreatorSearchFilter struct {
	Niche        string
	MinFollowers int
	MaxHourly    *float64
	VerifiedOnly bool
	Limit        int
	Offset       int
}

type CreatorProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.CreatorProfile, error)
	Put(ctx context.Context, params PutCreatorProfileParams) (domain.CreatorProfile, error)
	Search(ctx context.Context, filter CreatorSearchFilter) ([]domain.CreatorProfile, int64, error)
}

type CreateCampaignParams struct {
	BusinessID   uuid.UUID
	Title        string
	Description  string
	Budget       float64
	Deadline     *time.Time
	Niche        string
	Deliverables []string
	Now          time.Time
}

type UpdateCampaignParams struct {
	CampaignID   uuid.UUID
	Title        *string
	Description  *string
	Budget       *float64
	Deadline     *time.Time
	Niche        *string
	Status       *domain.CampaignStatus
	Deliverables []string
	UpdatedAt    time.Time
}

type CampaignListFilter struct {
	BusinessID *uuid.UUID
	Niche      string
	Status     domain.CampaignStatus
	MaxBudget  *float64
	Limit      int
	Offset     int
}

type CampaignRepository interface {
	Create(ctx context.Context, params CreateCampaignParams) (domain.Campaign, error)
	GetByID(ctx context.Context, campaignID uuid.UUID) (domain.Campaign, error)
	Update(ctx context.Context, params UpdateCampaignParams) (domain.Campaign, error)
	List(ctx context.Context, filter CampaignListFilter) ([]domain.Campaign, int64, error)
	Delete(ctx context.Context, campaignID, businessID uuid.UUID) error
}

type CreateDealParams struct {
	CampaignID  uuid.UUID
	CreatorID   uuid.UUID
	BusinessID  uuid.UUID
	AgreedPrice float64
	Notes       string
	Now         time.Time
}

type AdvanceDealParams struct {
	DealID      uuid.UUID
	Status      domain.DealStatus
	Notes       *string
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

type DealRepository interface {
	Create(ctx context.Context, params CreateDealParams) (domain.Deal, error)
	GetByID(ctx context.Context, dealID uuid.UUID) (domain.Deal, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Deal, error)
	// Advance applies a pre-validated general-path transition. The write is
	// guarded on the caller-observed current status; a concurrent move loses
	// the race and surfaces domain.ErrConflict.
	Advance(ctx context.Context, params AdvanceDealParams, expected domain.DealStatus) (domain.Deal, error)
}

type CreatePaymentParams struct {
	PaymentID uuid.UUID
	DealID    uuid.UUID
	Amount    float64
	Now       time.Time
}

// SettlePaymentParams carries both halves of the settlement unit: the payment
// pending->escrow edge and the deal transition into in_progress it drives.
type SettlePaymentParams struct {
	PaymentID    uuid.UUID
	GatewayRefID string
	PaidAt       time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, params CreatePaymentParams) (domain.Payment, error)
	GetByID(ctx context.Context, paymentID uuid.UUID) (domain.Payment, error)
	ListByDealID(ctx context.Context, dealID uuid.UUID) ([]domain.Payment, error)
	// Settle commits payment pending->escrow and deal ->in_progress as one
	// atomic unit. When the payment already left pending it returns the
	// existing record unchanged with applied=false.
	Settle(ctx context.Context, params SettlePaymentParams) (payment domain.Payment, applied bool, err error)
	// MarkFailed commits pending->failed, leaving the deal untouched. Returns
	// the current record unchanged with applied=false when already settled.
	MarkFailed(ctx context.Context, paymentID uuid.UUID) (payment domain.Payment, applied bool, err error)
}

type CreateReviewParams struct {
	DealID     uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	Rating     int
	Comment    string
	Now        time.Time
}

type ReviewRepository interface {
	Create(ctx context.Context, params CreateReviewParams) (domain.Review, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Review, error)
	ExistsForDealAndAuthor(ctx context.Context, dealID, fromUserID uuid.UUID) (bool, error)
}
