package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalUID     string     `gorm:"column:external_uid"`
	Email           string     `gorm:"column:email"`
	FullName        string     `gorm:"column:full_name"`
	UserType        string     `gorm:"column:user_type"`
	ProfileImageURL string     `gorm:"column:profile_image_url"`
	Location        string     `gorm:"column:location"`
	Phone           string     `gorm:"column:phone"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       *time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type creatorProfileModel struct {
	ProfileID      uuid.UUID  `gorm:"column:profile_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id"`
	Bio            string     `gorm:"column:bio"`
	InstagramURL   string     `gorm:"column:instagram_url"`
	TikTokURL      string     `gorm:"column:tiktok_url"`
	YouTubeURL     string     `gorm:"column:youtube_url"`
	FollowersCount int        `gorm:"column:followers_count"`
	EngagementRate *float64   `gorm:"column:engagement_rate"`
	HourlyRate     *float64   `gorm:"column:hourly_rate"`
	Niches         string     `gorm:"column:niches"`
	PortfolioURLs  string     `gorm:"column:portfolio_urls"`
	IsVerified     bool       `gorm:"column:is_verified"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at"`
}

func (creatorProfileModel) TableName() string { return "creator_profiles" }

type campaignModel struct {
	CampaignID   uuid.UUID  `gorm:"column:campaign_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID   uuid.UUID  `gorm:"column:business_id"`
	Title        string     `gorm:"column:title"`
	Description  string     `gorm:"column:description"`
	Budget       float64    `gorm:"column:budget"`
	Deadline     *time.Time `gorm:"column:deadline"`
	Niche        string     `gorm:"column:niche"`
	Status       string     `gorm:"column:status"`
	Deliverables string     `gorm:"column:deliverables"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string { return "campaigns" }

type dealModel struct {
	DealID      uuid.UUID  `gorm:"column:deal_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID  uuid.UUID  `gorm:"column:campaign_id"`
	CreatorID   uuid.UUID  `gorm:"column:creator_id"`
	BusinessID  uuid.UUID  `gorm:"column:business_id"`
	AgreedPrice float64    `gorm:"column:agreed_price"`
	Status      string     `gorm:"column:status"`
	Notes       string     `gorm:"column:notes"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (dealModel) TableName() string { return "deals" }

type paymentModel struct {
	PaymentID    uuid.UUID  `gorm:"column:payment_id;type:uuid;primaryKey"`
	DealID       uuid.UUID  `gorm:"column:deal_id"`
	Amount       float64    `gorm:"column:amount"`
	Status       string     `gorm:"column:status"`
	GatewayRefID string     `gorm:"column:gateway_ref_id"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PaidAt       *time.Time `gorm:"column:paid_at"`
}

func (paymentModel) TableName() string { return "payments" }

type reviewModel struct {
	ReviewID   uuid.UUID `gorm:"column:review_id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealID     uuid.UUID `gorm:"column:deal_id"`
	FromUserID uuid.UUID `gorm:"column:from_user_id"`
	ToUserID   uuid.UUID `gorm:"column:to_user_id"`
	Rating     int       `gorm:"column:rating"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

type outboxModel struct {
	OutboxID     uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	RetryCount   int        `gorm:"column:retry_count"`
	LastError    *string    `gorm:"column:last_error"`
	LastErrorAt  *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "outbox" }
