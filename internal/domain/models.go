package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeCreator  UserType = "creator"
	UserTypeBusiness UserType = "business"
	UserTypeAdmin    UserType = "admin"
)

type CampaignStatus string

const (
	CampaignStatusOpen       CampaignStatus = "open"
	CampaignStatusInProgress CampaignStatus = "in_progress"
	CampaignStatusCompleted  CampaignStatus = "completed"
	CampaignStatusCancelled  CampaignStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusEscrow   PaymentStatus = "escrow"
	PaymentStatusReleased PaymentStatus = "released"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// User is the locally-synced identity of an externally-authenticated account.
// The external identity provider owns credentials; we only keep the verified
// subject id and profile basics.
type User struct {
	UserID          uuid.UUID
	ExternalUID     string
	Email           string
	FullName        string
	UserType        UserType
	ProfileImageURL string
	Location        string
	Phone           string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type CreatorProfile struct {
	ProfileID      uuid.UUID
	UserID         uuid.UUID
	Bio            string
	InstagramURL   string
	TikTokURL      string
	YouTubeURL     string
	FollowersCount int
	EngagementRate *float64
	HourlyRate     *float64
	Niches         []string
	PortfolioURLs  []string
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

type Campaign struct {
	CampaignID   uuid.UUID
	BusinessID   uuid.UUID
	Title        string
	Description  string
	Budget       float64
	Deadline     *time.Time
	Niche        string
	Status       CampaignStatus
	Deliverables []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Deal is one agreed collaboration between a business and a creator under a
// campaign. Identity references and AgreedPrice are immutable after creation;
// Status moves only through the legality table in deal_status.go.
type Deal struct {
	DealID      uuid.UUID
	CampaignID  uuid.UUID
	CreatorID   uuid.UUID
	BusinessID  uuid.UUID
	AgreedPrice float64
	Status      DealStatus
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Payment is one attempt to move money against a deal. Retries create new
// rows; a failed payment never mutates its deal. PaymentID doubles as the
// gateway transaction reference.
type Payment struct {
	PaymentID    uuid.UUID
	DealID       uuid.UUID
	Amount       float64
	Status       PaymentStatus
	GatewayRefID string
	CreatedAt    time.Time
	PaidAt       *time.Time
}

// Settled reports whether the payment has left the pending state in a way
// that makes further callback processing a no-op.
func (p Payment) Settled() bool {
	return p.Status != PaymentStatusPending
}

type Review struct {
	ReviewID   uuid.UUID
	DealID     uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
