package postgres

import (
	"github.com/rameshsapkota900/Konnect/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users           ports.UserRepository
	CreatorProfiles ports.CreatorProfileRepository
	Campaigns       ports.CampaignRepository
	Deals           ports.DealRepository
	Payments        ports.PaymentRepository
	Reviews         ports.ReviewRepository
	Outbox          ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:           &userRepository{db: db},
		CreatorProfiles: &creatorProfileRepository{db: db},
		Campaigns:       &campaignRepository{db: db},
		Deals:           &dealRepository{db: db},
		Payments:        &paymentRepository{db: db},
		Reviews:         &reviewRepository{db: db},
		Outbox:          &outboxRepository{db: db},
	}
}
