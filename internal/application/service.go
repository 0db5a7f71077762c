package application

import (
	"log/slog"
	"time"

	"github.com/rameshsapkota900/Konnect/internal/ports"
)

type Service struct {
	cfg       Config
	logger    *slog.Logger
	users     ports.UserRepository
	creators  ports.CreatorProfileRepository
	campaigns ports.CampaignRepository
	deals     ports.DealRepository
	payments  ports.PaymentRepository
	reviews   ports.ReviewRepository
	outbox    ports.OutboxRepository
	cache     ports.Cache
	gateway   ports.PaymentGateway
	signer    ports.PaymentFormSigner
	decoder   ports.CallbackDecoder
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Logger    *slog.Logger
	Users     ports.UserRepository
	Creators  ports.CreatorProfileRepository
	Campaigns ports.CampaignRepository
	Deals     ports.DealRepository
	Payments  ports.PaymentRepository
	Reviews   ports.ReviewRepository
	Outbox    ports.OutboxRepository
	Cache     ports.Cache
	Gateway   ports.PaymentGateway
	Signer    ports.PaymentFormSigner
	Decoder   ports.CallbackDecoder
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "konnect-api"
	}
	if cfg.CreatorCacheTTL <= 0 {
		cfg.CreatorCacheTTL = 2 * time.Minute
	}
	if cfg.CampaignCacheTTL <= 0 {
		cfg.CampaignCacheTTL = 2 * time.Minute
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		logger:    logger,
		users:     deps.Users,
		creators:  deps.Creators,
		campaigns: deps.Campaigns,
		deals:     deps.Deals,
		payments:  deps.Payments,
		reviews:   deps.Reviews,
		outbox:    deps.Outbox,
		cache:     deps.Cache,
		gateway:   deps.Gateway,
		signer:    deps.Signer,
		decoder:   deps.Decoder,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}
