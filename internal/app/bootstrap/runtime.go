package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rameshsapkota900/Konnect/internal/adapters/cache"
	"github.com/rameshsapkota900/Konnect/internal/adapters/esewa"
	eventadapter "github.com/rameshsapkota900/Konnect/internal/adapters/events"
	httpadapter "github.com/rameshsapkota900/Konnect/internal/adapters/http"
	"github.com/rameshsapkota900/Konnect/internal/adapters/postgres"
	"github.com/rameshsapkota900/Konnect/internal/adapters/security"
	"github.com/rameshsapkota900/Konnect/internal/application"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	cacheStore := cache.NewRedisCache(redisClient, "konnect:")

	verifier, err := security.NewJWTVerifier(cfg.AuthPublicKeyPEM, cfg.AuthIssuer, cfg.AuthAudience)
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	gatewayClient := esewa.NewClient(esewa.Config{
		BaseURL:       cfg.EsewaBaseURL,
		ProductionURL: cfg.EsewaProductionURL,
		ProductCode:   cfg.EsewaProductCode,
		Secret:        cfg.EsewaSecret,
		SuccessURL:    callbackURL(cfg),
		FailureURL:    cfg.PaymentFailureURL,
		TestMode:      cfg.EsewaTestMode,
		VerifyTimeout: cfg.EsewaVerifyTimeout,
	})

	repos := postgres.NewRepositories(db)
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:      cfg.ServiceID,
			CreatorCacheTTL:  cfg.CreatorCacheTTL,
			CampaignCacheTTL: cfg.CampaignCacheTTL,
		},
		Logger:    logger,
		Users:     repos.Users,
		Creators:  repos.CreatorProfiles,
		Campaigns: repos.Campaigns,
		Deals:     repos.Deals,
		Payments:  repos.Payments,
		Reviews:   repos.Reviews,
		Outbox:    repos.Outbox,
		Cache:     cacheStore,
		Gateway:   gatewayClient,
		Signer:    gatewayClient,
		Decoder:   gatewayClient,
	})

	handler := httpadapter.NewHandler(service, verifier, httpadapter.RedirectConfig{
		PaymentSuccessURL: cfg.PaymentSuccessURL,
		PaymentFailureURL: cfg.PaymentFailureURL,
	})
	router := httpadapter.NewRouter(handler, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	var closers []io.Closer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			"campaign.created":    cfg.KafkaTopic,
			"deal.created":        cfg.KafkaTopic,
			"deal.status_changed": cfg.KafkaTopic,
			"payment.escrowed":    cfg.KafkaTopic,
			"payment.failed":      cfg.KafkaTopic,
			"review.created":      cfg.KafkaTopic,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}
	outbox := eventadapter.NewOutboxWorker(logger, repos.Outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		outbox:     outbox,
		cleanupFn: func(ctx context.Context) {
			for _, closer := range closers {
				_ = closer.Close()
			}
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

// callbackURL is where the gateway bounces the browser after checkout; it must
// be reachable from outside, so it is anchored on the configured public base.
func callbackURL(cfg Config) string {
	base := strings.TrimRight(cfg.CallbackBaseURL, "/")
	return base + "/v1/payments/esewa/callback"
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}
