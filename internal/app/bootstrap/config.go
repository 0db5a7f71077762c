package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string
	MaxDBConns   int32

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	CreatorCacheTTL  time.Duration
	CampaignCacheTTL time.Duration

	AuthPublicKeyPEM string
	AuthIssuer       string
	AuthAudience     string

	EsewaBaseURL       string
	EsewaProductionURL string
	EsewaProductCode   string
	EsewaSecret        string
	EsewaTestMode      bool
	EsewaVerifyTimeout time.Duration

	PaymentSuccessURL string
	PaymentFailureURL string
	CallbackBaseURL   string
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
		KafkaTopic   string   `yaml:"kafka_topic"`
	} `yaml:"dependencies"`
	Auth struct {
		PublicKeyFile string `yaml:"public_key_file"`
		Issuer        string `yaml:"issuer"`
		Audience      string `yaml:"audience"`
	} `yaml:"auth"`
	Esewa struct {
		BaseURL       string `yaml:"base_url"`
		ProductionURL string `yaml:"production_url"`
		ProductCode   string `yaml:"product_code"`
		TestMode      *bool  `yaml:"test_mode"`
	} `yaml:"esewa"`
	Payments struct {
		SuccessURL      string `yaml:"success_url"`
		FailureURL      string `yaml:"failure_url"`
		CallbackBaseURL string `yaml:"callback_base_url"`
	} `yaml:"payments"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "konnect-api",
		HTTPPort:           8080,
		MaxDBConns:         20,
		KafkaTopic:         "konnect.events",
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		CreatorCacheTTL:    2 * time.Minute,
		CampaignCacheTTL:   2 * time.Minute,
		EsewaBaseURL:       "https://rc-epay.esewa.com.np",
		EsewaProductionURL: "https://epay.esewa.com.np",
		EsewaTestMode:      true,
		EsewaVerifyTimeout: 10 * time.Second,
		PaymentSuccessURL:  "/payment/success",
		PaymentFailureURL:  "/payment/failed",
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaTopic != "" {
			cfg.KafkaTopic = f.Dependencies.KafkaTopic
		}
		if f.Auth.PublicKeyFile != "" {
			keyRaw, readErr := os.ReadFile(f.Auth.PublicKeyFile)
			if readErr != nil {
				return Config{}, fmt.Errorf("read auth public key: %w", readErr)
			}
			cfg.AuthPublicKeyPEM = string(keyRaw)
		}
		cfg.AuthIssuer = f.Auth.Issuer
		cfg.AuthAudience = f.Auth.Audience
		if f.Esewa.BaseURL != "" {
			cfg.EsewaBaseURL = f.Esewa.BaseURL
		}
		if f.Esewa.ProductionURL != "" {
			cfg.EsewaProductionURL = f.Esewa.ProductionURL
		}
		if f.Esewa.ProductCode != "" {
			cfg.EsewaProductCode = f.Esewa.ProductCode
		}
		if f.Esewa.TestMode != nil {
			cfg.EsewaTestMode = *f.Esewa.TestMode
		}
		if f.Payments.SuccessURL != "" {
			cfg.PaymentSuccessURL = f.Payments.SuccessURL
		}
		if f.Payments.FailureURL != "" {
			cfg.PaymentFailureURL = f.Payments.FailureURL
		}
		cfg.CallbackBaseURL = f.Payments.CallbackBaseURL
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = envOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.CreatorCacheTTL = time.Duration(envInt("CREATOR_CACHE_SECONDS", int(cfg.CreatorCacheTTL.Seconds()))) * time.Second
	cfg.CampaignCacheTTL = time.Duration(envInt("CAMPAIGN_CACHE_SECONDS", int(cfg.CampaignCacheTTL.Seconds()))) * time.Second
	cfg.AuthPublicKeyPEM = envOrDefault("AUTH_JWT_PUBLIC_KEY", cfg.AuthPublicKeyPEM)
	cfg.AuthIssuer = envOrDefault("AUTH_JWT_ISSUER", cfg.AuthIssuer)
	cfg.AuthAudience = envOrDefault("AUTH_JWT_AUDIENCE", cfg.AuthAudience)
	cfg.EsewaBaseURL = envOrDefault("ESEWA_BASE_URL", cfg.EsewaBaseURL)
	cfg.EsewaProductionURL = envOrDefault("ESEWA_PRODUCTION_URL", cfg.EsewaProductionURL)
	cfg.EsewaProductCode = envOrDefault("ESEWA_PRODUCT_CODE", cfg.EsewaProductCode)
	cfg.EsewaSecret = envOrDefault("ESEWA_SECRET_KEY", cfg.EsewaSecret)
	cfg.EsewaTestMode = envBool("ESEWA_TEST_MODE", cfg.EsewaTestMode)
	cfg.EsewaVerifyTimeout = time.Duration(envInt("ESEWA_VERIFY_TIMEOUT_SECONDS", int(cfg.EsewaVerifyTimeout.Seconds()))) * time.Second
	cfg.PaymentSuccessURL = envOrDefault("PAYMENT_SUCCESS_URL", cfg.PaymentSuccessURL)
	cfg.PaymentFailureURL = envOrDefault("PAYMENT_FAILURE_URL", cfg.PaymentFailureURL)
	cfg.CallbackBaseURL = envOrDefault("CALLBACK_BASE_URL", cfg.CallbackBaseURL)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.AuthPublicKeyPEM == "" {
		return Config{}, fmt.Errorf("missing AUTH_JWT_PUBLIC_KEY")
	}
	// A missing merchant secret must stop the process here, not surface as a
	// signing error on the first payment.
	if cfg.EsewaProductCode == "" {
		return Config{}, fmt.Errorf("missing ESEWA_PRODUCT_CODE")
	}
	if cfg.EsewaSecret == "" {
		return Config{}, fmt.Errorf("missing ESEWA_SECRET_KEY")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
