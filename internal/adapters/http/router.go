package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rameshsapkota900/Konnect/internal/application"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

// RedirectConfig holds the browser destinations the gateway callback bounces
// to once the server has decided the payment's fate.
type RedirectConfig struct {
	PaymentSuccessURL string
	PaymentFailureURL string
}

type Handler struct {
	service   *application.Service
	verifier  ports.TokenVerifier
	redirects RedirectConfig
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier, redirects RedirectConfig) *Handler {
	if redirects.PaymentSuccessURL == "" {
		redirects.PaymentSuccessURL = "/payment/success"
	}
	if redirects.PaymentFailureURL == "" {
		redirects.PaymentFailureURL = "/payment/failed"
	}
	return &Handler{service: service, verifier: verifier, redirects: redirects}
}

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/{user_id}/reviews", handler.listUserReviews)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/sync", handler.syncUser)
				r.Get("/me", handler.getMe)
				r.Put("/me", handler.updateMe)
			})
		})

		r.Route("/creators", func(r chi.Router) {
			r.Get("/", handler.searchCreators)
			r.Get("/{user_id}", handler.getCreatorProfile)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Put("/me", handler.putCreatorProfile)
			})
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", handler.listCampaigns)
			r.Get("/{campaign_id}", handler.getCampaign)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.createCampaign)
				r.Put("/{campaign_id}", handler.updateCampaign)
				r.Delete("/{campaign_id}", handler.deleteCampaign)
			})
		})

		r.Route("/deals", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/", handler.createDeal)
			r.Get("/", handler.listMyDeals)
			r.Get("/{deal_id}", handler.getDeal)
			r.Put("/{deal_id}/status", handler.advanceDealStatus)
			r.Get("/{deal_id}/payments", handler.listDealPayments)
			r.Post("/{deal_id}/reviews", handler.createReview)
		})

		r.Route("/payments", func(r chi.Router) {
			// The gateway redirect carries no bearer token; it authenticates
			// through server-side verification instead.
			r.Get("/esewa/callback", handler.esewaCallback)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/initiate", handler.initiatePayment)
				r.Get("/verify/{transaction_code}", handler.verifyPayment)
				r.Get("/{payment_id}", handler.getPayment)
			})
		})
	})
	return r
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		claims, err := h.verifier.ParseAndValidate(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		ctx := contextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
