package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/application"
	"github.com/rameshsapkota900/Konnect/internal/domain"
)

func (h *Handler) initiatePayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.InitiatePayment(r.Context(), claims, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

// esewaCallback is the browser redirect target after checkout. Whatever
// happens inside, the user ends up on a success or failure page; the server
// state is decided by verification, not by this request's claims.
func (h *Handler) esewaCallback(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ProcessCallback(r.Context(), r.URL.Query().Get("data"))
	if err != nil {
		http.Redirect(w, r, h.redirects.PaymentFailureURL, http.StatusFound)
		return
	}
	if result == nil || result.Payment.Status != domain.PaymentStatusEscrow {
		http.Redirect(w, r, h.redirects.PaymentFailureURL, http.StatusFound)
		return
	}
	http.Redirect(w, r, h.redirects.PaymentSuccessURL+"?deal_id="+result.Payment.DealID.String(), http.StatusFound)
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	transactionCode := chi.URLParam(r, "transaction_code")
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid amount")
		return
	}
	confirmed, err := h.service.VerifyPayment(r.Context(), claims, transactionCode, amount)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]bool{"confirmed": confirmed})
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	paymentID, err := uuid.Parse(chi.URLParam(r, "payment_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid payment id")
		return
	}
	payment, err := h.service.GetPayment(r.Context(), claims, paymentID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, payment)
}

func (h *Handler) listDealPayments(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	dealID, err := uuid.Parse(chi.URLParam(r, "deal_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid deal id")
		return
	}
	payments, err := h.service.ListDealPayments(r.Context(), claims, dealID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, payments)
}
