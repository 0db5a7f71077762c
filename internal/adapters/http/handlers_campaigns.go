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

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	campaign, err := h.service.CreateCampaign(r.Context(), claims, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, campaign)
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign id")
		return
	}
	campaign, err := h.service.GetCampaign(r.Context(), campaignID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, campaign)
}

func (h *Handler) updateCampaign(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign id")
		return
	}
	var req application.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	campaign, err := h.service.UpdateCampaign(r.Context(), claims, campaignID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, campaign)
}

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := application.ListCampaignsRequest{
		Niche:  q.Get("niche"),
		Status: domain.CampaignStatus(q.Get("status")),
	}
	if raw := q.Get("business_id"); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			req.BusinessID = &parsed
		}
	}
	if raw := q.Get("max_budget"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			req.MaxBudget = &v
		}
	}
	req.Limit, _ = strconv.Atoi(q.Get("limit"))
	req.Offset, _ = strconv.Atoi(q.Get("offset"))

	resp, err := h.service.ListCampaigns(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign id")
		return
	}
	if err := h.service.DeleteCampaign(r.Context(), claims, campaignID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "campaign deleted")
}
