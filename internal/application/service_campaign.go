package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

func (s *Service) CreateCampaign(ctx context.Context, claims ports.AuthClaims, req CreateCampaignRequest) (domain.Campaign, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.Campaign{}, err
	}
	if actor.UserType != domain.UserTypeBusiness {
		return domain.Campaign{}, fmt.Errorf("%w: only business accounts open campaigns", domain.ErrForbidden)
	}
	if err := domain.ValidateCampaignTitle(req.Title); err != nil {
		return domain.Campaign{}, err
	}
	if err := domain.ValidateBudget(req.Budget); err != nil {
		return domain.Campaign{}, err
	}
	niche := domain.NormalizeNiche(req.Niche)
	if niche != "" {
		if err := domain.ValidateNiche(niche); err != nil {
			return domain.Campaign{}, err
		}
	}

	campaign, err := s.campaigns.Create(ctx, ports.CreateCampaignParams{
		BusinessID:   actor.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
		Deadline:     req.Deadline,
		Niche:        niche,
		Deliverables: req.Deliverables,
		Now:          s.nowFn(),
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	s.enqueueEvent(ctx, "campaign.created", campaign.CampaignID.String(), map[string]any{
		"campaign_id": campaign.CampaignID.String(),
		"business_id": campaign.BusinessID.String(),
		"title":       campaign.Title,
		"budget":      campaign.Budget,
		"niche":       campaign.Niche,
	})
	return campaign, nil
}

func (s *Service) GetCampaign(ctx context.Context, campaignID uuid.UUID) (domain.Campaign, error) {
	key := campaignCacheKey(campaignID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached domain.Campaign
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(campaign); err == nil {
			_ = s.cache.Set(ctx, key, string(raw), s.cfg.CampaignCacheTTL)
		}
	}
	return campaign, nil
}

func (s *Service) UpdateCampaign(ctx context.Context, claims ports.AuthClaims, campaignID uuid.UUID, req UpdateCampaignRequest) (domain.Campaign, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.Campaign{}, err
	}
	existing, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	if existing.BusinessID != actor.UserID {
		return domain.Campaign{}, fmt.Errorf("%w: campaign belongs to another business", domain.ErrForbidden)
	}
	if req.Title != nil {
		if err := domain.ValidateCampaignTitle(*req.Title); err != nil {
			return domain.Campaign{}, err
		}
	}
	if req.Budget != nil {
		if err := domain.ValidateBudget(*req.Budget); err != nil {
			return domain.Campaign{}, err
		}
	}
	var niche *string
	if req.Niche != nil {
		normalized := domain.NormalizeNiche(*req.Niche)
		if normalized != "" {
			if err := domain.ValidateNiche(normalized); err != nil {
				return domain.Campaign{}, err
			}
		}
		niche = &normalized
	}

	campaign, err := s.campaigns.Update(ctx, ports.UpdateCampaignParams{
		CampaignID:   campaignID,
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
		Deadline:     req.Deadline,
		Niche:        niche,
		Status:       req.Status,
		Deliverables: req.Deliverables,
		UpdatedAt:    s.nowFn(),
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, campaignCacheKey(campaignID))
	}
	return campaign, nil
}

func (s *Service) ListCampaigns(ctx context.Context, req ListCampaignsRequest) (ListCampaignsResponse, error) {
	if req.Niche != "" {
		req.Niche = domain.NormalizeNiche(req.Niche)
	}
	campaigns, total, err := s.campaigns.List(ctx, ports.CampaignListFilter{
		BusinessID: req.BusinessID,
		Niche:      req.Niche,
		Status:     req.Status,
		MaxBudget:  req.MaxBudget,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return ListCampaignsResponse{}, err
	}
	return ListCampaignsResponse{Campaigns: campaigns, Total: total}, nil
}

func (s *Service) DeleteCampaign(ctx context.Context, claims ports.AuthClaims, campaignID uuid.UUID) error {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, campaignID, actor.UserID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, campaignCacheKey(campaignID))
	}
	return nil
}
