package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

// CreateDeal lets a business offer a deal to a creator under one of its open
// campaigns. The deal opens pending until the creator accepts.
func (s *Service) CreateDeal(ctx context.Context, claims ports.AuthClaims, req CreateDealRequest) (domain.Deal, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.Deal{}, err
	}
	if actor.UserType != domain.UserTypeBusiness {
		return domain.Deal{}, fmt.Errorf("%w: only business accounts open deals", domain.ErrForbidden)
	}
	if err := domain.ValidateAgreedPrice(req.AgreedPrice); err != nil {
		return domain.Deal{}, err
	}
	campaign, err := s.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return domain.Deal{}, err
	}
	if campaign.BusinessID != actor.UserID {
		return domain.Deal{}, fmt.Errorf("%w: campaign belongs to another business", domain.ErrForbidden)
	}
	if campaign.Status != domain.CampaignStatusOpen {
		return domain.Deal{}, fmt.Errorf("%w: campaign is %s", domain.ErrInvalidTransition, campaign.Status)
	}
	creator, err := s.users.GetByID(ctx, req.CreatorID)
	if err != nil {
		return domain.Deal{}, err
	}
	if creator.UserType != domain.UserTypeCreator {
		return domain.Deal{}, fmt.Errorf("%w: deals are offered to creator accounts", domain.ErrInvalidInput)
	}

	deal, err := s.deals.Create(ctx, ports.CreateDealParams{
		CampaignID:  campaign.CampaignID,
		CreatorID:   creator.UserID,
		BusinessID:  actor.UserID,
		AgreedPrice: req.AgreedPrice,
		Notes:       req.Notes,
		Now:         s.nowFn(),
	})
	if err != nil {
		return domain.Deal{}, err
	}
	s.enqueueEvent(ctx, "deal.created", deal.DealID.String(), map[string]any{
		"deal_id":      deal.DealID.String(),
		"campaign_id":  deal.CampaignID.String(),
		"creator_id":   deal.CreatorID.String(),
		"business_id":  deal.BusinessID.String(),
		"agreed_price": deal.AgreedPrice,
	})
	return deal, nil
}

func (s *Service) GetDeal(ctx context.Context, claims ports.AuthClaims, dealID uuid.UUID) (domain.Deal, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.Deal{}, err
	}
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return domain.Deal{}, err
	}
	if !dealParticipant(deal, actor.UserID) {
		return domain.Deal{}, fmt.Errorf("%w: deal belongs to other parties", domain.ErrForbidden)
	}
	return deal, nil
}

func (s *Service) ListMyDeals(ctx context.Context, claims ports.AuthClaims) ([]domain.Deal, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return nil, err
	}
	return s.deals.ListByUserID(ctx, actor.UserID)
}

// AdvanceDealStatus applies one step of the deal lifecycle on behalf of a
// participant. Which side may request a given step is as fixed as the step
// order itself.
func (s *Service) AdvanceDealStatus(ctx context.Context, claims ports.AuthClaims, dealID uuid.UUID, req AdvanceDealRequest) (domain.Deal, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.Deal{}, err
	}
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return domain.Deal{}, err
	}
	if !dealParticipant(deal, actor.UserID) {
		return domain.Deal{}, fmt.Errorf("%w: deal belongs to other parties", domain.ErrForbidden)
	}
	if !req.Status.Valid() {
		return domain.Deal{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, req.Status)
	}
	if err := domain.ValidateAdvance(deal.Status, req.Status); err != nil {
		return domain.Deal{}, err
	}
	if err := checkAdvanceRole(deal, actor.UserID, req.Status); err != nil {
		return domain.Deal{}, err
	}

	now := s.nowFn()
	params := ports.AdvanceDealParams{
		DealID:    dealID,
		Status:    req.Status,
		Notes:     req.Notes,
		UpdatedAt: now,
	}
	if req.Status == domain.DealStatusCompleted {
		params.CompletedAt = &now
	}
	updated, err := s.deals.Advance(ctx, params, deal.Status)
	if err != nil {
		return domain.Deal{}, err
	}
	s.enqueueEvent(ctx, "deal.status_changed", updated.DealID.String(), map[string]any{
		"deal_id":     updated.DealID.String(),
		"from_status": string(deal.Status),
		"to_status":   string(updated.Status),
		"actor_id":    actor.UserID.String(),
	})
	return updated, nil
}

func dealParticipant(deal domain.Deal, userID uuid.UUID) bool {
	return deal.CreatorID == userID || deal.BusinessID == userID
}

// checkAdvanceRole pins each lifecycle step to the side that owns it.
// Cancellation and dispute are open to both participants.
func checkAdvanceRole(deal domain.Deal, actorID uuid.UUID, target domain.DealStatus) error {
	switch target {
	case domain.DealStatusCancelled, domain.DealStatusDisputed:
		return nil
	case domain.DealStatusAccepted:
		if actorID != deal.CreatorID {
			return fmt.Errorf("%w: only the creator accepts an offered deal", domain.ErrForbidden)
		}
	case domain.DealStatusContentSubmitted:
		if actorID != deal.CreatorID {
			return fmt.Errorf("%w: only the creator submits content", domain.ErrForbidden)
		}
	case domain.DealStatusPaymentPending, domain.DealStatusRevisionRequested,
		domain.DealStatusApproved, domain.DealStatusCompleted:
		if actorID != deal.BusinessID {
			return fmt.Errorf("%w: only the business moves a deal to %s", domain.ErrForbidden, target)
		}
	}
	return nil
}
