package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

type CreateReviewRequest struct {
	DealID  uuid.UUID `json:"deal_id"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment,omitempty"`
}

// CreateReview lets one party of a completed deal rate the other, once.
func (s *Service) CreateReview(ctx context.Context, claims ports.AuthClaims, req CreateReviewRequest) (domain.Review, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.Review{}, err
	}
	if err := domain.ValidateRating(req.Rating); err != nil {
		return domain.Review{}, err
	}
	deal, err := s.deals.GetByID(ctx, req.DealID)
	if err != nil {
		return domain.Review{}, err
	}
	if !dealParticipant(deal, actor.UserID) {
		return domain.Review{}, fmt.Errorf("%w: deal belongs to other parties", domain.ErrForbidden)
	}
	if deal.Status != domain.DealStatusCompleted {
		return domain.Review{}, fmt.Errorf("%w: reviews open once the deal completes", domain.ErrInvalidTransition)
	}
	exists, err := s.reviews.ExistsForDealAndAuthor(ctx, deal.DealID, actor.UserID)
	if err != nil {
		return domain.Review{}, err
	}
	if exists {
		return domain.Review{}, fmt.Errorf("%w: review already submitted for this deal", domain.ErrConflict)
	}

	toUserID := deal.CreatorID
	if actor.UserID == deal.CreatorID {
		toUserID = deal.BusinessID
	}
	review, err := s.reviews.Create(ctx, ports.CreateReviewParams{
		DealID:     deal.DealID,
		FromUserID: actor.UserID,
		ToUserID:   toUserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Now:        s.nowFn(),
	})
	if err != nil {
		return domain.Review{}, err
	}
	s.enqueueEvent(ctx, "review.created", toUserID.String(), map[string]any{
		"review_id":    review.ReviewID.String(),
		"deal_id":      review.DealID.String(),
		"from_user_id": review.FromUserID.String(),
		"to_user_id":   review.ToUserID.String(),
		"rating":       review.Rating,
	})
	return review, nil
}

func (s *Service) ListUserReviews(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Review, error) {
	return s.reviews.ListByUserID(ctx, userID, limit)
}
