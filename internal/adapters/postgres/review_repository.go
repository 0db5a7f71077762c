package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

func (r *reviewRepository) Create(ctx context.Context, params ports.CreateReviewParams) (domain.Review, error) {
	rec := reviewModel{
		DealID:     params.DealID,
		FromUserID: params.FromUserID,
		ToUserID:   params.ToUserID,
		Rating:     params.Rating,
		Comment:    strings.TrimSpace(params.Comment),
		CreatedAt:  params.Now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Review{}, fmt.Errorf("%w: review for deal %s already submitted", domain.ErrConflict, params.DealID)
		}
		return domain.Review{}, err
	}
	return toDomainReview(rec), nil
}

func (r *reviewRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var recs []reviewModel
	err := r.db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainReview(rec))
	}
	return out, nil
}

func (r *reviewRepository) ExistsForDealAndAuthor(ctx context.Context, dealID, fromUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Where("deal_id = ? AND from_user_id = ?", dealID, fromUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
