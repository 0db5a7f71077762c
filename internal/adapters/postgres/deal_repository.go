package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
	"gorm.io/gorm"
)

type dealRepository struct {
	db *gorm.DB
}

func (r *dealRepository) Create(ctx context.Context, params ports.CreateDealParams) (domain.Deal, error) {
	rec := dealModel{
		CampaignID:  params.CampaignID,
		CreatorID:   params.CreatorID,
		BusinessID:  params.BusinessID,
		AgreedPrice: params.AgreedPrice,
		Status:      string(domain.DealStatusPending),
		Notes:       strings.TrimSpace(params.Notes),
		CreatedAt:   params.Now,
		UpdatedAt:   params.Now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Deal{}, err
	}
	return toDomainDeal(rec), nil
}

func (r *dealRepository) GetByID(ctx context.Context, dealID uuid.UUID) (domain.Deal, error) {
	var rec dealModel
	if err := r.db.WithContext(ctx).Where("deal_id = ?", dealID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Deal{}, domain.ErrNotFound
		}
		return domain.Deal{}, err
	}
	return toDomainDeal(rec), nil
}

func (r *dealRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Deal, error) {
	var recs []dealModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ? OR business_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Deal, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainDeal(rec))
	}
	return out, nil
}

func (r *dealRepository) Advance(ctx context.Context, params ports.AdvanceDealParams, expected domain.DealStatus) (domain.Deal, error) {
	updates := map[string]any{
		"status":     string(params.Status),
		"updated_at": params.UpdatedAt,
	}
	if params.Notes != nil {
		updates["notes"] = strings.TrimSpace(*params.Notes)
	}
	if params.CompletedAt != nil {
		updates["completed_at"] = *params.CompletedAt
	}
	res := r.db.WithContext(ctx).Model(&dealModel{}).
		Where("deal_id = ? AND status = ?", params.DealID, string(expected)).
		Updates(updates)
	if res.Error != nil {
		return domain.Deal{}, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the row is gone or a concurrent transition won; reload to
		// tell the two apart.
		if _, err := r.GetByID(ctx, params.DealID); err != nil {
			return domain.Deal{}, err
		}
		return domain.Deal{}, domain.ErrConflict
	}
	return r.GetByID(ctx, params.DealID)
}
