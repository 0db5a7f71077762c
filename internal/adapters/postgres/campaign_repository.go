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

type campaignRepository struct {
	db *gorm.DB
}

func (r *campaignRepository) Create(ctx context.Context, params ports.CreateCampaignParams) (domain.Campaign, error) {
	rec := campaignModel{
		BusinessID:   params.BusinessID,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Budget:       params.Budget,
		Deadline:     params.Deadline,
		Niche:        params.Niche,
		Status:       string(domain.CampaignStatusOpen),
		Deliverables: toJSONList(params.Deliverables),
		CreatedAt:    params.Now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Campaign{}, err
	}
	return toDomainCampaign(rec), nil
}

func (r *campaignRepository) GetByID(ctx context.Context, campaignID uuid.UUID) (domain.Campaign, error) {
	var rec campaignModel
	if err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, err
	}
	return toDomainCampaign(rec), nil
}

func (r *campaignRepository) Update(ctx context.Context, params ports.UpdateCampaignParams) (domain.Campaign, error) {
	updates := map[string]any{"updated_at": params.UpdatedAt}
	if params.Title != nil {
		updates["title"] = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		updates["description"] = strings.TrimSpace(*params.Description)
	}
	if params.Budget != nil {
		updates["budget"] = *params.Budget
	}
	if params.Deadline != nil {
		updates["deadline"] = *params.Deadline
	}
	if params.Niche != nil {
		updates["niche"] = *params.Niche
	}
	if params.Status != nil {
		updates["status"] = string(*params.Status)
	}
	if params.Deliverables != nil {
		updates["deliverables"] = toJSONList(params.Deliverables)
	}
	res := r.db.WithContext(ctx).Model(&campaignModel{}).Where("campaign_id = ?", params.CampaignID).Updates(updates)
	if res.Error != nil {
		return domain.Campaign{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.CampaignID)
}

func (r *campaignRepository) List(ctx context.Context, filter ports.CampaignListFilter) ([]domain.Campaign, int64, error) {
	q := r.db.WithContext(ctx).Model(&campaignModel{})
	if filter.BusinessID != nil {
		q = q.Where("business_id = ?", *filter.BusinessID)
	}
	if filter.Niche != "" {
		q = q.Where("niche = ?", filter.Niche)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.MaxBudget != nil {
		q = q.Where("budget <= ?", *filter.MaxBudget)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var recs []campaignModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Campaign, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainCampaign(rec))
	}
	return out, total, nil
}

func (r *campaignRepository) Delete(ctx context.Context, campaignID, businessID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("campaign_id = ? AND business_id = ?", campaignID, businessID).Delete(&campaignModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
