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

type creatorProfileRepository struct {
	db *gorm.DB
}

func (r *creatorProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.CreatorProfile, error) {
	var rec creatorProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CreatorProfile{}, domain.ErrNotFound
		}
		return domain.CreatorProfile{}, err
	}
	return toDomainCreatorProfile(rec), nil
}

func (r *creatorProfileRepository) Put(ctx context.Context, params ports.PutCreatorProfileParams) (domain.CreatorProfile, error) {
	var rec creatorProfileModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		takeErr := tx.Where("user_id = ?", params.UserID).Take(&rec).Error
		if errors.Is(takeErr, gorm.ErrRecordNotFound) {
			rec = creatorProfileModel{
				UserID:    params.UserID,
				Niches:    "[]",
				CreatedAt: params.Now,
			}
			applyProfileParams(&rec, params)
			return tx.Create(&rec).Error
		}
		if takeErr != nil {
			return takeErr
		}
		applyProfileParams(&rec, params)
		rec.UpdatedAt = &params.Now
		return tx.Save(&rec).Error
	})
	if err != nil {
		return domain.CreatorProfile{}, err
	}
	return toDomainCreatorProfile(rec), nil
}

func applyProfileParams(rec *creatorProfileModel, params ports.PutCreatorProfileParams) {
	if params.Bio != nil {
		rec.Bio = strings.TrimSpace(*params.Bio)
	}
	if params.InstagramURL != nil {
		rec.InstagramURL = *params.InstagramURL
	}
	if params.TikTokURL != nil {
		rec.TikTokURL = *params.TikTokURL
	}
	if params.YouTubeURL != nil {
		rec.YouTubeURL = *params.YouTubeURL
	}
	if params.FollowersCount != nil {
		rec.FollowersCount = *params.FollowersCount
	}
	if params.EngagementRate != nil {
		rec.EngagementRate = params.EngagementRate
	}
	if params.HourlyRate != nil {
		rec.HourlyRate = params.HourlyRate
	}
	if params.Niches != nil {
		rec.Niches = toJSONList(params.Niches)
	}
	if params.PortfolioURLs != nil {
		rec.PortfolioURLs = toJSONList(params.PortfolioURLs)
	}
}

func (r *creatorProfileRepository) Search(ctx context.Context, filter ports.CreatorSearchFilter) ([]domain.CreatorProfile, int64, error) {
	q := r.db.WithContext(ctx).Model(&creatorProfileModel{})
	if filter.Niche != "" {
		q = q.Where("niches LIKE ?", "%\""+filter.Niche+"\"%")
	}
	if filter.MinFollowers > 0 {
		q = q.Where("followers_count >= ?", filter.MinFollowers)
	}
	if filter.MaxHourly != nil {
		q = q.Where("hourly_rate IS NOT NULL AND hourly_rate <= ?", *filter.MaxHourly)
	}
	if filter.VerifiedOnly {
		q = q.Where("is_verified = TRUE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var recs []creatorProfileModel
	if err := q.Order("followers_count DESC").Limit(limit).Offset(filter.Offset).Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.CreatorProfile, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainCreatorProfile(rec))
	}
	return out, total, nil
}
