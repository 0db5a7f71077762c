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

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) UpsertByExternalUID(ctx context.Context, params ports.UpsertUserParams) (domain.User, error) {
	externalUID := strings.TrimSpace(params.ExternalUID)
	var rec userModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		takeErr := tx.Where("external_uid = ?", externalUID).Take(&rec).Error
		if takeErr == nil {
			// Existing account: refresh the mutable identity-provider fields only.
			updates := map[string]any{"updated_at": params.Now}
			if params.Email != "" {
				updates["email"] = params.Email
			}
			if err := tx.Model(&userModel{}).Where("user_id = ?", rec.UserID).Updates(updates).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ?", rec.UserID).Take(&rec).Error
		}
		if !errors.Is(takeErr, gorm.ErrRecordNotFound) {
			return takeErr
		}
		rec = userModel{
			ExternalUID: externalUID,
			Email:       params.Email,
			FullName:    params.FullName,
			UserType:    string(params.UserType),
			CreatedAt:   params.Now,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByExternalUID(ctx context.Context, externalUID string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("external_uid = ?", strings.TrimSpace(externalUID)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) Update(ctx context.Context, params ports.UpdateUserParams) (domain.User, error) {
	updates := map[string]any{"updated_at": params.UpdatedAt}
	if params.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*params.FullName)
	}
	if params.ProfileImageURL != nil {
		updates["profile_image_url"] = *params.ProfileImageURL
	}
	if params.Location != nil {
		updates["location"] = strings.TrimSpace(*params.Location)
	}
	if params.Phone != nil {
		updates["phone"] = strings.TrimSpace(*params.Phone)
	}
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("user_id = ?", params.UserID).Updates(updates)
	if res.Error != nil {
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.UserID)
}
