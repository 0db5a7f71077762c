package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func (r *paymentRepository) Create(ctx context.Context, params ports.CreatePaymentParams) (domain.Payment, error) {
	rec := paymentModel{
		PaymentID: params.PaymentID,
		DealID:    params.DealID,
		Amount:    params.Amount,
		Status:    string(domain.PaymentStatusPending),
		CreatedAt: params.Now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Payment{}, fmt.Errorf("%w: payment %s already exists", domain.ErrConflict, params.PaymentID)
		}
		return domain.Payment{}, err
	}
	return toDomainPayment(rec), nil
}

func (r *paymentRepository) GetByID(ctx context.Context, paymentID uuid.UUID) (domain.Payment, error) {
	var rec paymentModel
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, err
	}
	return toDomainPayment(rec), nil
}

func (r *paymentRepository) ListByDealID(ctx context.Context, dealID uuid.UUID) ([]domain.Payment, error) {
	var recs []paymentModel
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainPayment(rec))
	}
	return out, nil
}

func (r *paymentRepository) Settle(ctx context.Context, params ports.SettlePaymentParams) (domain.Payment, bool, error) {
	var settled paymentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&paymentModel{}).
			Where("payment_id = ? AND status = ?", params.PaymentID, string(domain.PaymentStatusPending)).
			Updates(map[string]any{
				"status":         string(domain.PaymentStatusEscrow),
				"gateway_ref_id": params.GatewayRefID,
				"paid_at":        params.PaidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already left pending, or the payment never existed.
			if err := tx.Where("payment_id = ?", params.PaymentID).Take(&settled).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}
			return errAlreadySettled
		}
		if err := tx.Where("payment_id = ?", params.PaymentID).Take(&settled).Error; err != nil {
			return err
		}

		var deal dealModel
		if err := tx.Where("deal_id = ?", settled.DealID).Take(&deal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: deal %s for payment %s", domain.ErrNotFound, settled.DealID, params.PaymentID)
			}
			return err
		}
		status := domain.DealStatus(deal.Status)
		switch {
		case status.CanConfirmPayment():
			res := tx.Model(&dealModel{}).
				Where("deal_id = ? AND status = ?", deal.DealID, deal.Status).
				Updates(map[string]any{
					"status":     string(domain.DealStatusInProgress),
					"updated_at": params.PaidAt,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: deal %s moved during settlement", domain.ErrConflict, deal.DealID)
			}
		case dealPastConfirmation(status):
			// A previous settlement already carried the deal forward.
		default:
			return fmt.Errorf("%w: deal %s is %s", domain.ErrInvalidTransition, deal.DealID, deal.Status)
		}
		return nil
	})
	if errors.Is(err, errAlreadySettled) {
		return toDomainPayment(settled), false, nil
	}
	if err != nil {
		return domain.Payment{}, false, err
	}
	return toDomainPayment(settled), true, nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, paymentID uuid.UUID) (domain.Payment, bool, error) {
	var rec paymentModel
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&paymentModel{}).
			Where("payment_id = ? AND status = ?", paymentID, string(domain.PaymentStatusPending)).
			Update("status", string(domain.PaymentStatusFailed))
		if res.Error != nil {
			return res.Error
		}
		applied = res.RowsAffected > 0
		if err := tx.Where("payment_id = ?", paymentID).Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Payment{}, false, err
	}
	return toDomainPayment(rec), applied, nil
}

// errAlreadySettled is internal transaction plumbing: it rolls the settlement
// back without surfacing as a caller error.
var errAlreadySettled = errors.New("payment already settled")

// dealPastConfirmation reports whether the deal has already absorbed a
// payment confirmation, so a duplicate settlement leaves it alone.
func dealPastConfirmation(status domain.DealStatus) bool {
	switch status {
	case domain.DealStatusInProgress, domain.DealStatusContentSubmitted,
		domain.DealStatusRevisionRequested, domain.DealStatusApproved,
		domain.DealStatusCompleted:
		return true
	}
	return false
}
