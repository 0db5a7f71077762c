package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

// InitiatePayment opens a pending ledger entry for a deal and returns the
// signed checkout form the business posts to the gateway. Nothing settles
// here; settlement only happens through the verified callback path.
func (s *Service) InitiatePayment(ctx context.Context, claims ports.AuthClaims, req InitiatePaymentRequest) (InitiatePaymentResponse, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return InitiatePaymentResponse{}, err
	}
	deal, err := s.deals.GetByID(ctx, req.DealID)
	if err != nil {
		return InitiatePaymentResponse{}, err
	}
	if actor.UserID != deal.BusinessID {
		return InitiatePaymentResponse{}, fmt.Errorf("%w: only the paying business initiates payment", domain.ErrForbidden)
	}
	if req.Amount != deal.AgreedPrice {
		return InitiatePaymentResponse{}, fmt.Errorf("%w: amount %.2f does not match agreed price %.2f",
			domain.ErrInvalidInput, req.Amount, deal.AgreedPrice)
	}
	if !deal.Status.CanConfirmPayment() {
		return InitiatePaymentResponse{}, fmt.Errorf("%w: deal is %s", domain.ErrInvalidTransition, deal.Status)
	}

	now := s.nowFn()
	payment, err := s.payments.Create(ctx, ports.CreatePaymentParams{
		PaymentID: uuid.New(),
		DealID:    deal.DealID,
		Amount:    req.Amount,
		Now:       now,
	})
	if err != nil {
		return InitiatePaymentResponse{}, err
	}

	form, err := s.signer.BuildForm(payment.PaymentID.String(), payment.Amount)
	if err != nil {
		return InitiatePaymentResponse{}, err
	}

	s.logger.InfoContext(ctx, "payment initiated",
		"module", "application",
		"layer", "application",
		"operation", "initiate_payment",
		"outcome", "success",
		"deal_id", deal.DealID.String(),
		"payment_id", payment.PaymentID.String(),
	)
	return InitiatePaymentResponse{
		PaymentID:        payment.PaymentID,
		GatewayURL:       form.GatewayURL,
		Amount:           payment.Amount,
		TaxAmount:        0,
		TotalAmount:      payment.Amount,
		TransactionUUID:  payment.PaymentID.String(),
		ProductCode:      form.ProductCode,
		SuccessURL:       form.SuccessURL,
		FailureURL:       form.FailureURL,
		SignedFieldNames: form.SignedFieldNames,
		Signature:        form.Signature,
	}, nil
}

// ProcessCallback absorbs the gateway redirect. The payload is untrusted: the
// only thing it is allowed to do is point at a ledger entry, which is then
// re-verified against the gateway before anything settles. A nil result means
// the payload could not be tied to any payment.
func (s *Service) ProcessCallback(ctx context.Context, encodedData string) (*CallbackResult, error) {
	payload, err := s.decoder.DecodeCallback(encodedData)
	if err != nil {
		s.logger.WarnContext(ctx, "undecodable gateway callback",
			"module", "application",
			"layer", "application",
			"operation", "process_callback",
			"outcome", "rejected",
			"error", err,
		)
		return nil, nil
	}

	paymentID, err := uuid.Parse(payload.TransactionUUID)
	if err != nil {
		return nil, nil
	}
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if payment.Settled() {
		// Gateways retry redirects; the first settlement wins and repeats
		// observe it unchanged.
		return &CallbackResult{Payment: payment, Confirmed: payment.Status == domain.PaymentStatusEscrow}, nil
	}

	confirmed, verifyErr := s.gateway.VerifyTransaction(ctx, payload.TransactionCode, payment.Amount)
	if verifyErr != nil {
		// Transport-level ambiguity. Distinguishable in the logs from a real
		// decline, but it never confirms a payment.
		s.logger.WarnContext(ctx, "gateway verification unreachable",
			"module", "application",
			"layer", "application",
			"operation", "process_callback",
			"outcome", "unverified",
			"payment_id", payment.PaymentID.String(),
			"error", verifyErr,
		)
	}

	if confirmed && payload.Complete {
		return s.settle(ctx, payment, payload.TransactionCode)
	}
	return s.fail(ctx, payment)
}

// VerifyPayment re-runs the gateway status query on demand for an
// authenticated caller. It reports, it never settles.
func (s *Service) VerifyPayment(ctx context.Context, claims ports.AuthClaims, transactionCode string, amount float64) (bool, error) {
	if _, err := s.actor(ctx, claims); err != nil {
		return false, err
	}
	confirmed, err := s.gateway.VerifyTransaction(ctx, transactionCode, amount)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}
	return confirmed, nil
}

func (s *Service) GetPayment(ctx context.Context, claims ports.AuthClaims, paymentID uuid.UUID) (domain.Payment, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return domain.Payment{}, err
	}
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	deal, err := s.deals.GetByID(ctx, payment.DealID)
	if err != nil {
		return domain.Payment{}, err
	}
	if !dealParticipant(deal, actor.UserID) {
		return domain.Payment{}, fmt.Errorf("%w: payment belongs to other parties", domain.ErrForbidden)
	}
	return payment, nil
}

func (s *Service) ListDealPayments(ctx context.Context, claims ports.AuthClaims, dealID uuid.UUID) ([]domain.Payment, error) {
	actor, err := s.actor(ctx, claims)
	if err != nil {
		return nil, err
	}
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !dealParticipant(deal, actor.UserID) {
		return nil, fmt.Errorf("%w: deal belongs to other parties", domain.ErrForbidden)
	}
	return s.payments.ListByDealID(ctx, dealID)
}

func (s *Service) settle(ctx context.Context, payment domain.Payment, gatewayRef string) (*CallbackResult, error) {
	now := s.nowFn()
	settled, applied, err := s.payments.Settle(ctx, ports.SettlePaymentParams{
		PaymentID:    payment.PaymentID,
		GatewayRefID: gatewayRef,
		PaidAt:       now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// The deal died between initiation and confirmation; the money
			// never enters escrow on a dead deal.
			failed, _, failErr := s.payments.MarkFailed(ctx, payment.PaymentID)
			if failErr != nil {
				return nil, failErr
			}
			s.enqueuePaymentEvent(ctx, "payment.failed", failed)
			return &CallbackResult{Payment: failed, Confirmed: false}, nil
		}
		return nil, err
	}
	if applied {
		s.logger.InfoContext(ctx, "payment settled into escrow",
			"module", "application",
			"layer", "application",
			"operation", "process_callback",
			"outcome", "success",
			"payment_id", settled.PaymentID.String(),
			"deal_id", settled.DealID.String(),
		)
		s.enqueuePaymentEvent(ctx, "payment.escrowed", settled)
		s.enqueueEvent(ctx, "deal.status_changed", settled.DealID.String(), map[string]any{
			"deal_id":   settled.DealID.String(),
			"to_status": string(domain.DealStatusInProgress),
			"reason":    "payment_escrowed",
		})
	}
	return &CallbackResult{Payment: settled, Confirmed: settled.Status == domain.PaymentStatusEscrow}, nil
}

func (s *Service) fail(ctx context.Context, payment domain.Payment) (*CallbackResult, error) {
	failed, applied, err := s.payments.MarkFailed(ctx, payment.PaymentID)
	if err != nil {
		return nil, err
	}
	if applied {
		s.logger.InfoContext(ctx, "payment declined",
			"module", "application",
			"layer", "application",
			"operation", "process_callback",
			"outcome", "declined",
			"payment_id", failed.PaymentID.String(),
		)
		s.enqueuePaymentEvent(ctx, "payment.failed", failed)
	}
	return &CallbackResult{Payment: failed, Confirmed: failed.Status == domain.PaymentStatusEscrow}, nil
}

func (s *Service) enqueuePaymentEvent(ctx context.Context, eventType string, payment domain.Payment) {
	s.enqueueEvent(ctx, eventType, payment.DealID.String(), map[string]any{
		"payment_id":     payment.PaymentID.String(),
		"deal_id":        payment.DealID.String(),
		"amount":         payment.Amount,
		"status":         string(payment.Status),
		"gateway_ref_id": payment.GatewayRefID,
	})
}
