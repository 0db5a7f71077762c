package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

func TestInitiatePaymentOpensPendingLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	deal := env.seedDeal(domain.DealStatusAccepted, 500)

	resp, err := env.svc.InitiatePayment(context.Background(), claimsFor(env.business), InitiatePaymentRequest{
		DealID: deal.DealID,
		Amount: 500,
	})
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if resp.TransactionUUID != resp.PaymentID.String() {
		t.Fatalf("transaction uuid %q does not match payment id %s", resp.TransactionUUID, resp.PaymentID)
	}
	if resp.TotalAmount != 500 || resp.TaxAmount != 0 {
		t.Fatalf("unexpected amounts: total %.2f tax %.2f", resp.TotalAmount, resp.TaxAmount)
	}
	if resp.Signature == "" || resp.SignedFieldNames == "" || resp.GatewayURL == "" {
		t.Fatalf("form fields incomplete: %+v", resp)
	}
	if got := env.paymentStatus(t, resp.PaymentID); got != domain.PaymentStatusPending {
		t.Fatalf("new payment status = %s, want pending", got)
	}
	// Initiation opens a ledger entry and nothing else; the deal only moves
	// once the gateway confirms.
	if got := env.dealStatus(t, deal.DealID); got != domain.DealStatusAccepted {
		t.Fatalf("initiation mutated the deal: %s", got)
	}
}

func TestInitiatePaymentForbiddenForCreator(t *testing.T) {
	env := newTestEnv(t)
	deal := env.seedDeal(domain.DealStatusAccepted, 500)

	_, err := env.svc.InitiatePayment(context.Background(), claimsFor(env.creator), InitiatePaymentRequest{
		DealID: deal.DealID,
		Amount: 500,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestInitiatePaymentAmountMustMatchAgreedPrice(t *testing.T) {
	env := newTestEnv(t)
	deal := env.seedDeal(domain.DealStatusAccepted, 500)

	_, err := env.svc.InitiatePayment(context.Background(), claimsFor(env.business), InitiatePaymentRequest{
		DealID: deal.DealID,
		Amount: 499.99,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
	if len(env.store.payments) != 0 {
		t.Fatalf("mismatched amount must not open a ledger entry")
	}
}

func TestInitiatePaymentRejectsNonConfirmableDeal(t *testing.T) {
	env := newTestEnv(t)
	for _, status := range []domain.DealStatus{
		domain.DealStatusInProgress,
		domain.DealStatusCompleted,
		domain.DealStatusCancelled,
		domain.DealStatusDisputed,
	} {
		deal := env.seedDeal(status, 500)
		_, err := env.svc.InitiatePayment(context.Background(), claimsFor(env.business), InitiatePaymentRequest{
			DealID: deal.DealID,
			Amount: 500,
		})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("status %s: want ErrInvalidTransition, got %v", status, err)
		}
	}
}

func TestInitiatePaymentUnknownDeal(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.InitiatePayment(context.Background(), claimsFor(env.business), InitiatePaymentRequest{
		DealID: uuid.New(),
		Amount: 500,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// initiate opens a payment for the deal and registers a gateway callback for
// it under the returned encoded key.
func initiate(t *testing.T, env *testEnv, deal domain.Deal, complete bool) (uuid.UUID, string) {
	t.Helper()
	resp, err := env.svc.InitiatePayment(context.Background(), claimsFor(env.business), InitiatePaymentRequest{
		DealID: deal.DealID,
		Amount: deal.AgreedPrice,
	})
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	encoded := "cb-" + resp.PaymentID.String()
	env.decoder.callbacks[encoded] = ports.GatewayCallback{
		TransactionUUID: resp.TransactionUUID,
		TransactionCode: "000BHL",
		Complete:        complete,
	}
	return resp.PaymentID, encoded
}

func TestProcessCallbackSettlesIntoEscrow(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.confirmed = true
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	_, encoded := initiate(t, env, deal, true)

	result, err := env.svc.ProcessCallback(context.Background(), encoded)
	if err != nil {
		t.Fatalf("ProcessCallback: %v", err)
	}
	if result == nil || !result.Confirmed {
		t.Fatalf("want confirmed result, got %+v", result)
	}
	if result.Payment.Status != domain.PaymentStatusEscrow {
		t.Fatalf("payment status = %s, want escrow", result.Payment.Status)
	}
	if result.Payment.GatewayRefID != "000BHL" {
		t.Fatalf("gateway ref = %q, want 000BHL", result.Payment.GatewayRefID)
	}
	if result.Payment.PaidAt == nil {
		t.Fatalf("settled payment has no paid_at")
	}
	if got := env.dealStatus(t, deal.DealID); got != domain.DealStatusInProgress {
		t.Fatalf("deal status = %s, want in_progress", got)
	}
	// The verify query carries the gateway's transaction code, not our uuid.
	if len(env.gateway.refs) != 1 || env.gateway.refs[0] != "000BHL" {
		t.Fatalf("gateway verified against %v, want [000BHL]", env.gateway.refs)
	}
	if env.gateway.amounts[0] != 500 {
		t.Fatalf("gateway verified amount %.2f, want 500", env.gateway.amounts[0])
	}

	events := env.store.eventTypes()
	if countEvents(events, "payment.escrowed") != 1 {
		t.Fatalf("want one payment.escrowed event, got %v", events)
	}
	if countEvents(events, "deal.status_changed") != 1 {
		t.Fatalf("want one deal.status_changed event, got %v", events)
	}
}

func TestProcessCallbackIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.confirmed = true
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	_, encoded := initiate(t, env, deal, true)

	first, err := env.svc.ProcessCallback(context.Background(), encoded)
	if err != nil {
		t.Fatalf("first callback: %v", err)
	}
	eventsAfterFirst := len(env.store.eventTypes())

	second, err := env.svc.ProcessCallback(context.Background(), encoded)
	if err != nil {
		t.Fatalf("second callback: %v", err)
	}
	if !second.Confirmed || second.Payment.Status != domain.PaymentStatusEscrow {
		t.Fatalf("replayed callback changed outcome: %+v", second)
	}
	if second.Payment.PaymentID != first.Payment.PaymentID {
		t.Fatalf("replay returned a different payment")
	}
	if len(env.gateway.refs) != 1 {
		t.Fatalf("replay should not re-verify, gateway called %d times", len(env.gateway.refs))
	}
	if got := len(env.store.eventTypes()); got != eventsAfterFirst {
		t.Fatalf("replay emitted %d extra events", got-eventsAfterFirst)
	}
}

func TestProcessCallbackDeclinedMarksFailed(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.confirmed = false
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	paymentID, encoded := initiate(t, env, deal, true)

	result, err := env.svc.ProcessCallback(context.Background(), encoded)
	if err != nil {
		t.Fatalf("ProcessCallback: %v", err)
	}
	if result.Confirmed {
		t.Fatalf("declined payment reported confirmed")
	}
	if got := env.paymentStatus(t, paymentID); got != domain.PaymentStatusFailed {
		t.Fatalf("payment status = %s, want failed", got)
	}
	// A failed payment never moves the deal.
	if got := env.dealStatus(t, deal.DealID); got != domain.DealStatusAccepted {
		t.Fatalf("deal status = %s, want accepted untouched", got)
	}
	if countEvents(env.store.eventTypes(), "payment.failed") != 1 {
		t.Fatalf("want one payment.failed event, got %v", env.store.eventTypes())
	}
}

func TestProcessCallbackIncompleteStatusMarksFailed(t *testing.T) {
	env := newTestEnv(t)
	// Gateway confirms the transaction exists but the payload itself does not
	// carry COMPLETE: still not a settlement.
	env.gateway.confirmed = true
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	paymentID, encoded := initiate(t, env, deal, false)

	result, err := env.svc.ProcessCallback(context.Background(), encoded)
	if err != nil {
		t.Fatalf("ProcessCallback: %v", err)
	}
	if result.Confirmed {
		t.Fatalf("incomplete callback reported confirmed")
	}
	if got := env.paymentStatus(t, paymentID); got != domain.PaymentStatusFailed {
		t.Fatalf("payment status = %s, want failed", got)
	}
}

func TestProcessCallbackGatewayOutageNeverConfirms(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.err = fmt.Errorf("dial tcp: connection refused")
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	paymentID, encoded := initiate(t, env, deal, true)

	result, err := env.svc.ProcessCallback(context.Background(), encoded)
	if err != nil {
		t.Fatalf("ProcessCallback: %v", err)
	}
	if result.Confirmed {
		t.Fatalf("unverifiable payment reported confirmed")
	}
	if got := env.paymentStatus(t, paymentID); got != domain.PaymentStatusFailed {
		t.Fatalf("payment status = %s, want failed", got)
	}
	if got := env.dealStatus(t, deal.DealID); got != domain.DealStatusAccepted {
		t.Fatalf("deal status = %s, want accepted untouched", got)
	}
}

func TestProcessCallbackUndecodablePayload(t *testing.T) {
	env := newTestEnv(t)
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	paymentID, _ := initiate(t, env, deal, true)

	result, err := env.svc.ProcessCallback(context.Background(), "not-registered")
	if err != nil {
		t.Fatalf("ProcessCallback: %v", err)
	}
	if result != nil {
		t.Fatalf("undecodable payload produced a result: %+v", result)
	}
	if got := env.paymentStatus(t, paymentID); got != domain.PaymentStatusPending {
		t.Fatalf("garbage callback touched the payment: %s", got)
	}
}

func TestProcessCallbackUnknownTransaction(t *testing.T) {
	env := newTestEnv(t)
	env.decoder.callbacks["cb-orphan"] = ports.GatewayCallback{
		TransactionUUID: uuid.New().String(),
		TransactionCode: "000BHL",
		Complete:        true,
	}
	env.decoder.callbacks["cb-mangled"] = ports.GatewayCallback{
		TransactionUUID: "not-a-uuid",
		TransactionCode: "000BHL",
		Complete:        true,
	}

	for _, encoded := range []string{"cb-orphan", "cb-mangled"} {
		result, err := env.svc.ProcessCallback(context.Background(), encoded)
		if err != nil {
			t.Fatalf("%s: %v", encoded, err)
		}
		if result != nil {
			t.Fatalf("%s: orphan callback produced a result: %+v", encoded, result)
		}
	}
	if len(env.gateway.refs) != 0 {
		t.Fatalf("orphan callbacks must not reach the gateway")
	}
}

func TestProcessCallbackDeadDealFailsPayment(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.confirmed = true
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	paymentID, encoded := initiate(t, env, deal, true)

	// The deal dies between initiation and the gateway redirect.
	env.store.mu.Lock()
	cancelled := env.store.deals[deal.DealID]
	cancelled.Status = domain.DealStatusCancelled
	env.store.deals[deal.DealID] = cancelled
	env.store.mu.Unlock()

	result, err := env.svc.ProcessCallback(context.Background(), encoded)
	if err != nil {
		t.Fatalf("ProcessCallback: %v", err)
	}
	if result.Confirmed {
		t.Fatalf("money entered escrow on a cancelled deal")
	}
	if got := env.paymentStatus(t, paymentID); got != domain.PaymentStatusFailed {
		t.Fatalf("payment status = %s, want failed", got)
	}
	if got := env.dealStatus(t, deal.DealID); got != domain.DealStatusCancelled {
		t.Fatalf("deal status = %s, want cancelled untouched", got)
	}
	events := env.store.eventTypes()
	if countEvents(events, "payment.failed") != 1 || countEvents(events, "payment.escrowed") != 0 {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestVerifyPaymentWrapsGatewayErrors(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.err = fmt.Errorf("dial tcp: i/o timeout")

	_, err := env.svc.VerifyPayment(context.Background(), claimsFor(env.business), "000BHL", 500)
	if !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("want ErrVerificationFailed, got %v", err)
	}
}

func TestGetPaymentRestrictedToParticipants(t *testing.T) {
	env := newTestEnv(t)
	deal := env.seedDeal(domain.DealStatusAccepted, 500)
	paymentID, _ := initiate(t, env, deal, true)

	outsider, err := env.svc.SyncUser(context.Background(), ports.AuthClaims{SubjectID: "ext-other", Email: "other@example.com"}, SyncUserRequest{
		FullName: "Omar Other",
		UserType: domain.UserTypeBusiness,
	})
	if err != nil {
		t.Fatalf("SyncUser: %v", err)
	}

	if _, err := env.svc.GetPayment(context.Background(), claimsFor(env.creator), paymentID); err != nil {
		t.Fatalf("participant read: %v", err)
	}
	_, err = env.svc.GetPayment(context.Background(), ports.AuthClaims{SubjectID: outsider.ExternalUID}, paymentID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden for outsider, got %v", err)
	}
}
