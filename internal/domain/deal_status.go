package domain

import "fmt"

type DealStatus string

const (
	DealStatusPending           DealStatus = "pending"
	DealStatusAccepted          DealStatus = "accepted"
	DealStatusInProgress        DealStatus = "in_progress"
	DealStatusContentSubmitted  DealStatus = "content_submitted"
	DealStatusRevisionRequested DealStatus = "revision_requested"
	DealStatusApproved          DealStatus = "approved"
	DealStatusPaymentPending    DealStatus = "payment_pending"
	DealStatusCompleted         DealStatus = "completed"
	DealStatusCancelled         DealStatus = "cancelled"
	DealStatusDisputed          DealStatus = "disputed"
)

// advanceTable is the legality table for the general advance path. A deal
// enters in_progress only through ConfirmPayment — the transition is reserved
// for confirmed escrow settlement and is deliberately absent here, so a client
// can never self-declare payment receipt.
var advanceTable = map[DealStatus][]DealStatus{
	DealStatusPending:           {DealStatusAccepted, DealStatusCancelled},
	DealStatusAccepted:          {DealStatusPaymentPending, DealStatusCancelled},
	DealStatusPaymentPending:    {DealStatusCancelled},
	DealStatusInProgress:        {DealStatusContentSubmitted, DealStatusCancelled},
	DealStatusContentSubmitted:  {DealStatusRevisionRequested, DealStatusApproved},
	DealStatusRevisionRequested: {DealStatusContentSubmitted},
	DealStatusApproved:          {DealStatusCompleted},
}

// paymentConfirmable lists the states a deal may be in when a confirmed
// escrow payment drives it into in_progress.
var paymentConfirmable = map[DealStatus]struct{}{
	DealStatusPending:        {},
	DealStatusAccepted:       {},
	DealStatusPaymentPending: {},
}

func (s DealStatus) Valid() bool {
	switch s {
	case DealStatusPending, DealStatusAccepted, DealStatusInProgress,
		DealStatusContentSubmitted, DealStatusRevisionRequested, DealStatusApproved,
		DealStatusPaymentPending, DealStatusCompleted, DealStatusCancelled, DealStatusDisputed:
		return true
	}
	return false
}

func (s DealStatus) Terminal() bool {
	return s == DealStatusCompleted || s == DealStatusCancelled
}

// CanAdvance reports whether the general advance path permits s -> target.
// Disputed is a side branch reachable from any non-terminal state.
func (s DealStatus) CanAdvance(target DealStatus) bool {
	if !target.Valid() {
		return false
	}
	if target == DealStatusDisputed {
		return !s.Terminal() && s != DealStatusDisputed
	}
	for _, allowed := range advanceTable[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CanConfirmPayment reports whether a confirmed escrow settlement may move the
// deal into in_progress from its current state.
func (s DealStatus) CanConfirmPayment() bool {
	_, ok := paymentConfirmable[s]
	return ok
}

// ValidateAdvance returns ErrInvalidTransition with a caller-readable message
// when the general path does not permit s -> target.
func ValidateAdvance(s, target DealStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(target))
	}
	if !s.CanAdvance(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, string(s), string(target))
	}
	return nil
}
