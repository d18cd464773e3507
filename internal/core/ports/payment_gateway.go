package ports

import (
	"context"

	"shipbook/internal/core/domain/model/kernel"
)

// CheckoutOutcome describes how an interactive checkout ended.
type CheckoutOutcome int

const (
	// CheckoutOutcomeUnknown is the zero value and never a valid result.
	CheckoutOutcomeUnknown CheckoutOutcome = iota
	// CheckoutCompleted means the payer finished the payment flow and the
	// result carries evidence to verify server-side.
	CheckoutCompleted
	// CheckoutDismissed means the payer abandoned the flow without paying.
	CheckoutDismissed
)

// CheckoutResult is the tagged outcome of OpenCheckout. Evidence is only
// meaningful when Outcome is CheckoutCompleted.
type CheckoutResult struct {
	Outcome  CheckoutOutcome
	Evidence string
}

// VerificationStatus is the provider's server-side verdict on a payment.
type VerificationStatus int

const (
	// VerificationUnknown is the zero value and never a valid result.
	VerificationUnknown VerificationStatus = iota
	// VerificationSucceeded means the charge settled.
	VerificationSucceeded
	// VerificationRejected means the charge failed or was reversed.
	VerificationRejected
	// VerificationPending means the provider has not settled the charge yet.
	VerificationPending
)

// PaymentIntent is a provider-side payment record created before the payer
// is shown any payment UI.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentGateway abstracts the payment provider. Checkout completion alone
// never confirms an order; only a Verify call returning
// VerificationSucceeded does.
type PaymentGateway interface {
	// CreateIntent registers the amount to charge for an order with the
	// provider and returns the intent the checkout UI operates on.
	CreateIntent(ctx context.Context, orderID kernel.UUID, amount float64, currency string) (PaymentIntent, error)

	// OpenCheckout runs the interactive payment flow for the intent and
	// reports whether the payer completed or dismissed it.
	OpenCheckout(ctx context.Context, intent PaymentIntent) (CheckoutResult, error)

	// Verify fetches the authoritative payment status for an intent.
	Verify(ctx context.Context, intentID string) (VerificationStatus, error)
}
