// Package stripegw adapts the Stripe API to the payment gateway port.
package stripegw

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/ports"
	"shipbook/internal/pkg/errs"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

const (
	providerName = "stripe"

	// defaultPollInterval is how often OpenCheckout re-reads the intent
	// while waiting for the payer to act.
	defaultPollInterval = 2 * time.Second

	// defaultCheckoutWindow caps how long a payer can sit on the payment
	// screen before the attempt counts as dismissed.
	defaultCheckoutWindow = 5 * time.Minute
)

// Gateway implements ports.PaymentGateway against Stripe payment intents.
// A dedicated client.API instance is used instead of the package-level
// stripe client so the key stays scoped to this adapter.
type Gateway struct {
	client         *client.API
	pollInterval   time.Duration
	checkoutWindow time.Duration
}

// NewGateway creates a Stripe-backed payment gateway.
func NewGateway(apiKey string) *Gateway {
	sc := &client.API{}
	sc.Init(apiKey, nil)

	return &Gateway{
		client:         sc,
		pollInterval:   defaultPollInterval,
		checkoutWindow: defaultCheckoutWindow,
	}
}

// CreateIntent registers the charge with Stripe before any payer-facing UI
// is shown. The order id doubles as the idempotency key, so retrying a
// failed booking never produces a second charge for the same order.
func (g *Gateway) CreateIntent(
	ctx context.Context,
	orderID kernel.UUID,
	amount float64,
	currency string,
) (ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(orderID.String())
	params.AddMetadata("orderId", orderID.String())

	pi, err := g.client.PaymentIntents.New(params)
	if err != nil {
		return ports.PaymentIntent{}, mapStripeError(err)
	}

	return ports.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// OpenCheckout waits for the payer to finish the interactive flow by
// polling the intent. The payer completing or the provider settling the
// charge ends the wait as Completed; an explicit cancellation, or the
// checkout window running out, ends it as Dismissed.
func (g *Gateway) OpenCheckout(
	ctx context.Context,
	intent ports.PaymentIntent,
) (ports.CheckoutResult, error) {
	deadline := time.Now().Add(g.checkoutWindow)
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		pi, err := g.getIntent(ctx, intent.ID)
		if err != nil {
			return ports.CheckoutResult{}, err
		}

		switch pi.Status {
		case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
			return ports.CheckoutResult{
				Outcome:  ports.CheckoutCompleted,
				Evidence: pi.ID,
			}, nil
		case stripe.PaymentIntentStatusCanceled:
			return ports.CheckoutResult{Outcome: ports.CheckoutDismissed}, nil
		}

		if time.Now().After(deadline) {
			return ports.CheckoutResult{Outcome: ports.CheckoutDismissed}, nil
		}

		select {
		case <-ctx.Done():
			return ports.CheckoutResult{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Verify fetches the authoritative payment status from Stripe.
func (g *Gateway) Verify(ctx context.Context, intentID string) (ports.VerificationStatus, error) {
	pi, err := g.getIntent(ctx, intentID)
	if err != nil {
		return ports.VerificationUnknown, err
	}

	return verificationFromStatus(pi.Status), nil
}

func (g *Gateway) getIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.client.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return pi, nil
}

// verificationFromStatus maps Stripe's intent lifecycle onto the port's
// three-valued verdict. Anything the payer can still recover from counts
// as pending, not rejected.
func verificationFromStatus(status stripe.PaymentIntentStatus) ports.VerificationStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return ports.VerificationSucceeded
	case stripe.PaymentIntentStatusCanceled,
		stripe.PaymentIntentStatusRequiresPaymentMethod:
		return ports.VerificationRejected
	default:
		// processing, requires_action, requires_confirmation,
		// requires_capture
		return ports.VerificationPending
	}
}

// mapStripeError keeps stripe-go types from leaking past this package.
// Provider outages surface as errs.ProviderUnavailableError so callers
// can tell "payment failed" from "could not ask".
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError {
			return errs.NewProviderUnavailableError(providerName, err)
		}
		return err
	}

	// Transport-level failure, Stripe was never reached.
	return errs.NewProviderUnavailableError(providerName, err)
}

// toMinorUnits converts a major-unit amount to the integer minor units
// Stripe expects.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
