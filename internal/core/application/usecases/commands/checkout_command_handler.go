package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/model/order"
	"shipbook/internal/core/ports"
)

// ErrCompensationFailed reports that cancelling an order after a failed
// payment did not complete: the order is left pending and the stale-order
// sweep will pick it up. Callers must surface this to the user as a warning,
// never swallow it.
var ErrCompensationFailed = errors.New("order cancellation after failed payment did not complete")

const (
	cancelReasonDismissed          = "payment dismissed by payer"
	cancelReasonVerificationFailed = "payment verification failed"
	cancelReasonInitFailed         = "payment initialization failed"
	cancelReasonCheckoutFailed     = "checkout could not be completed"
)

// CheckoutCommandHandler runs the payment stage of a booking: it creates a
// durable pending order before any gateway interaction, drives the
// interactive checkout, verifies the payment server-side, and compensates by
// cancelling the order whenever the stage cannot reach confirmation.
//
// A pending order is created first on purpose: if the process dies anywhere
// past that point the order is visible to the reaper sweep, so no payment
// can ever happen against an order the system does not know about.
type CheckoutCommandHandler struct {
	sessions   ports.SessionStore
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
	currency   string
}

// NewCheckoutCommandHandler creates the checkout saga handler. The currency
// is the ISO code orders are charged in.
func NewCheckoutCommandHandler(
	sessions ports.SessionStore,
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
	currency string,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		sessions:   sessions,
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		logger:     logger,
		currency:   currency,
	}
}

// Handle drives the payment stage to one of three outcomes: confirmed,
// cancelled, or awaiting settlement. The session lock is held only for the
// stage transitions, never across a gateway call.
func (h *CheckoutCommandHandler) Handle(
	ctx context.Context,
	cmd CheckoutCommand,
) (CheckoutCommandResponse, error) {
	if err := cmd.Validate(); err != nil {
		return CheckoutCommandResponse{}, err
	}

	var (
		pickup, delivery address.Address
		parcel           booking.Parcel
		quote            booking.RouteQuote
	)

	err := h.sessions.Mutate(ctx, cmd.BookingID(), func(draft *booking.Draft) error {
		if err := draft.BeginPayment(); err != nil {
			return err
		}

		pickup = draft.Pickup()
		delivery = draft.Delivery()
		parcel = draft.Parcel()
		q, ok := draft.Quote()
		if !ok {
			return booking.ErrRouteQuoteIsNotConstructed
		}
		quote = q
		return nil
	})
	if err != nil {
		return CheckoutCommandResponse{}, err
	}

	aggregate, err := order.NewOrder(kernel.NewUUID(), cmd.BookingID(), pickup, delivery, parcel, quote)
	if err != nil {
		return CheckoutCommandResponse{}, h.abortBeforeOrder(ctx, cmd.BookingID(), err)
	}

	if err = h.saveNew(ctx, aggregate); err != nil {
		return CheckoutCommandResponse{}, h.abortBeforeOrder(ctx, cmd.BookingID(), err)
	}
	h.publish(ctx, aggregate)

	intent, err := h.gateway.CreateIntent(ctx, aggregate.ID(), aggregate.Amount(), h.currency)
	if err != nil {
		return CheckoutCommandResponse{}, h.compensate(ctx, cmd.BookingID(), aggregate, cancelReasonInitFailed, err)
	}

	if err = aggregate.AttachPaymentIntent(intent.ID); err != nil {
		return CheckoutCommandResponse{}, h.compensate(ctx, cmd.BookingID(), aggregate, cancelReasonInitFailed, err)
	}
	if err = h.saveUpdate(ctx, aggregate); err != nil {
		return CheckoutCommandResponse{}, h.compensate(ctx, cmd.BookingID(), aggregate, cancelReasonInitFailed, err)
	}

	result, err := h.gateway.OpenCheckout(ctx, intent)
	if err != nil {
		return CheckoutCommandResponse{}, h.compensate(ctx, cmd.BookingID(), aggregate, cancelReasonCheckoutFailed, err)
	}

	switch result.Outcome {
	case ports.CheckoutDismissed:
		if err = h.compensate(ctx, cmd.BookingID(), aggregate, cancelReasonDismissed, nil); err != nil {
			return CheckoutCommandResponse{}, err
		}
		return CheckoutCommandResponse{
			OrderID:      aggregate.ID(),
			Outcome:      CheckoutOutcomeCancelled,
			CancelReason: cancelReasonDismissed,
		}, nil

	case ports.CheckoutCompleted:
		return h.settle(ctx, cmd.BookingID(), aggregate, intent.ID)

	default:
		err = fmt.Errorf("unexpected checkout outcome %d", result.Outcome)
		return CheckoutCommandResponse{}, h.compensate(ctx, cmd.BookingID(), aggregate, cancelReasonCheckoutFailed, err)
	}
}

// settle verifies a completed checkout server-side. Checkout completion
// alone never confirms the order.
func (h *CheckoutCommandHandler) settle(
	ctx context.Context,
	bookingID kernel.UUID,
	aggregate *order.Order,
	intentID string,
) (CheckoutCommandResponse, error) {
	status, err := h.gateway.Verify(ctx, intentID)
	if err != nil {
		// Order stays pending; VerifyPayment can re-check once the
		// provider is reachable again.
		h.logger.WarnContext(ctx, "payment verification unreachable, order left pending",
			"order_id", aggregate.ID().String(), "error", err)
		return CheckoutCommandResponse{
			OrderID: aggregate.ID(),
			Outcome: CheckoutOutcomeAwaitingSettlement,
		}, nil
	}

	switch status {
	case ports.VerificationSucceeded:
		if err = aggregate.Confirm(); err != nil {
			return CheckoutCommandResponse{}, err
		}
		if err = h.saveUpdate(ctx, aggregate); err != nil {
			return CheckoutCommandResponse{}, err
		}
		h.publish(ctx, aggregate)

		if err = h.sessions.Mutate(ctx, bookingID, func(draft *booking.Draft) error {
			return draft.MarkConfirmed()
		}); err != nil {
			return CheckoutCommandResponse{}, err
		}
		if err = h.sessions.Delete(ctx, bookingID); err != nil {
			return CheckoutCommandResponse{}, err
		}

		return CheckoutCommandResponse{
			OrderID: aggregate.ID(),
			Outcome: CheckoutOutcomeConfirmed,
		}, nil

	case ports.VerificationRejected:
		if err = h.compensate(ctx, bookingID, aggregate, cancelReasonVerificationFailed, nil); err != nil {
			return CheckoutCommandResponse{}, err
		}
		return CheckoutCommandResponse{
			OrderID:      aggregate.ID(),
			Outcome:      CheckoutOutcomeCancelled,
			CancelReason: cancelReasonVerificationFailed,
		}, nil

	default:
		return CheckoutCommandResponse{
			OrderID: aggregate.ID(),
			Outcome: CheckoutOutcomeAwaitingSettlement,
		}, nil
	}
}

// compensate cancels the pending order and returns the draft to the
// collecting stage. cause, when non-nil, is the failure that triggered the
// compensation and is joined into the returned error; a nil cause with
// successful compensation returns nil.
func (h *CheckoutCommandHandler) compensate(
	ctx context.Context,
	bookingID kernel.UUID,
	aggregate *order.Order,
	reason string,
	cause error,
) error {
	if err := aggregate.Cancel(reason); err != nil {
		return errors.Join(ErrCompensationFailed, err, cause)
	}
	if err := h.saveUpdate(ctx, aggregate); err != nil {
		return errors.Join(ErrCompensationFailed, err, cause)
	}
	h.publish(ctx, aggregate)

	if err := h.resumeCollecting(ctx, bookingID); err != nil {
		return errors.Join(ErrCompensationFailed, err, cause)
	}

	return cause
}

// abortBeforeOrder unwinds the paying stage when no durable order was
// created yet, so there is nothing to cancel.
func (h *CheckoutCommandHandler) abortBeforeOrder(ctx context.Context, bookingID kernel.UUID, cause error) error {
	if err := h.resumeCollecting(ctx, bookingID); err != nil {
		return errors.Join(err, cause)
	}
	return cause
}

func (h *CheckoutCommandHandler) resumeCollecting(ctx context.Context, bookingID kernel.UUID) error {
	return h.sessions.Mutate(ctx, bookingID, func(draft *booking.Draft) error {
		if err := draft.MarkCancelling(); err != nil {
			return err
		}
		return draft.ResumeCollecting()
	})
}

func (h *CheckoutCommandHandler) saveNew(ctx context.Context, aggregate *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *CheckoutCommandHandler) saveUpdate(ctx context.Context, aggregate *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *CheckoutCommandHandler) publish(ctx context.Context, aggregate *order.Order) {
	if err := h.publisher.PublishOrderChanged(ctx, aggregate); err != nil {
		h.logger.WarnContext(ctx, "order event publish failed",
			"order_id", aggregate.ID().String(), "error", err)
	}
}
