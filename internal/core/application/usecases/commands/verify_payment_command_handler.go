package commands

import (
	"context"
	"errors"
	"log/slog"

	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/order"
	"shipbook/internal/core/ports"
	"shipbook/internal/pkg/errs"
)

// VerifyPaymentCommandHandler settles a pending order against the payment
// provider's authoritative status, and brings the booking session in line
// with the outcome: a confirmed order releases the session, a cancelled one
// returns the draft to collecting so the customer can retry. The whole
// operation is idempotent: once the order is confirmed or cancelled,
// re-running it observes the terminal status and changes nothing.
type VerifyPaymentCommandHandler struct {
	sessions   ports.SessionStore
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewVerifyPaymentCommandHandler creates a payment verification handler.
func NewVerifyPaymentCommandHandler(
	sessions ports.SessionStore,
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) VerifyPaymentCommandHandler {
	return VerifyPaymentCommandHandler{
		sessions:   sessions,
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle loads the order, short-circuits when it is already terminal, and
// otherwise confirms or cancels it according to the provider's verdict. A
// still-unsettled charge leaves the order pending.
func (h *VerifyPaymentCommandHandler) Handle(
	ctx context.Context,
	cmd VerifyPaymentCommand,
) (VerifyPaymentCommandResponse, error) {
	if err := cmd.Validate(); err != nil {
		return VerifyPaymentCommandResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerifyPaymentCommandResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	aggregate, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return VerifyPaymentCommandResponse{}, err
	}

	if aggregate.Status().IsTerminal() {
		if err = uow.Commit(ctx); err != nil {
			return VerifyPaymentCommandResponse{}, err
		}
		return VerifyPaymentCommandResponse{Status: aggregate.Status().String()}, nil
	}

	if aggregate.PaymentIntentID() == "" {
		return VerifyPaymentCommandResponse{}, errs.NewValueIsRequiredError("paymentIntentID")
	}

	status, err := h.gateway.Verify(ctx, aggregate.PaymentIntentID())
	if err != nil {
		return VerifyPaymentCommandResponse{}, err
	}

	changed := false
	switch status {
	case ports.VerificationSucceeded:
		if err = aggregate.Confirm(); err != nil {
			return VerifyPaymentCommandResponse{}, err
		}
		changed = true

	case ports.VerificationRejected:
		if err = aggregate.Cancel(cancelReasonVerificationFailed); err != nil {
			return VerifyPaymentCommandResponse{}, err
		}
		changed = true

	default:
		// Still unsettled: leave the order pending.
	}

	if changed {
		if err = repo.Update(ctx, aggregate); err != nil {
			return VerifyPaymentCommandResponse{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return VerifyPaymentCommandResponse{}, err
	}

	if changed {
		if err = h.publisher.PublishOrderChanged(ctx, aggregate); err != nil {
			h.logger.WarnContext(ctx, "order event publish failed",
				"order_id", aggregate.ID().String(), "error", err)
		}
		if err = h.settleSession(ctx, aggregate); err != nil {
			return VerifyPaymentCommandResponse{}, err
		}
	}

	return VerifyPaymentCommandResponse{Status: aggregate.Status().String()}, nil
}

// settleSession moves the booking draft out of the paying stage to match the
// settled order: released on confirmation, back to collecting on
// cancellation so the customer can retry the payment. The session is often
// gone already (checkout released it, or it expired); that is not an error.
func (h *VerifyPaymentCommandHandler) settleSession(ctx context.Context, aggregate *order.Order) error {
	var err error
	switch aggregate.Status() {
	case order.Confirmed:
		err = h.sessions.Mutate(ctx, aggregate.BookingID(), func(draft *booking.Draft) error {
			return draft.MarkConfirmed()
		})
		if err == nil {
			err = h.sessions.Delete(ctx, aggregate.BookingID())
		}

	case order.Cancelled:
		err = h.sessions.Mutate(ctx, aggregate.BookingID(), func(draft *booking.Draft) error {
			if markErr := draft.MarkCancelling(); markErr != nil {
				return markErr
			}
			return draft.ResumeCollecting()
		})
	}

	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	return err
}
