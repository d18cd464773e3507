package commands

import (
	"context"
	"log/slog"
	"time"

	"shipbook/internal/core/domain/model/order"
	"shipbook/internal/core/ports"
)

const cancelReasonStale = "abandoned before payment completed"

// CancelStaleOrdersCommandHandler cancels pending orders older than the
// command's age threshold. It is the compensation of last resort for
// sessions that crashed between order creation and payment settlement.
type CancelStaleOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewCancelStaleOrdersCommandHandler creates a stale-order sweep handler.
func NewCancelStaleOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CancelStaleOrdersCommandHandler {
	return CancelStaleOrdersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle cancels every pending order created before now minus the max age
// and returns how many were cancelled. The whole sweep runs in one
// transaction; events go out only after it commits.
func (h *CancelStaleOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd CancelStaleOrdersCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().Add(-cmd.MaxAge())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	stale, err := repo.GetPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := make([]*order.Order, 0, len(stale))
	for _, aggregate := range stale {
		if err = aggregate.Cancel(cancelReasonStale); err != nil {
			return 0, err
		}
		if err = repo.Update(ctx, aggregate); err != nil {
			return 0, err
		}
		cancelled = append(cancelled, aggregate)
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for _, aggregate := range cancelled {
		if err = h.publisher.PublishOrderChanged(ctx, aggregate); err != nil {
			h.logger.WarnContext(ctx, "order event publish failed",
				"order_id", aggregate.ID().String(), "error", err)
		}
	}

	return len(cancelled), nil
}
