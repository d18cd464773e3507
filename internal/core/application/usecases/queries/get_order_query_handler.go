package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/model/order"
	"shipbook/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order projection straight from the
// database, bypassing the aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle fetches the order row. Returns errs.ObjectNotFoundError when no
// order has the requested id.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row struct {
		ID              uuid.UUID
		BookingID       uuid.UUID
		Status          int
		Amount          float64
		PaymentIntentID string
		CancelReason    string
		CreatedAt       time.Time
		PickupCity      string
		DeliveryCity    string
		QuoteEtaDays    string
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			booking_id,
			status,
			amount,
			payment_intent_id,
			cancel_reason,
			created_at,
			pickup_city,
			delivery_city,
			quote_eta_days
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row().Scan(
		&row.ID,
		&row.BookingID,
		&row.Status,
		&row.Amount,
		&row.PaymentIntentID,
		&row.CancelReason,
		&row.CreatedAt,
		&row.PickupCity,
		&row.DeliveryCity,
		&row.QuoteEtaDays,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	bookingID, err := kernel.UUIDFromBytes(row.BookingID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return GetOrderQueryResponse{
		ID:              id,
		BookingID:       bookingID,
		Status:          order.Status(row.Status).String(),
		Amount:          row.Amount,
		PaymentIntentID: row.PaymentIntentID,
		CancelReason:    row.CancelReason,
		CreatedAt:       row.CreatedAt,
		PickupCity:      row.PickupCity,
		DeliveryCity:    row.DeliveryCity,
		EtaDays:         row.QuoteEtaDays,
	}, nil
}
