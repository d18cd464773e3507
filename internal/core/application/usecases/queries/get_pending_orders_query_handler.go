package queries

import (
	"context"
	"time"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingOrdersQueryHandler reads pending order rows straight from the
// database.
type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingOrdersQueryHandler creates a handler for pending-order reads.
func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle returns every order in pending status, oldest first.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			amount,
			created_at,
			pickup_city,
			delivery_city
		FROM orders
		WHERE status = ?
		ORDER BY created_at
	`, order.Pending).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var amount float64
		var createdAt time.Time
		var pickupCity, deliveryCity string

		if err = rows.Scan(&id, &amount, &createdAt, &pickupCity, &deliveryCity); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		orders = append(orders, GetPendingOrdersQueryResponse{
			ID:           orderID,
			Amount:       amount,
			CreatedAt:    createdAt,
			PickupCity:   pickupCity,
			DeliveryCity: deliveryCity,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
