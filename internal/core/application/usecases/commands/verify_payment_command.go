package commands

import (
	"errors"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand re-checks the payment status of an order. Safe to
// issue any number of times: a terminal order is left untouched.
type VerifyPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewVerifyPaymentCommand creates a verification command for an order.
func NewVerifyPaymentCommand(orderID kernel.UUID) (VerifyPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return VerifyPaymentCommand{}, err
	}

	return VerifyPaymentCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}

// OrderID returns the order whose payment is verified.
func (c VerifyPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// VerifyPaymentCommandResponse reports the order status after verification.
type VerifyPaymentCommandResponse struct {
	Status string
}
