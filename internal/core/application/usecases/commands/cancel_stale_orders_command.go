package commands

import (
	"errors"
	"time"

	"shipbook/internal/pkg/guard"
)

var (
	ErrCancelStaleOrdersCommandIsNotConstructed = errors.New(
		"CancelStaleOrdersCommand must be created via NewCancelStaleOrdersCommand constructor",
	)
	ErrMaxAgeIsInvalid = errors.New("max age must be greater than 0")
)

// CancelStaleOrdersCommand sweeps orders that have sat in pending status
// longer than the given age. Such orders belong to sessions that died
// mid-payment and were never compensated.
type CancelStaleOrdersCommand struct { //nolint:recvcheck //using for validation
	maxAge time.Duration

	guard guard.ConstructorGuard
}

// NewCancelStaleOrdersCommand creates a sweep command. maxAge must be
// positive.
func NewCancelStaleOrdersCommand(maxAge time.Duration) (CancelStaleOrdersCommand, error) {
	if maxAge <= 0 {
		return CancelStaleOrdersCommand{}, ErrMaxAgeIsInvalid
	}

	return CancelStaleOrdersCommand{
		maxAge: maxAge,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelStaleOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCancelStaleOrdersCommandIsNotConstructed)
}

// MaxAge returns the pending-age threshold.
func (c CancelStaleOrdersCommand) MaxAge() time.Duration {
	return c.maxAge
}
