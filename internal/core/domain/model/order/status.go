package order

import (
	"fmt"

	"shipbook/internal/pkg/errs"
)

// Status is the payment lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed   (payment verified)
//	Pending ──> Cancelled   (payment abandoned, rejected, or expired)
//
// Confirmed and Cancelled are terminal. Re-applying the transition an order
// already took is an idempotent no-op; crossing between terminal states is
// rejected.
type Status int

const (
	// Unknown is the invalid zero value; catches uninitialized statuses.
	Unknown Status = iota

	// Pending is the state an order is created in, before payment settles.
	// Never terminal: every pending order eventually confirms or cancels.
	Pending

	// Confirmed means payment was verified. Terminal.
	Confirmed

	// Cancelled means the booking was compensated. Terminal.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Confirmed: "Confirmed",
		Cancelled: "Cancelled",
	}
}

// Validate rejects Unknown and undefined status values. Used when restoring
// orders from persistence.
func (s Status) Validate() error {
	switch s {
	case Pending, Confirmed, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
}

// String implements fmt.Stringer. Safe on any value.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Confirmed || s == Cancelled
}

// Confirm transitions to Confirmed. Confirming an already-confirmed order
// is a no-op; confirming a cancelled one is rejected.
func (s Status) Confirm() (Status, error) {
	switch s {
	case Pending, Confirmed:
		return Confirmed, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to confirm", s.String()),
		)
	}
}

// Cancel transitions to Cancelled. Cancelling an already-cancelled order is
// a no-op; cancelling a confirmed one is rejected.
func (s Status) Cancel() (Status, error) {
	switch s {
	case Pending, Cancelled:
		return Cancelled, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}
}
