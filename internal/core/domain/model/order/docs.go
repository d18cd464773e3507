// Package order provides the durable Order aggregate of the booking core and
// its payment lifecycle state machine.
//
// An order exists only from the moment a user commits to paying: the
// orchestrator creates it in Pending status, carrying an immutable snapshot
// of the booking draft (endpoints, parcel, quote). Pending is never terminal;
// payment verification confirms the order, and abandonment, rejection, or
// expiry cancels it through the saga's compensating action. Terminal
// transitions are idempotent so payment verification can be retried safely.
package order
