// Package errs provides the standardized error types used across the booking
// core. Every error type follows the same shape: a sentinel error for
// errors.Is classification, a struct carrying the offending parameter name
// and an optional cause, constructors with and without cause, and
// Error/Unwrap methods.
//
// Validation errors always name the field that failed (ParamName) so callers
// can highlight the specific input instead of raising one generic message.
// Provider errors distinguish transient outages (ProviderUnavailableError,
// retryable, degrade to best-effort) from user-denied access
// (PermissionDeniedError, never retried automatically).
package errs
