// Package devicefix carries a device-reported position fix through the
// request context. The GPS hardware lives on the caller's device, so the
// HTTP layer stashes whatever the device reported (a fix, or why it could
// not produce one) and this provider surfaces it behind the location port.
package devicefix

import (
	"context"

	"shipbook/internal/core/ports"
)

type ctxKey int

const (
	fixKey ctxKey = iota
	failureKey
)

// WithFix returns a context carrying the device's position fix.
func WithFix(ctx context.Context, fix ports.PositionFix) context.Context {
	return context.WithValue(ctx, fixKey, fix)
}

// WithFailure returns a context carrying the device's reported failure.
// err should be one of the ports location sentinels.
func WithFailure(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, failureKey, err)
}

// ContextProvider implements ports.LocationProvider by reading the fix the
// request layer stored on the context.
type ContextProvider struct{}

// NewContextProvider creates a context-backed location provider.
func NewContextProvider() ContextProvider {
	return ContextProvider{}
}

// GetPosition returns the fix stored on the context. A context without one
// means the device never reported, which reads as the provider being
// unavailable.
func (ContextProvider) GetPosition(ctx context.Context) (ports.PositionFix, error) {
	if err, ok := ctx.Value(failureKey).(error); ok {
		return ports.PositionFix{}, err
	}
	if fix, ok := ctx.Value(fixKey).(ports.PositionFix); ok {
		return fix, nil
	}
	return ports.PositionFix{}, ports.ErrLocationUnavailable
}
