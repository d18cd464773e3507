// Package kernel provides the shared domain primitives of the booking core.
//
// It contains:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - GeoPoint: validated WGS84 coordinate pair with great-circle distance
//
// Both are immutable value objects. Their zero values are invalid; instances
// must come from the package constructors, which is enforced through the
// Validate methods used by consuming aggregates.
package kernel
