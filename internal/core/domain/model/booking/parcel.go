package booking

import (
	"errors"
	"strings"

	"shipbook/internal/pkg/errs"
	"shipbook/internal/pkg/guard"
)

const (
	// MinWeightKg and MaxWeightKg bound the bookable package weight.
	MinWeightKg = 0.1
	MaxWeightKg = 100.0
)

// ErrParcelIsNotConstructed is returned when validating a zero-value Parcel.
var ErrParcelIsNotConstructed = errs.NewValueIsRequiredError(
	"parcel must be created via NewParcel constructor")

// Parcel is the package profile of a booking: what is being shipped, how
// heavy it is, and whether it needs fragile handling. Dimensions are
// optional.
type Parcel struct { //nolint:recvcheck //using for validation
	kind     string
	weightKg float64
	fragile  bool

	// dimensions in cm, zero when not provided
	lengthCm float64
	widthCm  float64
	heightCm float64

	guard guard.ConstructorGuard
}

// NewParcel creates a package profile. kind describes the contents
// ("documents", "electronics", ...) and must be non-empty; weightKg must lie
// within [MinWeightKg, MaxWeightKg].
func NewParcel(kind string, weightKg float64, fragile bool) (Parcel, error) {
	p := Parcel{
		fragile: fragile,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setKind(kind), p.setWeightKg(weightKg)); err != nil {
		return Parcel{}, err
	}

	return p, nil
}

// WithDimensions returns a copy of the parcel carrying its dimensions in cm.
// All three must be positive.
func (p Parcel) WithDimensions(lengthCm, widthCm, heightCm float64) (Parcel, error) {
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return Parcel{}, errs.NewValueIsInvalidError("dimensions")
	}

	p.lengthCm = lengthCm
	p.widthCm = widthCm
	p.heightCm = heightCm
	return p, nil
}

// Validate checks the parcel was built through NewParcel.
func (p Parcel) Validate() error {
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

// Kind returns the declared package content type.
func (p Parcel) Kind() string {
	return p.kind
}

// WeightKg returns the package weight in kilograms.
func (p Parcel) WeightKg() float64 {
	return p.weightKg
}

// Fragile reports whether the package needs fragile handling.
func (p Parcel) Fragile() bool {
	return p.fragile
}

// Dimensions returns length, width, height in cm and whether they were set.
func (p Parcel) Dimensions() (length, width, height float64, ok bool) {
	return p.lengthCm, p.widthCm, p.heightCm, p.lengthCm > 0
}

func (p *Parcel) setKind(kind string) error {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return errs.NewValueIsRequiredError("packageType")
	}

	p.kind = kind
	return nil
}

func (p *Parcel) setWeightKg(weightKg float64) error {
	if weightKg < MinWeightKg || weightKg > MaxWeightKg {
		return errs.NewValueIsOutOfRangeError("weightKg", weightKg, MinWeightKg, MaxWeightKg)
	}

	p.weightKg = weightKg
	return nil
}
