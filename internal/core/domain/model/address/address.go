package address

import (
	"errors"
	"regexp"
	"strings"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/errs"
	"shipbook/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when validating a zero-value
// Address. Addresses must come from the NewAddress constructor.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

var (
	// pincodeRe matches the 6-digit national postal code format.
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	// mobileRe matches the 10-digit national mobile number format.
	mobileRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// shortLineSegments is how many comma-separated segments of a geocoder
// display string make up a synthesized address line.
const shortLineSegments = 3

// Address is an immutable postal address value object, optionally carrying
// resolved coordinates and a contact. It is produced by address resolution
// and consumed by pricing and the booking orchestrator as a shipment
// endpoint.
//
// Construction validates format only (a present pincode must match the
// postal-code pattern, a present phone the mobile pattern, present
// coordinates their bounds). Completeness for booking (non-empty line, city,
// pincode and a contact phone) is checked separately by ValidateForBooking,
// because an address is allowed to be partial while the user is still
// searching.
type Address struct { //nolint:recvcheck //using for validation
	line         string
	city         string
	state        string
	pincode      string
	contactName  string
	contactPhone string
	geo          kernel.GeoPoint
	hasGeo       bool

	guard guard.ConstructorGuard
}

// NewAddress creates an Address from its postal components. Empty components
// are permitted; non-empty pincode must match the 6-digit postal format.
func NewAddress(line, city, state, pincode string) (Address, error) {
	a := Address{
		line:  strings.TrimSpace(line),
		city:  strings.TrimSpace(city),
		state: strings.TrimSpace(state),
		guard: guard.NewConstructorGuard(),
	}

	if err := a.setPincode(pincode); err != nil {
		return Address{}, err
	}

	return a, nil
}

// WithGeo returns a copy of the address carrying the given coordinates.
func (a Address) WithGeo(geo kernel.GeoPoint) (Address, error) {
	if err := geo.Validate(); err != nil {
		return Address{}, err
	}

	a.geo = geo
	a.hasGeo = true
	return a, nil
}

// WithContact returns a copy of the address carrying the contact person.
// A non-empty phone must match the national mobile format.
func (a Address) WithContact(name, phone string) (Address, error) {
	phone = strings.TrimSpace(phone)
	if phone != "" && !mobileRe.MatchString(phone) {
		return Address{}, errs.NewValueIsInvalidError("contactPhone")
	}

	a.contactName = strings.TrimSpace(name)
	a.contactPhone = phone
	return a, nil
}

// Validate checks the address was built through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// ValidateForBooking checks the completeness rules required before a quote
// may be requested: non-empty address line and city, a valid pincode, and a
// valid contact phone. All violations are reported together, each naming its
// field, so the caller can highlight every offending input at once.
func (a Address) ValidateForBooking() error {
	if err := a.Validate(); err != nil {
		return err
	}

	var fieldErrs []error
	if a.line == "" {
		fieldErrs = append(fieldErrs, errs.NewValueIsRequiredError("addressLine"))
	}
	if a.city == "" {
		fieldErrs = append(fieldErrs, errs.NewValueIsRequiredError("city"))
	}
	if a.pincode == "" {
		fieldErrs = append(fieldErrs, errs.NewValueIsRequiredError("pincode"))
	}
	if a.contactPhone == "" {
		fieldErrs = append(fieldErrs, errs.NewValueIsRequiredError("contactPhone"))
	}

	return errors.Join(fieldErrs...)
}

// Line returns the street-level address line.
func (a Address) Line() string {
	return a.line
}

// City returns the city component.
func (a Address) City() string {
	return a.city
}

// State returns the state component.
func (a Address) State() string {
	return a.state
}

// Pincode returns the postal code, empty when not set.
func (a Address) Pincode() string {
	return a.pincode
}

// ContactName returns the contact person's name, empty when not set.
func (a Address) ContactName() string {
	return a.contactName
}

// ContactPhone returns the contact mobile number, empty when not set.
func (a Address) ContactPhone() string {
	return a.contactPhone
}

// Geo returns the resolved coordinates and whether they are present.
// Quoting falls back to a fixed distance while coordinates are absent.
func (a Address) Geo() (kernel.GeoPoint, bool) {
	return a.geo, a.hasGeo
}

// MatchesQuery reports whether the address matches a case-insensitive
// substring search over the address line and city. Used to filter saved
// addresses during suggestion search.
func (a Address) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}

	return strings.Contains(strings.ToLower(a.line), q) ||
		strings.Contains(strings.ToLower(a.city), q)
}

func (a *Address) setPincode(pincode string) error {
	pincode = strings.TrimSpace(pincode)
	if pincode != "" && !pincodeRe.MatchString(pincode) {
		return errs.NewValueIsInvalidError("pincode")
	}

	a.pincode = pincode
	return nil
}

// ShortLine reduces a geocoder display string to its first three
// comma-separated segments. Used when the upstream geocoder provides no
// short address line of its own; deterministic for a given input.
func ShortLine(display string) string {
	segments := strings.Split(display, ",")
	if len(segments) > shortLineSegments {
		segments = segments[:shortLineSegments]
	}

	for i, s := range segments {
		segments[i] = strings.TrimSpace(s)
	}

	return strings.Join(segments, ", ")
}
