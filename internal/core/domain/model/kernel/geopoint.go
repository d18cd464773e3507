package kernel

import (
	"errors"
	"fmt"
	"math"

	"shipbook/internal/pkg/errs"
	"shipbook/internal/pkg/guard"
)

const (
	// MinLatitude and MaxLatitude bound valid latitudes in degrees.
	MinLatitude = -90.0
	MaxLatitude = 90.0
	// MinLongitude and MaxLongitude bound valid longitudes in degrees.
	MinLongitude = -180.0
	MaxLongitude = 180.0

	// earthRadiusKm is the fixed mean Earth radius used for great-circle
	// distances. Quotes must reproduce exactly, so this never changes.
	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an
// improperly initialized GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable WGS84 coordinate pair. The zero value is invalid;
// use NewGeoPoint, which validates both components against the latitude and
// longitude bounds.
//
// Example:
//
//	chennai, err := kernel.NewGeoPoint(13.08, 80.27)
//	if err != nil {
//	    // out-of-range coordinate
//	}
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a validated coordinate pair.
// Latitude must lie in [-90, 90] and longitude in [-180, 180]; out-of-range
// values are reported per component via ValueIsOutOfRangeError.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks the point was built through NewGeoPoint. The zero value
// fails, which lets aggregates detect absent coordinates.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String implements fmt.Stringer for logging.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// IsEqual compares two points component-wise. Both points must be properly
// constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// DistanceKm computes the great-circle (haversine) distance to another point
// using the fixed Earth radius of 6371 km.
//
// The result is symmetric (d(a,b) == d(b,a)) and zero exactly when both
// points are equal. Both points must be properly constructed.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	if p.lat == other.lat && p.lng == other.lng {
		return 0, nil
	}

	lat1 := toRadians(p.lat)
	lat2 := toRadians(other.lat)
	dLat := toRadians(other.lat - p.lat)
	dLng := toRadians(other.lng - p.lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h)), nil
}

// setLat sets the latitude with validation. Pointer receiver on purpose: the
// private setters mutate during construction only.
func (p *GeoPoint) setLat(lat float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}

	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}

	p.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
