package queries

import (
	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/ports"
)

// candidateToAddress turns a geocoder candidate into a canonical address
// anchored at the given position. Upstream pincodes are best-effort: one
// that fails the format rule is dropped rather than failing the resolution,
// since the booking-time validation will demand a proper pincode anyway.
func candidateToAddress(c ports.AddressCandidate, position kernel.GeoPoint) (address.Address, error) {
	line := address.ShortLine(c.DisplayName)

	a, err := address.NewAddress(line, c.City, c.State, c.Pincode)
	if err != nil {
		a, err = address.NewAddress(line, c.City, c.State, "")
		if err != nil {
			return address.Address{}, err
		}
	}

	return a.WithGeo(position)
}
