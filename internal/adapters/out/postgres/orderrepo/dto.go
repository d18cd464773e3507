// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling the conversion between domain entities and their
// database representation.
package orderrepo

import (
	"time"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the relational shape of an order aggregate. The pickup,
// delivery, parcel, and quote snapshots are flattened into prefixed column
// groups so the whole order reads and writes as a single row.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID       uuid.UUID `gorm:"type:uuid;index"`
	Status          int       `gorm:"index"`
	Amount          float64
	PaymentIntentID string
	CancelReason    string
	CreatedAt       time.Time `gorm:"index"`

	Pickup   AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery AddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	Parcel   ParcelDTO  `gorm:"embedded;embeddedPrefix:parcel_"`
	Quote    QuoteDTO   `gorm:"embedded;embeddedPrefix:quote_"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is one embedded endpoint of an order.
type AddressDTO struct {
	Line         string
	City         string
	State        string
	Pincode      string
	ContactName  string
	ContactPhone string
	Lat          float64
	Lng          float64
	HasGeo       bool
}

// ParcelDTO is the embedded package profile.
type ParcelDTO struct {
	Kind          string
	WeightKg      float64
	Fragile       bool
	LengthCm      float64
	WidthCm       float64
	HeightCm      float64
	HasDimensions bool
}

// QuoteDTO is the embedded price snapshot the order was charged at.
type QuoteDTO struct {
	DistanceKm     float64
	EtaDays        string
	Selection      string
	DistanceCharge float64
	WeightCharge   float64
	GroupDiscount  float64
	Tax            float64
	Total          float64
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	quote := aggregate.Quote()
	breakdown := quote.Breakdown()

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		BookingID:       aggregate.BookingID().Bytes(),
		Status:          int(aggregate.Status()),
		Amount:          aggregate.Amount(),
		PaymentIntentID: aggregate.PaymentIntentID(),
		CancelReason:    aggregate.CancelReason(),
		CreatedAt:       aggregate.CreatedAt(),
		Pickup:          addressToDTO(aggregate.Pickup()),
		Delivery:        addressToDTO(aggregate.Delivery()),
		Parcel:          parcelToDTO(aggregate.Parcel()),
		Quote: QuoteDTO{
			DistanceKm:     quote.DistanceKm(),
			EtaDays:        quote.EtaDays(),
			Selection:      quote.Selection(),
			DistanceCharge: breakdown.DistanceCharge,
			WeightCharge:   breakdown.WeightCharge,
			GroupDiscount:  breakdown.GroupDiscount,
			Tax:            breakdown.Tax,
			Total:          breakdown.Total,
		},
	}
}

func addressToDTO(a address.Address) AddressDTO {
	dto := AddressDTO{
		Line:         a.Line(),
		City:         a.City(),
		State:        a.State(),
		Pincode:      a.Pincode(),
		ContactName:  a.ContactName(),
		ContactPhone: a.ContactPhone(),
	}

	if geo, ok := a.Geo(); ok {
		dto.Lat = geo.Lat()
		dto.Lng = geo.Lng()
		dto.HasGeo = true
	}

	return dto
}

func parcelToDTO(p booking.Parcel) ParcelDTO {
	dto := ParcelDTO{
		Kind:     p.Kind(),
		WeightKg: p.WeightKg(),
		Fragile:  p.Fragile(),
	}

	if length, width, height, ok := p.Dimensions(); ok {
		dto.LengthCm = length
		dto.WidthCm = width
		dto.HeightCm = height
		dto.HasDimensions = true
	}

	return dto
}

// toDomain converts a database row back to an order aggregate using
// RestoreOrder, which skips creation-time business rules.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	bookingID, err := kernel.UUIDFromBytes(dto.BookingID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := addressFromDTO(dto.Pickup)
	if err != nil {
		return nil, err
	}

	delivery, err := addressFromDTO(dto.Delivery)
	if err != nil {
		return nil, err
	}

	parcel, err := parcelFromDTO(dto.Parcel)
	if err != nil {
		return nil, err
	}

	quote, err := booking.NewRouteQuote(
		dto.Quote.DistanceKm,
		dto.Quote.EtaDays,
		dto.Quote.Selection,
		booking.PriceBreakdown{
			DistanceCharge: dto.Quote.DistanceCharge,
			WeightCharge:   dto.Quote.WeightCharge,
			GroupDiscount:  dto.Quote.GroupDiscount,
			Tax:            dto.Quote.Tax,
			Total:          dto.Quote.Total,
		},
	)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		bookingID,
		pickup,
		delivery,
		parcel,
		quote,
		order.Status(dto.Status),
		dto.PaymentIntentID,
		dto.CancelReason,
		dto.CreatedAt,
	)
}

func addressFromDTO(dto AddressDTO) (address.Address, error) {
	a, err := address.NewAddress(dto.Line, dto.City, dto.State, dto.Pincode)
	if err != nil {
		return address.Address{}, err
	}

	if dto.HasGeo {
		geo, geoErr := kernel.NewGeoPoint(dto.Lat, dto.Lng)
		if geoErr != nil {
			return address.Address{}, geoErr
		}
		a, err = a.WithGeo(geo)
		if err != nil {
			return address.Address{}, err
		}
	}

	if dto.ContactName != "" || dto.ContactPhone != "" {
		a, err = a.WithContact(dto.ContactName, dto.ContactPhone)
		if err != nil {
			return address.Address{}, err
		}
	}

	return a, nil
}

func parcelFromDTO(dto ParcelDTO) (booking.Parcel, error) {
	p, err := booking.NewParcel(dto.Kind, dto.WeightKg, dto.Fragile)
	if err != nil {
		return booking.Parcel{}, err
	}

	if dto.HasDimensions {
		p, err = p.WithDimensions(dto.LengthCm, dto.WidthCm, dto.HeightCm)
		if err != nil {
			return booking.Parcel{}, err
		}
	}

	return p, nil
}
