// Package addressbook stores customers' saved addresses and serves them to
// address search, most recently used first.
package addressbook

import (
	"context"
	"time"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedAddressDTO is one saved address row.
type SavedAddressDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	LastUsedAt time.Time `gorm:"index"`

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

// TableName overrides GORM's default naming to use "saved_addresses".
func (SavedAddressDTO) TableName() string {
	return "saved_addresses"
}

// GormCustomerDirectory implements ports.CustomerDirectory over the
// saved_addresses table.
type GormCustomerDirectory struct {
	db *gorm.DB
}

// NewGormCustomerDirectory creates a directory backed by the given database.
func NewGormCustomerDirectory(db *gorm.DB) *GormCustomerDirectory {
	return &GormCustomerDirectory{db: db}
}

// SavedAddresses returns the customer's addresses, most recently used
// first. Rows that no longer satisfy address validation are skipped rather
// than failing the whole read.
func (d *GormCustomerDirectory) SavedAddresses(
	ctx context.Context,
	customerID kernel.UUID,
) ([]address.Address, error) {
	var dtos []SavedAddressDTO
	err := d.db.WithContext(ctx).
		Where("customer_id = ?", customerID.Bytes()).
		Order("last_used_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	addresses := make([]address.Address, 0, len(dtos))
	for _, dto := range dtos {
		a, err := dto.toDomain()
		if err != nil {
			continue
		}
		addresses = append(addresses, a)
	}
	return addresses, nil
}

// Save upserts an address for the customer and stamps it as just used.
func (d *GormCustomerDirectory) Save(
	ctx context.Context,
	customerID kernel.UUID,
	a address.Address,
) error {
	dto := SavedAddressDTO{
		ID:           uuid.New(),
		CustomerID:   customerID.Bytes(),
		LastUsedAt:   time.Now().UTC(),
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

	return d.db.WithContext(ctx).Create(&dto).Error
}

func (dto SavedAddressDTO) toDomain() (address.Address, error) {
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
