package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Car is a rentable vehicle as stored in the `cars` table. Available is
// false while a BOOKED rental references the car.
type Car struct {
	ID          uint64          // cars.id
	Brand       string          // cars.brand
	Model       string          // cars.model
	Year        int             // cars.year
	PricePerDay decimal.Decimal // cars.price_per_day
	Available   bool            // cars.available
	CreatedAt   time.Time       // cars.created_at
	UpdatedAt   time.Time       // cars.updated_at
}

// Label is the "brand model" text shown on rental projections.
func (c Car) Label() string {
	return BrandModel(c.Brand, c.Model)
}

// BrandModel joins brand and model with a single space.
func BrandModel(brand, model string) string {
	return brand + " " + model
}
