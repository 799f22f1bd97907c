package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a rental.
type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var (
	// ErrUnknownStatus is returned for status names outside the enumeration.
	ErrUnknownStatus = errors.New("unknown rental status")
	// ErrIllegalTransition is returned when the current status may not move
	// to the requested one.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// transitions lists the allowed moves away from each status. Staying in the
// same status is always allowed and has no side effects.
var transitions = map[Status][]Status{
	StatusBooked:    {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// NormalizeStatus trims and upper-cases a status name.
func NormalizeStatus(s string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(s)))
}

// Known reports whether s is one of the enumerated statuses.
func (s Status) Known() bool {
	_, ok := transitions[s]
	return ok
}

// ReleasesCar reports whether entering s frees the rented car.
func (s Status) ReleasesCar() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition checks from -> to against the transition table.
func CanTransition(from, to Status) error {
	if !to.Known() {
		return ErrUnknownStatus
	}
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrIllegalTransition
}

// Rental is a booking of one car by one user as stored in `rentals`.
type Rental struct {
	ID         uint64          // rentals.id
	CarID      uint64          // rentals.car_id
	UserID     uint64          // rentals.user_id
	StartDate  Date            // rentals.start_date
	EndDate    Date            // rentals.end_date
	TotalPrice decimal.Decimal // rentals.total_price
	Status     Status          // rentals.status
	CreatedAt  time.Time       // rentals.created_at
	UpdatedAt  time.Time       // rentals.updated_at
}

// RentalDetail is a rental joined with the names shown to API clients.
type RentalDetail struct {
	Rental
	UserName string
	CarBrand string
	CarModel string
}

// CarBrandModel is the projected "brand model" label.
func (d RentalDetail) CarBrandModel() string {
	return BrandModel(d.CarBrand, d.CarModel)
}

// BillableDays is the number of days charged for a rental: the whole
// calendar days between start and end, never less than one.
func BillableDays(start, end Date) int64 {
	days := start.DaysUntil(end)
	if days < 1 {
		return 1
	}
	return days
}

// QuoteRental prices a rental at pricePerDay for its billable days.
func QuoteRental(pricePerDay decimal.Decimal, start, end Date) decimal.Decimal {
	return pricePerDay.Mul(decimal.NewFromInt(BillableDays(start, end)))
}
