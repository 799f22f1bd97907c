// Package queue defines rental domain events and moves them over RabbitMQ.
package queue

import (
	"fmt"

	"github.com/iliyamo/car-rental/internal/model"
)

// RentalQueue is the durable queue carrying every rental event.
const RentalQueue = "rental.events"

// Event types.
const (
	EventRentalBooked        = "rental.booked"
	EventRentalStatusChanged = "rental.status_changed"
)

// RentalEvent is published after a rental transaction commits. It carries
// enough for consumers to log or notify without querying the database.
type RentalEvent struct {
	Type           string `json:"type"`
	RentalID       uint64 `json:"rental_id"`
	UserID         uint64 `json:"user_id"`
	UserName       string `json:"user_name"`
	CarID          uint64 `json:"car_id"`
	CarBrandModel  string `json:"car_brand_model"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	TotalPrice     string `json:"total_price"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

// NewRentalEvent snapshots d under the given event type.
func NewRentalEvent(eventType string, d model.RentalDetail, previous model.Status, at string) RentalEvent {
	return RentalEvent{
		Type:           eventType,
		RentalID:       d.ID,
		UserID:         d.UserID,
		UserName:       d.UserName,
		CarID:          d.CarID,
		CarBrandModel:  d.CarBrandModel(),
		StartDate:      d.StartDate.String(),
		EndDate:        d.EndDate.String(),
		TotalPrice:     d.TotalPrice.StringFixed(2),
		Status:         string(d.Status),
		PreviousStatus: string(previous),
		OccurredAt:     at,
	}
}

// LogLine renders ev as one human-friendly line.
func (ev RentalEvent) LogLine() string {
	switch ev.Type {
	case EventRentalBooked:
		return fmt.Sprintf("[%s] Rental booked | rental_id=%d | user_id=%d | user=%q | car_id=%d | car=%q | from=%s | to=%s | total=%s\n",
			ev.OccurredAt, ev.RentalID, ev.UserID, ev.UserName, ev.CarID, ev.CarBrandModel, ev.StartDate, ev.EndDate, ev.TotalPrice)
	case EventRentalStatusChanged:
		return fmt.Sprintf("[%s] Rental status changed | rental_id=%d | car_id=%d | %s -> %s\n",
			ev.OccurredAt, ev.RentalID, ev.CarID, ev.PreviousStatus, ev.Status)
	default:
		return fmt.Sprintf("[%s] %s | rental_id=%d\n", ev.OccurredAt, ev.Type, ev.RentalID)
	}
}
