package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/config"
	"github.com/iliyamo/car-rental/internal/model"
	"github.com/iliyamo/car-rental/internal/queue"
	"github.com/iliyamo/car-rental/internal/repository"
)

// EventPublisher delivers rental events after a transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.RentalEvent) error
}

// CreateRentalInput is a booking request.
type CreateRentalInput struct {
	CarID     uint64
	UserID    uint64
	StartDate model.Date
	EndDate   model.Date
}

// RentalService runs the rental lifecycle: booking with availability
// check and pricing, and status updates with their car side effects. Each
// operation is one transaction.
type RentalService struct {
	store  *repository.Store
	events EventPublisher
	policy string
	log    zerolog.Logger
	now    func() time.Time
}

func NewRentalService(store *repository.Store, events EventPublisher, policy string, log zerolog.Logger) *RentalService {
	if events == nil {
		events = queue.NoopPublisher{}
	}
	if policy == "" {
		policy = config.StatusPolicyLenient
	}
	return &RentalService{store: store, events: events, policy: policy, log: log, now: time.Now}
}

// CreateRental books a car for a user. The car must exist and be
// available; the user must exist. The price is the billable days times
// the car's daily price. The car flips to unavailable in the same
// transaction that inserts the rental.
func (s *RentalService) CreateRental(ctx context.Context, in CreateRentalInput) (model.RentalDetail, error) {
	var out model.RentalDetail
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		car, err := r.Cars.GetByID(ctx, in.CarID)
		if err != nil {
			return translate("load car", err)
		}
		if _, err := r.Users.GetByID(ctx, in.UserID); err != nil {
			return translate("load user", err)
		}
		if !car.Available {
			return newError(ErrCarUnavailable, "car is not available")
		}

		// the conditional update serializes concurrent bookings of one car
		won, err := r.Cars.MarkRented(ctx, car.ID)
		if err != nil {
			return translate("mark car rented", err)
		}
		if !won {
			return newError(ErrCarUnavailable, "car is not available")
		}

		rental := model.Rental{
			CarID:      car.ID,
			UserID:     in.UserID,
			StartDate:  in.StartDate,
			EndDate:    in.EndDate,
			TotalPrice: model.QuoteRental(car.PricePerDay, in.StartDate, in.EndDate),
			Status:     model.StatusBooked,
		}
		if err := r.Rentals.Create(ctx, &rental); err != nil {
			return translate("insert rental", err)
		}

		out, err = r.Rentals.GetDetail(ctx, rental.ID)
		return translate("load rental", err)
	})
	if err != nil {
		return model.RentalDetail{}, err
	}

	s.log.Info().Uint64("rental_id", out.ID).Uint64("car_id", out.CarID).Uint64("user_id", out.UserID).
		Str("total", out.TotalPrice.StringFixed(2)).Msg("rental booked")
	s.publish(ctx, queue.NewRentalEvent(queue.EventRentalBooked, out, "", s.stamp()))
	return out, nil
}

// UpdateStatus moves a rental to status. COMPLETED and CANCELLED release
// the car; BOOKED leaves it alone. Under the strict policy only the
// enumerated statuses and the allowed transitions are accepted, and
// repeating the current status is a no-op.
func (s *RentalService) UpdateStatus(ctx context.Context, rentalID uint64, status string) (model.RentalDetail, error) {
	next := model.NormalizeStatus(status)
	if next == "" {
		return model.RentalDetail{}, newError(ErrValidation, "status is required")
	}
	if s.strict() && !next.Known() {
		return model.RentalDetail{}, newError(ErrValidation, "unknown status %q", strings.TrimSpace(status))
	}

	var (
		out      model.RentalDetail
		previous model.Status
		changed  bool
	)
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		rental, err := r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return translate("load rental", err)
		}
		previous = rental.Status

		if s.strict() {
			if err := model.CanTransition(rental.Status, next); err != nil {
				return newError(ErrConflict, "cannot change rental status from %s to %s", rental.Status, next)
			}
			if rental.Status == next {
				out, err = r.Rentals.GetDetail(ctx, rentalID)
				return translate("load rental", err)
			}
		}

		if err := r.Rentals.UpdateStatus(ctx, rentalID, next); err != nil {
			return translate("update status", err)
		}
		if next.ReleasesCar() {
			if err := r.Cars.SetAvailable(ctx, rental.CarID, true); err != nil {
				return translate("release car", err)
			}
		}
		changed = true

		out, err = r.Rentals.GetDetail(ctx, rentalID)
		return translate("load rental", err)
	})
	if err != nil {
		return model.RentalDetail{}, err
	}

	if changed {
		s.log.Info().Uint64("rental_id", rentalID).Str("from", string(previous)).Str("to", string(next)).Msg("rental status changed")
		s.publish(ctx, queue.NewRentalEvent(queue.EventRentalStatusChanged, out, previous, s.stamp()))
	}
	return out, nil
}

// GetRental returns one rental projection.
func (s *RentalService) GetRental(ctx context.Context, id uint64) (model.RentalDetail, error) {
	d, err := s.store.Rentals.GetDetail(ctx, id)
	return d, translate("get rental", err)
}

// ListAllRentals returns every rental, newest first.
func (s *RentalService) ListAllRentals(ctx context.Context) ([]model.RentalDetail, error) {
	list, err := s.store.Rentals.List(ctx)
	return list, translate("list rentals", err)
}

// ListRentalsByUser returns one user's rentals, newest first.
func (s *RentalService) ListRentalsByUser(ctx context.Context, userID uint64) ([]model.RentalDetail, error) {
	list, err := s.store.Rentals.ListByUser(ctx, userID)
	return list, translate("list user rentals", err)
}

func (s *RentalService) strict() bool { return s.policy == config.StatusPolicyStrict }

func (s *RentalService) stamp() string { return s.now().UTC().Format(time.RFC3339) }

// publish is best effort: the rental is committed whatever happens here.
func (s *RentalService) publish(ctx context.Context, ev queue.RentalEvent) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", ev.Type).Uint64("rental_id", ev.RentalID).Msg("rental event not delivered")
	}
}
