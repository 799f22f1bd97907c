package service

import (
	"context"

	"github.com/iliyamo/car-rental/internal/repository"
)

// Stats is the fleet overview shown on the admin dashboard.
type Stats struct {
	TotalUsers    int64
	TotalCars     int64
	TotalRentals  int64
	AvailableCars int64
	RentedCars    int64
}

type StatsService struct {
	store *repository.Store
}

func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

// Stats counts on demand. RentedCars is derived from the two car counts.
func (s *StatsService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.TotalUsers, err = s.store.Users.Count(ctx); err != nil {
		return Stats{}, translate("count users", err)
	}
	if st.TotalCars, err = s.store.Cars.Count(ctx); err != nil {
		return Stats{}, translate("count cars", err)
	}
	if st.TotalRentals, err = s.store.Rentals.Count(ctx); err != nil {
		return Stats{}, translate("count rentals", err)
	}
	if st.AvailableCars, err = s.store.Cars.CountAvailable(ctx); err != nil {
		return Stats{}, translate("count available cars", err)
	}
	st.RentedCars = st.TotalCars - st.AvailableCars
	return st, nil
}
