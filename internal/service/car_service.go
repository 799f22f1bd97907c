package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/car-rental/internal/model"
	"github.com/iliyamo/car-rental/internal/repository"
)

// CarInput carries the writable car fields.
type CarInput struct {
	Brand       string
	Model       string
	Year        int
	PricePerDay decimal.Decimal
	Available   bool
}

func (in CarInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.Brand) == "" {
		problems = append(problems, "brand is required")
	}
	if strings.TrimSpace(in.Model) == "" {
		problems = append(problems, "model is required")
	}
	if in.Year <= 0 {
		problems = append(problems, "year must be greater than 0")
	}
	if !in.PricePerDay.IsPositive() {
		problems = append(problems, "pricePerDay must be greater than 0")
	}
	if len(problems) > 0 {
		return newError(ErrValidation, "%s", strings.Join(problems, "; "))
	}
	return nil
}

type CarService struct {
	store *repository.Store
}

func NewCarService(store *repository.Store) *CarService {
	return &CarService{store: store}
}

func (s *CarService) List(ctx context.Context) ([]model.Car, error) {
	cars, err := s.store.Cars.List(ctx)
	return cars, translate("list cars", err)
}

func (s *CarService) Get(ctx context.Context, id uint64) (model.Car, error) {
	car, err := s.store.Cars.GetByID(ctx, id)
	return car, translate("get car", err)
}

func (s *CarService) Create(ctx context.Context, in CarInput) (model.Car, error) {
	if err := in.validate(); err != nil {
		return model.Car{}, err
	}
	car := model.Car{
		Brand:       strings.TrimSpace(in.Brand),
		Model:       strings.TrimSpace(in.Model),
		Year:        in.Year,
		PricePerDay: in.PricePerDay,
		Available:   in.Available,
	}
	if err := s.store.Cars.Create(ctx, &car); err != nil {
		return model.Car{}, translate("create car", err)
	}
	return car, nil
}

// Update overwrites every field of car id, availability included.
func (s *CarService) Update(ctx context.Context, id uint64, in CarInput) (model.Car, error) {
	if err := in.validate(); err != nil {
		return model.Car{}, err
	}
	car := model.Car{
		ID:          id,
		Brand:       strings.TrimSpace(in.Brand),
		Model:       strings.TrimSpace(in.Model),
		Year:        in.Year,
		PricePerDay: in.PricePerDay,
		Available:   in.Available,
	}
	if err := s.store.Cars.Update(ctx, &car); err != nil {
		return model.Car{}, translate("update car", err)
	}
	updated, err := s.store.Cars.GetByID(ctx, id)
	return updated, translate("get car", err)
}

// Delete removes a car that no rental references.
func (s *CarService) Delete(ctx context.Context, id uint64) error {
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		return r.Cars.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrConflict) {
		return &Error{Kind: ErrConflict, Msg: "car has rentals and cannot be deleted", Err: err}
	}
	return translate("delete car", err)
}

// CarPage is one page of a catalogue search.
type CarPage struct {
	Cars     []model.Car
	Total    int64
	Page     int
	PageSize int
}

// Search filters the catalogue. Page defaults to 1 and the page size to 20,
// capped at 100.
func (s *CarService) Search(ctx context.Context, q repository.CarSearchQuery) (CarPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return CarPage{}, newError(ErrValidation, "minPrice must not exceed maxPrice")
	}
	q.Brand = strings.TrimSpace(q.Brand)
	q.Model = strings.TrimSpace(q.Model)

	cars, total, err := s.store.Cars.Search(ctx, q)
	if err != nil {
		return CarPage{}, translate("search cars", err)
	}
	return CarPage{Cars: cars, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}
