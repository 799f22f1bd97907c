package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/car-rental/internal/model"
	"github.com/iliyamo/car-rental/internal/repository"
	"github.com/iliyamo/car-rental/internal/utils"
)

type seedUser struct {
	name, email, password, role string
}

var seedUsers = []seedUser{
	{"System Admin", "admin@drivehub.com", "admin123", model.RoleAdmin},
	{"John Doe", "client@drivehub.com", "client123", model.RoleClient},
}

var seedCars = []model.Car{
	{Brand: "Mercedes", Model: "C-Class", Year: 2023, PricePerDay: decimal.RequireFromString("120.00"), Available: true},
	{Brand: "BMW", Model: "M4 Competition", Year: 2024, PricePerDay: decimal.RequireFromString("250.00"), Available: true},
	{Brand: "Audi", Model: "RS6 Avant", Year: 2023, PricePerDay: decimal.RequireFromString("220.00"), Available: true},
	{Brand: "Range Rover", Model: "Sport HSE", Year: 2024, PricePerDay: decimal.RequireFromString("180.00"), Available: true},
	{Brand: "Volkswagen", Model: "Golf 8 GTI", Year: 2022, PricePerDay: decimal.RequireFromString("90.00"), Available: true},
}

// SeedReport says what a seeding run inserted.
type SeedReport struct {
	UsersCreated int
	CarsCreated  int
}

// Seeder installs the demo accounts and fleet. Running it again changes
// nothing: users are matched by email and cars are only inserted into an
// empty table.
type Seeder struct {
	store      *repository.Store
	bcryptCost int
	log        zerolog.Logger
}

func NewSeeder(store *repository.Store, bcryptCost int, log zerolog.Logger) *Seeder {
	return &Seeder{store: store, bcryptCost: bcryptCost, log: log}
}

func (s *Seeder) Run(ctx context.Context) (SeedReport, error) {
	var rep SeedReport
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		for _, su := range seedUsers {
			exists, err := r.Users.ExistsByEmail(ctx, su.email)
			if err != nil {
				return translate("check seed user", err)
			}
			if exists {
				continue
			}
			hash, err := utils.HashPassword(su.password, s.bcryptCost)
			if err != nil {
				return translate("hash seed password", err)
			}
			u := model.User{Name: su.name, Email: su.email, PasswordHash: hash, Role: su.role}
			if err := r.Users.Create(ctx, &u); err != nil {
				return translate("create seed user", err)
			}
			rep.UsersCreated++
		}

		n, err := r.Cars.Count(ctx)
		if err != nil {
			return translate("count cars", err)
		}
		if n > 0 {
			return nil
		}
		for _, c := range seedCars {
			car := c
			if err := r.Cars.Create(ctx, &car); err != nil {
				return translate("create seed car", err)
			}
			rep.CarsCreated++
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, err
	}
	s.log.Info().Int("users", rep.UsersCreated).Int("cars", rep.CarsCreated).Msg("seed complete")
	return rep, nil
}
