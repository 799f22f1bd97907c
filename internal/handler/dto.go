package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/car-rental/internal/model"
	"github.com/iliyamo/car-rental/internal/service"
)

// ----- requests -----

type carReq struct {
	Brand       string          `json:"brand" validate:"notblank"`
	Model       string          `json:"model" validate:"notblank"`
	Year        int             `json:"year" validate:"gt=0"`
	PricePerDay decimal.Decimal `json:"pricePerDay" validate:"gt=0"`
	Available   bool            `json:"available"`
}

func (r carReq) input() service.CarInput {
	return service.CarInput{
		Brand:       r.Brand,
		Model:       r.Model,
		Year:        r.Year,
		PricePerDay: r.PricePerDay,
		Available:   r.Available,
	}
}

type rentalReq struct {
	CarID     uint64      `json:"carId" validate:"gt=0"`
	UserID    uint64      `json:"userId"` // defaults to the caller
	StartDate *model.Date `json:"startDate" validate:"required"`
	EndDate   *model.Date `json:"endDate" validate:"required"`
}

type signupReq struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"max=30"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"notblank"`
}

// ----- responses -----

type carResp struct {
	ID          uint64          `json:"id"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Year        int             `json:"year"`
	PricePerDay decimal.Decimal `json:"pricePerDay"`
	Available   bool            `json:"available"`
}

func toCarResp(c model.Car) carResp {
	return carResp{
		ID:          c.ID,
		Brand:       c.Brand,
		Model:       c.Model,
		Year:        c.Year,
		PricePerDay: c.PricePerDay.Round(2),
		Available:   c.Available,
	}
}

type userResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func toUserResp(u model.User) userResp {
	return userResp{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

type rentalResp struct {
	ID            uint64          `json:"id"`
	UserID        uint64          `json:"userId"`
	UserName      string          `json:"userName"`
	CarID         uint64          `json:"carId"`
	CarBrandModel string          `json:"carBrandModel"`
	StartDate     model.Date      `json:"startDate"`
	EndDate       model.Date      `json:"endDate"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        model.Status    `json:"status"`
}

func toRentalResp(d model.RentalDetail) rentalResp {
	return rentalResp{
		ID:            d.ID,
		UserID:        d.UserID,
		UserName:      d.UserName,
		CarID:         d.CarID,
		CarBrandModel: d.CarBrandModel(),
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		TotalPrice:    d.TotalPrice.Round(2),
		Status:        d.Status,
	}
}

type statsResp struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalCars     int64 `json:"totalCars"`
	TotalRentals  int64 `json:"totalRentals"`
	AvailableCars int64 `json:"availableCars"`
	RentedCars    int64 `json:"rentedCars"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User    userResp  `json:"user"`
	Roles   []string  `json:"roles"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toAuthResp(s service.Session) authResp {
	return authResp{
		User:    toUserResp(s.User),
		Roles:   []string{"ROLE_" + s.User.Role},
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp},
	}
}

// mapSlice projects every element of in with f.
func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
