package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/car-rental/internal/repository"
	"github.com/iliyamo/car-rental/internal/service"
)

type carPageResp struct {
	Data     []carResp `json:"data"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// Search handles GET /api/cars/search?brand=&model=&available=&minPrice=&maxPrice=&page=&pageSize=
func (h *CarHandler) Search(c echo.Context) error {
	q := repository.CarSearchQuery{
		Brand: c.QueryParam("brand"),
		Model: c.QueryParam("model"),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))

	if raw := strings.TrimSpace(c.QueryParam("available")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return respondError(c, h.Log, &service.Error{Kind: service.ErrValidation, Msg: "available must be true or false"})
		}
		q.Available = &b
	}
	var err error
	if q.MinPrice, err = decimalParam(c, "minPrice"); err != nil {
		return respondError(c, h.Log, err)
	}
	if q.MaxPrice, err = decimalParam(c, "maxPrice"); err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	page, err := h.Cars.Search(ctx, q)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, carPageResp{
		Data:     mapSlice(page.Cars, toCarResp),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func decimalParam(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &service.Error{Kind: service.ErrValidation, Msg: name + " must be a number"}
	}
	return &d, nil
}
