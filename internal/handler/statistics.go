package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/service"
)

type StatisticsHandler struct {
	Stats *service.StatsService
	Log   zerolog.Logger
}

func NewStatisticsHandler(stats *service.StatsService, log zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{Stats: stats, Log: log}
}

// Get handles GET /api/statistics.
func (h *StatisticsHandler) Get(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	st, err := h.Stats.Stats(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, statsResp{
		TotalUsers:    st.TotalUsers,
		TotalCars:     st.TotalCars,
		TotalRentals:  st.TotalRentals,
		AvailableCars: st.AvailableCars,
		RentedCars:    st.RentedCars,
	})
}
