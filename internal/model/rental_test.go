package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRental(t *testing.T) {
	price := decimal.RequireFromString("250.00")

	cases := []struct {
		name       string
		start, end string
		days       int64
		total      string
	}{
		{"three days", "2024-01-01", "2024-01-04", 3, "750"},
		{"same day is one day", "2024-01-01", "2024-01-01", 1, "250"},
		{"end before start is one day", "2024-01-04", "2024-01-01", 1, "250"},
		{"across a month boundary", "2024-01-30", "2024-02-02", 3, "750"},
		{"leap day counted", "2024-02-28", "2024-03-01", 2, "500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, e := MustDate(tc.start), MustDate(tc.end)
			assert.Equal(t, tc.days, BillableDays(s, e))
			got := QuoteRental(price, s, e)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.total)), "got %s", got)
		})
	}
}

func TestDaysUntilWideSpan(t *testing.T) {
	start, end := MustDate("0001-01-01"), MustDate("9999-12-31")
	assert.EqualValues(t, 3652058, start.DaysUntil(end))
	assert.EqualValues(t, -3652058, end.DaysUntil(start))
	assert.EqualValues(t, 3652058, BillableDays(start, end))
}

func TestQuoteRentalKeepsCents(t *testing.T) {
	got := QuoteRental(decimal.RequireFromString("99.99"), MustDate("2024-05-01"), MustDate("2024-05-04"))
	assert.Equal(t, "299.97", got.StringFixed(2))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, NormalizeStatus(" completed "))
	assert.Equal(t, StatusCancelled, NormalizeStatus("Cancelled"))
	assert.Equal(t, Status("LOST"), NormalizeStatus("lost"))
	assert.False(t, Status("LOST").Known())
}

func TestCanTransition(t *testing.T) {
	assert.NoError(t, CanTransition(StatusBooked, StatusCompleted))
	assert.NoError(t, CanTransition(StatusBooked, StatusCancelled))
	assert.NoError(t, CanTransition(StatusBooked, StatusBooked))
	assert.NoError(t, CanTransition(StatusCompleted, StatusCompleted))

	assert.ErrorIs(t, CanTransition(StatusCompleted, StatusBooked), ErrIllegalTransition)
	assert.ErrorIs(t, CanTransition(StatusCancelled, StatusCompleted), ErrIllegalTransition)
	assert.ErrorIs(t, CanTransition(StatusBooked, Status("LOST")), ErrUnknownStatus)
}

func TestReleasesCar(t *testing.T) {
	assert.True(t, StatusCompleted.ReleasesCar())
	assert.True(t, StatusCancelled.ReleasesCar())
	assert.False(t, StatusBooked.ReleasesCar())
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Start Date `json:"startDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2024-01-04"}`), &payload))
	assert.Equal(t, "2024-01-04", payload.Start.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"startDate":"2024-01-04"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"startDate":"04/01/2024"}`), &payload))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-01-01"))
	assert.Equal(t, "2024-01-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-05 00:00:00")))
	assert.Equal(t, "2024-03-05", d.String())

	require.NoError(t, d.Scan(MustDate("2023-12-31").Time))
	assert.Equal(t, "2023-12-31", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDecimalMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(map[string]decimal.Decimal{"price": decimal.RequireFromString("120.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":120.5}`, string(out))
}
