package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental/internal/model"
)

func sampleDetail() model.RentalDetail {
	return model.RentalDetail{
		Rental: model.Rental{
			ID: 7, CarID: 2, UserID: 3,
			StartDate:  model.MustDate("2024-01-01"),
			EndDate:    model.MustDate("2024-01-04"),
			TotalPrice: decimal.NewFromInt(750),
			Status:     model.StatusBooked,
		},
		UserName: "John Doe",
		CarBrand: "BMW",
		CarModel: "M4 Competition",
	}
}

func TestNewRentalEvent(t *testing.T) {
	ev := NewRentalEvent(EventRentalBooked, sampleDetail(), "", "2024-01-01T10:00:00Z")

	assert.Equal(t, "BMW M4 Competition", ev.CarBrandModel)
	assert.Equal(t, "750.00", ev.TotalPrice)
	assert.Equal(t, "BOOKED", ev.Status)

	line := ev.LogLine()
	assert.True(t, strings.HasPrefix(line, "[2024-01-01T10:00:00Z] Rental booked"))
	assert.Contains(t, line, `car="BMW M4 Competition"`)
	assert.Contains(t, line, "total=750.00")
}

func TestStatusChangedLogLine(t *testing.T) {
	d := sampleDetail()
	d.Status = model.StatusCompleted
	ev := NewRentalEvent(EventRentalStatusChanged, d, model.StatusBooked, "now")
	assert.Contains(t, ev.LogLine(), "BOOKED -> COMPLETED")
}

func TestConsumerHandleAppends(t *testing.T) {
	dir := t.TempDir()
	c := &Consumer{LogDir: dir, Log: zerolog.Nop()}

	body, err := json.Marshal(NewRentalEvent(EventRentalBooked, sampleDetail(), "", "t1"))
	require.NoError(t, err)
	require.NoError(t, c.Handle(body))
	require.NoError(t, c.Handle(body))

	raw, err := os.ReadFile(filepath.Join(dir, "rentals.log"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "Rental booked"))

	assert.Error(t, c.Handle([]byte("not json")))
	assert.Error(t, c.Handle([]byte(`{"type":""}`)))
}

func TestPublisherBreakerOpensAfterFailures(t *testing.T) {
	p := NewPublisher("amqp://unused", zerolog.Nop())
	dials := 0
	p.dial = func(string) (*amqp.Connection, error) {
		dials++
		return nil, errors.New("connection refused")
	}
	ev := NewRentalEvent(EventRentalBooked, sampleDetail(), "", "t")

	for i := 0; i < 3; i++ {
		assert.Error(t, p.Publish(context.Background(), ev))
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.Publish(context.Background(), ev)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, dials)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), RentalEvent{}))
}
