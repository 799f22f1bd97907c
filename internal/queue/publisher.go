package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// Publisher sends rental events to RabbitMQ. Each publish dials, declares
// the queue and sends one persistent message. Calls go through a circuit
// breaker so an unreachable broker costs one fast failure per request
// instead of a dial timeout.
type Publisher struct {
	url  string
	cb   *gobreaker.CircuitBreaker
	log  zerolog.Logger
	dial func(url string) (*amqp.Connection, error)
}

func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{
		url: url,
		log: log,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "rabbitmq-publisher",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
		dial: amqp.Dial,
	}
}

// Publish sends ev to RentalQueue. It returns gobreaker.ErrOpenState
// while the breaker is open.
func (p *Publisher) Publish(ctx context.Context, ev RentalEvent) error {
	_, err := p.cb.Execute(func() (any, error) {
		return nil, p.publish(ctx, ev)
	})
	if err != nil {
		p.log.Warn().Err(err).Str("event", ev.Type).Uint64("rental_id", ev.RentalID).Msg("publish rental event failed")
	}
	return err
}

func (p *Publisher) publish(ctx context.Context, ev RentalEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(RentalQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	return ch.PublishWithContext(ctx, "", RentalQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	})
}

// State exposes the breaker state for health reporting.
func (p *Publisher) State() gobreaker.State { return p.cb.State() }

// NoopPublisher drops events; used when EVENTS_ENABLED is false.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, RentalEvent) error { return nil }
