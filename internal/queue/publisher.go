package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/skylane/airline-reservation/internal/model"
)

// Publisher implements service.Events over RabbitMQ.  Publishing is best
// effort: broker failures are logged and swallowed so the request that
// already committed never fails on notification delivery.  Each publish
// dials its own short-lived connection; the volume here does not justify
// a channel pool.
type Publisher struct {
	url string
}

// NewPublisher builds a publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// ReservationConfirmed publishes a ReservationConfirmedEvent.
func (p *Publisher) ReservationConfirmed(ctx context.Context, r *model.Reservation) {
	ev := ReservationConfirmedEvent{
		ReservationID:   r.ID,
		BookingRef:      r.BookingRef,
		CustomerID:      r.CustomerID,
		FlightID:        r.FlightID,
		SeatIDs:         r.SeatIDs,
		TotalPriceCents: r.TotalPriceCents,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	p.publish(ctx, ReservationConfirmedQueue, ev)
}

// FlightStatusChanged publishes a FlightStatusChangedEvent.
func (p *Publisher) FlightStatusChanged(ctx context.Context, flightID uint64, from, to model.FlightStatus) {
	ev := FlightStatusChangedEvent{
		FlightID:  flightID,
		From:      string(from),
		To:        string(to),
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	}
	p.publish(ctx, FlightStatusQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("queue: marshal %s event: %v", queueName, err)
		return
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("queue: dial broker: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("queue: open channel: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Durable queue so messages survive broker restarts; declare is
	// idempotent.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("queue: declare %s: %v", queueName, err)
		return
	}
	err = ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Printf("queue: publish to %s: %v", queueName, err)
	}
}
