// Package service provides the RabbitMQ publisher for reservation domain
// events. Errors are logged and returned so callers can ignore failures
// without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/skelly37/Rentigo/internal/queue"
)

// Publisher pushes reservation events onto the "reservation.events"
// queue. A zero-value Publisher is not usable; construct with
// NewPublisher. It implements booking.Notifier.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that dials the given AMQP URL on each
// publish. Connections are short-lived so a broker restart between
// requests never leaves the publisher holding a dead channel.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PublishReservationEvent publishes the event as a persistent JSON
// message. The function never panics; any error is logged and returned
// so the caller can choose to ignore it.
func (p *Publisher) PublishReservationEvent(ctx context.Context, event queue.ReservationEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive
	// broker restarts.
	if _, err := ch.QueueDeclare(
		queue.ReservationEvents, // name
		true,                    // durable
		false,                   // autoDelete
		false,                   // exclusive
		false,                   // noWait
		nil,                     // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                      // default exchange
		queue.ReservationEvents, // routing key = queue name
		false,                   // mandatory
		false,                   // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
