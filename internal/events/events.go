// Package events publishes booking events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/nats-io/nats.go"
	amqp "github.com/rabbitmq/amqp091-go"
)

// BookingCompleted is the subject (NATS) and queue name (AMQP) for bookings.
const BookingCompleted = "booking.completed"

// Publisher sends booking events. Implementations are safe for concurrent use.
type Publisher interface {
	PublishBooking(ctx context.Context, b model.Booking) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

// PublishBooking discards b.
func (Nop) PublishBooking(context.Context, model.Booking) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }

// NATSPublisher publishes JSON events on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("club-booking"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn, subject: BookingCompleted}, nil
}

// PublishBooking sends b as JSON on the booking subject.
func (p *NATSPublisher) PublishBooking(ctx context.Context, b model.Booking) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	slog.DebugContext(ctx, "publishing event", "subject", p.subject, "booking_id", b.ID)
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("drain nats: %w", err)
	}
	return nil
}

// AMQPPublisher publishes persistent JSON messages to a durable RabbitMQ queue.
type AMQPPublisher struct {
	mu    sync.Mutex // amqp channels are not safe for concurrent publishing
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewAMQPPublisher dials the broker and declares the booking queue.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(BookingCompleted, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: BookingCompleted}, nil
}

// PublishBooking sends b as a persistent JSON message to the booking queue.
func (p *AMQPPublisher) PublishBooking(ctx context.Context, b model.Booking) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    b.ID,
		Timestamp:    b.BookedAt,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	chErr := p.ch.Close()
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close amqp connection: %w", err)
	}
	return chErr
}

// New builds the publisher selected by driver: "none", "nats" or "amqp".
func New(driver, natsURL, amqpURL string) (Publisher, error) {
	switch driver {
	case "", "none":
		return Nop{}, nil
	case "nats":
		return NewNATSPublisher(natsURL)
	case "amqp":
		return NewAMQPPublisher(amqpURL)
	default:
		return nil, fmt.Errorf("unknown events driver %q", driver)
	}
}
