package kitchen

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ticketQueue = "kitchen.tickets"

// Publisher dispatches tickets to the kitchen queue. A redelivered ticket is
// a reprint, which is safe from the kitchen's perspective, so publishes are
// never retried or rolled back.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(ticketQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *Publisher) PrintTicket(ctx context.Context, t Ticket) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", ticketQueue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}

// LogPrinter writes tickets to the terminal log when no queue is configured.
type LogPrinter struct {
	Logger *log.Logger
}

func (l *LogPrinter) PrintTicket(_ context.Context, t Ticket) error {
	for _, item := range t.Items {
		note := ""
		if item.Note != "" {
			note = " (" + item.Note + ")"
		}
		l.Logger.Printf("kitchen ticket [%s]: %s x%d%s", t.TableLabel, item.Name, item.Quantity, note)
	}
	return nil
}
