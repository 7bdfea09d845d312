package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/patil-piyush/OceanGuard/models"
)

// EventPublisher emits report lifecycle events onto a topic exchange for
// downstream consumers (dashboards, analytics). Like email fan-out this is
// best effort; a broker outage never fails the request that triggered it.
type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	log.Printf("events: connected to broker, exchange=%s", exchange)
	return &EventPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

type reportEvent struct {
	EventID    string    `json:"event_id"`
	ReportID   string    `json:"report_id"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishReportEvent emits one event with routing key report.<kind>
// (created, decided, status_changed).
func (p *EventPublisher) PublishReportEvent(ctx context.Context, kind string, report *models.Report) {
	if p == nil {
		return
	}

	event := reportEvent{
		EventID:    uuid.NewString(),
		ReportID:   report.ID.Hex(),
		Category:   string(report.Category),
		Status:     string(report.Status),
		Lat:        report.Lat,
		Lng:        report.Lng,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(pctx, p.exchange, "report."+kind, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		log.Printf("events: publish report.%s failed: %v", kind, err)
	}
}

func (p *EventPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
