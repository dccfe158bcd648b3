package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadCapturedPayload is everything the notification worker needs to
// fan out (CRM sync + email) without hitting the database again.
type LeadCapturedPayload struct {
	LeadID string `json:"lead_id"`
	Kind   string `json:"kind"` // CONTACT, SERVICE_INQUIRY, BOOKING, APPLICATION

	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`

	ServiceType string `json:"service_type,omitempty"`
	Message     string `json:"message,omitempty"`

	// Booking-only fields.
	MeetingType   string `json:"meeting_type,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
	MeetingLink   string `json:"meeting_link,omitempty"`

	// Application-only fields.
	JobRef string `json:"job_ref,omitempty"`

	Origin string `json:"origin"`
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload LeadCapturedPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadCaptured(ctx context.Context, payload LeadCapturedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives a broker restart
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %v", err)
	}

	return nil
}
