package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadConvertedPayload is published after a raw lead becomes a Lead.
type LeadConvertedPayload struct {
	EventID        string    `json:"event_id"`
	LeadID         string    `json:"lead_id"`
	RawLeadID      string    `json:"raw_lead_id"`
	InquiryNumber  string    `json:"inquiry_number"`
	OrganizationID string    `json:"organization_id"`
	BranchID       string    `json:"branch_id"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone,omitempty"`
	Origin         string    `json:"origin"`
	AssignedTo     *string   `json:"assigned_to,omitempty"`
	ConvertedAt    time.Time `json:"converted_at"`
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishRecorder receives the outcome of each publish, "ok" or "error".
type PublishRecorder func(status string)

type RabbitMQProducer struct {
	Ch     Publisher
	Record PublishRecorder
}

func NewProducer(ch Publisher, record PublishRecorder) *RabbitMQProducer {
	if record == nil {
		record = func(string) {}
	}
	return &RabbitMQProducer{Ch: ch, Record: record}
}

func (p *RabbitMQProducer) PublishLeadConverted(ctx context.Context, payload LeadConvertedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.Record("error")
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    payload.EventID,
			Timestamp:    payload.ConvertedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		p.Record("error")
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	p.Record("ok")
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishLeadConverted(context.Context, LeadConvertedPayload) error {
	return nil
}
