package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// LeadNotifier tells the assigned seller a new lead arrived.
type LeadNotifier interface {
	NotifyLeadConverted(ctx context.Context, payload LeadConvertedPayload) error
}

// Delivery is the acknowledgement surface of amqp.Delivery.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier LeadNotifier
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier LeadNotifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger.With(zap.String("component", "lead_event_worker")),
	}
}

// Start consumes until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("worker waiting for lead events", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("delivery channel closed")
				return nil
			}
			w.Handle(ctx, &d, d.Body)
		}
	}
}

// Handle processes one message. Malformed or failed messages are rejected
// without requeue so they land in the DLQ.
func (w *Worker) Handle(ctx context.Context, d Delivery, body []byte) {
	var payload LeadConvertedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		w.Logger.Error("invalid lead event JSON", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	logger := w.Logger.With(zap.String("event_id", payload.EventID), zap.String("lead_id", payload.LeadID))

	if err := w.Notifier.NotifyLeadConverted(ctx, payload); err != nil {
		logger.Error("lead notification failed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	logger.Info("lead notification sent")
	_ = d.Ack(false)
}
