// Package events publishes presentation lifecycle events. Publishing is
// best-effort: a failed publish is logged and never fails the use case.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"verifier/internal/platform/kafka/producer"
)

// Type names a lifecycle event.
type Type string

const (
	TypeInitiated Type = "presentation.initiated"
	TypeSubmitted Type = "presentation.submitted"
	TypeAccepted  Type = "presentation.accepted"
	TypeRejected  Type = "presentation.rejected"
)

// Event carries no secrets: the request id is never included and the wallet
// response is summarised, not copied.
type Event struct {
	Type          Type      `json:"type"`
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"presentation_type,omitempty"`
	ResponseMode  string    `json:"response_mode,omitempty"`
	WalletError   string    `json:"wallet_error,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits presentation events.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) {
	p.logger.InfoContext(ctx, "presentation event",
		"event_type", event.Type,
		"transaction_id", event.TransactionID,
		"presentation_type", event.Kind,
		"response_mode", event.ResponseMode,
		"wallet_error", event.WalletError,
		"reason", event.Reason,
	)
}

// AsyncProducer is the subset of the Kafka producer the publisher needs.
type AsyncProducer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaPublisher publishes events keyed by transaction id so all events of a
// presentation land on one partition in order.
type KafkaPublisher struct {
	producer AsyncProducer
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(p AsyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode presentation event", "error", err, "event_type", event.Type)
		return
	}
	msg := &producer.Message{
		Topic:   p.topic,
		Key:     []byte(event.TransactionID),
		Value:   value,
		Headers: map[string]string{"event_type": string(event.Type)},
	}
	if err := p.producer.ProduceAsync(msg); err != nil {
		p.logger.WarnContext(ctx, "failed to publish presentation event",
			"error", err,
			"event_type", event.Type,
			"transaction_id", event.TransactionID,
		)
	}
}

// Multi fans an event out to several publishers.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		p.Publish(ctx, event)
	}
}
