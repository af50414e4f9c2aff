package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string         `json:"user_id"`
		Username     string         `json:"username"`
		Email        string         `json:"email,omitempty"`
		Phone        string         `json:"phone,omitempty"`
		StoreID      string         `json:"store_id,omitempty"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Username:     event.Username,
		Email:        event.Email,
		Phone:        event.Phone,
		StoreID:      event.StoreID,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishUserLoggedIn publishes user.logged_in events.
func (p *EventPublisher) PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error {
	payload := struct {
		UserID   string         `json:"user_id"`
		Username string         `json:"username"`
		StoreID  string         `json:"store_id,omitempty"`
		LoggedAt time.Time      `json:"logged_at"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}{
		UserID:   event.UserID,
		Username: event.Username,
		StoreID:  event.StoreID,
		LoggedAt: event.LoggedAt.UTC(),
		Metadata: event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.logged_in", event.UserID, event.LoggedAt, payload)
}

// PublishSaleRecorded publishes sale.recorded events.
func (p *EventPublisher) PublishSaleRecorded(ctx context.Context, event domain.SaleRecordedEvent) error {
	payload := struct {
		TransactionID string         `json:"transaction_id"`
		StoreID       string         `json:"store_id"`
		CashierID     string         `json:"cashier_id"`
		CustomerID    *string        `json:"customer_id,omitempty"`
		GrandTotal    float64        `json:"grand_total"`
		ItemCount     int            `json:"item_count"`
		RecordedAt    time.Time      `json:"recorded_at"`
		Metadata      map[string]any `json:"metadata,omitempty"`
	}{
		TransactionID: event.TransactionID,
		StoreID:       event.StoreID,
		CashierID:     event.CashierID,
		CustomerID:    event.CustomerID,
		GrandTotal:    event.GrandTotal,
		ItemCount:     event.ItemCount,
		RecordedAt:    event.RecordedAt.UTC(),
		Metadata:      event.Metadata,
	}

	return p.publish(ctx, event.EventID, "sale.recorded", event.CashierID, event.RecordedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
