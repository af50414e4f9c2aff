package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"email":         event.Email,
		"phone":         event.Phone,
		"store_id":      event.StoreID,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserLoggedIn logs user.logged_in events.
func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	payload := map[string]any{
		"user_id":   event.UserID,
		"username":  event.Username,
		"store_id":  event.StoreID,
		"logged_at": event.LoggedAt,
		"metadata":  event.Metadata,
	}
	p.logEvent("user.logged_in", event.UserID, event.LoggedAt, payload)
	return nil
}

// PublishSaleRecorded logs sale.recorded events.
func (p *StubPublisher) PublishSaleRecorded(_ context.Context, event domain.SaleRecordedEvent) error {
	payload := map[string]any{
		"transaction_id": event.TransactionID,
		"store_id":       event.StoreID,
		"cashier_id":     event.CashierID,
		"customer_id":    event.CustomerID,
		"grand_total":    event.GrandTotal,
		"item_count":     event.ItemCount,
		"recorded_at":    event.RecordedAt,
		"metadata":       event.Metadata,
	}
	p.logEvent("sale.recorded", event.CashierID, event.RecordedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
