package port

import (
	"context"

	"github.com/wynresh/sunem/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error
	PublishSaleRecorded(ctx context.Context, event domain.SaleRecordedEvent) error
}
