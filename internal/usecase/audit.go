package usecase

import (
	"context"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
)

// AuditRecorder writes the immutable change trail behind every mutating
// operation. Recording failures are logged, never propagated: an audit
// hiccup must not roll back the business write it describes.
type AuditRecorder struct {
	repo port.AuditRepository
	log  *zap.Logger
}

// NewAuditRecorder constructs an AuditRecorder instance.
func NewAuditRecorder(repo port.AuditRepository, log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log}
}

// Record appends one audit entry.
func (a *AuditRecorder) Record(ctx context.Context, entry domain.AuditLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := a.repo.Record(ctx, entry); err != nil {
		a.log.Warn("audit record failed",
			zap.String("action", entry.Action),
			zap.String("entity", entry.Entity),
			zap.Error(err),
		)
	}
}

// List returns a page of audit entries.
func (a *AuditRecorder) List(ctx context.Context, page port.Page) ([]domain.AuditLog, error) {
	return a.repo.List(ctx, page)
}

// ListByEntity returns a page of audit entries touching one entity.
func (a *AuditRecorder) ListByEntity(ctx context.Context, entity, entityID string, page port.Page) ([]domain.AuditLog, error) {
	return a.repo.ListByEntity(ctx, entity, entityID, page)
}
