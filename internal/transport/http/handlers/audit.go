package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/usecase"
)

// AuditHandler exposes read-only access to the audit trail.
type AuditHandler struct {
	audit *usecase.AuditRecorder
	cfg   config.PaginationSettings
}

// NewAuditHandler builds a new audit handler instance.
func NewAuditHandler(audit *usecase.AuditRecorder, cfg config.PaginationSettings) *AuditHandler {
	return &AuditHandler{audit: audit, cfg: cfg}
}

// AuditLogView describes one audit trail entry.
type AuditLogView struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	OldValue  map[string]any `json:"old_value,omitempty"`
	NewValue  map[string]any `json:"new_value,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func newAuditLogView(entry domain.AuditLog) AuditLogView {
	return AuditLogView{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		OldValue:  entry.OldValue,
		NewValue:  entry.NewValue,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		CreatedAt: entry.CreatedAt,
	}
}

// List returns audit entries, newest first. Optional entity and entity_id
// query params narrow the trail to one record.
func (h *AuditHandler) List(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	var (
		entries []domain.AuditLog
		err     error
	)

	entity := c.Query("entity")
	entityID := c.Query("entity_id")
	if entity != "" && entityID != "" {
		entries, err = h.audit.ListByEntity(c.Request.Context(), entity, entityID, bounded)
	} else {
		entries, err = h.audit.List(c.Request.Context(), bounded)
	}
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list audit entries")
		return
	}

	views := make([]AuditLogView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newAuditLogView(entry))
	}

	c.JSON(http.StatusOK, ListResponse[AuditLogView]{Data: views, Page: page, Limit: limit})
}
