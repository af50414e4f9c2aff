package usecase

import (
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/config"
)

// NewPage clamps page/limit query values against the configured bounds.
// Page numbering is 1-based.
func NewPage(cfg config.PaginationSettings, page, limit int) port.Page {
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if page < 1 {
		page = 1
	}

	return port.Page{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
