package ports

import (
	"context"
	"time"

	"gapdash/models"
)

// LLMUsageRepository persists summary call metadata
type LLMUsageRepository interface {
	// Record stores one summary call
	RecordUsage(ctx context.Context, usage *models.LLMUsage) error

	// Recent returns the latest calls, newest first
	GetRecentUsage(ctx context.Context, limit int) ([]*models.LLMUsage, error)

	// Summary aggregates calls within [start, end]
	GetUsageSummary(ctx context.Context, start, end time.Time) (*models.UsageSummary, error)
}
