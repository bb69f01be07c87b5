package postgres

import (
	"context"
	"time"

	"gapdash/models"
	"gapdash/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LLMUsageRepositoryImpl implements LLMUsageRepository for PostgreSQL
type LLMUsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewLLMUsageRepository creates a new PostgreSQL LLM usage repository
func NewLLMUsageRepository(db *sqlx.DB) ports.LLMUsageRepository {
	return &LLMUsageRepositoryImpl{db: db}
}

// RecordUsage inserts one summary call
func (r *LLMUsageRepositoryImpl) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_usage (
			id, request_id, provider, model, operation_type, continent, record_count,
			outcome, failure_kind, prompt_tokens, completion_tokens, total_tokens,
			latency_ms, created_at
		) VALUES (
			:id, :request_id, :provider, :model, :operation_type, :continent, :record_count,
			:outcome, :failure_kind, :prompt_tokens, :completion_tokens, :total_tokens,
			:latency_ms, :created_at
		)
	`, usage)
	return err
}

// GetRecentUsage returns the latest calls, newest first
func (r *LLMUsageRepositoryImpl) GetRecentUsage(ctx context.Context, limit int) ([]*models.LLMUsage, error) {
	if limit <= 0 {
		limit = 50
	}

	var usages []*models.LLMUsage
	err := r.db.SelectContext(ctx, &usages, `
		SELECT id, request_id, provider, model, operation_type, continent, record_count,
		       outcome, failure_kind, prompt_tokens, completion_tokens, total_tokens,
		       latency_ms, created_at
		FROM llm_usage
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	return usages, err
}

// GetUsageSummary aggregates calls within [start, end]
func (r *LLMUsageRepositoryImpl) GetUsageSummary(ctx context.Context, start, end time.Time) (*models.UsageSummary, error) {
	summary := &models.UsageSummary{
		PeriodStart: start,
		PeriodEnd:   end,
		ByContinent: make(map[string]models.ContinentUsage),
	}

	err := r.db.GetContext(ctx, summary, `
		SELECT
			COUNT(*) AS request_count,
			COUNT(*) FILTER (WHERE outcome = 'failure') AS failure_count,
			COALESCE(SUM(total_tokens), 0) AS total_tokens,
			COALESCE(AVG(latency_ms), 0) AS avg_latency_ms
		FROM llm_usage
		WHERE created_at >= $1 AND created_at <= $2
	`, start, end)
	if err != nil {
		return nil, err
	}

	var byContinent []models.ContinentUsage
	err = r.db.SelectContext(ctx, &byContinent, `
		SELECT continent, COUNT(*) AS request_count, COALESCE(SUM(total_tokens), 0) AS total_tokens
		FROM llm_usage
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY continent
		ORDER BY continent
	`, start, end)
	if err != nil {
		return nil, err
	}
	for _, c := range byContinent {
		summary.ByContinent[c.Continent] = c
	}

	return summary, nil
}
