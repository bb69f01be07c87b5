package usage

import (
	"context"
	"sort"
	"sync"
	"time"

	"gapdash/models"

	"github.com/google/uuid"
)

// MemoryRepository keeps usage in process memory, used when no database is configured
type MemoryRepository struct {
	mu      sync.RWMutex
	records []*models.LLMUsage
	limit   int
}

// NewMemoryRepository keeps at most limit records, dropping the oldest
func NewMemoryRepository(limit int) *MemoryRepository {
	if limit <= 0 {
		limit = 1000
	}
	return &MemoryRepository{limit: limit}
}

// RecordUsage implements ports.LLMUsageRepository
func (m *MemoryRepository) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	copied := *usage
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, &copied)
	if len(m.records) > m.limit {
		m.records = m.records[len(m.records)-m.limit:]
	}
	return nil
}

// GetRecentUsage implements ports.LLMUsageRepository
func (m *MemoryRepository) GetRecentUsage(ctx context.Context, limit int) ([]*models.LLMUsage, error) {
	m.mu.RLock()
	out := make([]*models.LLMUsage, len(m.records))
	copy(out, m.records)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// GetUsageSummary implements ports.LLMUsageRepository
func (m *MemoryRepository) GetUsageSummary(ctx context.Context, start, end time.Time) (*models.UsageSummary, error) {
	summary := &models.UsageSummary{
		PeriodStart: start,
		PeriodEnd:   end,
		ByContinent: make(map[string]models.ContinentUsage),
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var latency int64
	for _, u := range m.records {
		if u.CreatedAt.Before(start) || u.CreatedAt.After(end) {
			continue
		}
		summary.RequestCount++
		summary.TotalTokens += u.TotalTokens
		latency += u.LatencyMS
		if u.Outcome == models.OutcomeFailure {
			summary.FailureCount++
		}

		c := summary.ByContinent[u.Continent]
		c.Continent = u.Continent
		c.RequestCount++
		c.TotalTokens += u.TotalTokens
		summary.ByContinent[u.Continent] = c
	}
	if summary.RequestCount > 0 {
		summary.AvgLatencyMS = float64(latency) / float64(summary.RequestCount)
	}
	return summary, nil
}
