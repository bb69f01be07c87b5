package usage

import (
	"context"
	"log"
	"sync"
	"time"

	"gapdash/models"
	"gapdash/ports"
)

// Service records summary call metadata without blocking the caller
type Service struct {
	repo ports.LLMUsageRepository
	wg   sync.WaitGroup
}

// NewService creates a new usage service
func NewService(repo ports.LLMUsageRepository) *Service {
	return &Service{repo: repo}
}

// RecordSummary persists usage in the background; tracking problems are logged, never returned
func (s *Service) RecordSummary(ctx context.Context, usage *models.LLMUsage) {
	if usage == nil {
		log.Printf("[UsageService] ERROR: nil usage provided")
		return
	}
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		log.Printf("[UsageService] ERROR: invalid token counts: %+v", usage)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.persistWithRetry(ctx, usage); err != nil {
			log.Printf("[UsageService] ERROR: failed to persist usage %s after retries: %v", usage.RequestID, err)
		}
	}()
}

// persistWithRetry attempts to persist usage with linear backoff
func (s *Service) persistWithRetry(ctx context.Context, usage *models.LLMUsage) error {
	const maxRetries = 3
	const baseDelay = 100 * time.Millisecond

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = s.repo.RecordUsage(ctx, usage); err == nil {
			return nil
		}
		if attempt < maxRetries-1 {
			time.Sleep(time.Duration(attempt+1) * baseDelay)
		}
	}
	return err
}

// Recent returns the latest recorded calls
func (s *Service) Recent(ctx context.Context, limit int) ([]*models.LLMUsage, error) {
	return s.repo.GetRecentUsage(ctx, limit)
}

// Summary aggregates calls over the trailing window
func (s *Service) Summary(ctx context.Context, window time.Duration) (*models.UsageSummary, error) {
	end := time.Now().UTC()
	return s.repo.GetUsageSummary(ctx, end.Add(-window), end)
}

// Close waits for pending writes
func (s *Service) Close() {
	s.wg.Wait()
}
