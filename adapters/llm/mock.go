package llm

import (
	"context"
	"sync"

	"gapdash/models"
)

// MockClient is a scripted CompletionClient for tests and offline runs
type MockClient struct {
	Response string // returned as the completion content
	Usage    *models.UsageData
	Error    error // returned instead of a response when set
	Hook     func(ctx context.Context, req models.CompletionRequest)

	mu       sync.Mutex
	requests []models.CompletionRequest
}

// Complete records the request and returns the scripted reply
func (m *MockClient) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Hook != nil {
		m.Hook(ctx, req)
	}
	if m.Error != nil {
		return nil, m.Error
	}
	return &models.CompletionResponse{Content: m.Response, Usage: m.Usage}, nil
}

// Requests returns every request seen so far
func (m *MockClient) Requests() []models.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
