package ports

import (
	"context"

	"gapdash/models"
)

// CompletionClient submits a chat prompt to a text-generation service
type CompletionClient interface {
	Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error)
}
