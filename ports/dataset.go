package ports

import (
	"context"

	"gapdash/domain/gapminder"
)

// DatasetProvider loads the dashboard dataset. Callers load once and share the result.
type DatasetProvider interface {
	Load(ctx context.Context) (*gapminder.Dataset, error)
}
