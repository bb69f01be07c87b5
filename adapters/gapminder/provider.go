package gapminder

import (
	"bytes"
	"context"
	_ "embed"
	"log"
	"sync"

	"gapdash/adapters/excel"
	domain "gapdash/domain/gapminder"
	"gapdash/internal/errors"
	"gapdash/ports"
)

// ReferenceYear is the only year shipped in the embedded data
const ReferenceYear = 2007

//go:embed data/gapminder_2007.csv
var embeddedCSV []byte

// EmbeddedProvider serves the Gapminder 2007 country table compiled into the binary
type EmbeddedProvider struct {
	year int
}

// NewEmbeddedProvider creates a provider for year; 0 means ReferenceYear
func NewEmbeddedProvider(year int) *EmbeddedProvider {
	if year == 0 {
		year = ReferenceYear
	}
	return &EmbeddedProvider{year: year}
}

// Load implements ports.DatasetProvider
func (p *EmbeddedProvider) Load(ctx context.Context) (*domain.Dataset, error) {
	rows, err := excel.ReadCSV(bytes.NewReader(embeddedCSV))
	if err != nil {
		return nil, errors.DatasetInvalid("failed to read embedded dataset", err)
	}
	records, err := excel.ParseRecords(rows, p.year)
	if err != nil {
		return nil, errors.DatasetInvalid("failed to parse embedded dataset", err)
	}
	ds, err := domain.NewDataset(records)
	if err != nil {
		return nil, errors.DatasetInvalid("no embedded data for the requested year", err)
	}
	log.Printf("[EmbeddedProvider] Loaded %d records for %d", ds.Len(), p.year)
	return ds, nil
}

// CachedProvider loads from the wrapped provider at most once
type CachedProvider struct {
	inner ports.DatasetProvider
	once  sync.Once
	ds    *domain.Dataset
	err   error
}

// Cached wraps a provider so the dataset is loaded once per process
func Cached(inner ports.DatasetProvider) *CachedProvider {
	return &CachedProvider{inner: inner}
}

// Load implements ports.DatasetProvider
func (c *CachedProvider) Load(ctx context.Context) (*domain.Dataset, error) {
	c.once.Do(func() {
		c.ds, c.err = c.inner.Load(ctx)
	})
	return c.ds, c.err
}
