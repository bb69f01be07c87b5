package excel

import (
	"context"
	"log"

	"gapdash/domain/gapminder"
	"gapdash/internal/errors"
)

// FileProvider loads the dataset from an .xlsx or .csv file
type FileProvider struct {
	reader *DataReader
	year   int
}

// NewFileProvider creates a provider for path; year 0 keeps all years
func NewFileProvider(path, sheet string, year int) *FileProvider {
	return &FileProvider{reader: NewDataReader(path, sheet), year: year}
}

// Load implements ports.DatasetProvider
func (p *FileProvider) Load(ctx context.Context) (*gapminder.Dataset, error) {
	rows, err := p.reader.ReadRows()
	if err != nil {
		return nil, errors.DatasetInvalid("failed to read dataset file", err)
	}

	records, err := ParseRecords(rows, p.year)
	if err != nil {
		return nil, errors.DatasetInvalid("failed to parse dataset file", err)
	}

	ds, err := gapminder.NewDataset(records)
	if err != nil {
		return nil, errors.DatasetInvalid("invalid dataset", err)
	}
	log.Printf("[FileProvider] Loaded %d records from %s", ds.Len(), p.reader.filePath)
	return ds, nil
}
