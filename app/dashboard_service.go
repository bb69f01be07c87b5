package app

import (
	"gapdash/domain/describe"
	"gapdash/domain/gapminder"
	"gapdash/internal/errors"
)

// DashboardService is the read side of the dashboard: continent selection,
// statistics and charts over the dataset loaded at startup.
type DashboardService struct {
	dataset *gapminder.Dataset
	charts  *ChartService
}

// NewDashboardService wraps a loaded dataset
func NewDashboardService(dataset *gapminder.Dataset, charts *ChartService) *DashboardService {
	return &DashboardService{dataset: dataset, charts: charts}
}

// Dataset returns the underlying dataset
func (d *DashboardService) Dataset() *gapminder.Dataset {
	return d.dataset
}

// Continents lists the selectable continents; the first is the default
func (d *DashboardService) Continents() []string {
	return d.dataset.Continents()
}

// Select returns the filtered view, rejecting continents not in the dataset
func (d *DashboardService) Select(continent string) (gapminder.View, error) {
	view, err := d.dataset.Select(continent)
	if err != nil {
		return gapminder.View{}, errors.InvalidInput("invalid continent selection", err)
	}
	return view, nil
}

// Describe computes descriptive statistics for view
func (d *DashboardService) Describe(view gapminder.View) *describe.Table {
	return describe.Describe(view.Records)
}

// Charts builds the three dashboard figures for view
func (d *DashboardService) Charts(view gapminder.View) Charts {
	return d.charts.Build(view)
}
