package service

import (
	"fmt"
	"time"

	"github.com/sartorproj/regionforecast/internal/config"
	"github.com/sartorproj/regionforecast/timeseries"
)

// Snapshot is an immutable set of metric tables.
type Snapshot struct {
	tables   map[string][]timeseries.Observation
	LoadedAt time.Time
}

// NewSnapshot wraps already loaded tables. The caller must not modify them
// afterwards.
func NewSnapshot(tables map[string][]timeseries.Observation) *Snapshot {
	return &Snapshot{tables: tables, LoadedAt: time.Now()}
}

// LoadSnapshot reads every configured metric table from disk.
func LoadSnapshot(cfg *config.Config) (*Snapshot, error) {
	tables := make(map[string][]timeseries.Observation, len(cfg.Metrics))
	for _, name := range cfg.MetricNames() {
		m := cfg.Metrics[name]
		opts := timeseries.DefaultCSVOptions()
		opts.ValueColumn = m.ValueColumn

		rows, err := timeseries.LoadCSV(cfg.MetricPath(m), opts)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", name, err)
		}
		tables[name] = rows
	}
	return NewSnapshot(tables), nil
}

// Table returns the rows of metric.
func (s *Snapshot) Table(metric string) ([]timeseries.Observation, bool) {
	rows, ok := s.tables[metric]
	return rows, ok
}
