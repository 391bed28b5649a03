package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/sartorproj/regionforecast/forecast"
	"github.com/sartorproj/regionforecast/timeseries"
	"golang.org/x/sync/errgroup"
)

// Row is one forecast value for one entity and future year.
type Row struct {
	Year       int     `json:"year"`
	EntityCode int     `json:"entity_code"`
	EntityName string  `json:"entity_name"`
	Value      float64 `json:"value"`
}

// Result is the flattened forecast for a panel.
type Result struct {
	Rows []Row `json:"data"`
	// StartYear and EndYear are derived from the panel-wide maximum year.
	// An entity whose own last year is earlier is forecast from its own
	// last year, so its rows may fall before StartYear.
	StartYear  int             `json:"start_year"`
	EndYear    int             `json:"end_year"`
	MethodUsed forecast.Method `json:"method_used"`
	// MethodCounts counts entities by the method that produced their rows.
	MethodCounts map[forecast.Method]int `json:"method_counts,omitempty"`
}

// Forecaster forecasts every entity of a panel independently.
type Forecaster struct {
	Engine *forecast.Engine
	// Workers bounds concurrent entity fits. Zero means GOMAXPROCS.
	Workers int
	Logger  zerolog.Logger
}

// New returns a Forecaster running fits on engine.
func New(engine *forecast.Engine, workers int, logger zerolog.Logger) *Forecaster {
	return &Forecaster{
		Engine:  engine,
		Workers: workers,
		Logger:  logger.With().Str("component", "batch").Logger(),
	}
}

// Run groups rows by entity and forecasts them. See RunPanel.
func (f *Forecaster) Run(ctx context.Context, rows []timeseries.Observation, method forecast.Method, horizon int, bounds forecast.Bounds) (*Result, error) {
	panel, err := timeseries.NewPanel(rows)
	if err != nil {
		return nil, err
	}
	return f.RunPanel(ctx, panel, method, horizon, bounds)
}

// RunPanel forecasts horizon years past each entity's last observed year
// with method, clips the values into bounds and returns the rows in entity
// order. An explicit method that fails on an entity falls back to the
// automatic chain for that entity.
func (f *Forecaster) RunPanel(ctx context.Context, panel *timeseries.Panel, method forecast.Method, horizon int, bounds forecast.Bounds) (*Result, error) {
	if horizon < 1 {
		return nil, forecast.ErrInvalidHorizon
	}
	if method != forecast.MethodAuto {
		if _, err := forecast.ParseMethod(string(method)); err != nil {
			return nil, err
		}
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Rows: []Row{}, MethodUsed: method}
	if panel.Empty() {
		return result, nil
	}

	start := time.Now()
	entities := panel.Entities()
	outcomes := make([]forecast.Outcome, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers())
	for i, ent := range entities {
		i, ent := i, ent
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := f.engine().ForecastWithFallback(gctx, method, ent.Values, horizon)
			if !out.OK() {
				return fmt.Errorf("entity %d: %w", ent.Key.Code, out.Err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.StartYear = panel.MaxYear() + 1
	result.EndYear = panel.MaxYear() + horizon
	result.Rows = make([]Row, 0, len(entities)*horizon)
	result.MethodCounts = make(map[forecast.Method]int)

	for i, ent := range entities {
		out := outcomes[i]
		result.MethodCounts[out.Method]++
		for step, v := range forecast.Clip(out.Values, bounds) {
			result.Rows = append(result.Rows, Row{
				Year:       ent.LastYear + step + 1,
				EntityCode: ent.Key.Code,
				EntityName: ent.Key.Name,
				Value:      v,
			})
		}
	}

	f.Logger.Info().
		Str("method", method.String()).
		Int("entities", len(entities)).
		Int("rows", len(result.Rows)).
		Int("start_year", result.StartYear).
		Int("end_year", result.EndYear).
		Dur("elapsed", time.Since(start)).
		Msg("forecast complete")

	return result, nil
}

func (f *Forecaster) workers() int {
	if f.Workers > 0 {
		return f.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (f *Forecaster) engine() *forecast.Engine {
	if f.Engine != nil {
		return f.Engine
	}
	return &forecast.Engine{}
}
