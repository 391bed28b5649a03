package backtest

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sartorproj/regionforecast/forecast"
	"github.com/sartorproj/regionforecast/stats"
	"github.com/sartorproj/regionforecast/timeseries"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidTestYears is returned for a holdout shorter than one year.
var ErrInvalidTestYears = errors.New("test years must be at least 1")

// minTrainPoints is the fewest training observations an entity needs to be
// evaluated.
const minTrainPoints = 3

// MethodScore aggregates one method's accuracy over every entity it scored.
type MethodScore struct {
	Method      forecast.Method `json:"method"`
	RMSE        float64         `json:"rmse"`
	MAE         float64         `json:"mae"`
	MAPE        float64         `json:"mape"`
	Score       float64         `json:"score"`
	Label       string          `json:"label"`
	SeriesCount int             `json:"series_count"`
}

// EntityScore is one method's accuracy on one entity.
type EntityScore struct {
	Method forecast.Method `json:"method"`
	RMSE   float64         `json:"rmse"`
	MAE    float64         `json:"mae"`
	MAPE   float64         `json:"mape"`
}

// EntityDetail lists the scores of one entity, best first.
type EntityDetail struct {
	EntityCode int             `json:"entity_code"`
	EntityName string          `json:"entity_name"`
	BestMethod forecast.Method `json:"best_method"`
	Scores     []EntityScore   `json:"scores"`
}

// Report ranks methods by backtested accuracy.
type Report struct {
	StartYear   int           `json:"start_year"`
	EndYear     int           `json:"end_year"`
	SeriesCount int           `json:"series_count"`
	PerMethod   []MethodScore `json:"per_method"`
	// BestMethod is nil when no method scored any entity.
	BestMethod *forecast.Method `json:"best_method"`
	Details    []EntityDetail   `json:"details,omitempty"`
}

// HasBest reports whether any method scored an entity.
func (r *Report) HasBest() bool {
	return r.BestMethod != nil
}

// Best returns the winning method, or "" when none scored.
func (r *Report) Best() forecast.Method {
	if r.BestMethod == nil {
		return ""
	}
	return *r.BestMethod
}

// Options configures one comparison.
type Options struct {
	TestYears int
	Methods   []forecast.Method
	Bounds    forecast.Bounds
	Details   bool
}

// Evaluator backtests forecasting methods over the entities of a panel.
type Evaluator struct {
	Engine *forecast.Engine
	// Workers bounds concurrent entity evaluations. Zero means GOMAXPROCS.
	Workers int
	// Labels names score bands. The zero value means EnglishLabels.
	Labels Labels
	Logger zerolog.Logger
}

// New returns an Evaluator running fits on engine.
func New(engine *forecast.Engine, workers int, labels Labels, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		Engine:  engine,
		Workers: workers,
		Labels:  labels,
		Logger:  logger.With().Str("component", "backtest").Logger(),
	}
}

// Compare groups rows by entity and evaluates them. See ComparePanel.
func (e *Evaluator) Compare(ctx context.Context, rows []timeseries.Observation, opts Options) (*Report, error) {
	panel, err := timeseries.NewPanel(rows)
	if err != nil {
		return nil, err
	}
	return e.ComparePanel(ctx, panel, opts)
}

// entityResult holds the scores of one retained entity.
type entityResult struct {
	retained bool
	scores   []EntityScore
}

// ComparePanel holds out the last opts.TestYears distinct years of the
// panel, forecasts them from the earlier years with every method and ranks
// the methods by mean RMSE. A method that fails on an entity contributes no
// score for that entity.
func (e *Evaluator) ComparePanel(ctx context.Context, panel *timeseries.Panel, opts Options) (*Report, error) {
	if opts.TestYears < 1 {
		return nil, ErrInvalidTestYears
	}
	if err := opts.Bounds.Validate(); err != nil {
		return nil, err
	}
	methods := opts.Methods
	if len(methods) == 0 {
		methods = forecast.CompareMethods()
	}
	for _, m := range methods {
		if _, err := forecast.ParseMethod(string(m)); err != nil {
			return nil, err
		}
	}

	report := &Report{PerMethod: []MethodScore{}}
	years := panel.Years()
	if len(years) == 0 {
		return report, nil
	}
	if len(years) <= opts.TestYears {
		report.StartYear = years[0]
		report.EndYear = years[len(years)-1]
		return report, nil
	}

	trainEnd := years[len(years)-opts.TestYears-1]
	testYears := years[len(years)-opts.TestYears:]
	report.StartYear = testYears[0]
	report.EndYear = testYears[len(testYears)-1]

	start := time.Now()
	entities := panel.Entities()
	results := make([]entityResult, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, ent := range entities {
		i, ent := i, ent
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.evaluate(gctx, ent, trainEnd, opts.TestYears, methods, opts.Bounds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	perMethod := make(map[forecast.Method][]EntityScore, len(methods))
	for i, res := range results {
		if !res.retained {
			continue
		}
		report.SeriesCount++
		for _, s := range res.scores {
			perMethod[s.Method] = append(perMethod[s.Method], s)
		}
		if opts.Details && len(res.scores) > 0 {
			scores := append([]EntityScore(nil), res.scores...)
			sort.SliceStable(scores, func(a, b int) bool { return scores[a].RMSE < scores[b].RMSE })
			report.Details = append(report.Details, EntityDetail{
				EntityCode: entities[i].Key.Code,
				EntityName: entities[i].Key.Name,
				BestMethod: scores[0].Method,
				Scores:     scores,
			})
		}
	}

	labels := e.Labels
	if labels.isZero() {
		labels = EnglishLabels
	}
	bestRMSE := math.Inf(1)
	for _, m := range methods {
		scores := perMethod[m]
		if len(scores) == 0 {
			continue
		}
		ms := aggregate(m, scores)
		ms.Label = labels.For(ms.Score)
		report.PerMethod = append(report.PerMethod, ms)
		if ms.RMSE < bestRMSE {
			bestRMSE = ms.RMSE
			report.BestMethod = &ms.Method
		}
	}

	e.Logger.Info().
		Int("test_years", opts.TestYears).
		Int("entities", len(entities)).
		Int("series_count", report.SeriesCount).
		Str("best_method", report.Best().String()).
		Dur("elapsed", time.Since(start)).
		Msg("comparison complete")

	return report, nil
}

// evaluate scores every method on one entity.
func (e *Evaluator) evaluate(ctx context.Context, ent *timeseries.EntitySeries, trainEnd, testYears int, methods []forecast.Method, bounds forecast.Bounds) entityResult {
	train, test := ent.Split(trainEnd)
	if len(train) < minTrainPoints || len(test) < testYears {
		return entityResult{}
	}
	actual := test[:testYears]

	res := entityResult{retained: true}
	for _, m := range methods {
		out := e.engine().Forecast(ctx, m, train, testYears)
		if !out.OK() {
			continue
		}
		acc, err := stats.ForecastAccuracy(forecast.Clip(out.Values, bounds), actual)
		if err != nil {
			e.Logger.Debug().Err(err).Int("entity", ent.Key.Code).Str("method", m.String()).Msg("scoring failed")
			continue
		}
		res.scores = append(res.scores, EntityScore{Method: m, RMSE: acc.RMSE, MAE: acc.MAE, MAPE: acc.MAPE})
	}
	return res
}

func aggregate(m forecast.Method, scores []EntityScore) MethodScore {
	rmse := make([]float64, len(scores))
	mae := make([]float64, len(scores))
	mape := make([]float64, len(scores))
	for i, s := range scores {
		rmse[i], mae[i], mape[i] = s.RMSE, s.MAE, s.MAPE
	}
	ms := MethodScore{
		Method:      m,
		RMSE:        stat.Mean(rmse, nil),
		MAE:         stat.Mean(mae, nil),
		MAPE:        stat.Mean(mape, nil),
		SeriesCount: len(scores),
	}
	ms.Score = math.Max(0, 100-ms.MAPE)
	return ms
}

func (e *Evaluator) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (e *Evaluator) engine() *forecast.Engine {
	if e.Engine != nil {
		return e.Engine
	}
	return &forecast.Engine{}
}
