// Package service answers forecast and comparison requests over an
// immutable data snapshot and caches the results.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sartorproj/regionforecast/backtest"
	"github.com/sartorproj/regionforecast/batch"
	"github.com/sartorproj/regionforecast/forecast"
	"github.com/sartorproj/regionforecast/internal/cache"
	"github.com/sartorproj/regionforecast/internal/config"
	"github.com/sartorproj/regionforecast/internal/metrics"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// MetricAll requests a forecast of every configured metric.
const MetricAll = "all"

const autoNote = "auto (holt -> linear -> naive)"

// PredictRequest asks for forecasts of one metric, or of all of them.
type PredictRequest struct {
	Metric string
	// Horizon defaults to the configured default when zero.
	Horizon int
	// Method defaults to auto when empty.
	Method string
	Filter Filter
}

// Prediction is the answer to a PredictRequest.
type Prediction struct {
	RequestID string `json:"request_id"`
	Metric    string `json:"metric"`
	Horizon   int    `json:"horizon"`
	Method    string `json:"method"`
	// StartYear and EndYear span every metric in Results.
	StartYear int                      `json:"start_year"`
	EndYear   int                      `json:"end_year"`
	Results   map[string]*batch.Result `json:"data"`
	Cached    bool                     `json:"cached"`
}

// CompareRequest asks for a backtest of one metric.
type CompareRequest struct {
	Metric string
	// TestYears defaults to the configured default when zero.
	TestYears int
	// Methods defaults to the configured compare methods when empty.
	Methods []string
	Details bool
	Filter  Filter
}

// Comparison is the answer to a CompareRequest.
type Comparison struct {
	RequestID string `json:"request_id"`
	Metric    string `json:"metric"`
	TestYears int    `json:"test_years"`
	*backtest.Report
	Cached bool `json:"cached"`
}

// Service owns the data snapshot, the result caches and the workers that
// compute results. It is safe for concurrent use.
type Service struct {
	cfg        *config.Config
	snapshot   atomic.Pointer[Snapshot]
	forecaster *batch.Forecaster
	evaluator  *backtest.Evaluator
	forecasts  *cache.Cache[map[string]*batch.Result]
	reports    *cache.Cache[*backtest.Report]
	methods    []forecast.Method
	logger     zerolog.Logger
}

// New builds a service over snap. collector may be nil.
func New(cfg *config.Config, snap *Snapshot, collector *metrics.Collector, logger zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	methods, err := cfg.Methods()
	if err != nil {
		return nil, err
	}
	labels, err := cfg.ScoreLabels()
	if err != nil {
		return nil, err
	}

	var observer forecast.Observer
	var recorder cache.Recorder
	if collector != nil {
		observer = collector
		recorder = collector
	}

	forecasts, err := cache.New[map[string]*batch.Result](cfg.CacheSize, recorder)
	if err != nil {
		return nil, err
	}
	reports, err := cache.New[*backtest.Report](cfg.CacheSize, recorder)
	if err != nil {
		return nil, err
	}

	engine := forecast.NewEngine(cfg.FitTimeout, observer, logger)
	s := &Service{
		cfg:        cfg,
		forecaster: batch.New(engine, cfg.Workers, logger),
		evaluator:  backtest.New(engine, cfg.Workers, labels, logger),
		forecasts:  forecasts,
		reports:    reports,
		methods:    methods,
		logger:     logger.With().Str("component", "service").Logger(),
	}
	s.snapshot.Store(snap)
	return s, nil
}

// Reload swaps in a new snapshot and drops every cached result.
func (s *Service) Reload(snap *Snapshot) {
	s.snapshot.Store(snap)
	s.forecasts.Purge()
	s.reports.Purge()
	s.logger.Info().Time("loaded_at", snap.LoadedAt).Msg("snapshot reloaded")
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Predict forecasts the requested metric.
func (s *Service) Predict(ctx context.Context, req PredictRequest) (*Prediction, error) {
	metricNames, err := s.resolveMetric(req.Metric, true)
	if err != nil {
		return nil, err
	}
	horizon, err := resolveRange("horizon", req.Horizon, s.cfg.Horizon)
	if err != nil {
		return nil, err
	}
	method := forecast.MethodAuto
	if strings.TrimSpace(req.Method) != "" {
		if method, err = forecast.ParseMethod(req.Method); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	filter, err := normalizeFilter(req.Filter)
	if err != nil {
		return nil, err
	}

	metric := strings.ToLower(strings.TrimSpace(req.Metric))
	pred := &Prediction{
		RequestID: uuid.NewString(),
		Metric:    metric,
		Horizon:   horizon,
		Method:    method.String(),
	}
	if method == forecast.MethodAuto {
		pred.Method = autoNote
	}
	log := s.logger.With().Str("request_id", pred.RequestID).Str("metric", metric).Logger()

	key := cache.NewKey(metric, filter.Tipe, filter.Codes, horizon, method.String(), false)
	results, ok := s.forecasts.Get(key)
	if ok {
		pred.Cached = true
	} else {
		snap := s.Snapshot()
		results = make(map[string]*batch.Result, len(metricNames))
		for _, name := range metricNames {
			rows, _ := snap.Table(name)
			res, err := s.forecaster.Run(ctx, filter.Apply(rows), method, horizon, s.cfg.Metrics[name].Bounds)
			if err != nil {
				return nil, fmt.Errorf("forecast %s: %w", name, err)
			}
			results[name] = res
		}
		s.forecasts.Add(key, results)
	}

	pred.Results = results
	for _, res := range results {
		if res.StartYear != 0 && (pred.StartYear == 0 || res.StartYear < pred.StartYear) {
			pred.StartYear = res.StartYear
		}
		if res.EndYear > pred.EndYear {
			pred.EndYear = res.EndYear
		}
	}

	log.Info().Str("key", key.String()).Bool("cached", pred.Cached).Msg("predict")
	return pred, nil
}

// Compare backtests the configured methods on the requested metric.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (*Comparison, error) {
	metricNames, err := s.resolveMetric(req.Metric, false)
	if err != nil {
		return nil, err
	}
	metric := metricNames[0]
	testYears, err := resolveRange("test_years", req.TestYears, s.cfg.TestYears)
	if err != nil {
		return nil, err
	}
	methods := s.methods
	if len(req.Methods) > 0 {
		methods = make([]forecast.Method, 0, len(req.Methods))
		for _, name := range req.Methods {
			m, err := forecast.ParseMethod(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
			}
			methods = append(methods, m)
		}
	}
	filter, err := normalizeFilter(req.Filter)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		RequestID: uuid.NewString(),
		Metric:    metric,
		TestYears: testYears,
	}
	log := s.logger.With().Str("request_id", cmp.RequestID).Str("metric", metric).Logger()

	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	key := cache.NewKey(metric, filter.Tipe, filter.Codes, testYears, strings.Join(names, "+"), req.Details)
	report, ok := s.reports.Get(key)
	if ok {
		cmp.Cached = true
	} else {
		rows, _ := s.Snapshot().Table(metric)
		start := time.Now()
		report, err = s.evaluator.Compare(ctx, filter.Apply(rows), backtest.Options{
			TestYears: testYears,
			Methods:   methods,
			Bounds:    s.cfg.Metrics[metric].Bounds,
			Details:   req.Details,
		})
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", metric, err)
		}
		s.reports.Add(key, report)
		log.Debug().Dur("elapsed", time.Since(start)).Msg("report computed")
	}
	cmp.Report = report

	log.Info().Str("key", key.String()).Bool("cached", cmp.Cached).Str("best_method", report.Best().String()).Msg("compare")
	return cmp, nil
}

// resolveMetric returns the metric tables a request covers.
func (s *Service) resolveMetric(metric string, allowAll bool) ([]string, error) {
	metric = strings.ToLower(strings.TrimSpace(metric))
	if metric == MetricAll && allowAll {
		return s.cfg.MetricNames(), nil
	}
	if _, ok := s.cfg.Metrics[metric]; !ok {
		return nil, fmt.Errorf("%w: invalid metric %q, want one of %s", ErrInvalidRequest, metric, strings.Join(s.cfg.MetricNames(), ", "))
	}
	return []string{metric}, nil
}

func resolveRange(name string, v int, r config.Range) (int, error) {
	if v == 0 {
		return r.Default, nil
	}
	if v < 1 || v > r.Max {
		return 0, fmt.Errorf("%w: %s must be between 1 and %d", ErrInvalidRequest, name, r.Max)
	}
	return v, nil
}

func normalizeFilter(f Filter) (Filter, error) {
	tipe, err := NormalizeTipe(f.Tipe)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Tipe: tipe, Codes: f.Codes}, nil
}
