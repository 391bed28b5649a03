// Package holt implements Holt's linear trend method (additive trend
// exponential smoothing without seasonality).
package holt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/regionforecast/stats"
	"github.com/sartorproj/regionforecast/timeseries"
	"gonum.org/v1/gonum/optimize"
)

var (
	// ErrInsufficientData is returned for series shorter than two points.
	ErrInsufficientData = errors.New("holt: at least two observations required")
	// ErrNoConvergence is returned when parameter optimisation fails.
	ErrNoConvergence = errors.New("holt: parameter optimisation did not converge")
	// ErrNumerical is returned when fitting or forecasting produces NaN or Inf.
	ErrNumerical = errors.New("holt: non-finite value")
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("model must be fitted before prediction")
)

// Model is an additive-trend exponential smoothing model.
//
//	level_t = alpha*y_t + (1-alpha)*(level_{t-1} + trend_{t-1})
//	trend_t = beta*(level_t - level_{t-1}) + (1-beta)*trend_{t-1}
//	yhat_{t+h} = level_t + h*trend_t
type Model struct {
	Alpha      float64 // level smoothing, in [0, 1]
	Beta       float64 // trend smoothing, in [0, 1]
	Level0     float64 // estimated initial level
	Trend0     float64 // estimated initial trend
	Level      float64 // final level
	Trend      float64 // final trend
	SSE        float64
	AIC        float64
	AICc       float64
	BIC        float64
	Iterations int
	fitted     bool
	nObs       int
	residuals  []float64
	fittedVals []float64
}

// New creates an unfitted Holt model.
func New() *Model {
	return &Model{}
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// filter runs the smoothing recursions over y and returns the one-step-ahead
// predictions, final level/trend and sum of squared errors.
func filter(y []float64, alpha, beta, l0, b0 float64) (pred []float64, level, trend, sse float64) {
	pred = make([]float64, len(y))
	level, trend = l0, b0
	for t, v := range y {
		pred[t] = level + trend
		e := v - pred[t]
		sse += e * e
		prevLevel := level
		level = alpha*v + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return pred, level, trend, sse
}

// Fit estimates alpha, beta and the initial state jointly by minimising the
// one-step-ahead sum of squared errors. The series is standardised for the
// search; the method is affine-equivariant so no precision is lost.
func (m *Model) Fit(series *timeseries.Series) error {
	return m.FitContext(context.Background(), series)
}

// FitContext is Fit bounded by ctx. The optimiser stops at ctx's deadline and
// a fit whose context has ended returns ctx.Err().
func (m *Model) FitContext(ctx context.Context, series *timeseries.Series) error {
	n := series.Len()
	if n < 2 {
		return ErrInsufficientData
	}
	if series.HasNonFinite() {
		return ErrNumerical
	}

	m.fitted = false
	if err := ctx.Err(); err != nil {
		return err
	}

	center := series.Values[0]
	scale := series.Std()
	if scale == 0 || math.IsNaN(scale) {
		scale = 1
	}
	z := make([]float64, n)
	for i, v := range series.Values {
		z[i] = (v - center) / scale
	}

	// Start from the line through the first two points
	x0 := []float64{logit(0.5), logit(0.1), 2*z[0] - z[1], z[1] - z[0]}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			_, _, _, sse := filter(z, logistic(x[0]), logistic(x[1]), x[2], x[3])
			if math.IsNaN(sse) {
				return math.Inf(1)
			}
			return sse
		},
	}
	settings := &optimize.Settings{
		MajorIterations: 2000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 100,
		},
	}
	if deadline, ok := ctx.Deadline(); ok {
		if settings.Runtime = time.Until(deadline); settings.Runtime <= 0 {
			return context.DeadlineExceeded
		}
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return ErrNoConvergence
	}

	x := result.X
	m.Alpha = logistic(x[0])
	m.Beta = logistic(x[1])
	m.Level0 = center + scale*x[2]
	m.Trend0 = scale * x[3]
	m.Iterations = result.Stats.MajorIterations

	pred, level, trend, sse := filter(series.Values, m.Alpha, m.Beta, m.Level0, m.Trend0)
	if math.IsNaN(level) || math.IsInf(level, 0) || math.IsNaN(trend) || math.IsInf(trend, 0) {
		return ErrNumerical
	}
	m.Level = level
	m.Trend = trend
	m.SSE = sse
	m.nObs = n
	m.fittedVals = pred
	m.residuals = make([]float64, n)
	for i, v := range series.Values {
		m.residuals[i] = v - pred[i]
	}

	// alpha, beta, initial level, initial trend
	ic := stats.CalculateIC(stats.GaussianLogLik(sse, n), n, 4)
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC

	m.fitted = true
	return nil
}

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	forecasts := make([]float64, steps)
	for h := range forecasts {
		forecasts[h] = m.Level + float64(h+1)*m.Trend
		if math.IsNaN(forecasts[h]) || math.IsInf(forecasts[h], 0) {
			return nil, ErrNumerical
		}
	}
	return forecasts, nil
}

// Residuals returns the one-step-ahead errors.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the one-step-ahead predictions.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVals))
	copy(result, m.fittedVals)
	return result
}

// Summary describes a fitted model.
type Summary struct {
	Alpha      float64
	Beta       float64
	Level      float64
	Trend      float64
	SSE        float64
	AIC        float64
	AICc       float64
	BIC        float64
	NObs       int
	Iterations int
}

// Summary returns a summary of the fitted model.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}
	return &Summary{
		Alpha:      m.Alpha,
		Beta:       m.Beta,
		Level:      m.Level,
		Trend:      m.Trend,
		SSE:        m.SSE,
		AIC:        m.AIC,
		AICc:       m.AICc,
		BIC:        m.BIC,
		NObs:       m.nObs,
		Iterations: m.Iterations,
	}
}
