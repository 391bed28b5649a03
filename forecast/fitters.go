package forecast

import (
	"context"
	"errors"
	"math"

	"github.com/sartorproj/regionforecast/arima"
	"github.com/sartorproj/regionforecast/holt"
	"github.com/rs/zerolog"
	"github.com/sartorproj/regionforecast/timeseries"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInvalidHorizon is returned for a horizon below 1.
	ErrInvalidHorizon = errors.New("horizon must be at least 1")
	// ErrUnknownMethod is returned for an unrecognised method name.
	ErrUnknownMethod = errors.New("unknown forecast method")
	// ErrNonFinite is returned when a fit produces NaN or Inf.
	ErrNonFinite = errors.New("forecast contains non-finite values")
)

// Fitter produces horizon point forecasts following values. A returned error
// is a recoverable fit failure. Fitters should stop once ctx is done; a
// logger attached with zerolog's WithContext receives fit diagnostics at
// debug level.
type Fitter func(ctx context.Context, values []float64, horizon int) ([]float64, error)

// Naive returns horizon copies of the last value, or zeros when values is empty.
func Naive(values []float64, horizon int) []float64 {
	out := make([]float64, max(horizon, 0))
	values = dropMissing(values)
	if len(values) == 0 {
		return out
	}
	last := values[len(values)-1]
	for i := range out {
		out[i] = last
	}
	return out
}

// Holt forecasts with additive-trend exponential smoothing.
func Holt(ctx context.Context, values []float64, horizon int) ([]float64, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	values = dropMissing(values)
	if out, ok := degenerate(values, horizon, minPointsHolt); ok {
		return out, nil
	}

	model := holt.New()
	if err := model.FitContext(ctx, timeseries.New(values)); err != nil {
		return nil, err
	}
	if e := zerolog.Ctx(ctx).Debug(); e.Enabled() {
		sum := model.Summary()
		e.Float64("alpha", sum.Alpha).
			Float64("beta", sum.Beta).
			Float64("aicc", sum.AICc).
			Int("iterations", sum.Iterations).
			Msg("holt fitted")
	}
	return model.Predict(horizon)
}

// ARIMA forecasts with an ARIMA(1,1,1) model.
func ARIMA(ctx context.Context, values []float64, horizon int) ([]float64, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	values = dropMissing(values)
	if out, ok := degenerate(values, horizon, minPointsARIMA); ok {
		return out, nil
	}

	model := arima.New(1, 1, 1)
	if err := model.FitContext(ctx, timeseries.New(values)); err != nil {
		return nil, err
	}
	if e := zerolog.Ctx(ctx).Debug(); e.Enabled() {
		sum := model.Summary()
		e.Floats64("ar", sum.ARCoeffs).
			Floats64("ma", sum.MACoeffs).
			Float64("aicc", sum.AICc).
			Int("iterations", sum.Iterations)
		if lb := sum.LjungBox; lb != nil {
			e.Float64("ljung_box_p", lb.PValue)
		}
		e.Msg("arima fitted")
	}
	return model.Predict(horizon)
}

// Linear fits value = intercept + slope*i for i in 0..n-1 by ordinary least
// squares and extrapolates to n..n+horizon-1.
func Linear(_ context.Context, values []float64, horizon int) ([]float64, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	values = dropMissing(values)
	if out, ok := degenerate(values, horizon, minPointsLinear); ok {
		return out, nil
	}

	n := len(values)
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(x, values, nil, false)

	out := make([]float64, horizon)
	for i := range out {
		out[i] = intercept + slope*float64(n+i)
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, ErrNonFinite
		}
	}
	return out, nil
}

// degenerate handles inputs no method can fit: empty input gives zeros,
// fewer than minPoints values or a constant series gives the last value.
func degenerate(values []float64, horizon, minPoints int) ([]float64, bool) {
	if len(values) == 0 || len(values) < minPoints || timeseries.New(values).IsConstant() {
		return Naive(values, horizon), true
	}
	return nil, false
}

func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
