package holt

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/sartorproj/regionforecast/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoltLinearSeries(t *testing.T) {
	model := New()
	require.NoError(t, model.Fit(timeseries.New([]float64{10, 12, 14, 16})))

	forecasts, err := model.Predict(2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{18, 20}, forecasts, 1e-6)
}

func TestHoltTwoPoints(t *testing.T) {
	model := New()
	require.NoError(t, model.Fit(timeseries.New([]float64{1, 3})))

	forecasts, err := model.Predict(2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 7}, forecasts, 1e-6)
}

func TestHoltNoisyTrend(t *testing.T) {
	n := 12
	values := make([]float64, n)
	for i := range values {
		values[i] = 50000 + 1200*float64(i) + 800*float64(i%7-3)
	}

	model := New()
	require.NoError(t, model.Fit(timeseries.New(values)))

	summary := model.Summary()
	require.NotNil(t, summary)
	assert.GreaterOrEqual(t, summary.Alpha, 0.0)
	assert.LessOrEqual(t, summary.Alpha, 1.0)
	assert.GreaterOrEqual(t, summary.Beta, 0.0)
	assert.LessOrEqual(t, summary.Beta, 1.0)
	assert.Equal(t, n, summary.NObs)

	forecasts, err := model.Predict(5)
	require.NoError(t, err)
	require.Len(t, forecasts, 5)
	for _, f := range forecasts {
		assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
	}
	assert.Greater(t, forecasts[4], values[0], "upward trend should carry into the forecast")

	assert.Len(t, model.Residuals(), n)
	assert.Len(t, model.FittedValues(), n)

	t.Logf("alpha=%.3f beta=%.3f level=%.1f trend=%.1f", summary.Alpha, summary.Beta, summary.Level, summary.Trend)
}

func TestHoltErrors(t *testing.T) {
	assert.ErrorIs(t, New().Fit(timeseries.New([]float64{5})), ErrInsufficientData)
	assert.ErrorIs(t, New().Fit(timeseries.New([]float64{1, math.Inf(1), 3})), ErrNumerical)

	_, err := New().Predict(3)
	assert.ErrorIs(t, err, ErrNotFitted)

	model := New()
	require.NoError(t, model.Fit(timeseries.New([]float64{1, 2, 4})))
	_, err = model.Predict(0)
	assert.Error(t, err)
}

func TestHoltSummaryBeforeFit(t *testing.T) {
	assert.Nil(t, New().Summary())
	assert.Nil(t, New().Residuals())
}

func TestHoltFitContext(t *testing.T) {
	series := timeseries.New([]float64{3, 5, 4, 8, 7, 11, 10, 13})

	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	model := New()
	assert.ErrorIs(t, model.FitContext(expired, series), context.DeadlineExceeded)
	assert.Nil(t, model.Summary())

	ctx, cancel2 := context.WithTimeout(context.Background(), time.Minute)
	defer cancel2()
	require.NoError(t, model.FitContext(ctx, series))
	assert.NotNil(t, model.Summary())
}
