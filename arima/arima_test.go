package arima

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/sartorproj/regionforecast/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ar1 returns n points of a mean-100 AR(1) process driven by a periodic
// innovation sequence.
func ar1(n int, phi float64) []float64 {
	values := make([]float64, n)
	values[0] = 100
	for i := 1; i < n; i++ {
		values[i] = 100 + phi*(values[i-1]-100) + float64(i%7-3)/3
	}
	return values
}

func requireFinite(t *testing.T, forecasts []float64) {
	t.Helper()
	for i, f := range forecasts {
		require.False(t, math.IsNaN(f) || math.IsInf(f, 0), "forecast %d is %v", i, f)
	}
}

func TestNew(t *testing.T) {
	model := New(2, 1, 1)
	assert.Equal(t, Order{P: 2, D: 1, Q: 1}, model.Order)
	assert.Equal(t, "ARIMA(2,1,1)", model.Order.String())
	assert.Len(t, model.ARCoeffs, 2)
	assert.Len(t, model.MACoeffs, 1)
	assert.False(t, model.IncludeMean)
	assert.True(t, New(1, 0, 0).IncludeMean)
}

func TestMinObservations(t *testing.T) {
	assert.Equal(t, 3, MinObservations(Order{P: 1, D: 1, Q: 1}))
	assert.Equal(t, 3, MinObservations(Order{P: 2, D: 0, Q: 1}))
	assert.Equal(t, 1, MinObservations(Order{}))
}

func TestFitRejectsShortSeries(t *testing.T) {
	err := New(5, 2, 5).Fit(timeseries.New([]float64{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFitRejectsNonFinite(t *testing.T) {
	err := New(1, 1, 1).Fit(timeseries.New([]float64{1, 2, math.Inf(1), 4}))
	assert.ErrorIs(t, err, ErrNumerical)
}

func TestPredictBeforeFit(t *testing.T) {
	model := New(1, 1, 1)
	_, err := model.Predict(3)
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Nil(t, model.Summary())
	assert.Nil(t, model.Residuals())
}

func TestFitAR1(t *testing.T) {
	model := New(1, 0, 0)
	require.NoError(t, model.Fit(timeseries.New(ar1(200, 0.7))))

	require.Len(t, model.ARCoeffs, 1)
	assert.Greater(t, model.ARCoeffs[0], 0.0)
	assert.Less(t, math.Abs(model.ARCoeffs[0]), 1.0)
	assert.NotEmpty(t, model.Residuals())
	assert.Len(t, model.FittedValues(), 200)
}

func TestFitConstantMean(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i%7-3) / 3
	}
	series := timeseries.New(values)

	model := New(0, 0, 0)
	require.NoError(t, model.Fit(series))
	assert.InDelta(t, series.Mean(), model.Intercept, 0.5)
}

func TestYearlyHistory(t *testing.T) {
	values := []float64{412, 398, 430, 455, 441, 470, 482, 468}

	model := New(1, 1, 1)
	require.NoError(t, model.Fit(timeseries.New(values)))

	forecasts, err := model.Predict(4)
	require.NoError(t, err)
	require.Len(t, forecasts, 4)
	requireFinite(t, forecasts)

	for _, c := range append(model.ARCoeffs, model.MACoeffs...) {
		assert.Less(t, math.Abs(c), 1.0, "coefficient outside the stationary and invertible region")
	}
	assert.Zero(t, model.Intercept)
}

func TestMinimumLength(t *testing.T) {
	model := New(1, 1, 1)
	require.NoError(t, model.Fit(timeseries.New([]float64{10, 12, 15})))

	forecasts, err := model.Predict(2)
	require.NoError(t, err)
	requireFinite(t, forecasts)
}

func TestIntegration(t *testing.T) {
	cases := []struct {
		name   string
		order  Order
		values []float64
		want   []float64
	}{
		// no drift: the last value carries forward
		{"random walk", Order{D: 1}, []float64{5, 8, 6, 9}, []float64{9, 9, 9}},
		// second differences of zero extend the last slope
		{"linear", Order{D: 2}, []float64{1, 3, 5, 7}, []float64{9, 11, 13}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model := New(tc.order.P, tc.order.D, tc.order.Q)
			require.NoError(t, model.Fit(timeseries.New(tc.values)))

			forecasts, err := model.Predict(len(tc.want))
			require.NoError(t, err)
			assert.InDeltaSlice(t, tc.want, forecasts, 1e-9)
		})
	}
}

func TestSummary(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 100 + float64(i%7-3)/2
	}

	model := New(1, 0, 1)
	require.NoError(t, model.Fit(timeseries.New(values)))

	summary := model.Summary()
	require.NotNil(t, summary)
	assert.Equal(t, 100, summary.NObs)
	assert.Equal(t, model.AIC, summary.AIC)
	require.NotNil(t, summary.LjungBox)
	assert.Equal(t, 8, summary.LjungBox.DOF)
}

func TestOrders(t *testing.T) {
	series := timeseries.New(ar1(150, 0.6))

	for _, o := range []Order{
		{P: 1}, {P: 2}, {Q: 1}, {Q: 2}, {P: 1, Q: 1},
		{P: 1, D: 1}, {D: 1, Q: 1}, {P: 1, D: 1, Q: 1}, {P: 2, D: 1, Q: 1},
	} {
		t.Run(o.String(), func(t *testing.T) {
			model := New(o.P, o.D, o.Q)
			if err := model.Fit(series); err != nil {
				t.Skipf("%s did not fit: %v", o, err)
			}

			forecasts, err := model.Predict(3)
			require.NoError(t, err)
			assert.Len(t, forecasts, 3)
			requireFinite(t, forecasts)
		})
	}
}

func TestYuleWalker(t *testing.T) {
	// autocorrelations of an AR(1) with phi = 0.6
	acf := []float64{1, 0.6, 0.36, 0.216}

	assert.InDeltaSlice(t, []float64{0.6}, yuleWalker(acf, 1), 1e-12)
	assert.InDeltaSlice(t, []float64{0.6, 0}, yuleWalker(acf, 2), 1e-12)
	assert.Nil(t, yuleWalker(acf, 4))
}

func TestFitContext(t *testing.T) {
	series := timeseries.New([]float64{412, 398, 430, 455, 441, 470, 482, 468})

	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	model := New(1, 1, 1)
	assert.ErrorIs(t, model.FitContext(expired, series), context.DeadlineExceeded)
	assert.Nil(t, model.Summary())

	ctx, cancel2 := context.WithTimeout(context.Background(), time.Minute)
	defer cancel2()
	require.NoError(t, model.FitContext(ctx, series))
	assert.NotNil(t, model.Summary())
}
