package backtest

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sartorproj/regionforecast/forecast"
	"github.com/sartorproj/regionforecast/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvaluator() *Evaluator {
	return New(forecast.NewEngine(0, nil, zerolog.Nop()), 2, Labels{}, zerolog.Nop())
}

func entity(code int, name string, firstYear int, values ...float64) []timeseries.Observation {
	rows := make([]timeseries.Observation, len(values))
	for i, v := range values {
		rows[i] = timeseries.Observation{EntityCode: code, EntityName: name, Year: firstYear + i, Value: v}
	}
	return rows
}

func TestTooFewYears(t *testing.T) {
	rows := entity(1, "A", 2020, 10, 12)

	rep, err := newEvaluator().Compare(context.Background(), rows, Options{TestYears: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.SeriesCount)
	assert.False(t, rep.HasBest())
	assert.Empty(t, rep.PerMethod)
	assert.Equal(t, 2020, rep.StartYear)
	assert.Equal(t, 2021, rep.EndYear)
}

func TestEmptyTable(t *testing.T) {
	rep, err := newEvaluator().Compare(context.Background(), nil, Options{TestYears: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.StartYear)
	assert.Equal(t, 0, rep.EndYear)
	assert.NotNil(t, rep.PerMethod)
}

func TestInvalidTestYears(t *testing.T) {
	_, err := newEvaluator().Compare(context.Background(), nil, Options{TestYears: 0})
	assert.ErrorIs(t, err, ErrInvalidTestYears)
}

func TestCompareLinearData(t *testing.T) {
	var rows []timeseries.Observation
	rows = append(rows, entity(1, "KOTA A", 2015, 10, 12, 14, 16, 18, 20)...)
	rows = append(rows, entity(2, "KABUPATEN B", 2015, 100, 90, 80, 70, 60, 50)...)
	// Too short a training window: skipped.
	rows = append(rows, entity(3, "KOTA C", 2018, 1, 2, 3)...)

	rep, err := newEvaluator().Compare(context.Background(), rows, Options{
		TestYears: 2,
		Methods:   []forecast.Method{forecast.MethodNaive, forecast.MethodLinear},
		Details:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2019, rep.StartYear)
	assert.Equal(t, 2020, rep.EndYear)
	assert.Equal(t, 2, rep.SeriesCount)
	require.Len(t, rep.PerMethod, 2)

	naive, linear := rep.PerMethod[0], rep.PerMethod[1]
	assert.Equal(t, forecast.MethodNaive, naive.Method)
	assert.Equal(t, forecast.MethodLinear, linear.Method)
	assert.InDelta(t, 0, linear.RMSE, 1e-9)
	assert.InDelta(t, 100, linear.Score, 1e-9)
	assert.Equal(t, "Excellent", linear.Label)
	assert.Greater(t, naive.RMSE, 0.0)
	assert.Equal(t, 2, naive.SeriesCount)
	assert.Equal(t, forecast.MethodLinear, rep.Best())

	require.Len(t, rep.Details, 2)
	assert.Equal(t, 1, rep.Details[0].EntityCode)
	assert.Equal(t, forecast.MethodLinear, rep.Details[0].BestMethod)
	assert.LessOrEqual(t, rep.Details[0].Scores[0].RMSE, rep.Details[0].Scores[1].RMSE)
}

func TestBestMethodHasMinimumRMSE(t *testing.T) {
	var rows []timeseries.Observation
	for code := 1; code <= 6; code++ {
		vals := make([]float64, 9)
		for i := range vals {
			vals[i] = float64(50+code*i) + float64((i*code)%7-3)
		}
		rows = append(rows, entity(code, "E", 2012, vals...)...)
	}

	rep, err := newEvaluator().Compare(context.Background(), rows, Options{
		TestYears: 2,
		Methods:   []forecast.Method{forecast.MethodHolt, forecast.MethodARIMA, forecast.MethodLinear, forecast.MethodNaive},
	})
	require.NoError(t, err)
	require.True(t, rep.HasBest())

	var best MethodScore
	for _, ms := range rep.PerMethod {
		if ms.Method == rep.Best() {
			best = ms
		}
		assert.GreaterOrEqual(t, ms.RMSE, 0.0)
		assert.GreaterOrEqual(t, ms.MAE, 0.0)
		assert.GreaterOrEqual(t, ms.MAPE, 0.0)
		assert.GreaterOrEqual(t, ms.Score, 0.0)
		assert.LessOrEqual(t, ms.Score, 100.0)
		t.Logf("%s rmse=%.3f mape=%.2f n=%d", ms.Method, ms.RMSE, ms.MAPE, ms.SeriesCount)
	}
	for _, ms := range rep.PerMethod {
		assert.LessOrEqual(t, best.RMSE, ms.RMSE)
	}
	assert.Nil(t, rep.Details)
}

func TestTieGoesToFirstMethod(t *testing.T) {
	// A constant training window makes holt forecast the last value, same as naive.
	rows := entity(1, "A", 2015, 5, 5, 5, 7)

	for _, methods := range [][]forecast.Method{
		{forecast.MethodHolt, forecast.MethodNaive},
		{forecast.MethodNaive, forecast.MethodHolt},
	} {
		rep, err := newEvaluator().Compare(context.Background(), rows, Options{TestYears: 1, Methods: methods})
		require.NoError(t, err)
		require.Len(t, rep.PerMethod, 2)
		assert.Equal(t, rep.PerMethod[0].RMSE, rep.PerMethod[1].RMSE)
		assert.Equal(t, methods[0], rep.Best())
	}
}

func TestZeroActualMAPE(t *testing.T) {
	// Train 5,5,5 forecasts 5; actual 0 scores 500% on that point.
	rows := entity(1, "A", 2018, 5, 5, 5, 0)

	rep, err := newEvaluator().Compare(context.Background(), rows, Options{
		TestYears: 1,
		Methods:   []forecast.Method{forecast.MethodNaive},
	})
	require.NoError(t, err)
	require.Len(t, rep.PerMethod, 1)
	assert.InDelta(t, 500, rep.PerMethod[0].MAPE, 1e-9)
	assert.Equal(t, 0.0, rep.PerMethod[0].Score)
	assert.Equal(t, "Poor", rep.PerMethod[0].Label)
}

func TestClipAppliedBeforeScoring(t *testing.T) {
	rows := entity(1, "A", 2015, 40, 30, 20, 10, 0)

	rep, err := newEvaluator().Compare(context.Background(), rows, Options{
		TestYears: 1,
		Methods:   []forecast.Method{forecast.MethodLinear},
		Bounds:    forecast.AtLeast(0),
	})
	require.NoError(t, err)
	require.Len(t, rep.PerMethod, 1)
	assert.InDelta(t, 0, rep.PerMethod[0].RMSE, 1e-9)
}

func TestLabels(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "Sangat Baik"},
		{85, "Sangat Baik"},
		{84.9, "Baik"},
		{70, "Baik"},
		{55, "Cukup"},
		{54.99, "Kurang"},
		{0, "Kurang"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndonesianLabels.For(tt.score), "score %v", tt.score)
	}
}

func TestUnknownMethod(t *testing.T) {
	_, err := newEvaluator().Compare(context.Background(), entity(1, "A", 2015, 1, 2, 3, 4), Options{
		TestYears: 1,
		Methods:   []forecast.Method{"prophet"},
	})
	assert.ErrorIs(t, err, forecast.ErrUnknownMethod)
}

func TestFailedFitSkipsOnlyThatEntity(t *testing.T) {
	// B's training window holds +Inf: linear and holt fail there, naive does not.
	rows := append(entity(1, "A", 2018, 1, 2, 3, 4, 5), entity(2, "B", 2018, 1, math.Inf(1), 3, 4, 5)...)

	rep, err := newEvaluator().Compare(context.Background(), rows, Options{
		TestYears: 1,
		Methods:   []forecast.Method{forecast.MethodLinear, forecast.MethodHolt, forecast.MethodNaive},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.SeriesCount)

	counts := make(map[forecast.Method]int)
	for _, ms := range rep.PerMethod {
		counts[ms.Method] = ms.SeriesCount
	}
	assert.Equal(t, map[forecast.Method]int{
		forecast.MethodLinear: 1,
		forecast.MethodHolt:   1,
		forecast.MethodNaive:  2,
	}, counts)
	assert.NotEqual(t, forecast.MethodNaive, rep.Best())
}

func TestBestMethodJSON(t *testing.T) {
	none, err := newEvaluator().Compare(context.Background(), entity(1, "A", 2020, 10, 12), Options{TestYears: 2})
	require.NoError(t, err)
	b, err := json.Marshal(none)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"best_method":null`)

	some, err := newEvaluator().Compare(context.Background(), entity(1, "A", 2015, 1, 2, 3, 4), Options{
		TestYears: 1,
		Methods:   []forecast.Method{forecast.MethodNaive},
	})
	require.NoError(t, err)
	b, err = json.Marshal(some)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"best_method":"naive"`)
}
