package stats

import (
	"github.com/sartorproj/regionforecast/timeseries"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ACF returns sample autocorrelations for lags 0..maxLag, normalised by the
// full-sample sum of squares. maxLag is capped at n-1. A constant series has
// no autocorrelation and yields nil.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	maxLag = min(maxLag, n-1)
	if maxLag < 0 {
		return nil
	}

	centered := make([]float64, n)
	copy(centered, series.Values)
	floats.AddConst(-stat.Mean(centered, nil), centered)

	denom := floats.Dot(centered, centered)
	if denom == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for lag := range acf {
		acf[lag] = floats.Dot(centered[lag:], centered[:n-lag]) / denom
	}
	return acf
}
