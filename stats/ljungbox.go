package stats

import (
	"github.com/sartorproj/regionforecast/timeseries"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult holds the portmanteau statistic Q and its chi-squared
// p-value.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox tests residuals for autocorrelation up to lags, discounting fitdf
// estimated parameters from the degrees of freedom. Under the null the
// residuals are white noise. Series shorter than ten points yield nil.
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	lags = min(lags, n-1)

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	terms := make([]float64, lags)
	for k := 1; k <= lags; k++ {
		terms[k-1] = acf[k] * acf[k] / float64(n-k)
	}
	q := float64(n*(n+2)) * floats.Sum(terms)
	dof := max(lags-fitdf, 1)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}
