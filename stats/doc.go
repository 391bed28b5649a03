// Package stats provides statistical functions used when fitting and scoring
// forecasts.
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 5)
//
// ACF seeds the autoregressive coefficients of ARIMA fits.
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb != nil && lb.PValue > 0.05 {
//	    // Residuals look like white noise
//	}
//
// # Information Criteria
//
//	ic := stats.CalculateIC(logLik, nObs, nParams)
//	// ic.AIC, ic.AICc, ic.BIC
//
// # Forecast Accuracy
//
// Score a forecast against held-out values:
//
//	acc, err := stats.ForecastAccuracy(forecast, actual)
//	// acc.RMSE, acc.MAE, acc.MAPE
//
// MAPE uses |actual| as the divisor, substituting 1.0 where the actual value
// is zero.
package stats
