// Package arima fits ARIMA(p,d,q) models to short yearly series.
//
// The series is differenced d times, an ARMA(p,q) model is fitted to the
// result and forecasts are integrated back to the original scale. Fitting
// maximises the conditional Gaussian likelihood with gonum's Nelder-Mead
// optimiser; coefficients are mapped into (-1, 1) so the fitted model is
// stationary and invertible. Only undifferenced models (d = 0) estimate a
// mean.
//
// # Fitting
//
//	model := arima.New(1, 1, 1)
//	if err := model.Fit(series); err != nil {
//		// ErrInsufficientData, ErrNoConvergence or ErrNumerical
//	}
//	next, err := model.Predict(5)
//
// MinObservations reports the shortest accepted series; for ARIMA(1,1,1)
// that is three points. Fits that short are unstable and callers are
// expected to have a simpler fallback ready.
//
// # Diagnostics
//
// Summary carries the information criteria and, once at least ten residuals
// exist, a Ljung-Box test of the residuals:
//
//	if lb := model.Summary().LjungBox; lb != nil && lb.PValue < 0.05 {
//		// residual autocorrelation remains
//	}
package arima
