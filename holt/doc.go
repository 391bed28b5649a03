// Package holt implements Holt's linear trend method: exponential smoothing
// with an additive trend and no seasonal component.
//
// The smoothing weights alpha and beta and the initial level and trend are
// estimated together by least squares on the one-step-ahead errors, using
// gonum's Nelder-Mead optimiser. alpha and beta are kept in [0, 1].
//
//	model := holt.New()
//	if err := model.Fit(series); err != nil {
//	    // ErrInsufficientData, ErrNoConvergence or ErrNumerical
//	}
//	forecasts, _ := model.Predict(5)
//
// Forecasts extend the final level along the final trend, so a series that is
// already a straight line is reproduced exactly.
package holt
