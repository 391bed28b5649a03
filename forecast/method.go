package forecast

import (
	"context"
	"fmt"
	"strings"
)

// Method names a forecasting method.
type Method string

const (
	// MethodAuto tries holt, then linear, then naive.
	MethodAuto Method = "auto"
	// MethodHolt is additive-trend exponential smoothing.
	MethodHolt Method = "holt"
	// MethodARIMA is ARIMA(1,1,1). It is never chosen by MethodAuto.
	MethodARIMA Method = "arima"
	// MethodLinear is an OLS trend line on the time index.
	MethodLinear Method = "linear"
	// MethodNaive repeats the last observation.
	MethodNaive Method = "naive"
)

// Minimum observations before a fitted method is attempted; shorter series
// get the naive forecast.
const (
	minPointsHolt   = 2
	minPointsARIMA  = 3
	minPointsLinear = 2
)

// Methods lists every method accepted by ParseMethod.
func Methods() []Method {
	return []Method{MethodAuto, MethodHolt, MethodARIMA, MethodLinear, MethodNaive}
}

// CompareMethods returns the default candidates for backtesting.
func CompareMethods() []Method {
	return []Method{MethodHolt, MethodARIMA, MethodLinear}
}

// ParseMethod parses a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fitterFor(m); ok || m == MethodAuto {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

func (m Method) String() string {
	return string(m)
}

// fitterFor returns the single-method fitter; MethodAuto has none.
func fitterFor(m Method) (Fitter, bool) {
	switch m {
	case MethodHolt:
		return Holt, true
	case MethodARIMA:
		return ARIMA, true
	case MethodLinear:
		return Linear, true
	case MethodNaive:
		return func(_ context.Context, values []float64, horizon int) ([]float64, error) {
			if horizon < 1 {
				return nil, ErrInvalidHorizon
			}
			return Naive(values, horizon), nil
		}, true
	}
	return nil, false
}
