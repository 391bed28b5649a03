// Package arima implements ARIMA (AutoRegressive Integrated Moving Average) models.
package arima

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/regionforecast/stats"
	"github.com/sartorproj/regionforecast/timeseries"
	"gonum.org/v1/gonum/optimize"
)

var (
	// ErrInsufficientData is returned when the series is too short for the order.
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	// ErrNoConvergence is returned when likelihood optimisation fails.
	ErrNoConvergence = errors.New("arima: likelihood optimisation did not converge")
	// ErrNumerical is returned when fitting or forecasting produces NaN or Inf.
	ErrNumerical = errors.New("arima: non-finite value")
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("model must be fitted before prediction")
)

// coefBound keeps AR roots stationary and MA roots invertible.
const coefBound = 0.99

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int // AR order (number of autoregressive terms)
	D int // Differencing order
	Q int // MA order (number of moving average terms)
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// Model represents an ARIMA model.
type Model struct {
	Order       Order
	ARCoeffs    []float64 // AR coefficients (phi)
	MACoeffs    []float64 // MA coefficients (theta)
	Intercept   float64   // mean of the differenced series; 0 unless IncludeMean
	IncludeMean bool
	Variance    float64 // Residual variance
	AIC         float64
	AICc        float64 // Corrected AIC for small sample sizes
	BIC         float64
	LogLik      float64
	Iterations  int
	fitted      bool
	data        *timeseries.Series
	diffData    *timeseries.Series
	residuals   []float64
	fittedVals  []float64
}

// New creates a new ARIMA model with the specified order. A mean term is
// estimated only for undifferenced models (d = 0).
func New(p, d, q int) *Model {
	return &Model{
		Order:       Order{P: p, D: d, Q: q},
		ARCoeffs:    make([]float64, p),
		MACoeffs:    make([]float64, q),
		IncludeMean: d == 0,
	}
}

// MinObservations returns the shortest series Fit accepts for the order:
// after differencing at least one residual must remain.
func MinObservations(o Order) int {
	return o.D + max(o.P, o.Q) + 1
}

// Fit estimates the model by conditional maximum likelihood: the Gaussian
// likelihood conditional on the first p differenced values and zero
// pre-sample innovations, maximised with Nelder-Mead.
func (m *Model) Fit(series *timeseries.Series) error {
	return m.FitContext(context.Background(), series)
}

// FitContext is Fit bounded by ctx. The optimiser stops at ctx's deadline and
// a fit whose context has ended returns ctx.Err().
func (m *Model) FitContext(ctx context.Context, series *timeseries.Series) error {
	if series.Len() < MinObservations(m.Order) {
		return ErrInsufficientData
	}
	if series.HasNonFinite() {
		return ErrNumerical
	}

	m.fitted = false
	m.data = series

	diffSeries := series
	if m.Order.D > 0 {
		diffSeries = series.DiffN(m.Order.D)
		if diffSeries.Len() == 0 {
			return errors.New("differencing resulted in empty series")
		}
	}
	m.diffData = diffSeries

	if err := m.fitCSS(ctx); err != nil {
		return err
	}

	m.calculateIC()

	m.fitted = true
	return nil
}

// unpack maps unconstrained optimiser coordinates onto model parameters.
func (m *Model) unpack(x []float64) (mu float64, ar, ma []float64) {
	p, q := m.Order.P, m.Order.Q
	i := 0
	if m.IncludeMean {
		mu = x[0]
		i = 1
	}
	ar = make([]float64, p)
	for j := 0; j < p; j++ {
		ar[j] = coefBound * math.Tanh(x[i+j])
	}
	ma = make([]float64, q)
	for j := 0; j < q; j++ {
		ma[j] = coefBound * math.Tanh(x[i+p+j])
	}
	return mu, ar, ma
}

// recursion runs the one-step-ahead filter over y and returns residuals,
// fitted values and the conditional sum of squares.
func (m *Model) recursion(y []float64, mu float64, ar, ma []float64) (residuals, fitted []float64, sse float64) {
	n := len(y)
	p := len(ar)
	residuals = make([]float64, n)
	fitted = make([]float64, n)

	for t := 0; t < n; t++ {
		if t < p {
			fitted[t] = mu
			continue
		}

		pred := mu
		for i := 0; i < p; i++ {
			pred += ar[i] * (y[t-i-1] - mu)
		}
		for i := 0; i < len(ma) && t-i-1 >= 0; i++ {
			pred += ma[i] * residuals[t-i-1]
		}

		fitted[t] = pred
		residuals[t] = y[t] - pred
		sse += residuals[t] * residuals[t]
	}

	return residuals, fitted, sse
}

// fitCSS fits the model using Conditional Sum of Squares estimation.
func (m *Model) fitCSS(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	y := m.diffData.Values
	p := m.Order.P
	q := m.Order.Q

	x0 := make([]float64, 0, p+q+1)
	if m.IncludeMean {
		x0 = append(x0, m.diffData.Mean())
	}

	// Yule-Walker start for AR, small positive start for MA
	arInit := make([]float64, p)
	if p > 0 {
		if acf := stats.ACF(m.diffData, p); acf != nil {
			if yw := yuleWalker(acf, p); yw != nil {
				copy(arInit, yw)
			}
		}
	}
	for _, phi := range arInit {
		x0 = append(x0, math.Atanh(clamp(phi, -0.9, 0.9)/coefBound))
	}
	for j := 0; j < q; j++ {
		x0 = append(x0, math.Atanh(0.1/coefBound))
	}

	best := x0
	if len(x0) > 0 {
		problem := optimize.Problem{
			Func: func(x []float64) float64 {
				mu, ar, ma := m.unpack(x)
				_, _, sse := m.recursion(y, mu, ar, ma)
				if math.IsNaN(sse) {
					return math.Inf(1)
				}
				return sse
			},
		}
		settings := &optimize.Settings{
			MajorIterations: 500 * len(x0),
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-10,
				Relative:   1e-10,
				Iterations: 50,
			},
		}
		if deadline, ok := ctx.Deadline(); ok {
			if settings.Runtime = time.Until(deadline); settings.Runtime <= 0 {
				return context.DeadlineExceeded
			}
		}

		result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoConvergence, err)
		}
		if math.IsInf(result.F, 0) || math.IsNaN(result.F) {
			return ErrNoConvergence
		}
		best = result.X
		m.Iterations = result.Stats.MajorIterations
	}

	mu, ar, ma := m.unpack(best)
	m.Intercept = mu
	m.ARCoeffs = ar
	m.MACoeffs = ma

	residuals, fitted, sse := m.recursion(y, mu, ar, ma)
	m.residuals = residuals
	m.fittedVals = fitted

	count := len(y) - p
	if count <= 0 {
		return ErrInsufficientData
	}
	if count > p+q+1 {
		m.Variance = sse / float64(count-p-q-1)
	} else {
		m.Variance = sse / float64(count)
	}
	if math.IsNaN(m.Variance) || math.IsInf(m.Variance, 0) {
		return ErrNumerical
	}

	return nil
}

// calculateIC calculates AIC, AICc, and BIC.
func (m *Model) calculateIC() {
	n := len(m.residuals) - m.Order.P
	k := m.Order.P + m.Order.Q + 1 // AR + MA + innovation variance
	if m.IncludeMean {
		k++
	}

	sse := 0.0
	for _, r := range m.residuals[m.Order.P:] {
		sse += r * r
	}

	ic := stats.CalculateIC(stats.GaussianLogLik(sse, n), n, k)
	m.LogLik = ic.LogLik
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	p := m.Order.P
	q := m.Order.Q

	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)

	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.Intercept

		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * (extY[t-i-1] - m.Intercept)
		}

		// Future innovations have expectation 0
		for i := 0; i < q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MACoeffs[i] * extResiduals[t-i-1]
		}

		extY[t] = pred
	}

	forecasts := make([]float64, steps)
	copy(forecasts, extY[n:])

	if m.Order.D > 0 {
		forecasts = m.integrate(forecasts)
	}

	for _, f := range forecasts {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrNumerical
		}
	}

	return forecasts, nil
}

// integrate undoes differencing to return forecasts on original scale.
func (m *Model) integrate(forecasts []float64) []float64 {
	d := m.Order.D

	// levels[k] is the series differenced k times
	levels := make([]*timeseries.Series, d)
	levels[0] = m.data
	for k := 1; k < d; k++ {
		levels[k] = levels[k-1].Diff()
	}

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	for k := d - 1; k >= 0; k-- {
		prev := levels[k].Last()
		for j := range result {
			result[j] += prev
			prev = result[j]
		}
	}

	return result
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the fitted values of the differenced series.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVals))
	copy(result, m.fittedVals)
	return result
}

// Summary returns a summary of the fitted model.
type Summary struct {
	Order      Order
	ARCoeffs   []float64
	MACoeffs   []float64
	Intercept  float64
	Variance   float64
	AIC        float64
	AICc       float64 // Corrected AIC
	BIC        float64
	LogLik     float64
	NObs       int
	Iterations int
	LjungBox   *stats.LjungBoxResult // nil for fewer than 10 residuals
}

// Summary returns a summary of the fitted model.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	residSeries := timeseries.New(m.residuals)
	lb := stats.LjungBox(residSeries, 10, m.Order.P+m.Order.Q)

	return &Summary{
		Order:      m.Order,
		ARCoeffs:   m.ARCoeffs,
		MACoeffs:   m.MACoeffs,
		Intercept:  m.Intercept,
		Variance:   m.Variance,
		AIC:        m.AIC,
		AICc:       m.AICc,
		BIC:        m.BIC,
		LogLik:     m.LogLik,
		NObs:       len(m.data.Values),
		Iterations: m.Iterations,
		LjungBox:   lb,
	}
}

// yuleWalker estimates AR coefficients using Yule-Walker equations.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)

	if order == 1 {
		phi[0] = acf[1]
		return phi
	}

	// Levinson-Durbin recursion
	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		newPhi := make([]float64, i+1)
		for j := 0; j < i; j++ {
			newPhi[j] = phi[j] - lambda*phi[i-1-j]
		}
		newPhi[i] = lambda
		copy(phi, newPhi)

		v *= (1 - lambda*lambda)
		if v <= 0 {
			break
		}
	}

	return phi
}

func clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}
