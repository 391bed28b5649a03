package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrFitTimeout is the failure recorded for an attempt that exceeded
	// Engine.FitTimeout.
	ErrFitTimeout = errors.New("fit attempt timed out")
	// ErrFitPanic is the failure recorded for a fitter that panicked.
	ErrFitPanic = errors.New("fit attempt panicked")
)

// Observer receives every attempt the engine makes and every fallback it
// takes. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveAttempt(a Attempt)
	ObserveFallback(from, to Method)
}

// Engine runs forecasting methods on single series. The zero value is usable
// and applies no timeout.
type Engine struct {
	// FitTimeout bounds each attempt. Zero means no limit.
	FitTimeout time.Duration
	Observer   Observer
	Selector   *Selector
	Logger     zerolog.Logger
}

// NewEngine returns an engine with the default selector.
func NewEngine(timeout time.Duration, observer Observer, logger zerolog.Logger) *Engine {
	return &Engine{
		FitTimeout: timeout,
		Observer:   observer,
		Selector:   DefaultSelector(),
		Logger:     logger.With().Str("component", "forecast").Logger(),
	}
}

// Forecast runs method on values without falling back. MethodAuto runs the
// automatic chain, which always produces a forecast.
func (e *Engine) Forecast(ctx context.Context, method Method, values []float64, horizon int) Outcome {
	if horizon < 1 {
		return Outcome{Method: method, Err: ErrInvalidHorizon}
	}
	if method == MethodAuto {
		return e.auto(ctx, values, horizon)
	}
	fit, ok := fitterFor(method)
	if !ok {
		return Outcome{Method: method, Err: fmt.Errorf("%w: %q", ErrUnknownMethod, method)}
	}

	a := e.try(ctx, Step{Method: method, Fit: fit}, values, horizon)
	return Outcome{Method: method, Values: a.Values, Err: a.Err, Attempts: []Attempt{a}}
}

// ForecastWithFallback runs method and, if it fails, the automatic chain.
// The returned outcome names the method that produced the values.
func (e *Engine) ForecastWithFallback(ctx context.Context, method Method, values []float64, horizon int) Outcome {
	out := e.Forecast(ctx, method, values, horizon)
	if out.OK() || method == MethodAuto || errors.Is(out.Err, ErrInvalidHorizon) || errors.Is(out.Err, ErrUnknownMethod) {
		return out
	}

	fb := e.auto(ctx, values, horizon)
	e.fallback(method, fb.Method)
	fb.Attempts = append(out.Attempts, fb.Attempts...)
	return fb
}

func (e *Engine) auto(ctx context.Context, values []float64, horizon int) Outcome {
	sel := e.Selector
	if sel == nil {
		sel = DefaultSelector()
	}
	out := sel.run(values, horizon, func(step Step, values []float64, horizon int) Attempt {
		return e.try(ctx, step, values, horizon)
	})

	// Report each transition of the chain.
	for i := 1; i < len(out.Attempts); i++ {
		e.fallback(out.Attempts[i-1].Method, out.Attempts[i].Method)
	}
	if n := len(out.Attempts); n > 0 && out.Attempts[n-1].Method == MethodNaive {
		e.observe(out.Attempts[n-1])
	}
	return out
}

// try runs one step under the engine timeout, converting panics and
// non-finite output into failed attempts.
func (e *Engine) try(ctx context.Context, step Step, values []float64, horizon int) Attempt {
	start := time.Now()
	a := Attempt{Method: step.Method}

	if err := ctx.Err(); err != nil {
		a.Err = err
		a.Elapsed = time.Since(start)
		e.observe(a)
		return a
	}

	fitCtx := ctx
	if e.FitTimeout > 0 {
		var cancel context.CancelFunc
		fitCtx, cancel = context.WithTimeout(ctx, e.FitTimeout)
		defer cancel()
	}
	fitCtx = e.Logger.With().Str("method", step.Method.String()).Logger().WithContext(fitCtx)

	type result struct {
		values []float64
		err    error
	}
	done := make(chan result, 1)
	input := append([]float64(nil), values...)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrFitPanic, r)}
			}
		}()
		v, err := step.Fit(fitCtx, input, horizon)
		done <- result{values: v, err: err}
	}()

	select {
	case r := <-done:
		a.Values, a.Err = r.values, r.err
	case <-fitCtx.Done():
		if err := ctx.Err(); err != nil {
			a.Err = err
		} else {
			a.Err = ErrFitTimeout
		}
	}
	if a.Err == nil {
		a.Err = checkForecast(a.Values, horizon)
	}
	if a.Err != nil {
		a.Values = nil
		e.Logger.Debug().Err(a.Err).Str("method", step.Method.String()).Int("n", len(values)).Msg("fit failed")
	}
	a.Elapsed = time.Since(start)
	e.observe(a)
	return a
}

func (e *Engine) observe(a Attempt) {
	if e.Observer != nil {
		e.Observer.ObserveAttempt(a)
	}
}

func (e *Engine) fallback(from, to Method) {
	e.Logger.Debug().Str("from", from.String()).Str("to", to.String()).Msg("falling back")
	if e.Observer != nil {
		e.Observer.ObserveFallback(from, to)
	}
}

// checkForecast verifies a fitter honoured its contract.
func checkForecast(values []float64, horizon int) error {
	if len(values) != horizon {
		return fmt.Errorf("forecast has %d values, want %d", len(values), horizon)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
	}
	return nil
}
