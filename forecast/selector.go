package forecast

import (
	"context"
	"time"
)

// Step is one fitted method in the automatic chain.
type Step struct {
	Method Method
	Fit    Fitter
}

// Selector tries its steps in order and returns the first forecast that
// succeeds. The naive forecast is the terminal state and cannot fail.
type Selector struct {
	Steps []Step
}

// DefaultSelector tries holt, then linear. ARIMA is left out: it fails to
// converge too often on short noisy series to be a default.
func DefaultSelector() *Selector {
	return &Selector{Steps: []Step{
		{Method: MethodHolt, Fit: Holt},
		{Method: MethodLinear, Fit: Linear},
	}}
}

// tryFunc runs one step and reports the attempt.
type tryFunc func(step Step, values []float64, horizon int) Attempt

// Select runs the chain without timeouts or observation.
func (s *Selector) Select(values []float64, horizon int) Outcome {
	return s.run(values, horizon, directTry)
}

func (s *Selector) run(values []float64, horizon int, try tryFunc) Outcome {
	if horizon < 1 {
		return Outcome{Method: MethodAuto, Err: ErrInvalidHorizon}
	}
	values = dropMissing(values)

	var out Outcome
	if len(values) >= 2 && !isConstant(values) {
		for _, step := range s.Steps {
			a := try(step, values, horizon)
			out.Attempts = append(out.Attempts, a)
			if a.OK() {
				out.Method = a.Method
				out.Values = a.Values
				return out
			}
		}
	}

	start := time.Now()
	final := Attempt{Method: MethodNaive, Values: Naive(values, horizon)}
	final.Elapsed = time.Since(start)
	out.Attempts = append(out.Attempts, final)
	out.Method = MethodNaive
	out.Values = final.Values
	return out
}

func directTry(step Step, values []float64, horizon int) Attempt {
	start := time.Now()
	v, err := step.Fit(context.Background(), values, horizon)
	if err == nil {
		err = checkForecast(v, horizon)
	}
	a := Attempt{Method: step.Method, Elapsed: time.Since(start)}
	if err != nil {
		a.Err = err
	} else {
		a.Values = v
	}
	return a
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
