package forecast

import "time"

// Attempt is the result of running one method on one series. Exactly one of
// Values and Err is set.
type Attempt struct {
	Method  Method
	Values  []float64
	Err     error
	Elapsed time.Duration
}

// OK reports whether the attempt produced a forecast.
func (a Attempt) OK() bool {
	return a.Err == nil
}

// Outcome is the final forecast for one series together with every attempt
// made to produce it, in order.
type Outcome struct {
	// Method is the method whose forecast was returned.
	Method   Method
	Values   []float64
	Err      error
	Attempts []Attempt
}

// OK reports whether the outcome carries a forecast.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Fallbacks returns the methods that failed before the final one.
func (o Outcome) Fallbacks() []Method {
	var failed []Method
	for _, a := range o.Attempts {
		if !a.OK() {
			failed = append(failed, a.Method)
		}
	}
	return failed
}
