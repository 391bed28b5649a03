package forecast

import (
	"errors"
	"fmt"
)

// ErrInvalidBounds is returned by Bounds.Validate when Min exceeds Max.
var ErrInvalidBounds = errors.New("minimum bound exceeds maximum bound")

// Bounds is an optional, possibly one-sided, value range. A nil side is
// unbounded.
type Bounds struct {
	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Unbounded returns bounds that leave values unchanged.
func Unbounded() Bounds {
	return Bounds{}
}

// AtLeast returns bounds of [lo, +Inf).
func AtLeast(lo float64) Bounds {
	return Bounds{Min: &lo}
}

// Between returns bounds of [lo, hi].
func Between(lo, hi float64) Bounds {
	return Bounds{Min: &lo, Max: &hi}
}

// Validate rejects a range whose minimum exceeds its maximum.
func (b Bounds) Validate() error {
	if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidBounds, *b.Min, *b.Max)
	}
	return nil
}

func (b Bounds) String() string {
	lo, hi := "-inf", "+inf"
	if b.Min != nil {
		lo = fmt.Sprintf("%g", *b.Min)
	}
	if b.Max != nil {
		hi = fmt.Sprintf("%g", *b.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// Clip returns a copy of values with every element clamped into b. The
// minimum is applied before the maximum.
func Clip(values []float64, b Bounds) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if b.Min != nil && v < *b.Min {
			v = *b.Min
		}
		if b.Max != nil && v > *b.Max {
			v = *b.Max
		}
		out[i] = v
	}
	return out
}
