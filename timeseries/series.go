// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series represents a yearly time series: one value per year, ascending.
type Series struct {
	Years  []int
	Values []float64
	Name   string
}

// New creates a new time series from values indexed 0..n-1.
func New(values []float64) *Series {
	years := make([]int, len(values))
	for i := range years {
		years[i] = i
	}
	return &Series{
		Years:  years,
		Values: values,
	}
}

// NewWithYears creates a time series with explicit years.
func NewWithYears(years []int, values []float64) (*Series, error) {
	if len(years) != len(values) {
		return nil, errors.New("years and values must have the same length")
	}
	return &Series{
		Years:  years,
		Values: values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Last returns the final observation, or NaN for an empty series.
func (s *Series) Last() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return s.Values[len(s.Values)-1]
}

// Distinct returns the number of distinct values.
func (s *Series) Distinct() int {
	seen := make(map[float64]struct{}, len(s.Values))
	for _, v := range s.Values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// IsConstant reports whether the series holds fewer than two distinct values.
func (s *Series) IsConstant() bool {
	return s.Distinct() < 2
}

// HasNonFinite reports whether any value is NaN or infinite.
func (s *Series) HasNonFinite() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// DropMissing returns a copy of the series without NaN values.
func (s *Series) DropMissing() *Series {
	years := make([]int, 0, len(s.Values))
	values := make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if i < len(s.Years) {
			years = append(years, s.Years[i])
		}
		values = append(values, v)
	}
	if len(years) != len(values) {
		years = nil
	}
	return &Series{
		Years:  years,
		Values: values,
		Name:   s.Name,
	}
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the n-th order difference of the series.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Values) <= n {
		return &Series{Values: []float64{}}
	}

	current := s.Values
	for k := 0; k < n; k++ {
		next := make([]float64, len(current)-1)
		for i := 1; i < len(current); i++ {
			next[i-1] = current[i] - current[i-1]
		}
		current = next
	}

	years := make([]int, len(current))
	if len(s.Years) == len(s.Values) {
		copy(years, s.Years[n:])
	}

	return &Series{
		Years:  years,
		Values: current,
		Name:   s.Name + "_diff",
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	years := make([]int, len(values))
	if len(s.Years) >= end {
		copy(years, s.Years[start:end])
	}

	return &Series{
		Years:  years,
		Values: values,
		Name:   s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	years := make([]int, len(s.Years))
	copy(years, s.Years)

	return &Series{
		Years:  years,
		Values: values,
		Name:   s.Name,
	}
}
