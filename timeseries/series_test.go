package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.Years)
}

func TestNewWithYears(t *testing.T) {
	_, err := NewWithYears([]int{2020, 2021}, []float64{1})
	assert.Error(t, err)

	s, err := NewWithYears([]int{2020, 2021}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2021}, s.Years)
}

func TestSummaryStatistics(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, s.Mean(), 1e-12)
	assert.InDelta(t, 32.0/7, s.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7), s.Std(), 1e-12)
	assert.Equal(t, 2.0, s.Min())
	assert.Equal(t, 9.0, s.Max())
	assert.Equal(t, 9.0, s.Last())

	assert.Zero(t, New([]float64{3}).Variance())
	assert.Zero(t, New(nil).Mean())
	assert.InDelta(t, -2.0, New([]float64{-1, -2, -3}).Mean(), 1e-12)
}

func TestEmptySeriesExtremes(t *testing.T) {
	empty := New(nil)
	assert.True(t, math.IsNaN(empty.Min()))
	assert.True(t, math.IsNaN(empty.Max()))
	assert.True(t, math.IsNaN(empty.Last()))
}

func TestDistinct(t *testing.T) {
	cases := map[string]struct {
		values   []float64
		distinct int
		constant bool
	}{
		"empty":    {nil, 0, true},
		"single":   {[]float64{5}, 1, true},
		"constant": {[]float64{5, 5, 5, 5}, 1, true},
		"varying":  {[]float64{5, 5, 6}, 2, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := New(tc.values)
			assert.Equal(t, tc.distinct, s.Distinct())
			assert.Equal(t, tc.constant, s.IsConstant())
		})
	}
}

func TestHasNonFinite(t *testing.T) {
	assert.False(t, New([]float64{1, 2, 3}).HasNonFinite())
	assert.True(t, New([]float64{1, math.Inf(1)}).HasNonFinite())
	assert.True(t, New([]float64{math.NaN(), 1}).HasNonFinite())
}

func TestDropMissing(t *testing.T) {
	s, err := NewWithYears([]int{2018, 2019, 2020, 2021}, []float64{1, math.NaN(), 3, 4})
	require.NoError(t, err)

	clean := s.DropMissing()
	assert.Equal(t, []int{2018, 2020, 2021}, clean.Years)
	assert.Equal(t, []float64{1, 3, 4}, clean.Values)
	assert.Equal(t, 4, s.Len())
}

func TestDiff(t *testing.T) {
	s, err := NewWithYears([]int{2015, 2016, 2017, 2018, 2019, 2020}, []float64{1, 3, 6, 10, 15, 21})
	require.NoError(t, err)

	first := s.Diff()
	assert.Equal(t, []float64{2, 3, 4, 5, 6}, first.Values)
	assert.Equal(t, []int{2016, 2017, 2018, 2019, 2020}, first.Years)

	// triangular numbers have constant second differences
	assert.Equal(t, []float64{1, 1, 1, 1}, s.DiffN(2).Values)
	assert.Zero(t, s.DiffN(6).Len())
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, []float64{2, 3, 4}, s.Slice(1, 4).Values)
	assert.Equal(t, []float64{4, 5}, s.Slice(3, 99).Values)
	assert.Zero(t, s.Slice(4, 2).Len())
}

func TestCopy(t *testing.T) {
	s := New([]float64{1, 2, 3})
	copied := s.Copy()
	s.Values[0] = 100
	assert.Equal(t, 1.0, copied.Values[0])
}
