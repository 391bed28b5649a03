package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	values := []float64{-5, 0, 50, 120, math.Inf(1)}

	tests := []struct {
		name   string
		bounds Bounds
		want   []float64
	}{
		{"unbounded", Unbounded(), []float64{-5, 0, 50, 120, math.Inf(1)}},
		{"lower", AtLeast(0), []float64{0, 0, 50, 120, math.Inf(1)}},
		{"percentage", Between(0, 100), []float64{0, 0, 50, 100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clip(values, tt.bounds)
			assert.Equal(t, tt.want, got)
		})
	}

	// Input untouched.
	assert.Equal(t, -5.0, values[0])
}

func TestClipWithinBounds(t *testing.T) {
	b := Between(-1, 1)
	for i := -50; i <= 50; i++ {
		v := Clip([]float64{float64(i) / 10}, b)[0]
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestBoundsValidate(t *testing.T) {
	assert.NoError(t, Between(0, 100).Validate())
	assert.NoError(t, AtLeast(3).Validate())
	assert.ErrorIs(t, Between(5, 1).Validate(), ErrInvalidBounds)
	assert.Equal(t, "[0, +inf]", AtLeast(0).String())
}
