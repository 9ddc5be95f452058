package trajectory

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, math.NaN()}
	s, err := Describe(values, true, 2)
	require.NoError(t, err)

	assert.Equal(t, 11, s.Count)
	assert.Equal(t, 1, s.NA)
	assert.Equal(t, 5.5, s.Mean)
	assert.InDelta(t, 2.87, s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.45, s.P5, 1e-9)
	assert.InDelta(t, 3.25, s.P25, 1e-9)
	assert.InDelta(t, 5.5, s.P50, 1e-9)
	assert.InDelta(t, 7.75, s.P75, 1e-9)
	assert.InDelta(t, 9.55, s.P95, 1e-9)
	assert.Equal(t, 10.0, s.Max)
}

func TestDescribeAllMissing(t *testing.T) {
	t.Parallel()

	s, err := Describe([]float64{math.NaN(), math.NaN()}, true, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NA)
	assert.True(t, math.IsNaN(s.Mean))
}

func TestDescribeCategoricalUnsupported(t *testing.T) {
	t.Parallel()

	_, err := Describe([]float64{1}, false, 1)
	var mode *UnsupportedModeError
	assert.True(t, errors.As(err, &mode))
}
