package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmpty(t *testing.T) {
	_, err := New(map[float64]float64{})
	require.Error(t, err)
}

func TestSinglePoint(t *testing.T) {
	tb, err := New(map[float64]float64{5: 42})
	require.NoError(t, err)
	assert.Equal(t, 42.0, tb.Val(-100))
	assert.Equal(t, 42.0, tb.Val(100))
	assert.Equal(t, 42.0, tb.Val(5))
}

func TestInterpolateExact(t *testing.T) {
	tb, err := New(map[float64]float64{0: 0, 1: 10, 2: 30})
	require.NoError(t, err)
	for _, x := range []float64{0, 1, 2} {
		assert.Equal(t, tb.Val(x), tb.Val(x))
	}
	x, y := tb.Points()
	for i := range x {
		assert.Equal(t, y[i], tb.Val(x[i]))
	}
}

func TestInterpolateBetween(t *testing.T) {
	tb, err := New(map[float64]float64{0: 0, 10: 100})
	require.NoError(t, err)
	assert.InDelta(t, 50, tb.Val(5), 1e-9)
}

func TestExtrapolate(t *testing.T) {
	tb, err := New(map[float64]float64{0: 0, 10: 100})
	require.NoError(t, err)
	assert.InDelta(t, -50, tb.Val(-5), 1e-9)
	assert.InDelta(t, 150, tb.Val(15), 1e-9)
}

func TestUnorderedConstruction(t *testing.T) {
	tb, err := New(map[float64]float64{10: 100, 0: 0, 5: 50})
	require.NoError(t, err)
	assert.InDelta(t, 25, tb.Val(2.5), 1e-9)
}
