package quad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrateConstant(t *testing.T) {
	v, err := Integrate(func(x float64) float64 { return 2 }, 0, 5, 3)
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-9)
}

func TestIntegrateCosine(t *testing.T) {
	v, err := Integrate(math.Cos, 0, math.Pi/2, 5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-6)
}

func TestIntegrateOutOfRange(t *testing.T) {
	_, err := Integrate(func(x float64) float64 { return x }, 0, 1, 0)
	require.Error(t, err)
	_, err = Integrate(func(x float64) float64 { return x }, 0, 1, 10)
	require.Error(t, err)
}
