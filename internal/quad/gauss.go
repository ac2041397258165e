// Package quad provides N-point Gauss-Legendre quadrature for n in [1, 9],
// shared by the photosynthesis and energy-balance packages to integrate
// functions of solar hour or canopy depth.
package quad

import (
	"fmt"

	"github.com/spatialmodel/oilpalm/internal/simerr"
	"gonum.org/v1/gonum/integrate/quad"
)

// MinN and MaxN bound the supported quadrature order.
const (
	MinN = 1
	MaxN = 9
)

// Integrate evaluates the integral of f over [a, b] using n-point
// Gauss-Legendre quadrature. n must be in [MinN, MaxN]; values outside that
// range are a fatal lookup/quadrature error.
func Integrate(f func(x float64) float64, a, b float64, n int) (float64, error) {
	if n < MinN || n > MaxN {
		return 0, simerr.NewLookup(fmt.Sprintf("gaussian quadrature order %d outside [%d,%d]", n, MinN, MaxN))
	}
	return quad.Fixed(f, a, b, n, quad.Legendre{}, 1), nil
}

// MustIntegrate panics instead of returning an error; used where n is a
// compile-time constant known to be valid.
func MustIntegrate(f func(x float64) float64, a, b float64, n int) float64 {
	v, err := Integrate(f, a, b, n)
	if err != nil {
		panic(err)
	}
	return v
}

// Nodes returns the n Gauss-Legendre node locations and weights for
// integrating over [a, b]. It exists for callers that must evaluate
// several coupled quantities at the same quadrature nodes in a single
// pass (so a shared, expensive per-node computation is not repeated
// once per integrated quantity), rather than through independent
// Integrate calls.
func Nodes(a, b float64, n int) (x, weight []float64, err error) {
	if n < MinN || n > MaxN {
		return nil, nil, simerr.NewLookup(fmt.Sprintf("gaussian quadrature order %d outside [%d,%d]", n, MinN, MaxN))
	}
	x = make([]float64, n)
	weight = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, weight, a, b)
	return x, weight, nil
}
