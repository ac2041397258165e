// Package table implements a sorted (x, y) lookup table with linear
// interpolation and linear extrapolation.
package table

import (
	"sort"

	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// Table is a sorted set of (x, y) points supporting Val.
type Table struct {
	x, y []float64
}

// New builds a Table from an unordered set of points, sorting them
// ascending by x. Constructing from an empty map is a lookup error.
func New(points map[float64]float64) (*Table, error) {
	if len(points) == 0 {
		return nil, simerr.NewLookup("cannot build a table from zero points")
	}
	x := make([]float64, 0, len(points))
	for xi := range points {
		x = append(x, xi)
	}
	sort.Float64s(x)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = points[xi]
	}
	return &Table{x: x, y: y}, nil
}

// MustNew is like New but panics on error. It is intended for package-level
// tables built from literal constants.
func MustNew(points map[float64]float64) *Table {
	t, err := New(points)
	if err != nil {
		panic(err)
	}
	return t
}

// Val returns the linearly interpolated (or, outside the stored range,
// linearly extrapolated) y value at x. A single-point table returns that
// point's y for any x.
func (t *Table) Val(x float64) float64 {
	if len(t.x) == 1 {
		return t.y[0]
	}
	n := len(t.x)
	if x <= t.x[0] {
		return extrapolate(t.x[0], t.y[0], t.x[1], t.y[1], x)
	}
	if x >= t.x[n-1] {
		return extrapolate(t.x[n-2], t.y[n-2], t.x[n-1], t.y[n-1], x)
	}
	// Binary search for the bracketing interval.
	i := sort.SearchFloat64s(t.x, x)
	if t.x[i] == x {
		return t.y[i]
	}
	return interpolate(t.x[i-1], t.y[i-1], t.x[i], t.y[i], x)
}

func interpolate(x0, y0, x1, y1, x float64) float64 {
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

func extrapolate(x0, y0, x1, y1, x float64) float64 {
	return interpolate(x0, y0, x1, y1, x)
}

// Len returns the number of stored points.
func (t *Table) Len() int { return len(t.x) }

// Points returns copies of the sorted x and y slices.
func (t *Table) Points() (x, y []float64) {
	xc := make([]float64, len(t.x))
	yc := make([]float64, len(t.y))
	copy(xc, t.x)
	copy(yc, t.y)
	return xc, yc
}
