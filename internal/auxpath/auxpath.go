// Package auxpath resolves a user-selected set of auxiliary output
// expressions against a snapshot of named variables, using govaluate
// expressions in place of hand-rolled path parsing. Each requested path is
// compiled once into a govaluate expression and evaluated against a fresh
// variable snapshot every time it is needed. Variables are plain
// identifiers looked up as flat snapshot keys (e.g. "trunk_maint",
// "layer1_influx"); dotted or bracketed accessor paths such as
// "parts.trunk.maint" or "layers[1].fluxes.influx" are not resolved
// against a flat snapshot.
package auxpath

import (
	"math"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// Registry holds a fixed set of compiled path expressions.
type Registry struct {
	paths       []string
	expressions []*govaluate.EvaluableExpression
	functions   map[string]govaluate.ExpressionFunction
}

var defaultFunctions = map[string]govaluate.ExpressionFunction{
	"abs": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, simerr.NewInput("abs takes exactly one argument", nil)
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, simerr.NewInput("abs argument must be numeric", nil)
		}
		return math.Abs(v), nil
	},
}

// NewRegistry compiles paths (govaluate expressions over flat snapshot
// identifiers such as "trunk_maint" or "layer1_influx") into a Registry.
// An empty or unparsable path expression is an input error.
func NewRegistry(paths []string) (*Registry, error) {
	r := &Registry{paths: make([]string, len(paths)), functions: defaultFunctions}
	r.expressions = make([]*govaluate.EvaluableExpression, len(paths))
	for i, p := range paths {
		if p == "" {
			return nil, simerr.NewInput("auxiliary path expression cannot be empty", nil)
		}
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(p, r.functions)
		if err != nil {
			return nil, simerr.NewInput("invalid auxiliary path expression "+p, err)
		}
		r.paths[i] = p
		r.expressions[i] = expr
	}
	return r, nil
}

// Paths returns the original path expressions, in registration order.
func (r *Registry) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Vars returns the union of variable names referenced across every
// registered path, for callers that want to know what a snapshot must
// supply before calling Evaluate.
func (r *Registry) Vars() []string {
	seen := make(map[string]bool)
	var out []string
	for _, expr := range r.expressions {
		for _, v := range expr.Vars() {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Evaluate resolves every registered path against snapshot, returning
// the results in registration order. A path whose variables are not
// present in snapshot returns a lookup error naming the path.
func (r *Registry) Evaluate(snapshot map[string]interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(r.expressions))
	for i, expr := range r.expressions {
		v, err := expr.Evaluate(snapshot)
		if err != nil {
			return nil, simerr.NewLookup("evaluating auxiliary path " + r.paths[i] + ": " + err.Error())
		}
		out[i] = v
	}
	return out, nil
}
