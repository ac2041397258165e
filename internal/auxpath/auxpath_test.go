package auxpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRejectsEmptyPath(t *testing.T) {
	_, err := NewRegistry([]string{""})
	assert.Error(t, err)
}

func TestEvaluateResolvesSimpleVariable(t *testing.T) {
	r, err := NewRegistry([]string{"trunk_maint", "trunk_maint * 2"})
	require.NoError(t, err)

	results, err := r.Evaluate(map[string]interface{}{"trunk_maint": 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1.5, results[0])
	assert.Equal(t, 3.0, results[1])
}

func TestEvaluateMissingVariableIsLookupError(t *testing.T) {
	r, err := NewRegistry([]string{"undefined_var"})
	require.NoError(t, err)
	_, err = r.Evaluate(map[string]interface{}{})
	assert.Error(t, err)
}

func TestVarsReturnsUnion(t *testing.T) {
	r, err := NewRegistry([]string{"a + b", "b + c"})
	require.NoError(t, err)
	vars := r.Vars()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, vars)
}

func TestAbsFunction(t *testing.T) {
	r, err := NewRegistry([]string{"abs(x)"})
	require.NoError(t, err)
	results, err := r.Evaluate(map[string]interface{}{"x": -4.0})
	require.NoError(t, err)
	assert.Equal(t, 4.0, results[0])
}
