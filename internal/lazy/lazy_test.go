package lazy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoizes(t *testing.T) {
	calls := 0
	v := New(func() float64 {
		calls++
		return 7
	})
	assert.Equal(t, 7.0, v.Get())
	assert.Equal(t, 7.0, v.Get())
	assert.Equal(t, 1, calls)
}

func TestReset(t *testing.T) {
	calls := 0
	v := New(func() float64 {
		calls++
		return float64(calls)
	})
	assert.Equal(t, 1.0, v.Get())
	v.Reset()
	assert.Equal(t, 2.0, v.Get())
}
