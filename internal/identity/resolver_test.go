package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := NewResolver(map[string]string{"A": "U1"})

	id, ok := r.Resolve("A")
	assert.True(t, ok)
	assert.Equal(t, "U1", id)

	// lookups are case-sensitive
	_, ok = r.Resolve("a")
	assert.False(t, ok)

	_, ok = r.Resolve("B")
	assert.False(t, ok)
}

func TestResolveEmptyTargetIsMiss(t *testing.T) {
	r := NewResolver(map[string]string{"A": ""})
	_, ok := r.Resolve("A")
	assert.False(t, ok)
}

func TestResolverNilMapping(t *testing.T) {
	r := NewResolver(nil)
	_, ok := r.Resolve("anyone")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Size())
}
