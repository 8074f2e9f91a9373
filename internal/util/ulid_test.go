package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	id := NewID("audit")
	assert.True(t, strings.HasPrefix(id, "audit-"))
	assert.Len(t, id, len("audit-")+26)
	assert.Equal(t, strings.ToLower(id), id)

	assert.Len(t, NewID(""), 26)
}

func TestNewIsMonotonic(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		assert.Greater(t, next, prev)
		prev = next
	}
}
