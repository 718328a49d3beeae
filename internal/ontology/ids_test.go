package ontology

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewIDTimeOrdered(t *testing.T) {
	prev := NewID()
	for i := 0; i < 50; i++ {
		next := NewID()
		assert.LessOrEqual(t, prev, next)
		prev = next
	}
}
