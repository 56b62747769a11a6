package tagalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextServiceIDMonotonic(t *testing.T) {
	a, err := NextServiceID()
	require.NoError(t, err)
	b, err := NextServiceID()
	require.NoError(t, err)
	assert.Less(t, a, b)
}

func TestCounterFirstTagHasUniqueIDOne(t *testing.T) {
	var c Counter
	tag, err := c.Next(42)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), tag.UniqueID())
	assert.Equal(t, uint32(42), tag.ServiceID())
	assert.True(t, tag.Valid(42))
}

func TestCounterExhaustion(t *testing.T) {
	var c Counter
	for i := 0; i < 0xFFFF; i++ {
		_, err := c.Next(1)
		require.NoError(t, err)
	}
	_, err := c.Next(1)
	require.Error(t, err)
}

func TestTagValidRejectsWrongService(t *testing.T) {
	var c Counter
	tag, err := c.Next(7)
	require.NoError(t, err)
	assert.False(t, tag.Valid(8))
}
