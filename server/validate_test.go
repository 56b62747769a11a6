package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayThorve/MRC/types"
)

func TestCheckUniqueRepeatedField(t *testing.T) {
	t.Run("no duplicates", func(t *testing.T) {
		require.NoError(t, checkUniqueRepeatedField([]string{"a", "b", "c"}))
	})

	t.Run("empty is fine", func(t *testing.T) {
		require.NoError(t, checkUniqueRepeatedField([]string{}))
	})

	t.Run("duplicate string", func(t *testing.T) {
		err := checkUniqueRepeatedField([]string{"a", "b", "a"})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrDuplicateField)
	})

	t.Run("duplicate non-string comparable", func(t *testing.T) {
		err := checkUniqueRepeatedField([]int{1, 2, 2, 3})
		require.ErrorIs(t, err, types.ErrDuplicateField)
	})
}
