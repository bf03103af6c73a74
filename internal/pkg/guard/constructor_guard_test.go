package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("quote must be created via NewQuote")

	t.Run("should pass for a constructed guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("should return the supplied error for a zero value", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, errNotConstructed, g.Validate(errNotConstructed))
	})

	t.Run("should fall back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})

	t.Run("should survive copying by value", func(t *testing.T) {
		type quote struct {
			fee   int64
			guard guard.ConstructorGuard
		}
		original := quote{fee: 1500, guard: guard.NewConstructorGuard()}
		copied := original

		require.NoError(t, copied.guard.Validate(errNotConstructed))
	})
}
