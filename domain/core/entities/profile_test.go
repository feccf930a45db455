package entities

import (
	"testing"

	pkgerrors "booklog-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Authenticate(t *testing.T) {
	t.Run("first login sets the pin", func(t *testing.T) {
		p := Profile{ID: "1", Name: "아빠"}
		first, err := p.Authenticate("1234")
		require.NoError(t, err)
		assert.True(t, first)
		require.True(t, p.HasPIN())
		assert.Equal(t, "1234", *p.PIN)
	})

	t.Run("later logins must match", func(t *testing.T) {
		pin := "1234"
		p := Profile{ID: "1", Name: "아빠", PIN: &pin}

		first, err := p.Authenticate("1234")
		require.NoError(t, err)
		assert.False(t, first)

		_, err = p.Authenticate("4321")
		assert.ErrorIs(t, err, ErrPINMismatch)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnauthorized))
	})

	t.Run("format is checked before anything else", func(t *testing.T) {
		p := Profile{ID: "1", Name: "아빠"}
		for _, pin := range []string{"", "123", "12345", "12a4"} {
			_, err := p.Authenticate(pin)
			assert.True(t, pkgerrors.IsValidation(err), pin)
		}
		assert.False(t, p.HasPIN())
	})
}
