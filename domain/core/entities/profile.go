package entities

import (
	"crypto/subtle"

	pkgerrors "booklog-backend/pkg/errors"
)

// DefaultFamily is the fixed profile list of this deployment, in display order
var DefaultFamily = []string{"아빠", "엄마", "찬민", "재민"}

const pinLength = 4

// ErrPINMismatch is returned when a stored PIN does not match
var ErrPINMismatch = pkgerrors.NewUnauthorizedError("비밀번호가 일치하지 않습니다.").WithCode("PIN_MISMATCH")

// Profile is one family member account
type Profile struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	PIN  *string `json:"-"`
}

// HasPIN reports whether the profile already completed its first login
func (p Profile) HasPIN() bool {
	return p.PIN != nil && *p.PIN != ""
}

// ValidatePIN checks the 4-digit format
func ValidatePIN(pin string) error {
	if len(pin) != pinLength {
		return pkgerrors.NewValidationError("PIN must be 4 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return pkgerrors.NewValidationError("PIN must be 4 digits")
		}
	}
	return nil
}

// Authenticate checks pin against the profile. A profile without a PIN adopts the given one
// and firstLogin is true; the caller must persist it.
func (p *Profile) Authenticate(pin string) (firstLogin bool, err error) {
	if err := ValidatePIN(pin); err != nil {
		return false, err
	}
	if !p.HasPIN() {
		p.PIN = &pin
		return true, nil
	}
	if subtle.ConstantTimeCompare([]byte(*p.PIN), []byte(pin)) != 1 {
		return false, ErrPINMismatch
	}
	return false, nil
}
