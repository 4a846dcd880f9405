package security

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const minPasswordLength = 6

// DefaultPasswordValidator enforces the service password policy. Every path
// that accepts a new password (registration, reset, change) runs the same
// rule set.
func DefaultPasswordValidator() *PasswordValidator {
	return NewPasswordValidator(
		MinLengthRule(minPasswordLength),
	)
}

// PasswordStrengthScore returns the zxcvbn score (0..4) for the password,
// treating user identifiers as dictionary inputs. Weak-but-valid passwords
// are accepted; callers use the score for observability only.
func PasswordStrengthScore(password string, userInputs ...string) int {
	return zxcvbn.PasswordStrength(password, userInputs).Score
}
