package utils

import (
	"fmt"
	"strings"
	"unicode"
)

const minPasswordLength = 8

// ValidatePassword enforces the password policy: minimum length, not
// entirely numeric, and not too close to the user's own username or
// email.
func ValidatePassword(password, username, email string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return fmt.Errorf("password cannot be entirely numeric")
	}

	lower := strings.ToLower(password)
	for _, attr := range []string{username, email, localPart(email)} {
		if attr == "" {
			continue
		}
		a := strings.ToLower(attr)
		if len(a) < 4 {
			continue
		}
		if strings.Contains(lower, a) || strings.Contains(a, lower) {
			return fmt.Errorf("password is too similar to username or email")
		}
	}

	return nil
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return ""
}
