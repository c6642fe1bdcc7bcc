package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// ParseUserID normalizes and validates an email-like identity string.
// Input is trimmed and lowercased before validation.
func ParseUserID(raw string) (UserID, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentity, raw)
	}
	return UserID(normalized), nil
}
