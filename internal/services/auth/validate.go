package auth

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidateEmail checks shape and college-domain membership before anything
// touches a store. Returns the normalized (lowercased, trimmed) address.
func ValidateEmail(email, allowedDomain string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidInput
	}

	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", fmt.Errorf("malformed email address: %w", ErrInvalidInput)
	}

	local, domain, found := strings.Cut(normalized, "@")
	if !found || local == "" {
		return "", fmt.Errorf("malformed email address: %w", ErrInvalidInput)
	}
	if !strings.EqualFold(domain, allowedDomain) {
		return "", ErrInvalidEmailDomain
	}

	return normalized, nil
}

func ValidatePassword(password string, minLen int) error {
	if minLen <= 0 {
		minLen = 6
	}
	if len(password) < minLen {
		return ErrPasswordTooShort
	}
	return nil
}
