package services

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cpfPattern   = regexp.MustCompile(`^\d{11}$`)
)

// IsValidEmail reports whether s looks like an email address
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidCPF reports whether s is a plausible CPF: exactly 11 digits and
// not a single repeated digit ("11111111111" is always invalid).
func IsValidCPF(s string) bool {
	if !cpfPattern.MatchString(s) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return true
		}
	}
	return false
}
