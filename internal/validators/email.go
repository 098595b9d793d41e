package validators

import (
	"net"
	"strings"
	"time"
)

// NormalizeEmail trims and lower-cases an address so lookups and the
// unique index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailShaped is a cheap syntax check: one @ with text on both sides and a
// dot in the domain.
func IsEmailShaped(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// IsEmailDomainValid asks DNS whether the domain can receive mail.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

// IsClock accepts a 24h HH:MM time of day.
func IsClock(hm string) bool {
	if len(hm) != 5 {
		return false
	}
	_, err := time.Parse("15:04", hm)
	return err == nil
}

// ClockBefore reports whether a is earlier than b. Both must be valid.
func ClockBefore(a, b string) bool {
	return a < b
}
