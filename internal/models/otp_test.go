package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPCodeIsValid(t *testing.T) {
	now := time.Now()

	fresh := OTPCode{Code: "123456", ExpiresAt: now.Add(OTPExpiration)}
	assert.True(t, fresh.IsValid(now))

	expired := OTPCode{Code: "123456", ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.IsValid(now))

	used := OTPCode{Code: "123456", ExpiresAt: now.Add(OTPExpiration), Used: true}
	assert.False(t, used.IsValid(now))

	// Expiry is an exclusive bound
	atBoundary := OTPCode{Code: "123456", ExpiresAt: now}
	assert.False(t, atBoundary.IsValid(now))
}

func TestOTPCodeMatches(t *testing.T) {
	record := OTPCode{Email: "guest@example.com", Code: "654321"}

	assert.True(t, record.Matches("guest@example.com", "654321"))
	assert.True(t, record.Matches("Guest@Example.COM", "654321"), "email match is case-insensitive")

	assert.False(t, record.Matches("guest@example.com", "111111"), "wrong code")
	assert.False(t, record.Matches("other@example.com", "654321"), "wrong email")
	assert.False(t, record.Matches("guest@example.com", ""), "empty code")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "guest@example.com", NormalizeEmail("Guest@Example.COM"))
	assert.Equal(t, "guest@example.com", NormalizeEmail("  guest@example.com  "))
}
