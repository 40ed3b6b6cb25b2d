package config

import (
	"os"
	"strings"
)

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// ExpenseUpdateRequiresAmount makes partial updates re-check that the stored expense keeps
// at least one amount. Off by default: updates historically skip that check.
//
// Set via env:
// - EXPENSE_UPDATE_REQUIRE_AMOUNT=true
func ExpenseUpdateRequiresAmount() bool {
	return envBool("EXPENSE_UPDATE_REQUIRE_AMOUNT")
}

// RateLimitEnabled turns on the redis backed limiter.
//
// Set via env:
// - RATE_LIMIT_ENABLED=true
// - RATE_LIMIT_WINDOW_SECONDS=60
// - RATE_LIMIT_MAX_REQUESTS=600
func RateLimitEnabled() bool {
	return envBool("RATE_LIMIT_ENABLED")
}

func RateLimitMaxRequests() int64 {
	n := intFromEnv("RATE_LIMIT_MAX_REQUESTS", 600)
	if n <= 0 {
		return 600
	}
	return int64(n)
}

func RateLimitWindowSeconds() int64 {
	n := intFromEnv("RATE_LIMIT_WINDOW_SECONDS", 60)
	if n <= 0 {
		return 60
	}
	return int64(n)
}

// SkipMigrations disables AutoMigrate on server start (run cmd/migrate instead).
func SkipMigrations() bool {
	return envBool("SKIP_MIGRATIONS")
}
