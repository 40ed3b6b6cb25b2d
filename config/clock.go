package config

import (
	"os"
	"strings"
	"sync"
	"time"
)

var (
	clockMu sync.RWMutex
	nowFunc = time.Now
)

// Location is the business time zone used to resolve "today", "this month" and "this year".
// It comes from APP_TIMEZONE (IANA name) and falls back to UTC.
func Location() *time.Location {
	name := strings.TrimSpace(os.Getenv("APP_TIMEZONE"))
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Now returns the current time in the business time zone.
func Now() time.Time {
	clockMu.RLock()
	f := nowFunc
	clockMu.RUnlock()
	return f().In(Location())
}

// SetClock replaces the time source and returns a func restoring the previous one.
func SetClock(f func() time.Time) (restore func()) {
	clockMu.Lock()
	prev := nowFunc
	nowFunc = f
	clockMu.Unlock()
	return func() {
		clockMu.Lock()
		nowFunc = prev
		clockMu.Unlock()
	}
}
