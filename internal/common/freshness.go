// Package common provides shared utilities for Advisor
package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessPriceHistory = 1 * time.Hour
	FreshnessFundamentals = 7 * 24 * time.Hour // company metadata moves slowly
	FreshnessESG          = 24 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
