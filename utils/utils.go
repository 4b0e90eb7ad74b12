// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// ToPtr returns a pointer to the given value
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue reports whether a nullable bool is set and true
func IsTrue(b *bool) bool {
	return b != nil && *b
}

// UTCNow returns the current time in UTC. All persisted timestamps go
// through this so database rows never carry a local zone.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}
