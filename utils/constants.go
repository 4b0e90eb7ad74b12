package utils

import (
	"time"
)

// ContextKey is the type for request-scoped context values
type ContextKey string

// Request-scoped context keys set by handlers and read by business flows
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
	AdminIDKey    ContextKey = "admin_id"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for admin access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Broadcast constants
const (
	// MaxBroadcastBatchSize caps the number of recipients processed per tick
	MaxBroadcastBatchSize = 500

	// MaxEmailListSize caps explicit email list audiences
	MaxEmailListSize = 10000

	// BroadcastLockKeyPrefix namespaces per-tick Redis locks
	BroadcastLockKeyPrefix = "broadcast:tick:"

	// BroadcastLockTTL bounds how long a tick lock can be held
	BroadcastLockTTL = 2 * time.Minute
)
