package handlers

import "time"

const (
	// OAuth providers
	providerGoogle = "google"

	forwardedProtoHTTPS = "https"

	// Session cookie lifetime
	sessionTokenDuration = 7 * 24 * time.Hour

	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100 // Maximum page size for optimization history
)
