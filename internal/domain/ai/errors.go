package ai

import "errors"

// ErrNotConfigured indicates no inference credential is configured. Analysis
// features must degrade to a clearly reported unavailable state, never crash.
var ErrNotConfigured = errors.New("ai service not configured")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")
