package integration

import "errors"

// Sentinel errors for external platform interactions
var (
	// ErrNotConfigured indicates the platform credentials are missing
	ErrNotConfigured = errors.New("integration: platform not configured")
	// ErrUnavailable indicates the platform could not be reached
	ErrUnavailable = errors.New("integration: platform unavailable")
	// ErrRequestFailed indicates the platform returned a non-success status
	ErrRequestFailed = errors.New("integration: platform request failed")
	// ErrInvalidResponse indicates the platform response could not be parsed
	ErrInvalidResponse = errors.New("integration: invalid platform response")
	// ErrUnauthorized indicates the access token was rejected by the platform
	ErrUnauthorized = errors.New("integration: platform rejected access token")
	// ErrCredentialNotFound indicates no stored credential matches the lookup
	ErrCredentialNotFound = errors.New("integration: credential not found")
)
