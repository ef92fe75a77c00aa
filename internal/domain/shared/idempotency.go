package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed notification IDs to prevent duplicate
// processing of replayed webhook deliveries
type IdempotencyStore interface {
	// MarkProcessed marks a notification as processed with a TTL
	// Returns true if the notification was newly marked, false if it was
	// already processed
	MarkProcessed(ctx context.Context, notificationID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a notification has already been processed
	IsProcessed(ctx context.Context, notificationID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed notification IDs.
	// After this duration, the same notification ID can be processed again.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
