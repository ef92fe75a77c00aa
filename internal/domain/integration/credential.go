package integration

import (
	"context"
	"time"

	"github.com/shop/backend/internal/domain/shared"
)

// Credential stores the OAuth tokens for one marketplace account. There is
// exactly one row per marketplace user id; refreshes overwrite in place,
// no history is kept.
type Credential struct {
	shared.BaseEntity
	UserID       string    `gorm:"uniqueIndex;not null" json:"user_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TableName overrides the GORM table name
func (Credential) TableName() string {
	return "marketplace_credentials"
}

// NewCredential creates a credential for a marketplace user
func NewCredential(userID, accessToken, refreshToken string, expiresIn int) *Credential {
	c := &Credential{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
	c.ApplyGrant(accessToken, refreshToken, expiresIn)
	return c
}

// ApplyGrant overwrites the stored tokens with a fresh grant
func (c *Credential) ApplyGrant(accessToken, refreshToken string, expiresIn int) {
	now := time.Now()
	c.AccessToken = accessToken
	if refreshToken != "" {
		c.RefreshToken = refreshToken
	}
	c.ExpiresAt = now.Add(time.Duration(expiresIn) * time.Second)
	c.UpdatedAt = now
}

// NeedsRefresh returns true if the access token expires within the window
func (c *Credential) NeedsRefresh(within time.Duration) bool {
	return time.Now().Add(within).After(c.ExpiresAt)
}

// CredentialRepository defines the persistence interface for credentials
type CredentialRepository interface {
	// FindByUserID returns the credential for a marketplace user id
	FindByUserID(ctx context.Context, userID string) (*Credential, error)
	// FindMostRecent returns the most recently updated credential. Used as
	// a fallback when a notification carries no user id.
	FindMostRecent(ctx context.Context) (*Credential, error)
	FindAll(ctx context.Context) ([]Credential, error)
	// Upsert inserts or overwrites the credential keyed by user id
	Upsert(ctx context.Context, credential *Credential) error
}
