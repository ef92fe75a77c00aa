package integration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/integration"
	"github.com/shop/backend/internal/domain/shared"
)

// CredentialResponse is the API representation of a stored credential.
// Token values are never exposed.
type CredentialResponse struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCredentialResponse(c *integration.Credential) CredentialResponse {
	return CredentialResponse{
		UserID:    c.UserID,
		ExpiresAt: c.ExpiresAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CredentialService manages marketplace OAuth credentials: code exchange,
// on-demand refresh and the scheduled near-expiry sweep.
type CredentialService struct {
	credRepo integration.CredentialRepository
	client   integration.MarketplaceClient
	logger   *zap.Logger
}

// NewCredentialService creates a new CredentialService
func NewCredentialService(credRepo integration.CredentialRepository, client integration.MarketplaceClient, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		credRepo: credRepo,
		client:   client,
		logger:   logger,
	}
}

// Exchange trades an authorization code for tokens and stores them. A
// credential already stored for the same marketplace user is overwritten.
func (s *CredentialService) Exchange(ctx context.Context, code, redirectURI string) (*CredentialResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", shared.ErrInvalidInput)
	}

	grant, err := s.client.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	credential, err := s.storeGrant(ctx, grant)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Marketplace credential stored",
		zap.String("user_id", credential.UserID),
		zap.Time("expires_at", credential.ExpiresAt),
	)

	response := toCredentialResponse(credential)
	return &response, nil
}

// Refresh renews the credential for a marketplace user. With an empty
// userID the most recently updated credential is refreshed. A missing
// credential is an explicit error, not a silent no-op.
func (s *CredentialService) Refresh(ctx context.Context, userID string) (*CredentialResponse, error) {
	credential, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	credential, err = s.refreshCredential(ctx, credential)
	if err != nil {
		return nil, err
	}

	response := toCredentialResponse(credential)
	return &response, nil
}

// RefreshExpiring renews every credential expiring within the window.
// Per-credential failures are logged and the sweep continues; the count of
// successful refreshes is returned.
func (s *CredentialService) RefreshExpiring(ctx context.Context, within time.Duration) (int, error) {
	credentials, err := s.credRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for i := range credentials {
		credential := &credentials[i]
		if !credential.NeedsRefresh(within) {
			continue
		}
		if _, err := s.refreshCredential(ctx, credential); err != nil {
			s.logger.Warn("Failed to refresh credential",
				zap.String("user_id", credential.UserID),
				zap.Error(err),
			)
			continue
		}
		refreshed++
	}

	return refreshed, nil
}

// AccessTokenFor resolves the access token for a marketplace user. An empty
// userID falls back to the most recently updated credential. The resolved
// user id is returned so callers can refresh the right row later.
func (s *CredentialService) AccessTokenFor(ctx context.Context, userID string) (token, resolvedUserID string, err error) {
	credential, err := s.find(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return credential.AccessToken, credential.UserID, nil
}

// RefreshAccessToken renews the credential and returns the new access token.
// Used by the webhook 401 retry path.
func (s *CredentialService) RefreshAccessToken(ctx context.Context, userID string) (string, error) {
	credential, err := s.find(ctx, userID)
	if err != nil {
		return "", err
	}
	credential, err = s.refreshCredential(ctx, credential)
	if err != nil {
		return "", err
	}
	return credential.AccessToken, nil
}

// List returns all stored credentials without token values
func (s *CredentialService) List(ctx context.Context) ([]CredentialResponse, error) {
	credentials, err := s.credRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CredentialResponse, 0, len(credentials))
	for i := range credentials {
		responses = append(responses, toCredentialResponse(&credentials[i]))
	}
	return responses, nil
}

func (s *CredentialService) find(ctx context.Context, userID string) (*integration.Credential, error) {
	if userID != "" {
		credential, err := s.credRepo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", integration.ErrCredentialNotFound, userID)
			}
			return nil, err
		}
		return credential, nil
	}

	credential, err := s.credRepo.FindMostRecent(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, integration.ErrCredentialNotFound
		}
		return nil, err
	}
	return credential, nil
}

func (s *CredentialService) refreshCredential(ctx context.Context, credential *integration.Credential) (*integration.Credential, error) {
	grant, err := s.client.RefreshGrant(ctx, credential.RefreshToken)
	if err != nil {
		return nil, err
	}

	credential.ApplyGrant(grant.AccessToken, grant.RefreshToken, grant.ExpiresIn)
	if err := s.credRepo.Upsert(ctx, credential); err != nil {
		return nil, err
	}

	s.logger.Info("Marketplace credential refreshed",
		zap.String("user_id", credential.UserID),
		zap.Time("expires_at", credential.ExpiresAt),
	)
	return credential, nil
}

func (s *CredentialService) storeGrant(ctx context.Context, grant *integration.TokenGrant) (*integration.Credential, error) {
	userID := strconv.FormatInt(grant.UserID, 10)

	credential, err := s.credRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		credential = integration.NewCredential(userID, grant.AccessToken, grant.RefreshToken, grant.ExpiresIn)
	} else {
		credential.ApplyGrant(grant.AccessToken, grant.RefreshToken, grant.ExpiresIn)
	}

	if err := s.credRepo.Upsert(ctx, credential); err != nil {
		return nil, err
	}
	return credential, nil
}
