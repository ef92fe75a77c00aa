package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shop/backend/internal/domain/integration"
)

// GormCredentialRepository implements integration.CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindByUserID returns the credential for a marketplace user id
func (r *GormCredentialRepository) FindByUserID(ctx context.Context, userID string) (*integration.Credential, error) {
	var credential integration.Credential
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&credential).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrCredentialNotFound
		}
		return nil, err
	}
	return &credential, nil
}

// FindMostRecent returns the most recently updated credential
func (r *GormCredentialRepository) FindMostRecent(ctx context.Context) (*integration.Credential, error) {
	var credential integration.Credential
	if err := r.db.WithContext(ctx).
		Order("updated_at desc").
		First(&credential).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrCredentialNotFound
		}
		return nil, err
	}
	return &credential, nil
}

// FindAll returns all stored credentials
func (r *GormCredentialRepository) FindAll(ctx context.Context) ([]integration.Credential, error) {
	var credentials []integration.Credential
	if err := r.db.WithContext(ctx).
		Order("updated_at desc").
		Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}

// Upsert inserts or overwrites the credential keyed by user id. One row
// per marketplace account, refreshes overwrite in place.
func (r *GormCredentialRepository) Upsert(ctx context.Context, credential *integration.Credential) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"access_token", "refresh_token", "expires_at", "updated_at",
			}),
		}).
		Create(credential).Error
}

// Ensure GormCredentialRepository implements CredentialRepository
var _ integration.CredentialRepository = (*GormCredentialRepository)(nil)
