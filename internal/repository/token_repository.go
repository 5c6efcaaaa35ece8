package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authgate/internal/model"
)

// AccessTokenRepository defines token persistence operations.
type AccessTokenRepository interface {
	Create(ctx context.Context, token *model.AccessToken) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AccessToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type accessTokenRepository struct {
	db *gorm.DB
}

// NewAccessTokenRepository builds a GORM-backed token repository.
func NewAccessTokenRepository(db *gorm.DB) AccessTokenRepository {
	return &accessTokenRepository{db: db}
}

func (r *accessTokenRepository) Create(ctx context.Context, token *model.AccessToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *accessTokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AccessToken, error) {
	var token model.AccessToken
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *accessTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccessToken{}).Error
}

func (r *accessTokenRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.AccessToken{}).
		Where("id = ?", id).Update("last_used_at", at).Error
}

// DeleteExpired removes tokens whose expiry has passed. Expired tokens are
// already rejected at resolution time; this keeps the table from growing.
func (r *accessTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", before).
		Delete(&model.AccessToken{})
	return res.RowsAffected, res.Error
}
