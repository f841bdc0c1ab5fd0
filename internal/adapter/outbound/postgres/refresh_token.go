package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// refreshTokenAdapter implements outbound.RefreshTokenDatabasePort.
type refreshTokenAdapter struct {
	db *gorm.DB
}

// NewRefreshTokenAdapter creates a new refresh token database adapter.
func NewRefreshTokenAdapter(db *gorm.DB) outbound.RefreshTokenDatabasePort {
	return &refreshTokenAdapter{db: db}
}

func (a *refreshTokenAdapter) Create(ctx context.Context, token *model.RefreshToken) error {
	return conn(ctx, a.db).Create(token).Error
}

func (a *refreshTokenAdapter) GetByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	err := conn(ctx, a.db).First(&token, "token_hash = ?", tokenHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (a *refreshTokenAdapter) Revoke(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, a.db).
		Model(&model.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now()).Error
}

func (a *refreshTokenAdapter) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return conn(ctx, a.db).
		Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

func (a *refreshTokenAdapter) DeleteExpired(ctx context.Context) (int64, error) {
	result := conn(ctx, a.db).Delete(&model.RefreshToken{}, "expires_at < ?", time.Now())
	return result.RowsAffected, result.Error
}

var _ outbound.RefreshTokenDatabasePort = (*refreshTokenAdapter)(nil)
