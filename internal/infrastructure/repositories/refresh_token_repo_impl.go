package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

// RefreshTokenRepository implements refresh token persistence
type RefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create stores a newly issued refresh token
func (r *RefreshTokenRepository) Create(ctx context.Context, token *entities.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = utils.GenerateUUIDv7()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	m := &models.RefreshToken{
		ID:         token.ID,
		Token:      token.Token,
		UserID:     token.UserID,
		DeviceInfo: datatypes.NewJSONType(token.DeviceInfo),
		IPAddress:  token.IPAddress,
		ExpiresAt:  token.ExpiresAt,
		IsRevoked:  token.IsRevoked,
		RevokedAt:  token.RevokedAt.Ptr(),
		CreatedAt:  token.CreatedAt,
	}
	return translateError(conn(ctx, r.db).Omit("User").Create(m).Error, "Refresh token already exists")
}

// FindValid returns the token row when it is neither revoked nor expired
func (r *RefreshTokenRepository) FindValid(ctx context.Context, token string, now time.Time) (*entities.RefreshToken, error) {
	var m models.RefreshToken
	err := conn(ctx, r.db).
		Where("token = ? AND is_revoked = ? AND expires_at > ?", token, false, now).
		First(&m).Error
	if err != nil {
		return nil, translateError(err, "")
	}
	return &entities.RefreshToken{
		ID:         m.ID,
		Token:      m.Token,
		UserID:     m.UserID,
		DeviceInfo: m.DeviceInfo.Data(),
		IPAddress:  m.IPAddress,
		ExpiresAt:  m.ExpiresAt,
		IsRevoked:  m.IsRevoked,
		RevokedAt:  null.TimeFromPtr(m.RevokedAt),
		CreatedAt:  m.CreatedAt,
	}, nil
}

// Revoke revokes a single token. Unknown or already revoked tokens are not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	return conn(ctx, r.db).Model(&models.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"revoked_at": time.Now(),
		}).Error
}

// RevokeAllForUser revokes every live token of the user
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"revoked_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CountActive counts live sessions of the user
func (r *RefreshTokenRepository) CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ? AND expires_at > ?", userID, false, now).
		Count(&count).Error
	return count, err
}

// DeleteExpired removes tokens that can no longer be exchanged: expired, or revoked before the cutoff
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("expires_at < ? OR (is_revoked = ? AND revoked_at < ?)", before, true, before).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
