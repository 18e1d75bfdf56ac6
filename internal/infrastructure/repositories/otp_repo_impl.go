package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

// OTPRepository implements one-time code persistence
type OTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create stores a freshly issued code
func (r *OTPRepository) Create(ctx context.Context, otp *entities.OTPVerification) error {
	if otp.ID == uuid.Nil {
		otp.ID = utils.GenerateUUIDv7()
	}
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	m := &models.OTPVerification{
		ID:           otp.ID,
		MobileNumber: otp.MobileNumber,
		OTPCode:      otp.OTPCode,
		Purpose:      string(otp.Purpose),
		ExpiresAt:    otp.ExpiresAt,
		IsVerified:   otp.IsVerified,
		Attempts:     otp.Attempts,
		CreatedAt:    otp.CreatedAt,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, "OTP already issued")
}

// FindActive returns the newest unverified, unexpired code for the number and purpose
func (r *OTPRepository) FindActive(ctx context.Context, mobile string, purpose entities.OTPPurpose, now time.Time) (*entities.OTPVerification, error) {
	return findActiveOTP(r.activeQuery(ctx, mobile, purpose, now))
}

// FindActiveByCode returns the newest live code for the number and purpose whose value matches
func (r *OTPRepository) FindActiveByCode(ctx context.Context, mobile string, purpose entities.OTPPurpose, code string, now time.Time) (*entities.OTPVerification, error) {
	return findActiveOTP(r.activeQuery(ctx, mobile, purpose, now).Where("otp_code = ?", code))
}

func (r *OTPRepository) activeQuery(ctx context.Context, mobile string, purpose entities.OTPPurpose, now time.Time) *gorm.DB {
	return conn(ctx, r.db).
		Where("mobile_number = ? AND purpose = ? AND is_verified = ? AND expires_at > ?", mobile, string(purpose), false, now)
}

func findActiveOTP(query *gorm.DB) (*entities.OTPVerification, error) {
	var m models.OTPVerification
	if err := query.Order("created_at DESC").First(&m).Error; err != nil {
		return nil, translateError(err, "")
	}
	return &entities.OTPVerification{
		ID:           m.ID,
		MobileNumber: m.MobileNumber,
		OTPCode:      m.OTPCode,
		Purpose:      entities.OTPPurpose(m.Purpose),
		ExpiresAt:    m.ExpiresAt,
		IsVerified:   m.IsVerified,
		Attempts:     m.Attempts,
		CreatedAt:    m.CreatedAt,
	}, nil
}

// IncrementAttempts records a failed verification
func (r *OTPRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Model(&models.OTPVerification{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkVerified consumes the code. It succeeds only once per row.
func (r *OTPRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Model(&models.OTPVerification{}).
		Where("id = ? AND is_verified = ?", id, false).
		UpdateColumn("is_verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteExpired removes codes that expired before the cutoff, verified or not
func (r *OTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := conn(ctx, r.db).Where("expires_at < ?", before).Delete(&models.OTPVerification{})
	return result.RowsAffected, result.Error
}
