package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByMobile(ctx context.Context, mobile string) (*entities.User, error)
	GetBySocialID(ctx context.Context, provider entities.SocialProvider, socialID string) (*entities.User, error)
	LinkSocialID(ctx context.Context, id uuid.UUID, provider entities.SocialProvider, socialID string) error
	Update(ctx context.Context, id uuid.UUID, input *entities.UserUpdate) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetOnline(ctx context.Context, id uuid.UUID, online bool, at time.Time) error
	MarkMobileVerified(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// OTPRepository defines one-time code operations
type OTPRepository interface {
	Create(ctx context.Context, otp *entities.OTPVerification) error
	FindActive(ctx context.Context, mobile string, purpose entities.OTPPurpose, now time.Time) (*entities.OTPVerification, error)
	FindActiveByCode(ctx context.Context, mobile string, purpose entities.OTPPurpose, code string, now time.Time) (*entities.OTPVerification, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

// RefreshTokenRepository defines refresh token persistence
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entities.RefreshToken) error
	FindValid(ctx context.Context, token string, now time.Time) (*entities.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}
