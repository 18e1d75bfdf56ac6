package usecases

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"smilecare.backend/internal/config"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
	"smilecare.backend/pkg/crypto"
	"smilecare.backend/pkg/logger"
)

const defaultMaxOTPAttempts = 3

// OTPDispatcher delivers generated codes
type OTPDispatcher interface {
	Send(ctx context.Context, msg entities.OTPDelivery) error
}

// Cooldown limits how often a key may be used
type Cooldown interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

var generateOTPCode = crypto.GenerateNumericCode

// OTPUsecase handles one-time code issuing and verification
type OTPUsecase struct {
	otpRepo     repositories.OTPRepository
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
	sessions    *AuthUsecase
	dispatcher  OTPDispatcher
	cooldown    Cooldown
	cfg         config.OTPConfig
}

// NewOTPUsecase creates a new OTP usecase
func NewOTPUsecase(
	otpRepo repositories.OTPRepository,
	userRepo repositories.UserRepository,
	refreshRepo repositories.RefreshTokenRepository,
	sessions *AuthUsecase,
	dispatcher OTPDispatcher,
	cooldown Cooldown,
	cfg config.OTPConfig,
) *OTPUsecase {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxOTPAttempts
	}
	if cfg.Length <= 0 {
		cfg.Length = 6
	}
	return &OTPUsecase{
		otpRepo:     otpRepo,
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		sessions:    sessions,
		dispatcher:  dispatcher,
		cooldown:    cooldown,
		cfg:         cfg,
	}
}

// Send issues a purpose scoped code and dispatches it
func (u *OTPUsecase) Send(ctx context.Context, input *entities.SendOTPInput) (*entities.SendOTPResponse, error) {
	if !input.Purpose.Valid() {
		return nil, domainerrors.BadRequest("Invalid OTP purpose")
	}
	mobile := strings.TrimSpace(input.MobileNumber)
	email := normalizeEmail(input.Email)

	if input.Purpose == entities.OTPPurposeLogin || input.Purpose == entities.OTPPurposePasswordReset {
		user, err := u.userRepo.GetByMobile(ctx, mobile)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.NotFound("User not found with this mobile number")
			}
			return nil, err
		}
		if email == "" && user.Email.Valid {
			email = user.Email.String
		}
	}

	cooldownKey := string(input.Purpose) + ":" + mobile
	if u.cooldown != nil {
		ok, err := u.cooldown.Acquire(ctx, cooldownKey)
		if err != nil {
			logger.Warn(ctx, "OTP cooldown unavailable", zap.Error(err))
		} else if !ok {
			return nil, domainerrors.ErrOTPCooldown
		}
	}

	resp, err := u.issue(ctx, mobile, email, input.Purpose)
	if err != nil && u.cooldown != nil {
		if relErr := u.cooldown.Release(ctx, cooldownKey); relErr != nil {
			logger.Warn(ctx, "Failed to release OTP cooldown", zap.Error(relErr))
		}
	}
	return resp, err
}

func (u *OTPUsecase) issue(ctx context.Context, mobile, email string, purpose entities.OTPPurpose) (*entities.SendOTPResponse, error) {
	code, err := generateOTPCode(u.cfg.Length)
	if err != nil {
		return nil, err
	}

	otp := &entities.OTPVerification{
		MobileNumber: mobile,
		OTPCode:      code,
		Purpose:      purpose,
		ExpiresAt:    timeNow().Add(u.cfg.Expiry),
	}
	if err := u.otpRepo.Create(ctx, otp); err != nil {
		return nil, err
	}

	err = u.dispatcher.Send(ctx, entities.OTPDelivery{
		MobileNumber: mobile,
		Email:        email,
		Code:         code,
		Purpose:      purpose,
		ExpiresIn:    u.cfg.Expiry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deliver OTP: %w", err)
	}

	return &entities.SendOTPResponse{MobileNumber: mobile, ExpiresAt: otp.ExpiresAt}, nil
}

// Verify consumes a registration or login code and opens a session
func (u *OTPUsecase) Verify(ctx context.Context, input *entities.VerifyOTPInput, client entities.ClientInfo) (*entities.AuthResponse, error) {
	switch input.Purpose {
	case entities.OTPPurposeRegistration, entities.OTPPurposeLogin:
	case entities.OTPPurposePasswordReset:
		return nil, domainerrors.BadRequest("Use reset-password to consume a password reset code")
	default:
		return nil, domainerrors.BadRequest("Invalid OTP purpose")
	}

	mobile := strings.TrimSpace(input.MobileNumber)
	if err := u.consume(ctx, mobile, input.Purpose, input.OTPCode); err != nil {
		return nil, err
	}

	var user *entities.User
	var err error
	if input.Purpose == entities.OTPPurposeRegistration {
		user, err = u.registerMobileUser(ctx, mobile, input)
	} else {
		user, err = u.loginMobileUser(ctx, mobile)
	}
	if err != nil {
		return nil, err
	}

	resp, err := u.sessions.IssueSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	u.sessions.markOnline(ctx, resp.User)
	return resp, nil
}

func (u *OTPUsecase) registerMobileUser(ctx context.Context, mobile string, input *entities.VerifyOTPInput) (*entities.User, error) {
	if _, err := u.userRepo.GetByMobile(ctx, mobile); err == nil {
		return nil, domainerrors.Conflict("Mobile number is already registered")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	user := &entities.User{
		Email:          null.NewString(email, email != ""),
		MobileNumber:   null.StringFrom(mobile),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		UserType:       entities.UserRolePatient,
		IsActive:       true,
		MobileVerified: true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *OTPUsecase) loginMobileUser(ctx context.Context, mobile string) (*entities.User, error) {
	user, err := u.userRepo.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}
	if !user.MobileVerified {
		if err := u.userRepo.MarkMobileVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.MobileVerified = true
	}
	return user, nil
}

// ResetPassword consumes a password_reset code, sets the new password and ends every session
func (u *OTPUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	mobile := strings.TrimSpace(input.MobileNumber)
	if err := u.consume(ctx, mobile, entities.OTPPurposePasswordReset, input.OTPCode); err != nil {
		return err
	}

	user, err := u.userRepo.GetByMobile(ctx, mobile)
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	_, err = u.refreshRepo.RevokeAllForUser(ctx, user.ID)
	return err
}

// consume accepts any live code for the number and purpose, newest first.
// Misses count against the newest code and its limit is checked before comparing.
func (u *OTPUsecase) consume(ctx context.Context, mobile string, purpose entities.OTPPurpose, code string) error {
	now := timeNow()
	code = strings.TrimSpace(code)

	newest, err := u.otpRepo.FindActive(ctx, mobile, purpose, now)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrInvalidOrExpiredOTP
		}
		return err
	}
	if newest.Attempts >= u.cfg.MaxAttempts {
		return domainerrors.ErrTooManyAttempts
	}

	otp := newest
	if subtle.ConstantTimeCompare([]byte(newest.OTPCode), []byte(code)) != 1 {
		otp, err = u.otpRepo.FindActiveByCode(ctx, mobile, purpose, code, now)
		if errors.Is(err, domainerrors.ErrNotFound) {
			if err := u.otpRepo.IncrementAttempts(ctx, newest.ID); err != nil {
				logger.Warn(ctx, "Failed to record OTP attempt", zap.Error(err))
			}
			return domainerrors.ErrInvalidOrExpiredOTP
		}
		if err != nil {
			return err
		}
		if otp.Attempts >= u.cfg.MaxAttempts {
			return domainerrors.ErrTooManyAttempts
		}
	}

	if err := u.otpRepo.MarkVerified(ctx, otp.ID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrInvalidOrExpiredOTP
		}
		return err
	}
	return nil
}
