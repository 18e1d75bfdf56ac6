package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
	"smilecare.backend/pkg/crypto"
	"smilecare.backend/pkg/jwt"
	"smilecare.backend/pkg/logger"
)

var timeNow = time.Now

// SocialVerifier checks identity provider tokens
type SocialVerifier interface {
	Verify(ctx context.Context, provider entities.SocialProvider, token string) (*entities.SocialIdentity, error)
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
	jwtService  *jwt.JWTService
	social      SocialVerifier
}

// NewAuthUsecase creates a new auth usecase.
// A nil verifier accepts provider ids without checking a provider token and
// never links a social login to an existing account by email.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	refreshRepo repositories.RefreshTokenRepository,
	jwtService *jwt.JWTService,
	social SocialVerifier,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		jwtService:  jwtService,
		social:      social,
	}
}

// Register creates a patient or provider account and opens a session
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput, picture *entities.FileMeta, client entities.ClientInfo) (*entities.AuthResponse, error) {
	role := entities.UserRolePatient
	if input.UserType != "" {
		parsed, err := entities.ParseUserRole(input.UserType)
		if err != nil || parsed == entities.UserRoleAdmin {
			return nil, domainerrors.BadRequest("Invalid user type")
		}
		role = parsed
	}

	email := normalizeEmail(input.Email)
	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domainerrors.Conflict("User already exists")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	mobile := strings.TrimSpace(input.MobileNumber)
	if mobile != "" {
		if _, err := u.userRepo.GetByMobile(ctx, mobile); err == nil {
			return nil, domainerrors.Conflict("Mobile number is already registered")
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
	}

	user := &entities.User{
		Email:        null.StringFrom(email),
		MobileNumber: null.NewString(mobile, mobile != ""),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		UserType:     role,
		IsActive:     true,
	}
	if input.Password != "" {
		hash, err := crypto.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = null.StringFrom(hash)
	}
	if picture != nil {
		user.ProfilePicture = null.StringFrom(picture.URL)
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.IssueSession(ctx, user, client)
}

// Login authenticates a user by email and password
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput, client entities.ClientInfo) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() || !crypto.CheckPassword(input.Password, user.PasswordHash.String) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	resp, err := u.IssueSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	u.markOnline(ctx, resp.User)
	return resp, nil
}

// SocialLogin finds or creates the account behind a provider identity.
// Precedence: provider id match, then email match (linking the id), then a new patient.
func (u *AuthUsecase) SocialLogin(ctx context.Context, input *entities.SocialLoginInput, client entities.ClientInfo) (*entities.AuthResponse, error) {
	if _, ok := input.Provider.Column(); !ok {
		return nil, domainerrors.BadRequest("Unsupported social provider")
	}
	providerID := strings.TrimSpace(input.ProviderID)
	if providerID == "" {
		return nil, domainerrors.BadRequest("Provider id is required")
	}

	// verifiedEmail is only set from a provider-signed identity
	var verifiedEmail string
	if u.social != nil {
		identity, err := u.social.Verify(ctx, input.Provider, input.Token)
		if err != nil {
			logger.Warn(ctx, "Social token rejected", zap.String("provider", string(input.Provider)), zap.Error(err))
			return nil, domainerrors.Unauthorized("Invalid social token")
		}
		if identity.Subject != providerID {
			return nil, domainerrors.Unauthorized("Social token does not match the supplied account")
		}
		verifiedEmail = normalizeEmail(identity.Email)
		if verifiedEmail != "" {
			input.Email = verifiedEmail
		}
	}

	user, err := u.userRepo.GetBySocialID(ctx, input.Provider, providerID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	if user == nil {
		user, err = u.linkByEmail(ctx, input, providerID, verifiedEmail)
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		user, err = u.createSocialUser(ctx, input, providerID, verifiedEmail)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	resp, err := u.IssueSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	u.markOnline(ctx, resp.User)
	return resp, nil
}

// linkByEmail attaches the provider id to the account owning the email.
// Linking requires the provider to have vouched for that exact email.
func (u *AuthUsecase) linkByEmail(ctx context.Context, input *entities.SocialLoginInput, providerID, verifiedEmail string) (*entities.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, nil
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if linked := user.SocialID(input.Provider); linked.Valid && linked.String != "" && linked.String != providerID {
		return nil, domainerrors.Conflict("This email is already linked to a different " + string(input.Provider) + " account")
	}
	if verifiedEmail == "" || verifiedEmail != email {
		logger.Warn(ctx, "Refusing to link social login to an existing account without a verified email",
			zap.String("provider", string(input.Provider)), zap.String("user_id", user.ID.String()))
		return nil, domainerrors.Conflict("An account with this email already exists. Sign in to it to link your " + string(input.Provider) + " account")
	}
	if err := u.userRepo.LinkSocialID(ctx, user.ID, input.Provider, providerID); err != nil {
		return nil, err
	}
	user.SetSocialID(input.Provider, providerID)
	return user, nil
}

func (u *AuthUsecase) createSocialUser(ctx context.Context, input *entities.SocialLoginInput, providerID, verifiedEmail string) (*entities.User, error) {
	email := normalizeEmail(input.Email)
	user := &entities.User{
		Email:          null.NewString(email, email != ""),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		UserType:       entities.UserRolePatient,
		ProfilePicture: null.NewString(input.ProfilePicture, input.ProfilePicture != ""),
		IsActive:       true,
		IsVerified:     email == "" || email == verifiedEmail,
	}
	user.SetSocialID(input.Provider, providerID)

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueSession signs a token pair and persists the refresh token for the client
func (u *AuthUsecase) IssueSession(ctx context.Context, user *entities.User, client entities.ClientInfo) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, string(user.UserType))
	if err != nil {
		return nil, err
	}

	token := &entities.RefreshToken{
		Token:  pair.RefreshToken,
		UserID: user.ID,
		DeviceInfo: entities.DeviceInfo{
			UserAgent: client.UserAgent,
			Platform:  client.Platform,
		},
		IPAddress: client.IPAddress,
		ExpiresAt: timeNow().Add(u.jwtService.RefreshExpiry()),
	}
	if err := u.refreshRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Sanitize(),
	}, nil
}

// Refresh exchanges a live refresh token for a new access token.
// The refresh token itself is not rotated.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims := u.jwtService.Verify(refreshToken, jwt.TypeRefresh)
	if claims == nil {
		return nil, domainerrors.Unauthorized("Invalid or expired refresh token")
	}

	row, err := u.refreshRepo.FindValid(ctx, refreshToken, timeNow())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}
	if row.UserID != claims.UserID {
		return nil, domainerrors.Unauthorized("Invalid or expired refresh token")
	}

	user, err := u.userRepo.GetByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("User not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	access, err := u.jwtService.GenerateAccessToken(user.ID, string(user.UserType))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{AccessToken: access, User: user.Sanitize()}, nil
}

// Logout revokes the presented refresh token and marks the user offline.
// Unknown or already revoked tokens are ignored.
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken != "" {
		if err := u.refreshRepo.Revoke(ctx, refreshToken); err != nil {
			return err
		}
	}
	return u.userRepo.SetOnline(ctx, userID, false, timeNow())
}

// LogoutAll revokes every live refresh token of the user
func (u *AuthUsecase) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	revoked, err := u.refreshRepo.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := u.userRepo.SetOnline(ctx, userID, false, timeNow()); err != nil {
		return 0, err
	}
	return revoked, nil
}

// GetMe returns the current user without credentials
func (u *AuthUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// ChangePassword sets a new password. The current one is required when the account has one.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.HasPassword() && !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash.String) {
		return domainerrors.BadRequest("Current password is incorrect")
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, userID, hash)
}

func (u *AuthUsecase) markOnline(ctx context.Context, user *entities.User) {
	now := timeNow()
	if err := u.userRepo.SetOnline(ctx, user.ID, true, now); err != nil {
		logger.Warn(ctx, "Failed to mark user online", zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	user.IsOnline = true
	user.LastSeen = null.TimeFrom(now)
}
