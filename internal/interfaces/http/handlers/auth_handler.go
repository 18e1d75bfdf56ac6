package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/interfaces/http/response"
	"smilecare.backend/internal/interfaces/http/upload"
)

// AuthService is the session side of authentication
type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterInput, picture *entities.FileMeta, client entities.ClientInfo) (*entities.AuthResponse, error)
	Login(ctx context.Context, input *entities.LoginInput, client entities.ClientInfo) (*entities.AuthResponse, error)
	SocialLogin(ctx context.Context, input *entities.SocialLoginInput, client entities.ClientInfo) (*entities.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error
}

// OTPService issues and consumes one-time codes
type OTPService interface {
	Send(ctx context.Context, input *entities.SendOTPInput) (*entities.SendOTPResponse, error)
	Verify(ctx context.Context, input *entities.VerifyOTPInput, client entities.ClientInfo) (*entities.AuthResponse, error)
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
}

// FileStager stores request uploads and removes stored files
type FileStager interface {
	Stage(c *gin.Context, policy upload.Policy, field string) (*upload.Batch, error)
	DeleteFiles(ctx context.Context, files []entities.FileMeta)
	DeleteURL(ctx context.Context, url string)
	IsManagedURL(url string) bool
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
	otpService  OTPService
	uploads     FileStager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, otpService OTPService, uploads FileStager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		otpService:  otpService,
		uploads:     uploads,
	}
}

// Register handles self registration with an optional profile picture
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	batch, err := h.uploads.Stage(c, upload.ProfilePicture, "profilePicture")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer batch.Cleanup(ctx)

	var input entities.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authService.Register(ctx, &input, batch.First(), clientInfo(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	batch.Commit()

	response.SuccessWithMessage(c, http.StatusCreated, "User registered successfully", authResponse)
}

// Login handles password login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &input, clientInfo(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful", authResponse)
}

// SendOTP issues a code for registration, login or password reset
// POST /api/v1/auth/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var input entities.SendOTPInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.otpService.Send(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "OTP sent successfully", result)
}

// VerifyOTP consumes a registration or login code
// POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var input entities.VerifyOTPInput
	if !bindJSON(c, &input) {
		return
	}

	authResponse, err := h.otpService.Verify(c.Request.Context(), &input, clientInfo(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "OTP verified successfully", authResponse)
}

// SocialLogin returns the login handler of one identity provider
// POST /api/v1/auth/{google,facebook,apple}
func (h *AuthHandler) SocialLogin(provider entities.SocialProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input entities.SocialLoginInput
		if !bindJSON(c, &input) {
			return
		}
		input.Provider = provider
		// stored uploads belong to their owner and get deleted with the profile
		if h.uploads.IsManagedURL(input.ProfilePicture) {
			response.Error(c, domainerrors.BadRequest("Profile picture must be an external URL"))
			return
		}

		authResponse, err := h.authService.SocialLogin(c.Request.Context(), &input, clientInfo(c))
		if err != nil {
			response.Error(c, err)
			return
		}

		response.SuccessWithMessage(c, http.StatusOK, "Login successful", authResponse)
	}
}

// RefreshToken exchanges a refresh token for a new access token
// POST /api/v1/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input entities.RefreshTokenInput
	if !bindJSON(c, &input) {
		return
	}

	authResponse, err := h.authService.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Token refreshed successfully", authResponse)
}

// ResetPassword sets a new password with a password_reset code
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.otpService.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Password reset successfully", nil)
}

// Logout revokes the presented refresh token. An empty body only marks the user offline.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &input) {
			return
		}
	}

	if err := h.authService.Logout(c.Request.Context(), user.ID, input.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Logged out successfully", nil)
}

// LogoutAll revokes every session of the current user
// POST /api/v1/auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	revoked, err := h.authService.LogoutAll(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Logged out from all devices", gin.H{"revokedSessions": revoked})
}

// GetMe returns the current user
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	me, err := h.authService.GetMe(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, me)
}

// ChangePassword handles password update for the current user
// PUT /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input entities.ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), user.ID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Password changed successfully", nil)
}
