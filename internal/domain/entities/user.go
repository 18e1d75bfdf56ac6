package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"smilecare.backend/pkg/utils"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleProvider UserRole = "provider"
	UserRolePatient  UserRole = "patient"
)

// ParseUserRole accepts only the known roles
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case UserRoleAdmin:
		return UserRoleAdmin, nil
	case UserRoleProvider:
		return UserRoleProvider, nil
	case UserRolePatient:
		return UserRolePatient, nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

// SocialProvider identifies an external identity provider
type SocialProvider string

const (
	SocialGoogle   SocialProvider = "google"
	SocialFacebook SocialProvider = "facebook"
	SocialApple    SocialProvider = "apple"
)

// Column returns the users column holding this provider's subject id
func (p SocialProvider) Column() (string, bool) {
	switch p {
	case SocialGoogle:
		return "google_id", true
	case SocialFacebook:
		return "facebook_id", true
	case SocialApple:
		return "apple_id", true
	}
	return "", false
}

// User represents a user entity
type User struct {
	ID             uuid.UUID   `json:"id"`
	Email          null.String `json:"email"`
	MobileNumber   null.String `json:"mobileNumber"`
	PasswordHash   null.String `json:"-"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	UserType       UserRole    `json:"userType"`
	ProfilePicture null.String `json:"profilePicture"`
	IsActive       bool        `json:"isActive"`
	IsVerified     bool        `json:"isVerified"`
	MobileVerified bool        `json:"mobileVerified"`
	IsOnline       bool        `json:"isOnline"`
	LastSeen       null.Time   `json:"lastSeen"`
	GoogleID       null.String `json:"-"`
	FacebookID     null.String `json:"-"`
	AppleID        null.String `json:"-"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasPassword reports whether password login is possible for this account
func (u *User) HasPassword() bool {
	return u.PasswordHash.Valid && u.PasswordHash.String != ""
}

// SocialID returns the linked id for the given provider
func (u *User) SocialID(p SocialProvider) null.String {
	switch p {
	case SocialGoogle:
		return u.GoogleID
	case SocialFacebook:
		return u.FacebookID
	case SocialApple:
		return u.AppleID
	}
	return null.String{}
}

// SetSocialID links the provider subject on the entity
func (u *User) SetSocialID(p SocialProvider, id string) {
	switch p {
	case SocialGoogle:
		u.GoogleID = null.StringFrom(id)
	case SocialFacebook:
		u.FacebookID = null.StringFrom(id)
	case SocialApple:
		u.AppleID = null.StringFrom(id)
	}
}

// SocialIdentity is the verified subject of an identity provider token
type SocialIdentity struct {
	Subject string
	Email   string
}

// Sanitize returns a copy without the password hash
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.PasswordHash = null.String{}
	return &clean
}

// RegisterInput represents input for self registration
type RegisterInput struct {
	Email        string `json:"email" form:"email" binding:"required,email"`
	Password     string `json:"password" form:"password" binding:"omitempty,min=6"`
	FirstName    string `json:"firstName" form:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" form:"lastName" binding:"required,max=100"`
	MobileNumber string `json:"mobileNumber" form:"mobileNumber" binding:"omitempty,max=20"`
	UserType     string `json:"userType" form:"userType"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SocialLoginInput carries the profile returned by an identity provider
type SocialLoginInput struct {
	Provider       SocialProvider `json:"-"`
	ProviderID     string         `json:"id" binding:"required"`
	Token          string         `json:"token"`
	Email          string         `json:"email" binding:"omitempty,email"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	ProfilePicture string         `json:"profilePicture"`
}

// RefreshTokenInput represents input for token refresh and logout
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordInput represents input for changing user password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ResetPasswordInput resets a password with a password_reset OTP
type ResetPasswordInput struct {
	MobileNumber string `json:"mobileNumber" binding:"required"`
	OTPCode      string `json:"otpCode" binding:"required"`
	NewPassword  string `json:"newPassword" binding:"required,min=6"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user"`
}

// CreateUserInput is used by administrators to create accounts
type CreateUserInput struct {
	Email        string `json:"email" binding:"omitempty,email"`
	Password     string `json:"password" binding:"omitempty,min=6"`
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	MobileNumber string `json:"mobileNumber" binding:"omitempty,max=20"`
	UserType     string `json:"userType" binding:"required"`
	IsActive     *bool  `json:"isActive"`
}

// UserUpdate lists the columns an update may touch. Nil fields are left as is.
type UserUpdate struct {
	Email          *string `json:"email" binding:"omitempty,email"`
	FirstName      *string `json:"firstName" binding:"omitempty,max=100"`
	LastName       *string `json:"lastName" binding:"omitempty,max=100"`
	MobileNumber   *string `json:"mobileNumber" binding:"omitempty,max=20"`
	ProfilePicture *string `json:"-"`
	UserType       *string `json:"userType"`
	IsActive       *bool   `json:"isActive"`
	IsVerified     *bool   `json:"isVerified"`
}

// Empty reports whether no column was supplied
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.FirstName == nil && u.LastName == nil && u.MobileNumber == nil &&
		u.ProfilePicture == nil && u.UserType == nil && u.IsActive == nil && u.IsVerified == nil
}

// ProfileUpdateInput is the self service subset of UserUpdate
type ProfileUpdateInput struct {
	FirstName    *string `form:"firstName" json:"firstName" binding:"omitempty,max=100"`
	LastName     *string `form:"lastName" json:"lastName" binding:"omitempty,max=100"`
	MobileNumber *string `form:"mobileNumber" json:"mobileNumber" binding:"omitempty,max=20"`
}

// StatusInput toggles account activation
type StatusInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UserFilter holds list filters for users
type UserFilter struct {
	utils.PaginationParams
	UserType *UserRole
	IsActive *bool
	Search   string
}
