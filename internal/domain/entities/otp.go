package entities

import (
	"time"

	"github.com/google/uuid"
)

// OTPPurpose scopes a code to one flow
type OTPPurpose string

const (
	OTPPurposeRegistration  OTPPurpose = "registration"
	OTPPurposeLogin         OTPPurpose = "login"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

// Valid reports whether the purpose is known
func (p OTPPurpose) Valid() bool {
	switch p {
	case OTPPurposeRegistration, OTPPurposeLogin, OTPPurposePasswordReset:
		return true
	}
	return false
}

// OTPVerification is a one-time code sent to a mobile number
type OTPVerification struct {
	ID           uuid.UUID  `json:"id"`
	MobileNumber string     `json:"mobileNumber"`
	OTPCode      string     `json:"-"`
	Purpose      OTPPurpose `json:"purpose"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	IsVerified   bool       `json:"isVerified"`
	Attempts     int        `json:"attempts"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// SendOTPInput represents a request for a new code
type SendOTPInput struct {
	MobileNumber string     `json:"mobileNumber" binding:"required,min=6,max=20"`
	Email        string     `json:"email" binding:"omitempty,email"`
	Purpose      OTPPurpose `json:"purpose" binding:"required"`
}

// VerifyOTPInput represents a code submission
type VerifyOTPInput struct {
	MobileNumber string     `json:"mobileNumber" binding:"required"`
	OTPCode      string     `json:"otpCode" binding:"required"`
	Purpose      OTPPurpose `json:"purpose" binding:"required"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email" binding:"omitempty,email"`
}

// SendOTPResponse is returned after dispatching a code
type SendOTPResponse struct {
	MobileNumber string    `json:"mobileNumber"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// OTPDelivery is a code handed to a delivery channel
type OTPDelivery struct {
	MobileNumber string
	Email        string
	Code         string
	Purpose      OTPPurpose
	ExpiresIn    time.Duration
}
