package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"smilecare.backend/internal/domain/entities"
)

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email          *string    `gorm:"type:varchar(255);uniqueIndex"`
	MobileNumber   *string    `gorm:"type:varchar(20);index"`
	PasswordHash   *string    `gorm:"type:varchar(255)"`
	FirstName      string     `gorm:"type:varchar(100);not null"`
	LastName       string     `gorm:"type:varchar(100);not null"`
	UserType       string     `gorm:"type:varchar(20);not null;default:'patient';index"`
	ProfilePicture *string    `gorm:"type:text"`
	IsActive       bool       `gorm:"not null"`
	IsVerified     bool       `gorm:"not null;default:false"`
	MobileVerified bool       `gorm:"not null;default:false"`
	IsOnline       bool       `gorm:"not null;default:false"`
	LastSeen       *time.Time `gorm:"type:timestamp"`
	GoogleID       *string    `gorm:"type:varchar(255);uniqueIndex"`
	FacebookID     *string    `gorm:"type:varchar(255);uniqueIndex"`
	AppleID        *string    `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string { return "users" }

type OTPVerification struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	MobileNumber string    `gorm:"type:varchar(20);not null;index:idx_otp_lookup"`
	OTPCode      string    `gorm:"column:otp_code;type:varchar(10);not null"`
	Purpose      string    `gorm:"type:varchar(20);not null;index:idx_otp_lookup"`
	ExpiresAt    time.Time `gorm:"not null"`
	IsVerified   bool      `gorm:"not null;default:false"`
	Attempts     int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

func (OTPVerification) TableName() string { return "otp_verifications" }

type RefreshToken struct {
	ID         uuid.UUID                               `gorm:"type:uuid;primaryKey"`
	Token      string                                  `gorm:"type:text;not null;uniqueIndex"`
	UserID     uuid.UUID                               `gorm:"type:uuid;not null;index"`
	DeviceInfo datatypes.JSONType[entities.DeviceInfo] `gorm:"type:jsonb"`
	IPAddress  string                                  `gorm:"type:varchar(64)"`
	ExpiresAt  time.Time                               `gorm:"not null"`
	IsRevoked  bool                                    `gorm:"not null;default:false"`
	RevokedAt  *time.Time
	CreatedAt  time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
