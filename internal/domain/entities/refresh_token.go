package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DeviceInfo describes the client a refresh token was issued to
type DeviceInfo struct {
	UserAgent string `json:"userAgent"`
	Platform  string `json:"platform"`
}

// RefreshToken is a persisted, revocable refresh credential
type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	Token      string     `json:"-"`
	UserID     uuid.UUID  `json:"userId"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
	IPAddress  string     `json:"ipAddress"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	IsRevoked  bool       `json:"isRevoked"`
	RevokedAt  null.Time  `json:"revokedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ClientInfo is the request metadata recorded with a new session
type ClientInfo struct {
	UserAgent string
	Platform  string
	IPAddress string
}
