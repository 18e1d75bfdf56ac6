package social

import (
	"context"
	"errors"
	"fmt"

	"smilecare.backend/internal/config"
	"smilecare.backend/internal/domain/entities"
)

const (
	googleJWKSURL     = "https://www.googleapis.com/oauth2/v3/certs"
	appleJWKSURL      = "https://appleid.apple.com/auth/keys"
	facebookGraphURL  = "https://graph.facebook.com"
	googleIssuer      = "https://accounts.google.com"
	googleIssuerShort = "accounts.google.com"
	appleIssuer       = "https://appleid.apple.com"
)

var (
	// ErrInvalidToken is returned when a provider token cannot be verified
	ErrInvalidToken = errors.New("invalid social token")
	// ErrProviderNotConfigured is returned when the client id of a provider is missing
	ErrProviderNotConfigured = errors.New("social provider is not configured")
)

// Identity is the verified subject of a provider token
type Identity = entities.SocialIdentity

type tokenVerifier interface {
	verify(ctx context.Context, token string) (*Identity, error)
}

// Service verifies tokens issued by Google, Apple and Facebook
type Service struct {
	verifiers map[entities.SocialProvider]tokenVerifier
}

// NewService builds verifiers for every provider that has a client id
func NewService(cfg config.SocialConfig) *Service {
	s := &Service{verifiers: map[entities.SocialProvider]tokenVerifier{}}
	if cfg.GoogleClientID != "" {
		s.verifiers[entities.SocialGoogle] = newJWKSVerifier(googleJWKSURL, cfg.GoogleClientID, googleIssuer, googleIssuerShort)
	}
	if cfg.AppleClientID != "" {
		s.verifiers[entities.SocialApple] = newJWKSVerifier(appleJWKSURL, cfg.AppleClientID, appleIssuer)
	}
	if cfg.FacebookAppID != "" && cfg.FacebookAppSecret != "" {
		s.verifiers[entities.SocialFacebook] = newFacebookVerifier(facebookGraphURL, cfg.FacebookAppID, cfg.FacebookAppSecret)
	}
	return s
}

// Verify checks the token with the provider and returns its subject
func (s *Service) Verify(ctx context.Context, provider entities.SocialProvider, token string) (*Identity, error) {
	v, ok := s.verifiers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, provider)
	}
	if token == "" {
		return nil, ErrInvalidToken
	}
	return v.verify(ctx, token)
}
