package social

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const jwksCacheTTL = time.Hour

type idTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// jwksVerifier validates OpenID id tokens against a remote key set
type jwksVerifier struct {
	client   *resty.Client
	url      string
	audience string
	issuers  []string

	mu        sync.Mutex
	keys      jose.JSONWebKeySet
	fetchedAt time.Time
}

func newJWKSVerifier(url, audience string, issuers ...string) *jwksVerifier {
	return &jwksVerifier{
		client:   resty.New().SetTimeout(10 * time.Second),
		url:      url,
		audience: audience,
		issuers:  issuers,
	}
}

func (v *jwksVerifier) verify(ctx context.Context, token string) (*Identity, error) {
	claims := &idTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !slices.Contains(v.issuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// key returns the public key for kid, refreshing the set on a miss
func (v *jwksVerifier) key(ctx context.Context, kid string) (interface{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if found := v.keys.Key(kid); len(found) > 0 && time.Since(v.fetchedAt) < jwksCacheTTL {
		return found[0].Key, nil
	}
	if err := v.refresh(ctx); err != nil {
		return nil, err
	}
	found := v.keys.Key(kid)
	if len(found) == 0 {
		return nil, fmt.Errorf("signing key %q not found", kid)
	}
	return found[0].Key, nil
}

func (v *jwksVerifier) refresh(ctx context.Context) error {
	resp, err := v.client.R().SetContext(ctx).Get(v.url)
	if err != nil {
		return fmt.Errorf("failed to fetch signing keys: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("signing key endpoint returned status %d", resp.StatusCode())
	}
	var set jose.JSONWebKeySet
	if err := json.Unmarshal(resp.Body(), &set); err != nil {
		return fmt.Errorf("failed to parse signing keys: %w", err)
	}
	v.keys = set
	v.fetchedAt = time.Now()
	return nil
}
