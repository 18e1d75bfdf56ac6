package social

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type debugTokenResponse struct {
	Data struct {
		AppID   string `json:"app_id"`
		IsValid bool   `json:"is_valid"`
		UserID  string `json:"user_id"`
	} `json:"data"`
}

// facebookVerifier checks user access tokens with the Graph debug_token endpoint
type facebookVerifier struct {
	client    *resty.Client
	appID     string
	appSecret string
}

func newFacebookVerifier(baseURL, appID, appSecret string) *facebookVerifier {
	return &facebookVerifier{
		client:    resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		appID:     appID,
		appSecret: appSecret,
	}
}

func (v *facebookVerifier) verify(ctx context.Context, token string) (*Identity, error) {
	var out debugTokenResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"input_token":  token,
			"access_token": v.appID + "|" + v.appSecret,
		}).
		SetResult(&out).
		Get("/debug_token")
	if err != nil {
		return nil, fmt.Errorf("facebook debug_token request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: facebook returned status %d", ErrInvalidToken, resp.StatusCode())
	}
	if !out.Data.IsValid || out.Data.AppID != v.appID || out.Data.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: out.Data.UserID}, nil
}
