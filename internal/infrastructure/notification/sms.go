package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"smilecare.backend/internal/config"
)

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// SMSDispatcher posts codes to an HTTP SMS gateway
type SMSDispatcher struct {
	client   *resty.Client
	url      string
	senderID string
}

// NewSMSDispatcher creates a gateway client authenticated with the API key
func NewSMSDispatcher(cfg config.SMSConfig) *SMSDispatcher {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json")
	return &SMSDispatcher{client: client, url: cfg.GatewayURL, senderID: cfg.SenderID}
}

// Send delivers the code to msg.MobileNumber
func (d *SMSDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.MobileNumber == "" {
		return ErrNoDestination
	}
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(smsRequest{To: msg.MobileNumber, From: d.senderID, Message: renderText(msg)}).
		Post(d.url)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}
	return nil
}
