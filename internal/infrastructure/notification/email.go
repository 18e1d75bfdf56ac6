package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"smilecare.backend/internal/config"
)

type emailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailDispatcher sends codes through SendGrid
type EmailDispatcher struct {
	client   emailSender
	from     *mail.Email
	subjects map[string]string
}

// NewEmailDispatcher creates a SendGrid backed dispatcher
func NewEmailDispatcher(cfg config.SendGridConfig) *EmailDispatcher {
	return newEmailDispatcher(sendgrid.NewSendClient(cfg.APIKey), cfg)
}

func newEmailDispatcher(client emailSender, cfg config.SendGridConfig) *EmailDispatcher {
	return &EmailDispatcher{
		client: client,
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		subjects: map[string]string{
			"registration":   "Verify your SmileCare account",
			"login":          "Your SmileCare login code",
			"password_reset": "Reset your SmileCare password",
		},
	}
}

// Send delivers the code to msg.Email
func (d *EmailDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.Email == "" {
		return ErrNoDestination
	}
	subject, ok := d.subjects[string(msg.Purpose)]
	if !ok {
		subject = "Your SmileCare verification code"
	}
	text := renderText(msg)
	html := fmt.Sprintf("<p>Your SmileCare verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		msg.Code, expiryMinutes(msg.ExpiresIn))

	message := mail.NewSingleEmail(d.from, subject, mail.NewEmail("", msg.Email), text, html)
	resp, err := d.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", resp.StatusCode)
	}
	return nil
}
