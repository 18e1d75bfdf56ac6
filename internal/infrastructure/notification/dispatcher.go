package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"smilecare.backend/internal/config"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/pkg/logger"
)

var (
	// ErrNoDestination means the message has nothing this dispatcher can deliver to
	ErrNoDestination = errors.New("no destination for dispatcher")
	// ErrDevFallbackDisabled is returned when the log fallback is reached in production
	ErrDevFallbackDisabled = errors.New("otp delivery is not configured")
)

// Message is a one-time code to be delivered
type Message = entities.OTPDelivery

// renderText renders the body sent over SMS and plain text email
func renderText(m Message) string {
	return fmt.Sprintf("Your SmileCare verification code is %s. It expires in %d minutes.", m.Code, expiryMinutes(m.ExpiresIn))
}

func expiryMinutes(d time.Duration) int {
	return int(d.Minutes())
}

// Dispatcher delivers one-time codes
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// NewDispatcher wires the channels that have credentials.
// With none configured the development log fallback is used.
func NewDispatcher(cfg *config.Config) Dispatcher {
	var channels []Dispatcher
	if cfg.SMS.Configured() {
		channels = append(channels, NewSMSDispatcher(cfg.SMS))
	}
	if cfg.SendGrid.Configured() {
		channels = append(channels, NewEmailDispatcher(cfg.SendGrid))
	}
	if len(channels) == 0 {
		return NewLogDispatcher(cfg.Server.IsProduction())
	}
	if len(channels) == 1 {
		return channels[0]
	}
	return &FallbackDispatcher{channels: channels}
}

// FallbackDispatcher tries each channel in order until one succeeds
type FallbackDispatcher struct {
	channels []Dispatcher
}

// NewFallbackDispatcher creates a dispatcher over the given channels
func NewFallbackDispatcher(channels ...Dispatcher) *FallbackDispatcher {
	return &FallbackDispatcher{channels: channels}
}

// Send delivers through the first channel that accepts the message
func (d *FallbackDispatcher) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, ch := range d.channels {
		err := ch.Send(ctx, msg)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNoDestination) {
			logger.Warn(ctx, "OTP channel failed", zap.Error(err))
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogDispatcher writes codes to the log for local development
type LogDispatcher struct {
	production bool
}

// NewLogDispatcher creates the development fallback
func NewLogDispatcher(production bool) *LogDispatcher {
	return &LogDispatcher{production: production}
}

// Send logs the code, refusing to do so in production
func (d *LogDispatcher) Send(ctx context.Context, msg Message) error {
	if d.production {
		return ErrDevFallbackDisabled
	}
	logger.Warn(ctx, fmt.Sprintf("OTP for %s: %s", msg.MobileNumber, msg.Code),
		zap.String("purpose", string(msg.Purpose)),
	)
	return nil
}
