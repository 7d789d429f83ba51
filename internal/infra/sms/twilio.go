package sms

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	twilioclient "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageAPI is the slice of the Twilio REST API used for alert delivery.
type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Config holds Twilio credentials and the sender number.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	Timeout    time.Duration
}

// TwilioNotifier sends alert text messages through Twilio.
type TwilioNotifier struct {
	api    messageAPI
	from   string
	logger *slog.Logger
}

// NewTwilioNotifier builds a notifier from account credentials.
func NewTwilioNotifier(cfg Config, logger *slog.Logger) (*TwilioNotifier, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilio account sid and auth token are required")
	}
	if strings.TrimSpace(cfg.FromNumber) == "" {
		return nil, errors.New("twilio sender number is required")
	}
	client := twilioclient.NewRestClientWithParams(twilioclient.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return newTwilioNotifier(client.Api, cfg.FromNumber, logger), nil
}

func newTwilioNotifier(api messageAPI, from string, logger *slog.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		api:    api,
		from:   strings.TrimSpace(from),
		logger: logger.With("component", "sms.twilio"),
	}
}

// Send delivers body to the given number. Provider failures are logged and reported as false.
func (n *TwilioNotifier) Send(ctx context.Context, to, body string) bool {
	if err := ctx.Err(); err != nil {
		n.logger.Warn("sms skipped", "error", err)
		return false
	}
	to = strings.TrimSpace(to)
	if to == "" {
		n.logger.Warn("sms skipped: empty recipient")
		return false
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	msg, err := n.api.CreateMessage(params)
	if err != nil {
		n.logger.Error("sms send failed", "error", err)
		return false
	}
	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	n.logger.Info("sms sent", "sid", sid)
	return true
}

// DisabledNotifier stands in when no SMS provider is configured.
type DisabledNotifier struct {
	logger *slog.Logger
}

// NewDisabledNotifier returns a notifier that never delivers.
func NewDisabledNotifier(logger *slog.Logger) *DisabledNotifier {
	return &DisabledNotifier{logger: logger.With("component", "sms.disabled")}
}

// Send always reports false.
func (n *DisabledNotifier) Send(ctx context.Context, to, body string) bool {
	n.logger.Warn("sms provider not configured; message dropped")
	return false
}
