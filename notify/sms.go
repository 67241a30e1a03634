// Package notify sends SMS confirmations for booked tours.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/propertytek/chatflow/types"
)

// Sender is the outbound SMS contract.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) (types.SendResult, error)
}

// TwilioConfig configures the Twilio-style SMS client.
type TwilioConfig struct {
	AccountSID string        `json:"account_sid" yaml:"account_sid"`
	AuthToken  string        `json:"auth_token" yaml:"auth_token"`
	FromNumber string        `json:"from_number" yaml:"from_number"`
	BaseURL    string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RatePerSec float64       `json:"rate_per_sec,omitempty" yaml:"rate_per_sec,omitempty"`
}

// TwilioSender sends SMS through the Twilio messages API. Outbound calls
// are rate limited so a burst of bookings cannot trip provider throttling.
type TwilioSender struct {
	cfg     TwilioConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewTwilioSender creates the SMS client.
func NewTwilioSender(cfg TwilioConfig, logger *zap.Logger) *TwilioSender {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwilioSender{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 3),
		logger:  logger.With(zap.String("component", "notify")),
	}
}

// Configured reports whether credentials are present. Unconfigured senders
// are treated as disabled rather than erroring at send time.
func (s *TwilioSender) Configured() bool {
	return s.cfg.AccountSID != "" && s.cfg.AuthToken != "" && s.cfg.FromNumber != ""
}

// SendSMS sends one message. The returned SendResult carries the provider
// message id on success and the failure reason otherwise; transport
// failures are returned as errors.
func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) (types.SendResult, error) {
	if !s.Configured() {
		s.logger.Warn("sms sender not configured, skipping send",
			zap.String("to", maskPhone(to)))
		return types.SendResult{Success: false, Error: "sms not configured"}, nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return types.SendResult{}, fmt.Errorf("sms rate limit wait: %w", err)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return types.SendResult{}, fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return types.SendResult{}, fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return types.SendResult{}, fmt.Errorf("read sms response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("sms send rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("to", maskPhone(to)))
		return types.SendResult{
			Success: false,
			Error:   fmt.Sprintf("sms provider status %d", resp.StatusCode),
		}, nil
	}

	sid := extractSID(data)
	s.logger.Info("sms sent",
		zap.String("to", maskPhone(to)),
		zap.String("message_sid", sid))
	return types.SendResult{Success: true, MessageID: sid}, nil
}

func extractSID(data []byte) string {
	// Cheap scan instead of a full decode; the sid is the only field used.
	const key = `"sid"`
	s := string(data)
	i := strings.Index(s, key)
	if i < 0 {
		return ""
	}
	rest := s[i+len(key):]
	start := strings.Index(rest, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(rest[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return rest[start+1 : start+1+end]
}

// maskPhone keeps the last four digits for logs.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// ConfirmationBody renders the tour confirmation message.
func ConfirmationBody(appt types.Appointment) string {
	var b strings.Builder
	b.WriteString("Your tour is confirmed!\n")
	if appt.PropertyAddress != "" {
		fmt.Fprintf(&b, "Property: %s\n", appt.PropertyAddress)
	}
	when := appt.FormattedDate
	if when == "" && appt.Slot != nil {
		when = appt.Slot.Display
	}
	if when != "" {
		fmt.Fprintf(&b, "When: %s\n", when)
	}
	b.WriteString("Reply to this message if you need to reschedule.")
	return b.String()
}
