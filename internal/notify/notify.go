// Package notify delivers water-run messages to an external chat channel.
//
// Delivery is fire-and-forget from the caller's point of view: Notify never returns
// an error. Every failure (disabled channel, missing credentials, rate limiting,
// transport or API errors) is reported as data in the returned Outcome.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAPIURL is the Telegram Bot API base URL.
const DefaultAPIURL = "https://api.telegram.org"

// Config configures the notification channel.
type Config struct {
	Enabled     bool          `yaml:"enabled" env:"ENABLED"`
	Token       string        `yaml:"token" env:"TOKEN"`
	Destination string        `yaml:"destination" env:"DESTINATION"`
	MinInterval time.Duration `yaml:"min_interval" env:"MIN_INTERVAL"`
	APIURL      string        `yaml:"api_url" env:"API_URL"`
}

// Configured reports whether the channel credentials are present.
func (c Config) Configured() bool {
	return c.Token != "" && c.Destination != ""
}

// Recipient is the participant who is up next.
type Recipient struct {
	Name    string
	Contact string
}

// Outcome reports what happened to one notification.
type Outcome struct {
	Enabled   bool   `json:"enabled"`
	Delivered bool   `json:"delivered"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Status reports whether the channel is enabled and configured.
type Status struct {
	Enabled    bool `json:"enabled"`
	Configured bool `json:"configured"`
}

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Notifier composes and delivers messages.
type Notifier interface {
	Notify(ctx context.Context, went []string, next Recipient) Outcome
	Status() Status
}

// Service is the Notifier backed by a Sender.
type Service struct {
	cfg     Config
	sender  Sender
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Service for cfg. When the channel is enabled and configured the
// Sender is a Telegram client; otherwise nothing is ever sent.
func New(cfg Config, logger *slog.Logger) *Service {
	var sender Sender
	if cfg.Enabled && cfg.Configured() {
		sender = NewTelegramSender(cfg.APIURL, cfg.Token, cfg.Destination)
	}
	return NewWithSender(cfg, sender, logger)
}

// NewWithSender creates a Service that delivers through sender.
func NewWithSender(cfg Config, sender Sender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return &Service{cfg: cfg, sender: sender, limiter: limiter, logger: logger}
}

// Status implements Notifier.
func (s *Service) Status() Status {
	return Status{Enabled: s.cfg.Enabled, Configured: s.cfg.Configured()}
}

// Notify implements Notifier. went lists who just did a run; an empty list makes
// the message a reminder addressed to next.
func (s *Service) Notify(ctx context.Context, went []string, next Recipient) Outcome {
	text := Compose(went, next)
	out := Outcome{Enabled: s.cfg.Enabled, Message: text}

	switch {
	case !s.cfg.Enabled:
		return out
	case s.sender == nil:
		out.Error = "notification channel not configured"
		return out
	case !s.limiter.Allow():
		out.Error = "rate limited"
		s.logger.Warn("notification throttled", "min_interval", s.cfg.MinInterval)
		return out
	}

	if err := s.sender.Send(ctx, text); err != nil {
		out.Error = err.Error()
		s.logger.Warn("notification failed", "error", err)
		return out
	}
	out.Delivered = true
	s.logger.Debug("notification delivered", "next", next.Name)
	return out
}

// Compose renders the human-readable message.
func Compose(went []string, next Recipient) string {
	var b strings.Builder
	b.WriteString("💧 ")
	if len(went) == 0 {
		b.WriteString("Reminder: ")
		b.WriteString(next.Name)
		b.WriteString(", you're up next for the water run")
	} else {
		b.WriteString("Water run done by ")
		b.WriteString(joinNames(went))
		if next.Name == "" {
			b.WriteString(".")
			return b.String()
		}
		b.WriteString(". Next up: ")
		b.WriteString(next.Name)
	}
	if next.Contact != "" {
		b.WriteString(" (")
		b.WriteString(next.Contact)
		b.WriteString(")")
	}
	return b.String()
}

// joinNames renders "A", "A & B", "A, B & C".
func joinNames(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " & " + names[len(names)-1]
}
