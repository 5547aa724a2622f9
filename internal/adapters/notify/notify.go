// Package notify holds password-reset notifier adapters that need no external service.
package notify

import (
	"context"
	"log/slog"
	"strings"
)

// ResetNotifierFunc adapts a function to ports.ResetNotifier (useful for tests).
type ResetNotifierFunc func(ctx context.Context, email string) error

// NotifyPasswordReset implements ports.ResetNotifier.
func (f ResetNotifierFunc) NotifyPasswordReset(ctx context.Context, email string) error {
	if f == nil {
		return nil
	}
	return f(ctx, email)
}

// LogNotifier records password-reset requests in the application log instead of sending mail.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "reset_notifier")}
}

// NotifyPasswordReset logs the request with the address partially masked.
func (n *LogNotifier) NotifyPasswordReset(ctx context.Context, email string) error {
	n.logger.InfoContext(ctx, "password reset requested", "email", MaskEmail(email))
	return nil
}

// MaskEmail keeps the first character of the local part and the full domain.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
