// Package notify contains implementations of the Notifier port.
package notify

import (
	"context"
	"log"

	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// LogSender is the Notifier used when no push transport is configured. It
// logs the would-be payload and reports the send as undelivered without
// raising an error, so callers behave identically with and without a
// configured transport.
type LogSender struct {
	logger *log.Logger
}

// NewLogSender creates a log-only notification sender. A nil logger uses the
// standard logger.
func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the notification that would have been delivered.
func (s *LogSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) (*secondary.SendResult, error) {
	s.logger.Printf("[notify disabled] to=%s title=%q body=%q data=%v", deviceToken, title, body, data)
	return &secondary.SendResult{
		Delivered: false,
		Reason:    "push transport not configured",
	}, nil
}

// Name returns the notifier type for logging.
func (s *LogSender) Name() string {
	return "log"
}

// Ensure LogSender implements the interface
var _ secondary.Notifier = (*LogSender)(nil)
