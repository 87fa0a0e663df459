package secondary

import "context"

// Notifier defines the secondary port for push notification delivery.
// Implementations must tolerate being unconfigured by reporting
// Delivered=false without returning an error.
type Notifier interface {
	// Send delivers a notification to a device token. A nil-error result with
	// Delivered=false means the transport is disabled or declined the send.
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) (*SendResult, error)

	// Name returns the notifier type for logging.
	Name() string
}

// SendResult reports the outcome of one delivery attempt.
type SendResult struct {
	Delivered bool
	Reason    string // why delivery did not happen, when Delivered is false
}
