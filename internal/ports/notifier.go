package ports

import "context"

// Notifier defines the interface for delivering alert messages to an
// outbound chat channel. Implementations are responsible for any markup
// escaping their channel requires.
type Notifier interface {
	// Send delivers a plain-text message body to the configured channel.
	Send(ctx context.Context, message string) error
}
