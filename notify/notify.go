// Package notify sends desktop notifications for monitor alerts, such as a
// watched port changing state. Notifications are strictly best-effort: a
// missing notification daemon must never break a monitor loop.
package notify

import (
	"context"
	"errors"
	"time"
)

// Severity levels for notifications.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Notification is one message for the OS notification system.
type Notification struct {
	Title     string
	Message   string
	Severity  string
	Timestamp time.Time
}

// Notifier is the interface for platform notification backends.
type Notifier interface {
	// Send delivers a notification. Errors are advisory.
	Send(ctx context.Context, notification Notification) error

	// IsAvailable reports whether notifications can be delivered at all.
	IsAvailable() bool

	// Close releases backend resources.
	Close() error
}

// Config contains notification system configuration.
type Config struct {
	// AppName is shown as the notification source.
	AppName string

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration
}

// DefaultConfig returns the procport notification configuration.
func DefaultConfig() Config {
	return Config{
		AppName: "ProcPort Manager",
		Timeout: 5 * time.Second,
	}
}

// New creates the platform notifier.
func New(config Config) (Notifier, error) {
	return newPlatformNotifier(config)
}

// ErrNotAvailable indicates OS notifications cannot be delivered.
var ErrNotAvailable = errors.New("OS notifications not available")
