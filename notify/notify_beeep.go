package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// beeepNotifier implements Notifier using the cross-platform beeep library.
type beeepNotifier struct {
	config Config
}

func newPlatformNotifier(config Config) (Notifier, error) {
	return &beeepNotifier{config: config}, nil
}

// Send delivers the notification via beeep. Critical severity uses the
// system alert sound.
func (n *beeepNotifier) Send(_ context.Context, notification Notification) error {
	title := notification.Title
	if title == "" {
		title = n.config.AppName
	}
	if notification.Severity == SeverityCritical {
		return beeep.Alert(title, notification.Message, "")
	}
	return beeep.Notify(title, notification.Message, "")
}

// IsAvailable returns true; beeep handles platform detection internally.
func (n *beeepNotifier) IsAvailable() bool {
	return true
}

func (n *beeepNotifier) Close() error {
	return nil
}
