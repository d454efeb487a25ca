package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/ytgrab/internal/domain"
	"go.uber.org/zap"
)

// NotificationService sends desktop notifications on download completion.
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		return nil
	}

	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return n.run("osascript", "-e", script)
	case "notify-send":
		return n.run("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}
}

func (n *NotificationService) run(name string, args ...string) error {
	if err := exec.Command(name, args...).Run(); err != nil {
		n.logger.Debug("Failed to send notification",
			zap.String("method", name),
			zap.Error(err))
		return err
	}
	return nil
}

// NotifyCompleted sends a notification when a download completes.
func (n *NotificationService) NotifyCompleted(url string) {
	n.Send("Download Completed", fmt.Sprintf("Success: %s", truncateString(url, 60)))
}

// NotifyFailed sends a notification when a download fails terminally.
func (n *NotificationService) NotifyFailed(url string, err error) {
	n.Send("Download Failed", fmt.Sprintf("Failed: %s", truncateString(url, 60)))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
