package notification

import (
	"context"
	"log/slog"

	"marketplace/internal/core/ports"
)

// LogDispatcher writes notifications to the log. Used when no broker is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With("component", "notifications")}
}

func (d *LogDispatcher) Notify(ctx context.Context, n ports.Notification) error {
	d.logger.InfoContext(ctx, "notification",
		"user_id", n.UserID.String(),
		"title", n.Title,
		"category", n.Category,
		"action_url", n.ActionURL,
		"metadata", n.Metadata,
	)
	return nil
}
