package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

type Notification struct {
	UserID    kernel.UUID
	Title     string
	Message   string
	Category  string
	ActionURL string
	Metadata  map[string]string
}

// NotificationDispatcher hands a notification to the delivery transport.
// Callers log failures and carry on; a failed notification never undoes
// the operation that triggered it.
type NotificationDispatcher interface {
	Notify(ctx context.Context, n Notification) error
}
