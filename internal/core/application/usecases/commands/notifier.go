package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

// OrderNotifier sends the customer notification for a status an order entered.
// Delivery failures are logged and counted, never returned.
type OrderNotifier struct {
	dispatcher ports.NotificationDispatcher
	logger     *slog.Logger
}

func NewOrderNotifier(dispatcher ports.NotificationDispatcher, logger *slog.Logger) *OrderNotifier {
	return &OrderNotifier{
		dispatcher: dispatcher,
		logger:     logger.With("component", "order_notifier"),
	}
}

func (n *OrderNotifier) StatusEntered(ctx context.Context, o *order.Order, status order.Status) {
	tpl, ok := order.TemplateFor(status)
	if !ok {
		return
	}

	err := n.dispatcher.Notify(ctx, ports.Notification{
		UserID:    o.UserID(),
		Title:     tpl.Title,
		Message:   tpl.Message,
		Category:  order.NotificationCategory,
		ActionURL: "/orders/" + o.ID().String(),
		Metadata: map[string]string{
			"order_id": o.ID().String(),
			"status":   status.String(),
		},
	})
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		n.logger.ErrorContext(ctx, "failed to dispatch order notification",
			"order_id", o.ID().String(), "status", status.String(), "error", err)
	}
}
