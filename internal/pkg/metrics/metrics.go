// Package metrics registers the Prometheus counters of the order pipeline
// on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_order_transitions_total",
		Help: "Total number of order status transitions, by target status.",
	},
		[]string{"status"},
	)

	OrderConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_order_conflicts_total",
		Help: "Total number of order writes rejected by the optimistic version check.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_notification_failures_total",
		Help: "Total number of notifications that could not be dispatched.",
	})

	EscrowsReleasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_escrows_released_total",
		Help: "Total number of order escrows moved from held to released.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
