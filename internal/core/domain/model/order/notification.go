package order

// NotificationCategory groups order notifications for the delivery transport.
const NotificationCategory = "order"

// NotificationTemplate is the customer-facing text sent when an order enters a status.
type NotificationTemplate struct {
	Title   string
	Message string
}

var notificationTemplates = map[Status]NotificationTemplate{
	PendingPayment: {
		Title:   "Order placed",
		Message: "Your order has been placed and is awaiting payment.",
	},
	PaymentConfirmed: {
		Title:   "Payment confirmed",
		Message: "We have received your payment. The vendor will start processing your order.",
	},
	Processing: {
		Title:   "Order processing",
		Message: "The vendor is preparing your order.",
	},
	ReadyForPickup: {
		Title:   "Ready for pickup",
		Message: "Your order is packed and waiting for the courier.",
	},
	Shipped: {
		Title:   "Order shipped",
		Message: "Your order is on its way.",
	},
	OutForDelivery: {
		Title:   "Out for delivery",
		Message: "Your order is out for delivery and will arrive soon.",
	},
	Delivered: {
		Title:   "Order delivered",
		Message: "Your order has been delivered. Please confirm receipt.",
	},
	Completed: {
		Title:   "Order completed",
		Message: "Your order is complete. Thank you for shopping with us.",
	},
	Cancelled: {
		Title:   "Order cancelled",
		Message: "Your order has been cancelled.",
	},
}

// TemplateFor returns the notification for entering status s.
func TemplateFor(s Status) (NotificationTemplate, bool) {
	t, ok := notificationTemplates[s]
	return t, ok
}
