// Package order implements the Order aggregate and its fulfillment lifecycle.
//
// An order is created in pending_payment with a frozen item snapshot, delivery
// address and shipping fee. Only a verified payment moves it to payment_confirmed;
// vendors and admins then advance it forward through processing, ready_for_pickup,
// shipped, out_for_delivery, delivered and completed, skipping states if needed.
// Cancellation is allowed from pending_payment and processing only.
//
// Escrow is tracked as data: payment holds it, cancellation of a paid order refunds
// it, and either customer confirmation or the auto-release timestamp set on delivery
// makes it eligible for release.
package order
