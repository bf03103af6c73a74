// Package services contains the stateless domain services of the marketplace:
//
//   - ShippingPricer turns distance, subtotal and an optional promo into a Quote
//   - DistanceResolver picks the farthest vendor leg for an order
//   - SettlementClock decides when held escrow may be released
//   - PromoCodeValidator checks a customer supplied code against the catalogue
//
// Only PromoCodeValidator performs I/O, through ports.PromoCodeRepository.
package services
