// Package shipping contains the shipping tariff and the quote it produces.
//
// A Tariff holds the distance bands, the fallback fee used when the distance is
// unknown and the order-value discount tiers. A Quote is the priced result for one
// checkout: base fee, discount fraction and amount, final fee, and whether a promo
// code replaced the value discount. Amounts are integral; only the discount amount
// is rounded (half up).
package shipping
