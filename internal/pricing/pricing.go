// Package pricing computes order totals. It is pure: no store access, no
// side effects, fully deterministic for a given cart.
package pricing

import "github.com/jcmexdev/storefront/internal/core/domain"

// Quote is the money breakdown of a cart. Total always equals
// Subtotal - DiscountAmount + DeliveryFee.
type Quote struct {
	Subtotal       float64
	DiscountAmount float64
	DeliveryFee    float64
	Total          float64
}

// deliveryFee is charged unless the subtotal is strictly above the free
// delivery threshold.
const (
	deliveryFee       = 3.0
	freeDeliveryAbove = 50.0
)

// discountRate returns the markdown applied to the whole subtotal. Tiers are
// evaluated from the highest threshold down; the first match wins.
func discountRate(subtotal float64) float64 {
	switch {
	case subtotal > 500:
		return 0.50
	case subtotal >= 200:
		return 0.30
	case subtotal >= 100:
		return 0.20
	case subtotal > 50:
		return 0.10
	default:
		return 0
	}
}

// Compute produces the quote for a set of cart lines.
func Compute(lines []domain.CartLine) Quote {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Subtotal()
	}

	discount := subtotal * discountRate(subtotal)

	fee := deliveryFee
	if subtotal > freeDeliveryAbove {
		fee = 0
	}

	return Quote{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DeliveryFee:    fee,
		Total:          subtotal - discount + fee,
	}
}
