package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

func linesFor(subtotal float64) []domain.CartLine {
	return []domain.CartLine{{ID: "p1", ProductID: "p1", Price: subtotal, Quantity: 1}}
}

func TestComputeTiers(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		discount float64
		fee      float64
		total    float64
	}{
		{"no discount with delivery fee", 40, 0, 3, 43},
		{"boundary at 50 keeps the fee", 50, 0, 3, 53},
		{"ten percent above 50", 60, 6, 0, 54},
		{"twenty percent at 100", 100, 20, 0, 80},
		{"twenty percent mid tier", 150, 30, 0, 120},
		{"thirty percent at 200", 200, 60, 0, 140},
		{"thirty percent at exactly 500", 500, 150, 0, 350},
		{"fifty percent above 500", 600, 300, 0, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compute(linesFor(tt.subtotal))
			assert.Equal(t, tt.subtotal, q.Subtotal)
			assert.Equal(t, tt.discount, q.DiscountAmount)
			assert.Equal(t, tt.fee, q.DeliveryFee)
			assert.Equal(t, tt.total, q.Total)
		})
	}
}

func TestComputeSumsLines(t *testing.T) {
	lines := []domain.CartLine{
		{ID: "p1", Price: 12.5, Quantity: 2}, // 25
		{ID: "p2", Price: 5, Quantity: 3},    // 15
	}

	q := Compute(lines)
	require.Equal(t, 40.0, q.Subtotal)
	require.Equal(t, 0.0, q.DiscountAmount)
	require.Equal(t, 3.0, q.DeliveryFee)
	require.Equal(t, 43.0, q.Total)
}

func TestComputeEmptyCart(t *testing.T) {
	q := Compute(nil)
	require.Equal(t, 0.0, q.Subtotal)
	require.Equal(t, 3.0, q.DeliveryFee)
	require.Equal(t, 3.0, q.Total)
}

// The identity total = subtotal - discount + fee must hold for any cart.
func TestComputeIdentity(t *testing.T) {
	for subtotal := 0.0; subtotal <= 1000; subtotal += 7.5 {
		q := Compute(linesFor(subtotal))
		require.Equal(t, q.Subtotal-q.DiscountAmount+q.DeliveryFee, q.Total,
			"identity broken at subtotal %v", subtotal)
	}
}
