package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/internal/domain/enum"
)

func priceLine(t *testing.T, unitPrice int64, quantity int, discountPct, taxRate float64) entity.LineItem {
	t.Helper()
	amounts, err := ComputeLine(unitPrice, quantity, discountPct, taxRate)
	require.NoError(t, err)
	return entity.LineItem{
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountPct:    discountPct,
		DiscountAmount: amounts.DiscountAmount,
		TaxRate:        taxRate,
		TaxAmount:      amounts.TaxAmount,
		LineTotal:      amounts.LineTotal,
	}
}

func TestAggregate(t *testing.T) {
	items := []entity.LineItem{
		priceLine(t, 10000, 3, 10, 18), // 300.00 gross, 30.00 off, 48.60 tax
		priceLine(t, 14500, 2, 0, 5),   // 290.00 gross, 14.50 tax
	}

	t.Run("sums lines and the delivery charge", func(t *testing.T) {
		totals := Aggregate(items, 5000)

		assert.Equal(t, int64(59000), totals.SubTotal)
		assert.Equal(t, int64(3000), totals.TotalDiscount)
		assert.Equal(t, int64(6310), totals.TotalTax)
		assert.Equal(t, totals.SubTotal-totals.TotalDiscount+totals.TotalTax+5000, totals.GrandTotal)
	})

	t.Run("idempotent over an unchanged line set", func(t *testing.T) {
		first := Aggregate(items, 5000)
		second := Aggregate(items, 5000)
		assert.Equal(t, first, second)
	})

	t.Run("empty bill is the delivery charge alone", func(t *testing.T) {
		totals := Aggregate(nil, 2500)
		assert.Equal(t, int64(2500), totals.GrandTotal)
		assert.Zero(t, totals.SubTotal)
	})
}

func TestTotalsApply(t *testing.T) {
	items := []entity.LineItem{priceLine(t, 10000, 1, 0, 0)}
	totals := Aggregate(items, 0)

	t.Run("unpaid bill is pending with the full amount due", func(t *testing.T) {
		bill := &entity.Bill{}
		totals.Apply(bill)

		assert.Equal(t, int64(10000), bill.GrandTotal)
		assert.Equal(t, enum.PaymentStatusPending, bill.PaymentStatus)
		assert.Equal(t, int64(10000), bill.AmountDue)
	})

	t.Run("redeemed points reduce the payable target", func(t *testing.T) {
		bill := &entity.Bill{PointsUsed: 50} // worth 50.00
		totals.Apply(bill)

		assert.Equal(t, enum.PaymentStatusPending, bill.PaymentStatus)
		assert.Equal(t, int64(5000), bill.AmountDue)

		bill.AmountPaid = 5000
		totals.Apply(bill)
		assert.Equal(t, enum.PaymentStatusPaid, bill.PaymentStatus)
		assert.Zero(t, bill.AmountDue)
	})
}

func TestDerivePaymentStatus(t *testing.T) {
	cases := []struct {
		name        string
		amountPaid  int64
		grandTotal  int64
		pointsValue int64
		want        enum.PaymentStatus
	}{
		{"nothing paid", 0, 10000, 0, enum.PaymentStatusPending},
		{"partly paid", 4000, 10000, 0, enum.PaymentStatusPartial},
		{"paid exactly", 10000, 10000, 0, enum.PaymentStatusPaid},
		{"points cover the rest", 5000, 10000, 5000, enum.PaymentStatusPaid},
		{"settled entirely with points", 0, 10000, 10000, enum.PaymentStatusPaid},
		{"zero-total bill is paid", 0, 0, 0, enum.PaymentStatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DerivePaymentStatus(tc.amountPaid, tc.grandTotal, tc.pointsValue))
		})
	}
}

func TestOutstandingBalance(t *testing.T) {
	assert.Equal(t, int64(6000), OutstandingBalance(10000, 4000, 0))
	assert.Equal(t, int64(1000), OutstandingBalance(10000, 4000, 5000))

	// never negative, even if payments plus points overshoot
	assert.Zero(t, OutstandingBalance(10000, 10000, 5000))
}
