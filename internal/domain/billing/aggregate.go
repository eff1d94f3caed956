package billing

import (
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/internal/domain/enum"
)

// Totals holds the aggregate figures for a bill, in paise.
type Totals struct {
	SubTotal      int64
	TotalDiscount int64
	TotalTax      int64
	GrandTotal    int64
}

// Aggregate folds a set of priced lines and a delivery charge into the
// bill-level totals. Pure and idempotent: it is invoked explicitly after
// every mutation of the line set rather than hidden in a save hook, and
// re-running it on an unchanged line set yields identical figures.
func Aggregate(items []entity.LineItem, deliveryCharge int64) Totals {
	var t Totals
	for i := range items {
		t.SubTotal += int64(items[i].Quantity) * items[i].UnitPrice
		t.TotalDiscount += items[i].DiscountAmount
		t.TotalTax += items[i].TaxAmount
	}
	t.GrandTotal = t.SubTotal - t.TotalDiscount + t.TotalTax + deliveryCharge
	return t
}

// Apply writes the totals onto a bill and re-derives the payment fields
func (t Totals) Apply(b *entity.Bill) {
	b.SubTotal = t.SubTotal
	b.TotalDiscount = t.TotalDiscount
	b.TotalTax = t.TotalTax
	b.GrandTotal = t.GrandTotal
	b.PaymentStatus = DerivePaymentStatus(b.AmountPaid, b.GrandTotal, PointsValue(b.PointsUsed))
	b.AmountDue = AmountDue(b.GrandTotal, b.AmountPaid, PointsValue(b.PointsUsed))
}

// OutstandingBalance is what remains payable after recorded payments and
// redeemed points. Never negative.
func OutstandingBalance(grandTotal, amountPaid, pointsValue int64) int64 {
	due := grandTotal - amountPaid - pointsValue
	if due < 0 {
		return 0
	}
	return due
}

// AmountDue is the outstanding balance, floored at zero once covered
func AmountDue(grandTotal, amountPaid, pointsValue int64) int64 {
	return OutstandingBalance(grandTotal, amountPaid, pointsValue)
}

// DerivePaymentStatus derives the payment status from the amounts alone.
// Redeemed points reduce the payable target, so a bill settled entirely
// with points reports paid.
func DerivePaymentStatus(amountPaid, grandTotal, pointsValue int64) enum.PaymentStatus {
	target := grandTotal - pointsValue
	switch {
	case amountPaid >= target:
		return enum.PaymentStatusPaid
	case amountPaid > 0:
		return enum.PaymentStatusPartial
	default:
		return enum.PaymentStatusPending
	}
}
