package billing

import (
	"math"

	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/pkg/apperror"
)

// LineAmounts holds the derived monetary figures for one line, in paise.
type LineAmounts struct {
	GrossAmount    int64
	DiscountAmount int64
	TaxAmount      int64
	LineTotal      int64
}

// ComputeLine derives the discount, tax and total for a single line from
// (unitPrice, quantity, discountPct, taxRate). Pure, no side effects.
//
//	gross    = quantity * unitPrice
//	discount = round(gross * discountPct / 100)
//	tax      = round((gross - discount) * taxRate / 100)
//	total    = gross - discount + tax
//
// Intermediate math carries full precision; rounding (half away from zero)
// happens only when fixing the final per-line monetary figures in paise, so
// the lineTotal identity holds exactly in integer arithmetic.
func ComputeLine(unitPrice int64, quantity int, discountPct, taxRate float64) (LineAmounts, error) {
	var fieldErrs []apperror.FieldError
	if unitPrice < 0 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "unit_price", Message: "must not be negative", Value: unitPrice})
	}
	if quantity < 1 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "quantity", Message: "must be at least 1", Value: quantity})
	}
	if discountPct < 0 || discountPct > 100 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "discount_percentage", Message: "must be between 0 and 100", Value: discountPct})
	}
	if taxRate < 0 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "tax_rate", Message: "must not be negative", Value: taxRate})
	}
	if len(fieldErrs) > 0 {
		return LineAmounts{}, apperror.NewValidationError(fieldErrs)
	}

	gross := unitPrice * int64(quantity)
	discount := roundPaise(float64(gross) * discountPct / 100)
	tax := roundPaise(float64(gross-discount) * taxRate / 100)

	return LineAmounts{
		GrossAmount:    gross,
		DiscountAmount: discount,
		TaxAmount:      tax,
		LineTotal:      gross - discount + tax,
	}, nil
}

// NewLineItem prices a (product, quantity, discountPct) triple and snapshots
// the product's name, code, unit and price onto the resulting line. The
// snapshot is permanent; finalized lines are never re-joined to live
// product data.
func NewLineItem(p *entity.Product, quantity int, discountPct float64) (entity.LineItem, error) {
	amounts, err := ComputeLine(p.SellingPrice, quantity, discountPct, p.TaxRate)
	if err != nil {
		return entity.LineItem{}, err
	}

	return entity.LineItem{
		ProductID:      p.ID,
		ProductName:    p.Name,
		ProductCode:    p.Code,
		Unit:           p.Unit,
		Quantity:       quantity,
		UnitPrice:      p.SellingPrice,
		DiscountPct:    discountPct,
		DiscountAmount: amounts.DiscountAmount,
		TaxRate:        p.TaxRate,
		TaxAmount:      amounts.TaxAmount,
		LineTotal:      amounts.LineTotal,
	}, nil
}

// roundPaise rounds half away from zero to a whole number of paise
func roundPaise(v float64) int64 {
	return int64(math.Round(v))
}
