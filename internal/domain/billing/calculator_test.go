package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/pkg/apperror"
)

func TestComputeLine(t *testing.T) {
	t.Run("discount then tax on the discounted base", func(t *testing.T) {
		// 3 x Rs 100, 10% discount, 18% GST
		amounts, err := ComputeLine(10000, 3, 10, 18)
		require.NoError(t, err)

		assert.Equal(t, int64(30000), amounts.GrossAmount)
		assert.Equal(t, int64(3000), amounts.DiscountAmount)
		assert.Equal(t, int64(4860), amounts.TaxAmount) // 18% of 270.00
		assert.Equal(t, int64(31860), amounts.LineTotal)
	})

	t.Run("no discount no tax", func(t *testing.T) {
		amounts, err := ComputeLine(2800, 2, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(5600), amounts.GrossAmount)
		assert.Zero(t, amounts.DiscountAmount)
		assert.Zero(t, amounts.TaxAmount)
		assert.Equal(t, int64(5600), amounts.LineTotal)
	})

	t.Run("full discount zeroes the line", func(t *testing.T) {
		amounts, err := ComputeLine(9900, 1, 100, 18)
		require.NoError(t, err)

		assert.Equal(t, int64(9900), amounts.DiscountAmount)
		assert.Zero(t, amounts.TaxAmount)
		assert.Zero(t, amounts.LineTotal)
	})

	t.Run("rounding keeps the line identity exact", func(t *testing.T) {
		// 33.33 paise of discount rounds; total must still be
		// gross - discount + tax in integer paise
		amounts, err := ComputeLine(3333, 1, 7.5, 12.5)
		require.NoError(t, err)

		assert.Equal(t, amounts.GrossAmount-amounts.DiscountAmount+amounts.TaxAmount, amounts.LineTotal)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		cases := []struct {
			name        string
			unitPrice   int64
			quantity    int
			discountPct float64
			taxRate     float64
		}{
			{"zero quantity", 1000, 0, 0, 0},
			{"negative quantity", 1000, -2, 0, 0},
			{"negative price", -1000, 1, 0, 0},
			{"discount over 100", 1000, 1, 101, 0},
			{"negative discount", 1000, 1, -5, 0},
			{"negative tax", 1000, 1, 0, -1},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ComputeLine(tc.unitPrice, tc.quantity, tc.discountPct, tc.taxRate)
				require.Error(t, err)
				assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
			})
		}
	})

	t.Run("collects every field error at once", func(t *testing.T) {
		_, err := ComputeLine(-1, 0, 200, -3)
		require.Error(t, err)

		appErr := apperror.GetAppError(err)
		assert.Len(t, appErr.Errors, 4)
	})
}

func TestNewLineItem(t *testing.T) {
	product := &entity.Product{
		ID:           uuid.New(),
		Name:         "Basmati Rice 5kg",
		Code:         "RICE-5KG",
		Unit:         "bag",
		SellingPrice: 64900,
		TaxRate:      5,
	}

	line, err := NewLineItem(product, 2, 10)
	require.NoError(t, err)

	// snapshot fields come from the product at pricing time
	assert.Equal(t, product.ID, line.ProductID)
	assert.Equal(t, "Basmati Rice 5kg", line.ProductName)
	assert.Equal(t, "RICE-5KG", line.ProductCode)
	assert.Equal(t, "bag", line.Unit)
	assert.Equal(t, int64(64900), line.UnitPrice)
	assert.Equal(t, float64(5), line.TaxRate)

	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(12980), line.DiscountAmount) // 10% of 1298.00
	assert.Equal(t, int64(5841), line.TaxAmount)       // 5% of 1168.20
	assert.Equal(t, int64(122661), line.LineTotal)
	assert.Zero(t, line.RefundedQty)
}
