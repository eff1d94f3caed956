package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/billing-engine/pkg/apperror"
)

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a code when none is given", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := NewProductService(repo)

		product, err := svc.CreateProduct(ctx, &CreateProductInput{
			Name:         "Detergent 2kg",
			SellingPrice: 250.00,
			TaxRate:      18,
			Quantity:     60,
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(product.Code, "PROD-"))
		assert.Equal(t, "pcs", product.Unit)
		assert.Equal(t, int64(25000), product.SellingPrice)
		assert.True(t, product.Active)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := NewProductService(repo)

		_, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Milk 500ml", Code: "MILK-500", SellingPrice: 28.00})
		require.NoError(t, err)

		_, err = svc.CreateProduct(ctx, &CreateProductInput{Name: "Milk again", Code: "MILK-500", SellingPrice: 28.00})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
	})

	t.Run("rounds decimal prices to whole paise", func(t *testing.T) {
		svc := NewProductService(newFakeProductRepo())

		// 145.35 * 100 is 14534.999... in float64; it must store 14535
		product, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Ghee 500ml", SellingPrice: 145.35})
		require.NoError(t, err)
		assert.Equal(t, int64(14535), product.SellingPrice)
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		svc := NewProductService(newFakeProductRepo())

		_, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Oops", SellingPrice: -1})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the supplied fields", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := NewProductService(repo)

		created, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Toothpaste 150g", Code: "TP-150", SellingPrice: 99.00, TaxRate: 18})
		require.NoError(t, err)

		price := 105.00
		updated, err := svc.UpdateProduct(ctx, created.ID, &UpdateProductInput{SellingPrice: &price})
		require.NoError(t, err)

		assert.Equal(t, int64(10500), updated.SellingPrice)
		assert.Equal(t, "Toothpaste 150g", updated.Name)
		assert.Equal(t, float64(18), updated.TaxRate)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := NewProductService(newFakeProductRepo())

		_, err := svc.UpdateProduct(ctx, uuid.New(), &UpdateProductInput{})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindProductNotFound))
	})
}
