package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/internal/domain/repository"
	"github.com/supermart/billing-engine/pkg/apperror"
	"github.com/supermart/billing-engine/pkg/pagination"
	"github.com/supermart/billing-engine/pkg/utils"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name          string
	Code          string
	Unit          string
	Quantity      int
	QuantityAlert int
	SellingPrice  float64
	TaxRate       float64
	Notes         *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, apperror.NewInvalidInputError("name", "is required", nil)
	}
	if input.SellingPrice < 0 {
		return nil, apperror.NewInvalidInputError("selling_price", "must not be negative", input.SellingPrice)
	}
	if input.TaxRate < 0 {
		return nil, apperror.NewInvalidInputError("tax_rate", "must not be negative", input.TaxRate)
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	} else {
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewAppError(409, apperror.KindInvalidInput, "Product code already exists")
		}
	}

	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}

	product := &entity.Product{
		Name:          input.Name,
		Code:          code,
		Unit:          unit,
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		TaxRate:       input.TaxRate,
		Active:        true,
		Notes:         input.Notes,
	}
	product.SetSellingPriceFromDecimal(input.SellingPrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(apperror.KindProductNotFound, "Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name          *string
	Unit          *string
	QuantityAlert *int
	SellingPrice  *float64
	TaxRate       *float64
	Active        *bool
	Notes         *string
}

// UpdateProduct updates mutable product fields. Stock moves only through
// the settlement operations.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(apperror.KindProductNotFound, "Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.SellingPrice != nil {
		if *input.SellingPrice < 0 {
			return nil, apperror.NewInvalidInputError("selling_price", "must not be negative", *input.SellingPrice)
		}
		product.SetSellingPriceFromDecimal(*input.SellingPrice)
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 {
			return nil, apperror.NewInvalidInputError("tax_rate", "must not be negative", *input.TaxRate)
		}
		product.TaxRate = *input.TaxRate
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetLowStockProducts returns products at or below their alert quantity
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}
