package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/pkg/pagination"
)

// ProductRepository defines the interface for product data operations.
// Stock mutations are atomic at the single-record level: a decrement only
// succeeds when the available quantity covers it.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	// DecrementStockBatch conditionally decrements stock and bumps the sales
	// counter for every product in one transaction. Returns the IDs whose
	// available quantity could not cover the decrement; when any are
	// returned the whole batch has been rolled back.
	DecrementStockBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error)
	// RestoreStockBatch returns previously sold quantities to stock and
	// decrements the sales counters (cancellations and refunds)
	RestoreStockBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	LowStock   bool
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}
