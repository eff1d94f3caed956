package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/internal/domain/enum"
	"github.com/supermart/billing-engine/pkg/pagination"
)

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	// Create persists a bill together with its line items and any initial
	// payment records
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error)
	// GetWithItems loads the bill with its line items, payments and customer
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	// GetForUpdate loads the bill with items and payments under a row lock,
	// serializing concurrent settlement operations on the same bill
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	UpdateItem(ctx context.Context, item *entity.LineItem) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	ListWithCursor(ctx context.Context, params *BillCursorFilterParams) ([]entity.Bill, error)
	GetDueBills(ctx context.Context, params *pagination.PaginationParams) ([]entity.Bill, int64, error)
	// NextSequenceForDate returns the next bill-number sequence for the
	// given calendar day. Serialized per day, so two concurrent
	// finalizations never build the same number; must run inside a
	// transaction.
	NextSequenceForDate(ctx context.Context, date time.Time) (int64, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Status        *enum.BillStatus
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	CashierID     *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// BillCursorFilterParams contains cursor-based filtering for bill queries
type BillCursorFilterParams struct {
	Cursor        *pagination.CursorParams
	Search        string
	Status        *enum.BillStatus
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}
