package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations.
// Purchase statistics and loyalty balances move only through ApplyPurchase
// and its reversals; amounts are in paise, points in whole points.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// ApplyPurchase records a completed sale on the customer: spend and
	// purchase count go up, the average order value is recomputed, the last
	// purchase timestamp is set, and the loyalty balance moves by
	// earned - used.
	ApplyPurchase(ctx context.Context, id uuid.UUID, amount, pointsEarned, pointsUsed int64, at time.Time) error
	// ReversePurchase undoes ApplyPurchase exactly, flooring every figure
	// at zero: count and spend go down, the average is recomputed (or reset
	// when no purchases remain), and the balance moves by used - earned.
	ReversePurchase(ctx context.Context, id uuid.UUID, amount, pointsEarned, pointsUsed int64) error
	// ReverseSpend subtracts a partial-refund value from spend (floored at
	// zero) and recomputes the average without touching the purchase count
	// or loyalty balance
	ReverseSpend(ctx context.Context, id uuid.UUID, amount int64) error
}
