package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/entity"
	domainRepo "github.com/supermart/billing-engine/internal/domain/repository"
	"github.com/supermart/billing-engine/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return dbFrom(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := dbFrom(ctx, r.db).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return dbFrom(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Customer{})

	if search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

// ApplyPurchase records a completed sale as one UPDATE so the statistics
// move together: column expressions read the pre-update values, which is
// what the average recomputation relies on.
func (r *customerRepository) ApplyPurchase(ctx context.Context, id uuid.UUID, amount, pointsEarned, pointsUsed int64, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"purchase_count":   gorm.Expr("purchase_count + 1"),
			"total_spend":      gorm.Expr("total_spend + ?", amount),
			"avg_order_value":  gorm.Expr("(total_spend + ?) / (purchase_count + 1)", amount),
			"last_purchase_at": at,
			"loyalty_points":   gorm.Expr("GREATEST(loyalty_points + ?, 0)", pointsEarned-pointsUsed),
		}).Error
}

// ReversePurchase undoes ApplyPurchase with every figure floored at zero;
// the average resets when no purchases remain
func (r *customerRepository) ReversePurchase(ctx context.Context, id uuid.UUID, amount, pointsEarned, pointsUsed int64) error {
	return dbFrom(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"purchase_count": gorm.Expr("GREATEST(purchase_count - 1, 0)"),
			"total_spend":    gorm.Expr("GREATEST(total_spend - ?, 0)", amount),
			"avg_order_value": gorm.Expr(
				"CASE WHEN purchase_count - 1 <= 0 THEN 0 ELSE GREATEST(total_spend - ?, 0) / (purchase_count - 1) END",
				amount),
			"loyalty_points": gorm.Expr("GREATEST(loyalty_points + ?, 0)", pointsUsed-pointsEarned),
		}).Error
}

// ReverseSpend subtracts a partial-refund value from spend without touching
// the purchase count or loyalty balance
func (r *customerRepository) ReverseSpend(ctx context.Context, id uuid.UUID, amount int64) error {
	return dbFrom(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_spend": gorm.Expr("GREATEST(total_spend - ?, 0)", amount),
			"avg_order_value": gorm.Expr(
				"CASE WHEN purchase_count <= 0 THEN 0 ELSE GREATEST(total_spend - ?, 0) / purchase_count END",
				amount),
		}).Error
}
