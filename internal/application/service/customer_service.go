package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/internal/domain/enum"
	"github.com/supermart/billing-engine/internal/domain/repository"
	"github.com/supermart/billing-engine/pkg/apperror"
	"github.com/supermart/billing-engine/pkg/pagination"
)

// CustomerService handles customer-related operations. Purchase statistics
// and loyalty balances are owned by the settlement coordinator and cannot
// be edited here.
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	Tier    enum.CustomerTier
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewInvalidInputError("name", "is required", nil)
	}

	tier := input.Tier
	if tier == "" {
		tier = enum.CustomerTierStandard
	}
	if !tier.Valid() {
		return nil, apperror.NewInvalidInputError("tier", "unknown customer tier", string(tier))
	}

	customer := &entity.Customer{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Tier:    tier,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError(apperror.KindCustomerNotFound, "Customer")
	}
	return customer, nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Tier    *enum.CustomerTier
}

// UpdateCustomer updates a customer's profile fields
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError(apperror.KindCustomerNotFound, "Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Tier != nil {
		if !input.Tier.Valid() {
			return nil, apperror.NewInvalidInputError("tier", "unknown customer tier", string(*input.Tier))
		}
		customer.Tier = *input.Tier
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// ListCustomers lists customers with an optional name/phone search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}
