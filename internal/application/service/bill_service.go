package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/billing"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/internal/domain/enum"
	"github.com/supermart/billing-engine/internal/domain/repository"
	"github.com/supermart/billing-engine/pkg/apperror"
	"github.com/supermart/billing-engine/pkg/pagination"
	"github.com/supermart/billing-engine/pkg/utils"
)

// BillService is the settlement coordinator: it owns the bill lifecycle and
// reconciles the side effects of finalizing, paying, cancelling and
// refunding bills on product stock and customer statistics. Every mutating
// operation runs inside one storage transaction and serializes per bill via
// a row lock, so a failure never leaves partial stock or customer state
// behind.
type BillService struct {
	billRepo     repository.BillRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	tx           repository.Transactor
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	tx repository.Transactor,
) *BillService {
	return &BillService{
		billRepo:     billRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		tx:           tx,
	}
}

// BillItemInput represents one cart entry
type BillItemInput struct {
	ProductID   uuid.UUID
	Quantity    int
	DiscountPct float64
}

// PaymentInput represents a tender amount in decimal currency
type PaymentInput struct {
	Amount    float64
	Reference string
}

// FinalizeBillInput represents the checkout request
type FinalizeBillInput struct {
	CustomerID     *uuid.UUID
	CashierID      uuid.UUID
	Items          []BillItemInput
	PaymentMethod  enum.PaymentMethod
	Payment        *PaymentInput
	PointsUsed     int64
	DeliveryCharge float64
	Notes          string
}

// RefundItemInput identifies a line quantity to refund
type RefundItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// FinalizeBill turns a cart into a completed, numbered bill: it validates
// the cart against live product and customer records, prices and aggregates
// the lines, decrements stock, applies the customer's purchase statistics
// and loyalty movement, and persists the bill with any initial payment.
// Stock shortfalls are collected across the whole cart before failing so
// the caller sees every problem at once.
func (s *BillService) FinalizeBill(ctx context.Context, input *FinalizeBillInput) (*entity.Bill, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewInvalidInputError("items", "at least one item is required", nil)
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewInvalidInputError("payment_method", "unknown payment method", string(input.PaymentMethod))
	}
	if input.PointsUsed < 0 {
		return nil, apperror.NewInvalidInputError("loyalty_points_used", "must not be negative", input.PointsUsed)
	}
	if input.PointsUsed > 0 && input.CustomerID == nil {
		return nil, apperror.NewInvalidInputError("loyalty_points_used", "requires a customer", input.PointsUsed)
	}
	if input.DeliveryCharge < 0 {
		return nil, apperror.NewInvalidInputError("delivery_charge", "must not be negative", input.DeliveryCharge)
	}

	var billID uuid.UUID

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var customer *entity.Customer
		if input.CustomerID != nil {
			var err error
			customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError(apperror.KindCustomerNotFound, "Customer")
			}
		}

		// Batch fetch all products in one query
		productIDs := make([]uuid.UUID, len(input.Items))
		for i, item := range input.Items {
			productIDs[i] = item.ProductID
		}

		products, err := s.productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return err
		}

		productMap := make(map[uuid.UUID]*entity.Product, len(products))
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}

		// Price every line from the product snapshot; duplicate cart
		// entries for the same product accumulate into one stock decrement
		lines := make([]entity.LineItem, 0, len(input.Items))
		decrements := make(map[uuid.UUID]int)

		for _, item := range input.Items {
			product, exists := productMap[item.ProductID]
			if !exists {
				return apperror.NewNotFoundError(apperror.KindProductNotFound,
					fmt.Sprintf("Product %s", item.ProductID))
			}
			if !product.Active {
				return apperror.NewProductInactiveError(product.Name)
			}

			line, err := billing.NewLineItem(product, item.Quantity, item.DiscountPct)
			if err != nil {
				return err
			}

			lines = append(lines, line)
			decrements[product.ID] += item.Quantity
		}

		totals := billing.Aggregate(lines, toPaise(input.DeliveryCharge))

		if input.PointsUsed > 0 {
			if max := billing.MaxRedeemablePoints(totals.GrandTotal); input.PointsUsed > max {
				return apperror.NewInvalidInputError("loyalty_points_used",
					fmt.Sprintf("at most %d points may be redeemed against this bill", max),
					input.PointsUsed)
			}
			if customer.LoyaltyPoints < input.PointsUsed {
				return apperror.NewInvalidInputError("loyalty_points_used",
					fmt.Sprintf("customer has only %d points", customer.LoyaltyPoints),
					input.PointsUsed)
			}
		}

		// Conditional decrement keeps overselling impossible even when two
		// carts race for the last units
		failedIDs, err := s.productRepo.DecrementStockBatch(ctx, decrements)
		if err != nil {
			return err
		}
		if len(failedIDs) > 0 {
			shortfalls := make([]apperror.StockShortfall, 0, len(failedIDs))
			for _, id := range failedIDs {
				if product, exists := productMap[id]; exists {
					shortfalls = append(shortfalls, apperror.StockShortfall{
						ProductID:   id,
						ProductName: product.Name,
						Requested:   decrements[id],
						Available:   product.Quantity,
					})
				}
			}
			return apperror.NewInsufficientStockError(shortfalls)
		}

		now := time.Now()
		seq, err := s.billRepo.NextSequenceForDate(ctx, now)
		if err != nil {
			return err
		}

		var pointsEarned int64
		if customer != nil {
			pointsEarned = billing.PointsEarned(totals.GrandTotal, customer.Tier)
		}

		bill := &entity.Bill{
			BillNo:         utils.FormatBillNo(now, seq),
			BillDate:       now,
			CustomerID:     input.CustomerID,
			CashierID:      input.CashierID,
			Status:         enum.BillStatusCompleted,
			DeliveryCharge: toPaise(input.DeliveryCharge),
			PaymentMethod:  input.PaymentMethod,
			PointsUsed:     input.PointsUsed,
			PointsEarned:   pointsEarned,
			Notes:          input.Notes,
			Items:          lines,
		}

		if input.Payment != nil {
			amount := toPaise(input.Payment.Amount)
			if amount <= 0 {
				return apperror.NewInvalidInputError("payment.amount", "must be positive", input.Payment.Amount)
			}
			outstanding := billing.OutstandingBalance(totals.GrandTotal, 0, billing.PointsValue(input.PointsUsed))
			if amount > outstanding {
				return apperror.NewOverpaymentError(amount, outstanding)
			}
			reference := input.Payment.Reference
			if reference == "" {
				reference = utils.GeneratePaymentReference()
			}
			bill.AmountPaid = amount
			bill.Payments = []entity.Payment{{
				Method:    input.PaymentMethod,
				Amount:    amount,
				Reference: reference,
				Status:    enum.PaymentRecordCompleted,
			}}
		}

		totals.Apply(bill)

		if err := s.billRepo.Create(ctx, bill); err != nil {
			return err
		}

		if customer != nil {
			if err := s.customerRepo.ApplyPurchase(ctx, customer.ID,
				totals.GrandTotal, pointsEarned, input.PointsUsed, now); err != nil {
				return err
			}
		}

		billID = bill.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.billRepo.GetWithItems(ctx, billID)
}

// ApplyPayment records a tender against a completed bill and re-derives the
// payment status and amount due
func (s *BillService) ApplyPayment(ctx context.Context, billID uuid.UUID, method enum.PaymentMethod, amount float64, reference string) (*entity.Bill, error) {
	if !method.Valid() {
		return nil, apperror.NewInvalidInputError("method", "unknown payment method", string(method))
	}
	amountPaise := toPaise(amount)
	if amountPaise <= 0 {
		return nil, apperror.NewInvalidInputError("amount", "must be positive", amount)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bill, err := s.billRepo.GetForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return apperror.NewNotFoundError(apperror.KindBillNotFound, "Bill")
		}

		if bill.Status != enum.BillStatusCompleted && bill.Status != enum.BillStatusPartialRefund {
			return apperror.NewInvalidStateTransitionError(bill.Status.String(), "paid")
		}

		if bill.IsPaidInFull() {
			return apperror.NewAlreadySettledError(bill.BillNo)
		}

		outstanding := billing.OutstandingBalance(bill.GrandTotal, bill.AmountPaid, billing.PointsValue(bill.PointsUsed))
		if amountPaise > outstanding {
			return apperror.NewOverpaymentError(amountPaise, outstanding)
		}

		if reference == "" {
			reference = utils.GeneratePaymentReference()
		}
		payment := &entity.Payment{
			BillID:    bill.ID,
			Method:    method,
			Amount:    amountPaise,
			Reference: reference,
			Status:    enum.PaymentRecordCompleted,
		}
		if err := s.billRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		bill.AmountPaid += amountPaise
		pointsValue := billing.PointsValue(bill.PointsUsed)
		bill.PaymentStatus = billing.DerivePaymentStatus(bill.AmountPaid, bill.GrandTotal, pointsValue)
		bill.AmountDue = billing.AmountDue(bill.GrandTotal, bill.AmountPaid, pointsValue)

		return s.billRepo.Update(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	return s.billRepo.GetWithItems(ctx, billID)
}

// CancelBill reverses an unpaid bill: stock and sales counters are
// restored, the customer's statistics and loyalty movement are undone
// exactly (floored at zero), and the bill moves to cancelled with the
// reason on record. Paid bills must take the refund path.
func (s *BillService) CancelBill(ctx context.Context, billID uuid.UUID, reason string) (*entity.Bill, error) {
	if reason == "" {
		return nil, apperror.NewInvalidInputError("reason", "a cancellation reason is required", nil)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bill, err := s.billRepo.GetForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return apperror.NewNotFoundError(apperror.KindBillNotFound, "Bill")
		}

		if bill.Status == enum.BillStatusCompleted && bill.IsPaidInFull() {
			return apperror.NewCannotCancelPaidBillError(bill.BillNo)
		}
		if !bill.Status.CanTransitionTo(enum.BillStatusCancelled) {
			return apperror.NewInvalidStateTransitionError(bill.Status.String(), enum.BillStatusCancelled.String())
		}

		increments := make(map[uuid.UUID]int)
		for _, item := range bill.Items {
			increments[item.ProductID] += item.Quantity
		}
		if err := s.productRepo.RestoreStockBatch(ctx, increments); err != nil {
			return err
		}

		if bill.CustomerID != nil {
			if err := s.customerRepo.ReversePurchase(ctx, *bill.CustomerID,
				bill.GrandTotal, bill.PointsEarned, bill.PointsUsed); err != nil {
				return err
			}
		}

		bill.Status = enum.BillStatusCancelled
		bill.CancelReason = reason
		bill.Notes = appendNote(bill.Notes, "Cancelled: "+reason)

		return s.billRepo.Update(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	return s.billRepo.GetWithItems(ctx, billID)
}

// RefundBill reverses a paid bill. An empty item set refunds the whole
// bill; otherwise the named line quantities are refunded, their stock
// restored and their value reversed off the customer's spend, moving the
// bill to partial_refund (or refunded once every line is returned).
func (s *BillService) RefundBill(ctx context.Context, billID uuid.UUID, items []RefundItemInput, reason string) (*entity.Bill, error) {
	if reason == "" {
		return nil, apperror.NewInvalidInputError("reason", "a refund reason is required", nil)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bill, err := s.billRepo.GetForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return apperror.NewNotFoundError(apperror.KindBillNotFound, "Bill")
		}

		if !bill.IsPaidInFull() {
			return apperror.NewInvalidStateTransitionError(bill.Status.String(), enum.BillStatusRefunded.String())
		}
		if !bill.Status.CanTransitionTo(enum.BillStatusRefunded) {
			return apperror.NewInvalidStateTransitionError(bill.Status.String(), enum.BillStatusRefunded.String())
		}

		if len(items) == 0 {
			return s.refundAll(ctx, bill, reason)
		}
		return s.refundPartial(ctx, bill, items, reason)
	})
	if err != nil {
		return nil, err
	}

	return s.billRepo.GetWithItems(ctx, billID)
}

func (s *BillService) refundAll(ctx context.Context, bill *entity.Bill, reason string) error {
	increments := make(map[uuid.UUID]int)
	for i := range bill.Items {
		item := &bill.Items[i]
		remaining := item.Quantity - item.RefundedQty
		if remaining > 0 {
			increments[item.ProductID] += remaining
		}
		item.RefundedQty = item.Quantity
		if err := s.billRepo.UpdateItem(ctx, item); err != nil {
			return err
		}
	}
	if err := s.productRepo.RestoreStockBatch(ctx, increments); err != nil {
		return err
	}

	if bill.CustomerID != nil {
		// reverse the un-refunded remainder of the bill's value; earlier
		// partial refunds already took their share off the spend
		remainder := bill.GrandTotal - bill.RefundedAmount
		if remainder < 0 {
			remainder = 0
		}
		if err := s.customerRepo.ReversePurchase(ctx, *bill.CustomerID,
			remainder, bill.PointsEarned, bill.PointsUsed); err != nil {
			return err
		}
	}

	// return what was actually tendered, less refunds already paid out;
	// redeemed points are reinstated through the customer reversal instead
	refundValue := bill.AmountPaid - bill.RefundedAmount
	if refundValue < 0 {
		refundValue = 0
	}
	if refundValue > 0 {
		if err := s.billRepo.CreatePayment(ctx, &entity.Payment{
			BillID:    bill.ID,
			Method:    bill.PaymentMethod,
			Amount:    refundValue,
			Reference: utils.GeneratePaymentReference(),
			Status:    enum.PaymentRecordRefunded,
		}); err != nil {
			return err
		}
	}

	bill.RefundedAmount = bill.GrandTotal
	bill.Status = enum.BillStatusRefunded
	bill.Notes = appendNote(bill.Notes, "Refunded: "+reason)

	return s.billRepo.Update(ctx, bill)
}

func (s *BillService) refundPartial(ctx context.Context, bill *entity.Bill, items []RefundItemInput, reason string) error {
	increments := make(map[uuid.UUID]int)
	var refundValue int64
	allReturned := true

	for _, req := range items {
		item := findLine(bill.Items, req.ProductID)
		if item == nil {
			return apperror.NewNotFoundError(apperror.KindProductNotFound,
				fmt.Sprintf("Product %s on bill %s", req.ProductID, bill.BillNo))
		}
		remaining := item.Quantity - item.RefundedQty
		if req.Quantity < 1 || req.Quantity > remaining {
			return apperror.NewInvalidInputError("quantity",
				fmt.Sprintf("must be between 1 and %d for product %s", remaining, item.ProductName),
				req.Quantity)
		}

		// the refunded value is the line total's proportional share
		refundValue += item.LineTotal * int64(req.Quantity) / int64(item.Quantity)
		increments[item.ProductID] += req.Quantity
		item.RefundedQty += req.Quantity

		if err := s.billRepo.UpdateItem(ctx, item); err != nil {
			return err
		}
	}

	for i := range bill.Items {
		if bill.Items[i].RefundedQty < bill.Items[i].Quantity {
			allReturned = false
			break
		}
	}

	if err := s.productRepo.RestoreStockBatch(ctx, increments); err != nil {
		return err
	}

	if bill.CustomerID != nil {
		if err := s.customerRepo.ReverseSpend(ctx, *bill.CustomerID, refundValue); err != nil {
			return err
		}
		if allReturned {
			// the last partial refund completes the reversal; the spend has
			// already been taken off piecemeal, so only the purchase count
			// and the loyalty movement remain to undo
			if err := s.customerRepo.ReversePurchase(ctx, *bill.CustomerID,
				0, bill.PointsEarned, bill.PointsUsed); err != nil {
				return err
			}
		}
	}

	if refundValue > 0 {
		if err := s.billRepo.CreatePayment(ctx, &entity.Payment{
			BillID:    bill.ID,
			Method:    bill.PaymentMethod,
			Amount:    refundValue,
			Reference: utils.GeneratePaymentReference(),
			Status:    enum.PaymentRecordRefunded,
		}); err != nil {
			return err
		}
	}

	bill.RefundedAmount += refundValue
	if allReturned {
		bill.Status = enum.BillStatusRefunded
	} else {
		bill.Status = enum.BillStatusPartialRefund
	}
	bill.Notes = appendNote(bill.Notes, "Refund: "+reason)

	return s.billRepo.Update(ctx, bill)
}

// GetBill retrieves a bill with its items and payments
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError(apperror.KindBillNotFound, "Bill")
	}
	return bill, nil
}

// GetBillByNumber retrieves a bill by its human-readable number
func (s *BillService) GetBillByNumber(ctx context.Context, billNo string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByBillNo(ctx, billNo)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError(apperror.KindBillNotFound, "Bill")
	}
	return bill, nil
}

// ListBills lists bills with filtering
func (s *BillService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// ListBillsWithCursor lists bills with cursor-based pagination
func (s *BillService) ListBillsWithCursor(ctx context.Context, params *repository.BillCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Bill], error) {
	bills, err := s.billRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(bills, params.Cursor.Limit,
		func(b entity.Bill) string { return b.ID.String() },
		func(b entity.Bill) time.Time { return b.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GetDueBills returns bills with an outstanding balance
func (s *BillService) GetDueBills(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.GetDueBills(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// toPaise converts a decimal currency amount to paise at the boundary
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

func findLine(items []entity.LineItem, productID uuid.UUID) *entity.LineItem {
	for i := range items {
		if items[i].ProductID == productID && items[i].RefundedQty < items[i].Quantity {
			return &items[i]
		}
	}
	return nil
}
