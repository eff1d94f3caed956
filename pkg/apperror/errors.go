package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind is a stable machine-readable discriminator for an application error.
// Transport layers are expected to map each kind to a distinct response code.
type Kind string

const (
	KindInvalidInput           Kind = "invalid_input"
	KindProductNotFound        Kind = "product_not_found"
	KindProductInactive        Kind = "product_inactive"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindCustomerNotFound       Kind = "customer_not_found"
	KindBillNotFound           Kind = "bill_not_found"
	KindOverpayment            Kind = "overpayment"
	KindAlreadySettled         Kind = "already_settled"
	KindCannotCancelPaidBill   Kind = "cannot_cancel_paid_bill"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindCollaboratorFailure    Kind = "collaborator_failure"
)

// AppError represents an application error with an HTTP status code and a
// stable kind. Validation detail is carried in Errors; stock shortfalls in
// Shortfalls.
type AppError struct {
	Code       int              `json:"code"`
	Kind       Kind             `json:"kind"`
	Message    string           `json:"message"`
	Errors     []FieldError     `json:"errors,omitempty"`
	Shortfalls []StockShortfall `json:"shortfalls,omitempty"`
}

// FieldError represents a validation error for a specific field, carrying
// the offending value so the caller can correct and resubmit.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// StockShortfall reports one product whose available stock could not cover
// the requested quantity.
type StockShortfall struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindBillNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindInvalidInput, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindCollaboratorFailure, Message: "Internal server error"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewInvalidInputError creates a validation error for a single field
func NewInvalidInputError(field, message string, value any) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidInput,
		Message: "Validation failed",
		Errors:  []FieldError{{Field: field, Message: message, Value: value}},
	}
}

// NewValidationError creates a validation error from a list of field errors
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidInput,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(kind Kind, resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    kind,
		Message: resource + " not found",
	}
}

// NewProductInactiveError reports an attempt to sell a deactivated product
func NewProductInactiveError(name string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindProductInactive,
		Message: fmt.Sprintf("Product %q is inactive", name),
	}
}

// NewInsufficientStockError reports every shortfall in the cart at once so
// the caller can fix the whole cart in a single round trip
func NewInsufficientStockError(shortfalls []StockShortfall) *AppError {
	return &AppError{
		Code:       http.StatusConflict,
		Kind:       KindInsufficientStock,
		Message:    "Insufficient stock for one or more products",
		Shortfalls: shortfalls,
	}
}

// NewOverpaymentError reports a payment exceeding the remaining balance.
// Amounts are in minor currency units.
func NewOverpaymentError(requested, remaining int64) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindOverpayment,
		Message: fmt.Sprintf("Payment of %d exceeds remaining balance of %d", requested, remaining),
		Errors: []FieldError{
			{Field: "amount", Message: "exceeds remaining balance", Value: requested},
			{Field: "remaining", Message: "remaining balance", Value: remaining},
		},
	}
}

// NewAlreadySettledError reports a payment attempt on a fully paid bill
func NewAlreadySettledError(billNo string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindAlreadySettled,
		Message: fmt.Sprintf("Bill %s is already paid in full", billNo),
	}
}

// NewCannotCancelPaidBillError directs callers to the refund path
func NewCannotCancelPaidBillError(billNo string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindCannotCancelPaidBill,
		Message: fmt.Sprintf("Bill %s is paid in full and cannot be cancelled; use a refund instead", billNo),
	}
}

// NewInvalidStateTransitionError reports a forbidden lifecycle transition
func NewInvalidStateTransitionError(from, to string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidStateTransition,
		Message: fmt.Sprintf("Cannot transition bill from %s to %s", from, to),
	}
}

// NewCollaboratorFailure wraps an unexpected storage or collaborator error
// without masking it as a business-rule failure
func NewCollaboratorFailure(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindCollaboratorFailure,
		Message: err.Error(),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewCollaboratorFailure(err)
}
