package service

import (
	"errors"
)

// ValidationError marks bad caller input. It is always returned before any
// query runs, and handlers translate it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	ErrStoreRequired = newValidationError("storeId is required")
	ErrInvalidWindow = newValidationError("from must not be after to")
)

var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrInvalidCredentials = errors.New("invalid store code or PIN")
	ErrDuplicatePins      = errors.New("owner, cashier and kitchen PINs must all differ")
	ErrPinInUse           = errors.New("PIN is already used by another role")
	ErrRoleNotResettable  = errors.New("only CASHIER or KITCHEN PINs can be reset")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductInactive     = errors.New("product is not active")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrRawMaterialNotFound = errors.New("raw material not found")
	ErrInvalidStockStatus  = errors.New("status must be AVAILABLE, LOW or OUT")

	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotCompleted = errors.New("only completed orders can be cancelled")
	ErrEmptyOrder        = errors.New("order must contain at least one item")

	ErrAccountNotFound = errors.New("account not found")
)
