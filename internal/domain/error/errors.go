package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeOutOfStock       = 4001
	CodeInvalidQuantity  = 4002
	CodeInvalidReference = 4003
	CodeDuplicateBatch   = 4004
	CodeUnknownSKU       = 4005
	CodeBatchNotFound    = 4040

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeScopeMisuse    = 5001
	CodeCommitFailed   = 5002
)

// Base error types
var (
	// ErrOutOfStock is returned when no batch can satisfy an order line
	ErrOutOfStock = errors.New("out of stock")

	// ErrUnknownSKU is returned when no batch exists for the requested SKU
	ErrUnknownSKU = errors.New("unknown sku")

	// ErrInvalidQuantity is returned when a quantity is zero or negative
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidReference is returned when a batch reference is empty
	ErrInvalidReference = errors.New("batch reference cannot be empty")

	// ErrInvalidOrderID is returned when an order line has no order ID
	ErrInvalidOrderID = errors.New("order ID cannot be empty")

	// ErrInvalidSKU is returned when a SKU is empty
	ErrInvalidSKU = errors.New("sku cannot be empty")

	// ErrBatchNotFound is returned when the requested batch doesn't exist
	ErrBatchNotFound = errors.New("batch not found")

	// ErrDuplicateBatch is returned when a batch with the same reference already exists
	ErrDuplicateBatch = errors.New("batch with this reference already exists")

	// ErrScopeMisuse is returned when a unit of work operation is invoked
	// outside a valid open scope
	ErrScopeMisuse = errors.New("unit of work scope misuse")

	// ErrCommitFailed is returned when the underlying storage rejected the transaction
	ErrCommitFailed = errors.New("failed to commit transaction")

	// ErrRollbackFailed is returned when rolling back a transaction failed.
	// It is only ever a secondary cause and never replaces a failure already
	// propagating from the scope's body.
	ErrRollbackFailed = errors.New("failed to rollback transaction")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrOutOfStock):
		return CodeOutOfStock
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrInvalidReference), errors.Is(err, ErrInvalidOrderID), errors.Is(err, ErrInvalidSKU):
		return CodeInvalidReference
	case errors.Is(err, ErrDuplicateBatch):
		return CodeDuplicateBatch
	case errors.Is(err, ErrUnknownSKU):
		return CodeUnknownSKU
	case errors.Is(err, ErrBatchNotFound):
		return CodeBatchNotFound
	case errors.Is(err, ErrScopeMisuse):
		return CodeScopeMisuse
	case errors.Is(err, ErrCommitFailed):
		return CodeCommitFailed
	default:
		return CodeInternalServer
	}
}

// ScopeMisuseError reports a unit of work operation invoked outside a valid
// open scope. It is a programming-error class and is never retried.
type ScopeMisuseError struct {
	Op     string
	Reason string
}

// Error implements the error interface
func (e *ScopeMisuseError) Error() string {
	return fmt.Sprintf("scope misuse in %s: %s", e.Op, e.Reason)
}

// Is checks if the target error is an ErrScopeMisuse
func (e *ScopeMisuseError) Is(target error) bool {
	return target == ErrScopeMisuse
}

// LogFields returns a map of fields for structured logging
func (e *ScopeMisuseError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "scope_misuse",
		"operation":  e.Op,
		"reason":     e.Reason,
		"error_code": CodeScopeMisuse,
	}
}

// NewScopeMisuseError creates a new detailed scope misuse error
func NewScopeMisuseError(op, reason string) error {
	return &ScopeMisuseError{Op: op, Reason: reason}
}

// CommitError reports a transaction rejected by the underlying storage
// (constraint violation, lost connectivity, serialization conflict)
type CommitError struct {
	Err error
}

// Error implements the error interface
func (e *CommitError) Error() string {
	return fmt.Sprintf("failed to commit transaction: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CommitError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrCommitFailed
func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}

// LogFields returns a map of fields for structured logging
func (e *CommitError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "commit_failed",
		"error":      e.Err.Error(),
		"error_code": CodeCommitFailed,
	}
}

// NewCommitError creates a new detailed commit error
func NewCommitError(err error) error {
	return &CommitError{Err: err}
}

// RollbackError reports a rollback that itself failed. It is recorded so
// operators can diagnose resource leaks but does not change the primary
// outcome visible to the caller.
type RollbackError struct {
	Err error
}

// Error implements the error interface
func (e *RollbackError) Error() string {
	return fmt.Sprintf("failed to rollback transaction: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrRollbackFailed
func (e *RollbackError) Is(target error) bool {
	return target == ErrRollbackFailed
}

// LogFields returns a map of fields for structured logging
func (e *RollbackError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "rollback_failed",
		"error":      e.Err.Error(),
		"error_code": CodeInternalServer,
	}
}

// NewRollbackError creates a new detailed rollback error
func NewRollbackError(err error) error {
	return &RollbackError{Err: err}
}

// OutOfStockError provides detailed information about a failed allocation
type OutOfStockError struct {
	SKU      string
	Quantity int64
}

// Error implements the error interface
func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock for sku %s: cannot allocate %d units", e.SKU, e.Quantity)
}

// Is checks if the target error is an ErrOutOfStock
func (e *OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}

// LogFields returns a map of fields for structured logging
func (e *OutOfStockError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "out_of_stock",
		"sku":        e.SKU,
		"quantity":   e.Quantity,
		"error_code": CodeOutOfStock,
	}
}

// NewOutOfStockError creates a new detailed out of stock error
func NewOutOfStockError(sku string, quantity int64) error {
	return &OutOfStockError{SKU: sku, Quantity: quantity}
}

// IsScopeMisuseError checks if the error is a scope misuse error
func IsScopeMisuseError(err error) bool {
	return errors.Is(err, ErrScopeMisuse)
}

// IsCommitError checks if the error is a commit error
func IsCommitError(err error) bool {
	return errors.Is(err, ErrCommitFailed)
}

// IsOutOfStockError checks if the error is an out of stock error
func IsOutOfStockError(err error) bool {
	return errors.Is(err, ErrOutOfStock)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBatchNotFound)
}
