package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Out of stock", ErrOutOfStock, CodeOutOfStock},
		{"Invalid quantity", ErrInvalidQuantity, CodeInvalidQuantity},
		{"Invalid reference", ErrInvalidReference, CodeInvalidReference},
		{"Duplicate batch", ErrDuplicateBatch, CodeDuplicateBatch},
		{"Unknown sku", ErrUnknownSKU, CodeUnknownSKU},
		{"Batch not found", ErrBatchNotFound, CodeBatchNotFound},
		{"Scope misuse", ErrScopeMisuse, CodeScopeMisuse},
		{"Commit failed", ErrCommitFailed, CodeCommitFailed},
		{"Unknown error", errors.New("something else"), CodeInternalServer},
		{"Wrapped out of stock", fmt.Errorf("allocation failed: %w", ErrOutOfStock), CodeOutOfStock},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestScopeMisuseError(t *testing.T) {
	err := NewScopeMisuseError("batches", "scope has not been acquired")

	assert.True(t, errors.Is(err, ErrScopeMisuse))
	assert.Contains(t, err.Error(), "batches")
	assert.Contains(t, err.Error(), "scope has not been acquired")

	var misuse *ScopeMisuseError
	assert.True(t, errors.As(err, &misuse))
	assert.Equal(t, "batches", misuse.Op)
	assert.Equal(t, CodeScopeMisuse, misuse.LogFields()["error_code"])
}

func TestCommitError(t *testing.T) {
	cause := errors.New("pq: duplicate key value violates unique constraint")
	err := NewCommitError(cause)

	assert.True(t, errors.Is(err, ErrCommitFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), cause.Error())
}

func TestRollbackError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := NewRollbackError(cause)

	assert.True(t, errors.Is(err, ErrRollbackFailed))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrCommitFailed))
}

func TestOutOfStockError(t *testing.T) {
	err := NewOutOfStockError("RED-CHAIR", 25)

	assert.True(t, IsOutOfStockError(err))
	assert.Contains(t, err.Error(), "RED-CHAIR")

	var oos *OutOfStockError
	assert.True(t, errors.As(err, &oos))
	assert.Equal(t, int64(25), oos.Quantity)
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrBatchNotFound))
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.False(t, IsNotFoundError(ErrOutOfStock))
}
