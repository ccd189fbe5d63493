package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
)

// AllocationUseCase defines operations for managing batches and allocating
// order lines to them
type AllocationUseCase interface {
	// AddBatch registers a new batch of stock
	AddBatch(ctx context.Context, reference, sku string, quantity int64, eta *time.Time) error

	// Allocate assigns an order line to the preferred batch and returns the
	// reference of the batch it was allocated to
	Allocate(ctx context.Context, orderID, sku string, quantity int64) (string, error)

	// GetBatch retrieves a single batch by reference
	GetBatch(ctx context.Context, reference string) (*entity.Batch, error)

	// ListBatches returns all known batches
	ListBatches(ctx context.Context) ([]*entity.Batch, error)
}
