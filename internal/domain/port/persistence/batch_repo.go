package persistence

import (
	"context"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
)

// BatchRepository provides access to stored batches of one entity type.
// Handles obtained from a unit of work scope are bound to that scope's
// transaction and become unusable once the scope is released.
type BatchRepository interface {
	// Add stores a new batch
	Add(ctx context.Context, batch *entity.Batch) error

	// Get retrieves a batch by its reference
	Get(ctx context.Context, reference string) (*entity.Batch, error)

	// List returns all batches
	List(ctx context.Context) ([]*entity.Batch, error)

	// Update persists changes to a batch, including its allocations
	Update(ctx context.Context, batch *entity.Batch) error
}
