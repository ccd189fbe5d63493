package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
)

// BatchRepository is an in-memory BatchRepository backed by a map.
// Writes mutate the shared state directly, so it does not reproduce
// transactional rollback semantics; it exists to exercise orchestration
// logic, not storage behavior.
type BatchRepository struct {
	mu      sync.Mutex
	batches map[string]*entity.Batch
}

// NewBatchRepository creates an empty in-memory batch repository
func NewBatchRepository() *BatchRepository {
	return &BatchRepository{
		batches: make(map[string]*entity.Batch),
	}
}

// Add stores a new batch
func (r *BatchRepository) Add(ctx context.Context, batch *entity.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batch.Reference]; ok {
		return errs.ErrDuplicateBatch
	}
	r.batches[batch.Reference] = batch
	return nil
}

// Get retrieves a batch by its reference
func (r *BatchRepository) Get(ctx context.Context, reference string) (*entity.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.batches[reference]
	if !ok {
		return nil, errs.ErrBatchNotFound
	}
	return batch, nil
}

// List returns all batches ordered by reference
func (r *BatchRepository) List(ctx context.Context) ([]*entity.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*entity.Batch, 0, len(r.batches))
	for _, batch := range r.batches {
		all = append(all, batch)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Reference < all[j].Reference
	})
	return all, nil
}

// Update persists changes to a batch. The in-memory store holds live entity
// pointers, so existing batches are already up to date; updating an unknown
// batch is an error.
func (r *BatchRepository) Update(ctx context.Context, batch *entity.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batch.Reference]; !ok {
		return errs.ErrBatchNotFound
	}
	r.batches[batch.Reference] = batch
	return nil
}
