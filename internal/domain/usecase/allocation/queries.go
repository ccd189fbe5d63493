package allocation

import (
	"context"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/persistence"
)

// GetBatch retrieves a single batch by reference. The read runs inside its
// own scope that is never committed, so it can't leave anything behind.
func (s *Service) GetBatch(ctx context.Context, reference string) (*entity.Batch, error) {
	var batch *entity.Batch
	uow := s.uowFactory.New()
	err := persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
		batches, err := uow.Batches()
		if err != nil {
			return err
		}

		batch, err = batches.Get(ctx, reference)
		return err
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// ListBatches returns all known batches
func (s *Service) ListBatches(ctx context.Context) ([]*entity.Batch, error) {
	var all []*entity.Batch
	uow := s.uowFactory.New()
	err := persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
		batches, err := uow.Batches()
		if err != nil {
			return err
		}

		all, err = batches.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
