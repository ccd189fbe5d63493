package allocation

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/persistence"
)

// AddBatch registers a new batch of stock
func (s *Service) AddBatch(ctx context.Context, reference, sku string, quantity int64, eta *time.Time) error {
	batch, err := entity.NewBatch(reference, sku, quantity, eta, s.timeProvider)
	if err != nil {
		return err
	}

	uow := s.uowFactory.New()
	err = persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
		batches, err := uow.Batches()
		if err != nil {
			return err
		}

		if err := batches.Add(ctx, batch); err != nil {
			s.logger.Error("Failed to add batch", map[string]any{
				"reference": reference,
				"sku":       sku,
				"error":     err.Error(),
			})
			return err
		}

		return uow.Commit(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Batch added", map[string]any{
		"reference": reference,
		"sku":       sku,
		"quantity":  quantity,
	})
	return nil
}
