package allocation

import (
	"context"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/persistence"
)

// Allocate assigns an order line to the preferred batch for its SKU and
// returns the reference of the chosen batch
func (s *Service) Allocate(ctx context.Context, orderID, sku string, quantity int64) (string, error) {
	line, err := entity.NewOrderLine(orderID, sku, quantity)
	if err != nil {
		return "", err
	}

	var batchRef string
	uow := s.uowFactory.New()
	err = persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
		batches, err := uow.Batches()
		if err != nil {
			return err
		}

		all, err := batches.List(ctx)
		if err != nil {
			return err
		}
		if !skuExists(line.SKU, all) {
			return errs.ErrUnknownSKU
		}

		chosen, err := entity.ChooseBatch(line, all, s.timeProvider)
		if err != nil {
			s.logger.Warn("Allocation failed", map[string]any{
				"order_id": orderID,
				"sku":      sku,
				"quantity": quantity,
				"error":    err.Error(),
			})
			return err
		}

		if err := batches.Update(ctx, chosen); err != nil {
			return err
		}

		batchRef = chosen.Reference
		return uow.Commit(ctx)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Order line allocated", map[string]any{
		"order_id":  orderID,
		"sku":       sku,
		"quantity":  quantity,
		"batch_ref": batchRef,
	})
	return batchRef, nil
}

// skuExists reports whether any batch holds the given SKU
func skuExists(sku string, batches []*entity.Batch) bool {
	for _, batch := range batches {
		if batch.SKU == sku {
			return true
		}
	}
	return false
}
