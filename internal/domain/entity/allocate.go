package entity

import (
	"sort"

	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
)

// ChooseBatch picks the preferred batch for the order line and allocates the
// line to it. Warehouse stock is preferred over shipments, earlier shipments
// over later ones. Returns the chosen batch or an out of stock error when no
// batch can take the line.
func ChooseBatch(line OrderLine, batches []*Batch, timeProvider coreport.TimeProvider) (*Batch, error) {
	candidates := make([]*Batch, 0, len(batches))
	for _, batch := range batches {
		if batch.CanAllocate(line) {
			candidates = append(candidates, batch)
		}
	}

	if len(candidates) == 0 {
		return nil, errs.NewOutOfStockError(line.SKU, line.Quantity)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].arrivesBefore(candidates[j])
	})

	chosen := candidates[0]
	if err := chosen.Allocate(line, timeProvider); err != nil {
		return nil, err
	}
	return chosen, nil
}
