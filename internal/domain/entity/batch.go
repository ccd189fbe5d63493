package entity

import (
	"sort"
	"time"

	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
)

// Batch represents a batch of stock for a single SKU, either already in the
// warehouse (no ETA) or on its way in a shipment (ETA set)
type Batch struct {
	Reference         string     // Unique identifier for the batch
	SKU               string     // Stock keeping unit this batch holds
	ETA               *time.Time // Arrival time; nil means already in stock
	purchasedQuantity int64      // Total quantity purchased for this batch (private)
	allocations       map[OrderLine]struct{}
	CreatedAt         time.Time // When the batch was created
	UpdatedAt         time.Time // When the batch was last updated
}

// NewBatch creates a new batch with the given reference, SKU and purchased quantity
func NewBatch(reference, sku string, quantity int64, eta *time.Time, timeProvider coreport.TimeProvider) (*Batch, error) {
	if reference == "" {
		return nil, errs.ErrInvalidReference
	}
	if sku == "" {
		return nil, errs.ErrInvalidSKU
	}
	if quantity <= 0 {
		return nil, errs.ErrInvalidQuantity
	}

	now := timeProvider.Now()
	return &Batch{
		Reference:         reference,
		SKU:               sku,
		ETA:               eta,
		purchasedQuantity: quantity,
		allocations:       make(map[OrderLine]struct{}),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// PurchasedQuantity returns the total quantity purchased for this batch
func (b *Batch) PurchasedQuantity() int64 {
	return b.purchasedQuantity
}

// AllocatedQuantity returns the quantity already allocated to order lines
func (b *Batch) AllocatedQuantity() int64 {
	var total int64
	for line := range b.allocations {
		total += line.Quantity
	}
	return total
}

// AvailableQuantity returns the quantity still available for allocation
func (b *Batch) AvailableQuantity() int64 {
	return b.purchasedQuantity - b.AllocatedQuantity()
}

// CanAllocate reports whether the batch can take the given order line
func (b *Batch) CanAllocate(line OrderLine) bool {
	return b.SKU == line.SKU && b.AvailableQuantity() >= line.Quantity
}

// Allocate assigns the order line to this batch. Allocating the same line
// twice is a no-op, so replaying an order does not consume stock twice.
func (b *Batch) Allocate(line OrderLine, timeProvider coreport.TimeProvider) error {
	if _, ok := b.allocations[line]; ok {
		return nil
	}
	if !b.CanAllocate(line) {
		return errs.NewOutOfStockError(line.SKU, line.Quantity)
	}

	b.allocations[line] = struct{}{}
	b.UpdatedAt = timeProvider.Now()
	return nil
}

// Deallocate removes the order line from this batch if it was allocated
func (b *Batch) Deallocate(line OrderLine, timeProvider coreport.TimeProvider) {
	if _, ok := b.allocations[line]; !ok {
		return
	}
	delete(b.allocations, line)
	b.UpdatedAt = timeProvider.Now()
}

// Allocations returns the allocated order lines ordered by order ID
func (b *Batch) Allocations() []OrderLine {
	lines := make([]OrderLine, 0, len(b.allocations))
	for line := range b.allocations {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].OrderID < lines[j].OrderID
	})
	return lines
}

// RestoreAllocations replaces the allocation set (for internal use, like
// repositories rebuilding a batch from storage)
func (b *Batch) RestoreAllocations(lines []OrderLine) {
	b.allocations = make(map[OrderLine]struct{}, len(lines))
	for _, line := range lines {
		b.allocations[line] = struct{}{}
	}
}

// arrivesBefore reports whether this batch should be preferred over the other
// on delivery time: warehouse stock beats shipments, earlier shipments beat
// later ones
func (b *Batch) arrivesBefore(other *Batch) bool {
	if b.ETA == nil {
		return true
	}
	if other.ETA == nil {
		return false
	}
	return b.ETA.Before(*other.ETA)
}
