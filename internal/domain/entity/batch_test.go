package entity

import (
	"context"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTimeProvider returns a fixed time for deterministic tests
type stubTimeProvider struct {
	now time.Time
}

func (p *stubTimeProvider) Now() time.Time {
	return p.now
}

func (p *stubTimeProvider) Since(t time.Time) coreport.Duration {
	return coreport.Duration(p.now.Sub(t))
}

func (p *stubTimeProvider) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

func fixedClock() *stubTimeProvider {
	return &stubTimeProvider{now: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func mustLine(t *testing.T, orderID, sku string, qty int64) OrderLine {
	t.Helper()
	line, err := NewOrderLine(orderID, sku, qty)
	require.NoError(t, err)
	return line
}

func TestNewBatch(t *testing.T) {
	clock := fixedClock()

	t.Run("Valid batch creation", func(t *testing.T) {
		batch, err := NewBatch("batch1", "sku1", 100, nil, clock)

		require.NoError(t, err)
		assert.Equal(t, "batch1", batch.Reference)
		assert.Equal(t, "sku1", batch.SKU)
		assert.Nil(t, batch.ETA)
		assert.Equal(t, int64(100), batch.PurchasedQuantity())
		assert.Equal(t, int64(100), batch.AvailableQuantity())
		assert.Equal(t, clock.now, batch.CreatedAt)
		assert.Equal(t, clock.now, batch.UpdatedAt)
	})

	t.Run("Empty reference should return error", func(t *testing.T) {
		batch, err := NewBatch("", "sku1", 100, nil, clock)

		assert.Equal(t, errs.ErrInvalidReference, err)
		assert.Nil(t, batch)
	})

	t.Run("Empty sku should return error", func(t *testing.T) {
		batch, err := NewBatch("batch1", "", 100, nil, clock)

		assert.Equal(t, errs.ErrInvalidSKU, err)
		assert.Nil(t, batch)
	})

	t.Run("Non-positive quantity should return error", func(t *testing.T) {
		for _, qty := range []int64{0, -1} {
			batch, err := NewBatch("batch1", "sku1", qty, nil, clock)
			assert.Equal(t, errs.ErrInvalidQuantity, err)
			assert.Nil(t, batch)
		}
	})
}

func TestBatchAllocate(t *testing.T) {
	clock := fixedClock()

	t.Run("Allocation reduces available quantity", func(t *testing.T) {
		batch, _ := NewBatch("batch1", "SMALL-TABLE", 20, nil, clock)
		line := mustLine(t, "order1", "SMALL-TABLE", 2)

		require.NoError(t, batch.Allocate(line, clock))
		assert.Equal(t, int64(18), batch.AvailableQuantity())
		assert.Equal(t, int64(2), batch.AllocatedQuantity())
	})

	t.Run("Cannot allocate more than available", func(t *testing.T) {
		batch, _ := NewBatch("batch1", "BLUE-CUSHION", 1, nil, clock)
		line := mustLine(t, "order1", "BLUE-CUSHION", 2)

		err := batch.Allocate(line, clock)
		assert.True(t, errs.IsOutOfStockError(err))
		assert.Equal(t, int64(1), batch.AvailableQuantity())
	})

	t.Run("Cannot allocate mismatched sku", func(t *testing.T) {
		batch, _ := NewBatch("batch1", "UNCOMFORTABLE-CHAIR", 100, nil, clock)
		line := mustLine(t, "order1", "EXPENSIVE-TOASTER", 10)

		assert.False(t, batch.CanAllocate(line))
		assert.True(t, errs.IsOutOfStockError(batch.Allocate(line, clock)))
	})

	t.Run("Allocation is idempotent", func(t *testing.T) {
		batch, _ := NewBatch("batch1", "ANGULAR-DESK", 20, nil, clock)
		line := mustLine(t, "order1", "ANGULAR-DESK", 2)

		require.NoError(t, batch.Allocate(line, clock))
		require.NoError(t, batch.Allocate(line, clock))
		assert.Equal(t, int64(18), batch.AvailableQuantity())
	})
}

func TestBatchDeallocate(t *testing.T) {
	clock := fixedClock()
	batch, _ := NewBatch("batch1", "SMALL-TABLE", 20, nil, clock)
	line := mustLine(t, "order1", "SMALL-TABLE", 2)

	// Deallocating an unallocated line changes nothing
	batch.Deallocate(line, clock)
	assert.Equal(t, int64(20), batch.AvailableQuantity())

	require.NoError(t, batch.Allocate(line, clock))
	batch.Deallocate(line, clock)
	assert.Equal(t, int64(20), batch.AvailableQuantity())
}

func TestBatchAllocationsOrdering(t *testing.T) {
	clock := fixedClock()
	batch, _ := NewBatch("batch1", "SMALL-TABLE", 20, nil, clock)

	require.NoError(t, batch.Allocate(mustLine(t, "order2", "SMALL-TABLE", 2), clock))
	require.NoError(t, batch.Allocate(mustLine(t, "order1", "SMALL-TABLE", 3), clock))

	lines := batch.Allocations()
	require.Len(t, lines, 2)
	assert.Equal(t, "order1", lines[0].OrderID)
	assert.Equal(t, "order2", lines[1].OrderID)
}

func TestRestoreAllocations(t *testing.T) {
	clock := fixedClock()
	batch, _ := NewBatch("batch1", "SMALL-TABLE", 20, nil, clock)

	batch.RestoreAllocations([]OrderLine{
		mustLine(t, "order1", "SMALL-TABLE", 5),
		mustLine(t, "order2", "SMALL-TABLE", 7),
	})

	assert.Equal(t, int64(12), batch.AllocatedQuantity())
	assert.Equal(t, int64(8), batch.AvailableQuantity())
}

func TestChooseBatch(t *testing.T) {
	clock := fixedClock()
	tomorrow := clock.now.Add(24 * time.Hour)
	later := clock.now.Add(72 * time.Hour)

	t.Run("Prefers warehouse stock over shipments", func(t *testing.T) {
		inStock, _ := NewBatch("in-stock", "RETRO-CLOCK", 100, nil, clock)
		shipment, _ := NewBatch("shipment", "RETRO-CLOCK", 100, &tomorrow, clock)
		line := mustLine(t, "order1", "RETRO-CLOCK", 10)

		chosen, err := ChooseBatch(line, []*Batch{shipment, inStock}, clock)

		require.NoError(t, err)
		assert.Equal(t, "in-stock", chosen.Reference)
		assert.Equal(t, int64(90), inStock.AvailableQuantity())
		assert.Equal(t, int64(100), shipment.AvailableQuantity())
	})

	t.Run("Prefers earlier shipments", func(t *testing.T) {
		earliest, _ := NewBatch("speedy", "MINIMALIST-SPOON", 100, &tomorrow, clock)
		latest, _ := NewBatch("slow", "MINIMALIST-SPOON", 100, &later, clock)
		line := mustLine(t, "order1", "MINIMALIST-SPOON", 10)

		chosen, err := ChooseBatch(line, []*Batch{latest, earliest}, clock)

		require.NoError(t, err)
		assert.Equal(t, "speedy", chosen.Reference)
	})

	t.Run("Out of stock when no batch fits", func(t *testing.T) {
		small, _ := NewBatch("small", "FORK", 5, nil, clock)
		line := mustLine(t, "order1", "FORK", 10)

		chosen, err := ChooseBatch(line, []*Batch{small}, clock)

		assert.Nil(t, chosen)
		assert.True(t, errs.IsOutOfStockError(err))
	})

	t.Run("Skips exhausted batches", func(t *testing.T) {
		first, _ := NewBatch("first", "LAMP", 10, nil, clock)
		second, _ := NewBatch("second", "LAMP", 10, &tomorrow, clock)
		require.NoError(t, first.Allocate(mustLine(t, "order0", "LAMP", 10), clock))

		chosen, err := ChooseBatch(mustLine(t, "order1", "LAMP", 5), []*Batch{first, second}, clock)

		require.NoError(t, err)
		assert.Equal(t, "second", chosen.Reference)
	})
}
