package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/amirhossein-jamali/stock-allocator/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// BatchRepository implements the BatchRepository interface using GORM.
// Instances built by a unit of work hold a non-owning reference to that
// scope's transaction and refuse all operations once the scope is released.
type BatchRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
	released        bool
}

// NewBatchRepository creates a new BatchRepository bound to the given
// database handle or transaction
func NewBatchRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *BatchRepository {
	return &BatchRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Invalidate marks the repository as unusable. The unit of work calls this
// when the scope that owns the underlying transaction is released.
func (r *BatchRepository) Invalidate() {
	r.released = true
}

// guard rejects operations on a repository whose scope has been released
func (r *BatchRepository) guard(op string) error {
	if r.released {
		return errs.NewScopeMisuseError(op, "repository's scope has been released")
	}
	return nil
}

// modelToEntity converts a batch model to an entity
func (r *BatchRepository) modelToEntity(batchModel *model.Batch) (*entity.Batch, error) {
	batch, err := entity.NewBatch(
		batchModel.Reference,
		batchModel.SKU,
		batchModel.PurchasedQuantity,
		batchModel.ETA,
		r.timeProvider,
	)
	if err != nil {
		r.logger.Error("Failed to create batch entity", map[string]any{
			"reference": batchModel.Reference,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: failed to create batch entity: %s", errs.ErrInternalServer, err.Error())
	}

	batch.CreatedAt = batchModel.CreatedAt
	batch.UpdatedAt = batchModel.UpdatedAt

	lines := make([]entity.OrderLine, 0, len(batchModel.Allocations))
	for _, alloc := range batchModel.Allocations {
		line, err := entity.NewOrderLine(alloc.OrderID, alloc.SKU, alloc.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: corrupt allocation row %d: %s", errs.ErrInternalServer, alloc.ID, err.Error())
		}
		lines = append(lines, line)
	}
	batch.RestoreAllocations(lines)

	return batch, nil
}

// entityToModel converts a batch entity to its database model
func (r *BatchRepository) entityToModel(batch *entity.Batch) model.Batch {
	allocations := make([]model.Allocation, 0, len(batch.Allocations()))
	for _, line := range batch.Allocations() {
		allocations = append(allocations, model.Allocation{
			OrderID:   line.OrderID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			CreatedAt: r.timeProvider.Now(),
		})
	}

	return model.Batch{
		Reference:         batch.Reference,
		SKU:               batch.SKU,
		PurchasedQuantity: batch.PurchasedQuantity(),
		ETA:               batch.ETA,
		CreatedAt:         batch.CreatedAt,
		UpdatedAt:         batch.UpdatedAt,
		Allocations:       allocations,
	}
}

// handleDatabaseError standardizes database error handling
func (r *BatchRepository) handleDatabaseError(operation string, err error, reference string) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"reference": reference,
		"error":     err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrBatchNotFound
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate batch reference", map[string]any{
			"reference": reference,
		})
		return errs.ErrDuplicateBatch
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Add stores a new batch with its allocations
func (r *BatchRepository) Add(ctx context.Context, batch *entity.Batch) error {
	if err := r.guard("add"); err != nil {
		return err
	}

	r.logger.Debug("Adding batch", map[string]any{
		"reference": batch.Reference,
		"sku":       batch.SKU,
		"quantity":  batch.PurchasedQuantity(),
	})

	batchModel := r.entityToModel(batch)
	result := r.db.WithContext(ctx).Create(&batchModel)
	if result.Error != nil {
		return r.handleDatabaseError("adding batch", result.Error, batch.Reference)
	}

	return nil
}

// Get retrieves a batch by its reference, including its allocations
func (r *BatchRepository) Get(ctx context.Context, reference string) (*entity.Batch, error) {
	if err := r.guard("get"); err != nil {
		return nil, err
	}

	var batchModel model.Batch
	result := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("reference = ?", reference).
		First(&batchModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting batch", result.Error, reference)
	}

	return r.modelToEntity(&batchModel)
}

// List returns all batches ordered by reference
func (r *BatchRepository) List(ctx context.Context) ([]*entity.Batch, error) {
	if err := r.guard("list"); err != nil {
		return nil, err
	}

	var batchModels []model.Batch
	result := r.db.WithContext(ctx).
		Preload("Allocations").
		Order("reference").
		Find(&batchModels)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing batches", result.Error, "")
	}

	batches := make([]*entity.Batch, 0, len(batchModels))
	for i := range batchModels {
		batch, err := r.modelToEntity(&batchModels[i])
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

// Update persists changes to a batch, replacing its stored allocations with
// the entity's current allocation set
func (r *BatchRepository) Update(ctx context.Context, batch *entity.Batch) error {
	if err := r.guard("update"); err != nil {
		return err
	}

	r.logger.Debug("Updating batch", map[string]any{
		"reference": batch.Reference,
		"allocated": batch.AllocatedQuantity(),
	})

	var batchModel model.Batch
	result := r.db.WithContext(ctx).
		Where("reference = ?", batch.Reference).
		First(&batchModel)
	if result.Error != nil {
		return r.handleDatabaseError("updating batch", result.Error, batch.Reference)
	}

	result = r.db.WithContext(ctx).Model(&model.Batch{}).
		Where("id = ?", batchModel.ID).
		Updates(map[string]interface{}{
			"purchased_quantity": batch.PurchasedQuantity(),
			"eta":                batch.ETA,
			"updated_at":         batch.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating batch", result.Error, batch.Reference)
	}

	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchModel.ID).
		Delete(&model.Allocation{}).Error; err != nil {
		return r.handleDatabaseError("replacing allocations", err, batch.Reference)
	}

	lines := batch.Allocations()
	if len(lines) > 0 {
		allocations := make([]model.Allocation, 0, len(lines))
		for _, line := range lines {
			allocations = append(allocations, model.Allocation{
				BatchID:   batchModel.ID,
				OrderID:   line.OrderID,
				SKU:       line.SKU,
				Quantity:  line.Quantity,
				CreatedAt: r.timeProvider.Now(),
			})
		}
		if err := r.db.WithContext(ctx).Create(&allocations).Error; err != nil {
			return r.handleDatabaseError("replacing allocations", err, batch.Reference)
		}
	}

	return nil
}
