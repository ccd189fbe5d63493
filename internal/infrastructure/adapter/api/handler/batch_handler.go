package handler

import (
	"errors"
	"net/http"

	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/stock-allocator/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// BatchHandler handles batch-related HTTP requests
type BatchHandler struct {
	allocationUseCase usecase.AllocationUseCase
	logger            coreport.Logger
}

// NewBatchHandler creates a new batch handler instance
func NewBatchHandler(
	allocationUseCase usecase.AllocationUseCase,
	logger coreport.Logger,
) *BatchHandler {
	return &BatchHandler{
		allocationUseCase: allocationUseCase,
		logger:            logger,
	}
}

// AddBatch handles the POST /batches endpoint
func (h *BatchHandler) AddBatch(c *gin.Context) {
	var req dto.AddBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid add batch request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidReference),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	err := h.allocationUseCase.AddBatch(c.Request.Context(), req.Reference, req.SKU, req.Quantity, req.ETA)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		switch {
		case errors.Is(err, domainerr.ErrDuplicateBatch):
			statusCode = http.StatusConflict
			errorMessage = "Batch reference already exists"
		case errors.Is(err, domainerr.ErrInvalidReference),
			errors.Is(err, domainerr.ErrInvalidSKU),
			errors.Is(err, domainerr.ErrInvalidQuantity):
			statusCode = http.StatusBadRequest
			errorMessage = err.Error()
		}

		h.logger.Error("Error adding batch", map[string]any{
			"reference": req.Reference,
			"sku":       req.SKU,
			"error":     err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.Status(http.StatusCreated)
}

// GetBatch handles the GET /batches/:reference endpoint
func (h *BatchHandler) GetBatch(c *gin.Context) {
	reference := c.Param("reference")

	batch, err := h.allocationUseCase.GetBatch(c.Request.Context(), reference)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		if errors.Is(err, domainerr.ErrBatchNotFound) {
			statusCode = http.StatusNotFound
			errorMessage = "Batch not found"
		}

		h.logger.Error("Error getting batch", map[string]any{
			"reference": reference,
			"error":     err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, batchToResponse(batch))
}

// ListBatches handles the GET /batches endpoint
func (h *BatchHandler) ListBatches(c *gin.Context) {
	batches, err := h.allocationUseCase.ListBatches(c.Request.Context())
	if err != nil {
		h.logger.Error("Error listing batches", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	responses := make([]dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, batchToResponse(batch))
	}
	c.JSON(http.StatusOK, responses)
}

// batchToResponse maps a batch entity to its API representation
func batchToResponse(batch *entity.Batch) dto.BatchResponse {
	lines := batch.Allocations()
	allocations := make([]dto.AllocationResponse, 0, len(lines))
	for _, line := range lines {
		allocations = append(allocations, dto.AllocationResponse{
			OrderID:  line.OrderID,
			SKU:      line.SKU,
			Quantity: line.Quantity,
		})
	}

	return dto.BatchResponse{
		Reference:         batch.Reference,
		SKU:               batch.SKU,
		ETA:               batch.ETA,
		PurchasedQuantity: batch.PurchasedQuantity(),
		AllocatedQuantity: batch.AllocatedQuantity(),
		AvailableQuantity: batch.AvailableQuantity(),
		Allocations:       allocations,
	}
}
