package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/stock-allocator/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AllocationHandler handles allocation-related HTTP requests
type AllocationHandler struct {
	allocationUseCase usecase.AllocationUseCase
	logger            coreport.Logger
}

// NewAllocationHandler creates a new allocation handler instance
func NewAllocationHandler(
	allocationUseCase usecase.AllocationUseCase,
	logger coreport.Logger,
) *AllocationHandler {
	return &AllocationHandler{
		allocationUseCase: allocationUseCase,
		logger:            logger,
	}
}

// Allocate handles the POST /allocations endpoint
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid allocate request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidOrderID),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	batchReference, err := h.allocationUseCase.Allocate(c.Request.Context(), req.OrderID, req.SKU, req.Quantity)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		switch {
		case errors.Is(err, domainerr.ErrOutOfStock):
			statusCode = http.StatusConflict
			errorMessage = err.Error()
		case errors.Is(err, domainerr.ErrUnknownSKU):
			statusCode = http.StatusBadRequest
			errorMessage = "Unknown SKU: " + req.SKU
		case errors.Is(err, domainerr.ErrInvalidOrderID),
			errors.Is(err, domainerr.ErrInvalidSKU),
			errors.Is(err, domainerr.ErrInvalidQuantity):
			statusCode = http.StatusBadRequest
			errorMessage = err.Error()
		}

		h.logger.Error("Error allocating order line", map[string]any{
			"orderId": req.OrderID,
			"sku":     req.SKU,
			"error":   err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.AllocateResponse{
		BatchReference: batchReference,
	})
}
