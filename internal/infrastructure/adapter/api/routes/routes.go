package routes

import (
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/amirhossein-jamali/stock-allocator/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/stock-allocator/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	batchHandler *handler.BatchHandler,
	allocationHandler *handler.AllocationHandler,
) {
	// Batch routes
	batchRoutes := router.Group("/batches")
	{
		// POST /batches
		batchRoutes.POST("", batchHandler.AddBatch)

		// GET /batches
		batchRoutes.GET("", batchHandler.ListBatches)

		// GET /batches/:reference
		batchRoutes.GET("/:reference", batchHandler.GetBatch)
	}

	// POST /allocations
	router.POST("/allocations", allocationHandler.Allocate)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
