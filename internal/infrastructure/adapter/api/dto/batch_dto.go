package dto

import "time"

// AddBatchRequest represents the API request for registering a batch of stock
type AddBatchRequest struct {
	Reference string     `json:"reference" binding:"required"`
	SKU       string     `json:"sku" binding:"required"`
	Quantity  int64      `json:"quantity" binding:"required,gt=0"`
	ETA       *time.Time `json:"eta,omitempty"`
}

// BatchResponse represents the API response for a single batch
type BatchResponse struct {
	Reference         string               `json:"reference"`
	SKU               string               `json:"sku"`
	ETA               *time.Time           `json:"eta,omitempty"`
	PurchasedQuantity int64                `json:"purchasedQuantity"`
	AllocatedQuantity int64                `json:"allocatedQuantity"`
	AvailableQuantity int64                `json:"availableQuantity"`
	Allocations       []AllocationResponse `json:"allocations"`
}

// AllocationResponse represents a single order line held by a batch
type AllocationResponse struct {
	OrderID  string `json:"orderId"`
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}
