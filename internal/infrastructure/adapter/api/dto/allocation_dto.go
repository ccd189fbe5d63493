package dto

// AllocateRequest represents the API request for allocating an order line
type AllocateRequest struct {
	OrderID  string `json:"orderId" binding:"required"`
	SKU      string `json:"sku" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}

// AllocateResponse represents the API response for a successful allocation
type AllocateResponse struct {
	BatchReference string `json:"batchReference"`
}
