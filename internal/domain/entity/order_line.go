package entity

import (
	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
)

// OrderLine is a value object representing a customer's demand for a quantity
// of a single SKU. Two lines with the same order ID, SKU and quantity are the
// same line.
type OrderLine struct {
	OrderID  string
	SKU      string
	Quantity int64
}

// NewOrderLine creates a validated order line
func NewOrderLine(orderID, sku string, quantity int64) (OrderLine, error) {
	if orderID == "" {
		return OrderLine{}, errs.ErrInvalidOrderID
	}
	if sku == "" {
		return OrderLine{}, errs.ErrInvalidSKU
	}
	if quantity <= 0 {
		return OrderLine{}, errs.ErrInvalidQuantity
	}

	return OrderLine{
		OrderID:  orderID,
		SKU:      sku,
		Quantity: quantity,
	}, nil
}
