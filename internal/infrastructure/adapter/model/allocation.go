package model

import (
	"time"
)

// Allocation represents the database model for order lines allocated to a batch
type Allocation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	BatchID   uint64    `gorm:"not null;index"`
	OrderID   string    `gorm:"not null;size:255;index:idx_allocations_order_sku,unique"`
	SKU       string    `gorm:"not null;size:255;index:idx_allocations_order_sku,unique"`
	Quantity  int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Allocation
func (Allocation) TableName() string {
	return "allocations"
}
