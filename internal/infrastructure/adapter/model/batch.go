package model

import (
	"time"
)

// Batch represents the database model for stock batches
type Batch struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement"`
	Reference         string     `gorm:"uniqueIndex;not null;size:255"`
	SKU               string     `gorm:"not null;index;size:255"`
	PurchasedQuantity int64      `gorm:"not null"`
	ETA               *time.Time `gorm:"index"`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`

	// Define relationships
	Allocations []Allocation `gorm:"foreignKey:BatchID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Batch
func (Batch) TableName() string {
	return "batches"
}
