package models

import (
	"time"
)

type Order struct {
	ID           string      `gorm:"primaryKey;type:varchar(26)" json:"id"`
	OrderNumber  string      `gorm:"type:varchar(32);not null;index" json:"order_number"`
	RestaurantID string      `gorm:"type:varchar(36);not null;index:idx_order_restaurant_created,priority:1" json:"restaurant_id"`
	TableID      string      `gorm:"type:varchar(36);not null;index" json:"table_id"`
	Table        *Table      `gorm:"foreignKey:TableID;references:ID" json:"table,omitempty"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	TotalAmount  float64     `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Notes        string      `gorm:"type:text" json:"notes"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`
	CreatedAt    time.Time   `gorm:"not null;index:idx_order_restaurant_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

// ComputeTotal sums the snapshotted line prices.
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}
