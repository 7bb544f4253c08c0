package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem.Price is the unit price captured when the order was placed; later menu edits do not
// touch it.
type OrderItem struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID    string    `gorm:"type:varchar(26);not null;index" json:"order_id"`
	MenuItemID string    `gorm:"type:varchar(36);not null" json:"menu_item_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID;references:ID" json:"menu_item,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
