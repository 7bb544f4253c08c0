package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuCategory struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RestaurantID string    `gorm:"type:varchar(36);not null;index" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MenuItem.Price is the live price. Orders copy it into OrderItem.Price at creation time.
type MenuItem struct {
	ID           string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RestaurantID string        `gorm:"type:varchar(36);not null;index" json:"restaurant_id"`
	CategoryID   *string       `gorm:"type:varchar(36);index" json:"category_id,omitempty"`
	Category     *MenuCategory `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Name         string        `gorm:"type:varchar(255);not null" json:"name"`
	Description  string        `gorm:"type:text" json:"description"`
	Price        float64       `gorm:"type:decimal(10,2);not null" json:"price"`
	Available    bool          `gorm:"not null;default:true" json:"available"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
