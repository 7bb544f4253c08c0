package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Table struct {
	ID           string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RestaurantID string      `gorm:"type:varchar(36);not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;references:ID" json:"restaurant,omitempty"`
	TableNumber  string      `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity     int         `gorm:"not null;default:4" json:"capacity"`
	Status       string      `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
