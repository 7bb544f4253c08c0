package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restaurant is the tenant. CreatedAt orders an owner's restaurants; the earliest one is the
// compatibility default for single-restaurant callers.
type Restaurant struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);not null;index:idx_restaurant_owner_created,priority:1" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	CreatedAt time.Time `gorm:"not null;index:idx_restaurant_owner_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
