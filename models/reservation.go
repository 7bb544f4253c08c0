package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationSeated    = "seated"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

type Reservation struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TableID       string    `gorm:"type:varchar(36);not null;index" json:"table_id"`
	Table         *Table    `gorm:"foreignKey:TableID;references:ID" json:"table,omitempty"`
	CustomerName  string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string    `gorm:"type:varchar(50)" json:"customer_phone"`
	PartySize     int       `gorm:"not null" json:"party_size"`
	ReservedAt    time.Time `gorm:"not null;index" json:"reserved_at"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ValidReservationStatus reports whether s is one of the reservation states.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationSeated, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// All lists every model for AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Table{},
		&MenuCategory{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&Reservation{},
	}
}
