package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-hub/models"
	"gorm.io/gorm"
)

type ReservationRepository struct {
	DB *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res *models.Reservation) error {
	return wrap("create reservation", r.DB.WithContext(ctx).Create(res).Error)
}

// FindReservationByID loads the reservation with table, restaurant and owner attached; ownership checks
// walk that chain.
func (r *ReservationRepository) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.DB.WithContext(ctx).
		Preload("Table").
		Preload("Table.Restaurant").
		Preload("Table.Restaurant.Owner").
		First(&res, "id = ?", id).Error
	if err != nil {
		return nil, wrap("find reservation", err)
	}
	return &res, nil
}

func (r *ReservationRepository) UpdateReservation(ctx context.Context, id string, fields map[string]interface{}) (*models.Reservation, error) {
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		res := r.DB.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, wrap("update reservation", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, wrap("update reservation", gorm.ErrRecordNotFound)
		}
	}
	return r.FindReservationByID(ctx, id)
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Reservation{})
	if res.Error != nil {
		return wrap("delete reservation", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete reservation", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListForTenant returns reservations on any of the restaurant's tables, soonest first.
func (r *ReservationRepository) ListForTenant(ctx context.Context, tenantID string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.DB.WithContext(ctx).
		Joins("JOIN tables ON tables.id = reservations.table_id").
		Where("tables.restaurant_id = ?", tenantID).
		Preload("Table").
		Order("reservations.reserved_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("list reservations", err)
	}
	return out, nil
}
