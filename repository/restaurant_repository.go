package repository

import (
	"context"

	"github.com/yeremiapane/restaurant-hub/models"
	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *models.Restaurant) error {
	return wrap("create restaurant", r.DB.WithContext(ctx).Create(rest).Error)
}

// ListRestaurantsByOwner returns the owner's restaurants oldest first. The id tie-break keeps the
// order stable when two rows share a timestamp.
func (r *RestaurantRepository) ListRestaurantsByOwner(ctx context.Context, userID string) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("list restaurants", err)
	}
	return out, nil
}

func (r *RestaurantRepository) FindTableByID(ctx context.Context, id string) (*models.Table, error) {
	var t models.Table
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, wrap("find table", err)
	}
	return &t, nil
}

// FindMenuItemIDs returns which of ids are menu items of restaurantID.
func (r *RestaurantRepository) FindMenuItemIDs(ctx context.Context, restaurantID string, ids []string) ([]string, error) {
	var found []string
	if len(ids) == 0 {
		return found, nil
	}
	err := r.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, wrap("find menu items", err)
	}
	return found, nil
}
