package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// CreateOrder inserts the order and its items in one transaction.
func (r *OrderRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	return wrap("create order", err)
}

func (r *OrderRepository) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Table").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, wrap("find order", err)
	}
	return &o, nil
}

// UpdateOrderStatus sets the status. A non-empty from makes the write conditional on the stored status
// still being from; a lost race reports ErrConflict.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id)
	if from != "" {
		q = q.Where("status = ?", from)
	}
	res := q.Updates(map[string]interface{}{"status": to, "updated_at": at})
	if res.Error != nil {
		return nil, wrap("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		if from == "" {
			return nil, wrap("update order status", gorm.ErrRecordNotFound)
		}
		var n int64
		if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, wrap("update order status", err)
		}
		if n == 0 {
			return nil, wrap("update order status", gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("update order status: order %s is no longer %s: %w", id, from, utils.ErrConflict)
	}
	return r.FindOrderByID(ctx, id)
}

// DeleteOrderCascade removes the line items first and then the order row, inside one transaction.
func (r *OrderRepository) DeleteOrderCascade(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrap("delete order", err)
}

// ListOrdersForTenantBetween returns orders created in [from, to), newest first, with items and
// table attached.
func (r *OrderRepository) ListOrdersForTenantBetween(ctx context.Context, tenantID string, from, to time.Time) ([]models.Order, error) {
	var out []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Table").
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from.UTC(), to.UTC()).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("list orders", err)
	}
	return out, nil
}

func (r *OrderRepository) CountItems(ctx context.Context, orderID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, wrap("count order items", err)
}
