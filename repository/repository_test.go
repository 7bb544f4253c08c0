package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-hub/database"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.User{ID: "u1", Name: "Owner", Email: "owner@example.com", Password: "x"}).Error)
	require.NoError(t, db.Create(&models.Restaurant{ID: "r1", OwnerID: "u1", Name: "First"}).Error)
	require.NoError(t, db.Create(&models.Table{ID: "t1", RestaurantID: "r1", TableNumber: "1"}).Error)
	require.NoError(t, db.Create(&models.MenuItem{ID: "m1", RestaurantID: "r1", Name: "Soup", Price: 500}).Error)
	return db
}

func newOrder(id string, createdAt time.Time, qty int) *models.Order {
	o := &models.Order{
		ID:           id,
		OrderNumber:  "ORD-" + id,
		RestaurantID: "r1",
		TableID:      "t1",
		Status:       models.OrderStatusPending,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    createdAt.UTC(),
	}
	for i := 0; i < qty; i++ {
		o.Items = append(o.Items, models.OrderItem{MenuItemID: "m1", Quantity: 1, Price: 500})
	}
	o.TotalAmount = o.ComputeTotal()
	return o
}

func TestUserLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.FindUserByEmail(ctx, "  OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = repo.FindUserByID(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListRestaurantsByOwnerOrdersByCreation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &models.Restaurant{ID: "zz", OwnerID: "u1", Name: "Later", CreatedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Restaurant{ID: "aa", OwnerID: "u1", Name: "Earlier", CreatedAt: base.Add(time.Hour)}))

	list, err := repo.ListRestaurantsByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "r1", list[0].ID, "seeded restaurant was created first")
	assert.Equal(t, "aa", list[1].ID)
	assert.Equal(t, "zz", list[2].ID)
}

func TestDeleteOrderCascadeRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := newOrder("01ORDER", time.Now(), 3)
	require.NoError(t, repo.CreateOrder(ctx, o))

	n, err := repo.CountItems(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, repo.DeleteOrderCascade(ctx, o.ID))

	n, err = repo.CountItems(ctx, o.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.FindOrderByID(ctx, o.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteOrderCascade(ctx, o.ID), utils.ErrNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := newOrder("01STATUS", time.Now(), 1)
	require.NoError(t, repo.CreateOrder(ctx, o))

	updated, err := repo.UpdateOrderStatus(ctx, o.ID, "", models.OrderStatusReady, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, updated.Status)
	assert.Len(t, updated.Items, 1)

	_, err = repo.UpdateOrderStatus(ctx, "nope", "", models.OrderStatusReady, time.Now().UTC())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateOrderStatusGuardedByExpectedStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := newOrder("01GUARD", time.Now(), 1)
	require.NoError(t, repo.CreateOrder(ctx, o))

	updated, err := repo.UpdateOrderStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusConfirmed, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)

	_, err = repo.UpdateOrderStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusCancelled, time.Now().UTC())
	assert.ErrorIs(t, err, utils.ErrConflict, "stored status is no longer PENDING")

	stored, err := repo.FindOrderByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)

	_, err = repo.UpdateOrderStatus(ctx, "nope", models.OrderStatusPending, models.OrderStatusConfirmed, time.Now().UTC())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestFindMenuItemIDsIsTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "u2", Name: "Other", Email: "other@example.com", Password: "x"}).Error)
	require.NoError(t, db.Create(&models.Restaurant{ID: "r2", OwnerID: "u2", Name: "Second"}).Error)
	require.NoError(t, db.Create(&models.MenuItem{ID: "m2", RestaurantID: "r2", Name: "Tea", Price: 100}).Error)
	repo := NewRestaurantRepository(db)

	found, err := repo.FindMenuItemIDs(context.Background(), "r1", []string{"m1", "m2", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, found)
}

func TestCreateUserDuplicateEmailIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.Create(context.Background(), &models.User{Name: "Again", Email: "Owner@Example.com ", Password: "x"})
	assert.ErrorIs(t, err, utils.ErrConflict)
	assert.NotErrorIs(t, err, utils.ErrStorage)
}

func TestListOrdersForTenantBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateOrder(ctx, newOrder("A", day.Add(-time.Minute), 1)))
	require.NoError(t, repo.CreateOrder(ctx, newOrder("B", day.Add(9*time.Hour), 1)))
	require.NoError(t, repo.CreateOrder(ctx, newOrder("C", day.Add(20*time.Hour), 2)))
	require.NoError(t, repo.CreateOrder(ctx, newOrder("D", day.Add(24*time.Hour), 1)))

	list, err := repo.ListOrdersForTenantBetween(ctx, "r1", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].ID, "newest first")
	assert.Equal(t, "B", list[1].ID)
	assert.Len(t, list[0].Items, 2)
	require.NotNil(t, list[0].Table)
	assert.Equal(t, "t1", list[0].Table.ID)

	other, err := repo.ListOrdersForTenantBetween(ctx, "r2", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestReservationLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	res := &models.Reservation{
		TableID:      "t1",
		CustomerName: "Ana",
		PartySize:    2,
		ReservedAt:   time.Date(2024, 5, 10, 19, 0, 0, 0, time.UTC),
		Status:       models.ReservationPending,
	}
	require.NoError(t, repo.CreateReservation(ctx, res))

	found, err := repo.FindReservationByID(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Table)
	require.NotNil(t, found.Table.Restaurant)
	assert.Equal(t, "u1", found.Table.Restaurant.OwnerID)
	require.NotNil(t, found.Table.Restaurant.Owner)
	assert.Equal(t, "owner@example.com", found.Table.Restaurant.Owner.Email)

	updated, err := repo.UpdateReservation(ctx, res.ID, map[string]interface{}{"status": models.ReservationConfirmed})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, updated.Status)

	list, err := repo.ListForTenant(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteReservation(ctx, res.ID))
	_, err = repo.FindReservationByID(ctx, res.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
