package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-hub/database"
	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repository"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	users        *repository.UserRepository
	restaurants  *repository.RestaurantRepository
	orders       *repository.OrderRepository
	reservations *repository.ReservationRepository
	scopes       *TenantScopeResolver
}

// setupTestEnv seeds owner u1 with restaurants r1 (oldest) and r2, owner u2 with r3, tables t1 (r1)
// and t3 (r3), and menu items m1 (r1) and m3 (r3).
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	seed := []interface{}{
		&models.User{ID: "u1", Name: "Owner One", Email: "one@example.com", Password: "x"},
		&models.User{ID: "u2", Name: "Owner Two", Email: "two@example.com", Password: "x"},
		&models.User{ID: "lonely", Name: "No Restaurant", Email: "lonely@example.com", Password: "x"},
		&models.Restaurant{ID: "r1", OwnerID: "u1", Name: "A", CreatedAt: base},
		&models.Restaurant{ID: "r2", OwnerID: "u1", Name: "B", CreatedAt: base.Add(time.Minute)},
		&models.Restaurant{ID: "r3", OwnerID: "u2", Name: "C", CreatedAt: base},
		&models.Table{ID: "t1", RestaurantID: "r1", TableNumber: "1"},
		&models.Table{ID: "t3", RestaurantID: "r3", TableNumber: "3"},
		&models.MenuItem{ID: "m1", RestaurantID: "r1", Name: "Soup", Price: 500},
		&models.MenuItem{ID: "m3", RestaurantID: "r3", Name: "Tea", Price: 100},
	}
	for _, row := range seed {
		require.NoError(t, db.Create(row).Error)
	}

	env := &testEnv{
		db:           db,
		users:        repository.NewUserRepository(db),
		restaurants:  repository.NewRestaurantRepository(db),
		orders:       repository.NewOrderRepository(db),
		reservations: repository.NewReservationRepository(db),
	}
	env.scopes = NewTenantScopeResolver(env.users, env.restaurants, time.Minute)
	return env
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

type published struct {
	restaurantID string
	event        kds.Event
}

func (p *recordingPublisher) Publish(restaurantID string, ev kds.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{restaurantID: restaurantID, event: ev})
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

var bg = context.Background()
