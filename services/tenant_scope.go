package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viccon/sturdyc"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
	"go.opentelemetry.io/otel/attribute"
)

type UserStore interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

type RestaurantStore interface {
	ListRestaurantsByOwner(ctx context.Context, userID string) ([]models.Restaurant, error)
	Create(ctx context.Context, r *models.Restaurant) error
	FindTableByID(ctx context.Context, id string) (*models.Table, error)
}

// TenantScope is the ordered set of restaurants a user owns, oldest first. Treat it as read-only; scopes
// are shared through the cache.
type TenantScope struct {
	UserID        string
	RestaurantIDs []string
}

func (s TenantScope) Contains(restaurantID string) bool {
	for _, id := range s.RestaurantIDs {
		if id == restaurantID {
			return true
		}
	}
	return false
}

type TenantScopeResolver struct {
	users       UserStore
	restaurants RestaurantStore
	cache       *sturdyc.Client[TenantScope]
}

// NewTenantScopeResolver caches resolved scopes for ttl. A ttl of zero disables the cache.
func NewTenantScopeResolver(users UserStore, restaurants RestaurantStore, ttl time.Duration) *TenantScopeResolver {
	r := &TenantScopeResolver{users: users, restaurants: restaurants}
	if ttl > 0 {
		r.cache = sturdyc.New[TenantScope](10000, 10, ttl, 10)
	}
	return r
}

// ScopeFor loads the restaurants userID owns in creation order. It fails with ErrUnknownUser when the
// user does not exist and ErrNoTenant when the user owns nothing. Only successful scopes are cached.
func (r *TenantScopeResolver) ScopeFor(ctx context.Context, userID string) (scope TenantScope, err error) {
	ctx, span := startSpan(ctx, "services.tenantscope.scopeFor", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	if r.cache == nil {
		return r.load(ctx, userID)
	}
	return r.cache.GetOrFetch(ctx, userID, func(ctx context.Context) (TenantScope, error) {
		return r.load(ctx, userID)
	})
}

func (r *TenantScopeResolver) load(ctx context.Context, userID string) (TenantScope, error) {
	if _, err := r.users.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return TenantScope{}, fmt.Errorf("user %s: %w", userID, utils.ErrUnknownUser)
		}
		return TenantScope{}, err
	}

	restaurants, err := r.restaurants.ListRestaurantsByOwner(ctx, userID)
	if err != nil {
		return TenantScope{}, err
	}
	if len(restaurants) == 0 {
		return TenantScope{}, fmt.Errorf("user %s: %w", userID, utils.ErrNoTenant)
	}

	scope := TenantScope{UserID: userID, RestaurantIDs: make([]string, 0, len(restaurants))}
	for _, rest := range restaurants {
		scope.RestaurantIDs = append(scope.RestaurantIDs, rest.ID)
	}
	return scope, nil
}

// Invalidate drops the cached scope so the next ScopeFor reloads it.
func (r *TenantScopeResolver) Invalidate(userID string) {
	if r.cache != nil {
		r.cache.Delete(userID)
	}
}

// PrimaryTenant is the first restaurant the user created. Single-restaurant callers use it as the
// default tenant.
func PrimaryTenant(scope TenantScope) (string, error) {
	if len(scope.RestaurantIDs) == 0 {
		return "", utils.ErrNoTenant
	}
	return scope.RestaurantIDs[0], nil
}

// RequireOwnership fails with ErrForbidden unless restaurantID is in scope, whether or not the
// restaurant exists.
func RequireOwnership(scope TenantScope, restaurantID string) error {
	if restaurantID == "" || !scope.Contains(restaurantID) {
		return fmt.Errorf("restaurant %q: %w", restaurantID, utils.ErrForbidden)
	}
	return nil
}
