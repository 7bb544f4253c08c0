package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/restaurant-hub/models"
)

type CreateRestaurantInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=50"`
}

type RestaurantService struct {
	restaurants RestaurantStore
	scopes      *TenantScopeResolver
}

func NewRestaurantService(restaurants RestaurantStore, scopes *TenantScopeResolver) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, scopes: scopes}
}

// List returns the caller's restaurants in creation order; the first is the default tenant.
func (s *RestaurantService) List(ctx context.Context, userID string) ([]models.Restaurant, error) {
	return s.restaurants.ListRestaurantsByOwner(ctx, userID)
}

func (s *RestaurantService) Create(ctx context.Context, userID string, in CreateRestaurantInput) (*models.Restaurant, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	rest := &models.Restaurant{
		OwnerID: userID,
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
	}
	if err := s.restaurants.Create(ctx, rest); err != nil {
		return nil, err
	}
	s.scopes.Invalidate(userID)
	return rest, nil
}
