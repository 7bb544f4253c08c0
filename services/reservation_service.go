package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type ReservationStore interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	FindReservationByID(ctx context.Context, id string) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id string, fields map[string]interface{}) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListForTenant(ctx context.Context, tenantID string) ([]models.Reservation, error)
}

type CreateReservationInput struct {
	TableID       string    `json:"tableId" validate:"required,max=36"`
	CustomerName  string    `json:"customerName" validate:"required,max=255"`
	CustomerPhone string    `json:"customerPhone" validate:"max=50"`
	PartySize     int       `json:"partySize" validate:"gte=1"`
	ReservedAt    time.Time `json:"reservedAt" validate:"required"`
	Notes         string    `json:"notes" validate:"max=1000"`
}

// UpdateReservationInput changes only the fields that are set.
type UpdateReservationInput struct {
	TableID       *string    `json:"tableId" validate:"omitempty,max=36"`
	CustomerName  *string    `json:"customerName" validate:"omitempty,max=255"`
	CustomerPhone *string    `json:"customerPhone" validate:"omitempty,max=50"`
	PartySize     *int       `json:"partySize" validate:"omitempty,gte=1"`
	ReservedAt    *time.Time `json:"reservedAt"`
	Status        *string    `json:"status" validate:"omitempty,oneof=pending confirmed seated cancelled completed"`
	Notes         *string    `json:"notes" validate:"omitempty,max=1000"`
}

// ReservationService checks every reservation against the caller's scope through its table's restaurant;
// restaurant ids from the request are never trusted.
type ReservationService struct {
	reservations ReservationStore
	tables       TableFinder
}

func NewReservationService(reservations ReservationStore, tables TableFinder) *ReservationService {
	return &ReservationService{reservations: reservations, tables: tables}
}

func (s *ReservationService) List(ctx context.Context, tenantID string) ([]models.Reservation, error) {
	return s.reservations.ListForTenant(ctx, tenantID)
}

func (s *ReservationService) Create(ctx context.Context, scope TenantScope, in CreateReservationInput) (*models.Reservation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedTable(ctx, scope, in.TableID); err != nil {
		return nil, err
	}

	res := &models.Reservation{
		TableID:       in.TableID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		PartySize:     in.PartySize,
		ReservedAt:    in.ReservedAt.UTC(),
		Status:        models.ReservationPending,
		Notes:         in.Notes,
	}
	if err := s.reservations.CreateReservation(ctx, res); err != nil {
		return nil, err
	}
	return s.reservations.FindReservationByID(ctx, res.ID)
}

func (s *ReservationService) Get(ctx context.Context, scope TenantScope, id string) (*models.Reservation, error) {
	res, err := s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Table == nil {
		return nil, fmt.Errorf("reservation %s has no table: %w", id, utils.ErrNotFound)
	}
	if err := RequireOwnership(scope, res.Table.RestaurantID); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReservationService) Update(ctx context.Context, scope TenantScope, id string, in UpdateReservationInput) (*models.Reservation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, scope, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.TableID != nil {
		if _, err := s.ownedTable(ctx, scope, *in.TableID); err != nil {
			return nil, err
		}
		fields["table_id"] = *in.TableID
	}
	if in.CustomerName != nil {
		fields["customer_name"] = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerPhone != nil {
		fields["customer_phone"] = strings.TrimSpace(*in.CustomerPhone)
	}
	if in.PartySize != nil {
		fields["party_size"] = *in.PartySize
	}
	if in.ReservedAt != nil {
		fields["reserved_at"] = in.ReservedAt.UTC()
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}
	return s.reservations.UpdateReservation(ctx, id, fields)
}

func (s *ReservationService) Delete(ctx context.Context, scope TenantScope, id string) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.reservations.DeleteReservation(ctx, id)
}

func (s *ReservationService) ownedTable(ctx context.Context, scope TenantScope, tableID string) (*models.Table, error) {
	table, err := s.tables.FindTableByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", tableID, err)
	}
	if err := RequireOwnership(scope, table.RestaurantID); err != nil {
		return nil, err
	}
	return table, nil
}
