package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-hub/clock"
	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/metrics"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
	"go.opentelemetry.io/otel/attribute"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	FindOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) (*models.Order, error)
	DeleteOrderCascade(ctx context.Context, id string) error
	ListOrdersForTenantBetween(ctx context.Context, tenantID string, from, to time.Time) ([]models.Order, error)
}

type TableFinder interface {
	FindTableByID(ctx context.Context, id string) (*models.Table, error)
}

// Catalog resolves the table and menu references of an order within one restaurant.
type Catalog interface {
	TableFinder
	FindMenuItemIDs(ctx context.Context, restaurantID string, ids []string) ([]string, error)
}

// Publisher receives order events after they are persisted.
type Publisher interface {
	Publish(restaurantID string, ev kds.Event)
}

type CreateOrderItemInput struct {
	MenuItemID string  `json:"menuItemId" validate:"required,max=36"`
	Quantity   int     `json:"quantity" validate:"gte=1"`
	Price      float64 `json:"price" validate:"gte=0"`
	Notes      string  `json:"notes" validate:"max=500"`
}

type CreateOrderInput struct {
	TableID string                 `json:"tableId" validate:"required,max=36"`
	Items   []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	Notes   string                 `json:"notes" validate:"max=1000"`
}

type OrderServiceOptions struct {
	// StrictTransitions rejects status moves that do not follow the order flow.
	StrictTransitions bool
	// Location dates order numbers. Defaults to time.Local.
	Location *time.Location
}

type OrderService struct {
	orders    OrderStore
	catalog   Catalog
	publisher Publisher
	clock     clock.Clock
	metrics   *metrics.Metrics
	opts      OrderServiceOptions
}

func NewOrderService(orders OrderStore, catalog Catalog, publisher Publisher, clk clock.Clock, m *metrics.Metrics, opts OrderServiceOptions) *OrderService {
	if clk == nil {
		clk = clock.Real()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &OrderService{
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		clock:     clk,
		metrics:   m,
		opts:      opts,
	}
}

// Create validates the input, checks the table belongs to tenantID and stores the order PENDING with
// each line's price captured from the input. The new_order event is published after the write commits.
func (s *OrderService) Create(ctx context.Context, tenantID string, in CreateOrderInput) (order *models.Order, err error) {
	ctx, span := startSpan(ctx, "services.order.create", attribute.String("restaurant.id", tenantID))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}

	table, err := s.catalog.FindTableByID(ctx, in.TableID)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", in.TableID, err)
	}
	if table.RestaurantID != tenantID {
		return nil, fmt.Errorf("table %s: %w", in.TableID, utils.ErrNotFound)
	}
	if err := s.checkMenuItems(ctx, tenantID, in.Items); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, fmt.Errorf("order id: %w", err)
	}

	order = &models.Order{
		ID:           id.String(),
		OrderNumber:  orderNumber(id, now.In(s.opts.Location)),
		RestaurantID: tenantID,
		TableID:      table.ID,
		Status:       models.OrderStatusPending,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Notes:      item.Notes,
			CreatedAt:  now,
		})
	}
	order.TotalAmount = order.ComputeTotal()

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	order.Table = table

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"restaurant_id": tenantID,
		"total":         order.TotalAmount,
	}).Info("order created")
	s.metrics.OrderTransition(string(order.Status))

	s.publish(tenantID, kds.NewOrderEvent(kds.OrderSummary{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}))
	return order, nil
}

// checkMenuItems -> every line must name a menu item of the tenant
func (s *OrderService) checkMenuItems(ctx context.Context, tenantID string, items []CreateOrderItemInput) error {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.MenuItemID]; !ok {
			seen[item.MenuItemID] = struct{}{}
			ids = append(ids, item.MenuItemID)
		}
	}

	found, err := s.catalog.FindMenuItemIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	verr := &utils.ValidationError{}
	for i, item := range items {
		if _, ok := known[item.MenuItemID]; !ok {
			verr.Fields = append(verr.Fields, utils.FieldError{
				Field:   fmt.Sprintf("items[%d].menuItemId", i),
				Message: "menu item not found",
			})
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// orderNumber renders ORD-YYYYMMDD-NNNN, with NNNN taken from the id's random part.
func orderNumber(id ulid.ULID, at time.Time) string {
	suffix := binary.BigEndian.Uint16(id[14:]) % 10000
	return fmt.Sprintf("ORD-%s-%04d", at.Format("20060102"), suffix)
}

// Get returns the order if it belongs to tenantID. Orders of other tenants read as not found.
func (s *OrderService) Get(ctx context.Context, tenantID, orderID string) (*models.Order, error) {
	order, err := s.orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != tenantID {
		return nil, fmt.Errorf("order %s: %w", orderID, utils.ErrNotFound)
	}
	return order, nil
}

// Transition moves the order to rawStatus. Any known status is accepted unless StrictTransitions is set,
// in which case only the next step of the flow or a cancellation of a live order is allowed.
func (s *OrderService) Transition(ctx context.Context, tenantID, orderID, rawStatus string) (order *models.Order, err error) {
	ctx, span := startSpan(ctx, "services.order.transition",
		attribute.String("restaurant.id", tenantID),
		attribute.String("order.id", orderID),
	)
	defer func() { endSpan(span, err) }()

	if rawStatus == "" {
		return nil, utils.NewValidationError("status", "is required")
	}
	next := models.ParseOrderStatus(rawStatus)
	if next == models.OrderStatusUnknown {
		return nil, utils.NewValidationError("status", fmt.Sprintf("unknown status %q", rawStatus))
	}

	current, err := s.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	var expected models.OrderStatus
	if s.opts.StrictTransitions {
		if !current.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("order %s cannot move from %s to %s: %w", orderID, current.Status, next, utils.ErrConflict)
		}
		expected = current.Status
	}

	order, err = s.orders.UpdateOrderStatus(ctx, orderID, expected, next, s.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": orderID,
		"from":     current.Status,
		"to":       next,
	}).Info("order status changed")
	s.metrics.OrderTransition(string(next))
	s.publish(tenantID, kds.StatusChangedEvent(orderID, string(next), string(current.Status)))
	return order, nil
}

// Delete removes the order and its items. It publishes order_deleted once the rows are gone.
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID string) (err error) {
	ctx, span := startSpan(ctx, "services.order.delete", attribute.String("order.id", orderID))
	defer func() { endSpan(span, err) }()

	if _, err := s.Get(ctx, tenantID, orderID); err != nil {
		return err
	}
	if err := s.orders.DeleteOrderCascade(ctx, orderID); err != nil {
		return err
	}
	utils.InfoLogger.WithField("order_id", orderID).Info("order deleted")
	s.publish(tenantID, kds.OrderDeletedEvent(orderID))
	return nil
}

// ListToday returns the tenant's orders created between local midnight and the next local midnight in
// loc, newest first. A nil loc uses the configured default zone.
func (s *OrderService) ListToday(ctx context.Context, tenantID string, loc *time.Location) (orders []models.Order, err error) {
	ctx, span := startSpan(ctx, "services.order.listToday", attribute.String("restaurant.id", tenantID))
	defer func() { endSpan(span, err) }()

	from, to := DayBounds(s.clock.Now(), loc, s.opts.Location)
	return s.orders.ListOrdersForTenantBetween(ctx, tenantID, from, to)
}

// DayBounds returns [midnight, next midnight) of now's calendar day in loc, falling back to def.
func DayBounds(now time.Time, loc, def *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = def
	}
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *OrderService) publish(tenantID string, ev kds.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(tenantID, ev)
}
