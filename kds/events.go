package kds

import "time"

// Event names carried in Message.Event.
const (
	EventNewOrder           = "new_order"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"

	// Replies to a single connection, never broadcast.
	EventJoined = "joined"
	EventLeft   = "left"
	EventError  = "error"
)

// Message is the wire frame every subscriber receives.
type Message struct {
	Event        string      `json:"event"`
	RestaurantID string      `json:"restaurantId"`
	Data         interface{} `json:"data"`
}

type Event struct {
	Name string
	Data interface{}
}

type OrderSummary struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	TableID     string    `json:"tableId"`
	TableNumber string    `json:"tableNumber,omitempty"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StatusChange struct {
	OrderID        string `json:"orderId"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
}

type OrderRemoved struct {
	OrderID string `json:"orderId"`
}

func NewOrderEvent(s OrderSummary) Event {
	return Event{Name: EventNewOrder, Data: s}
}

func StatusChangedEvent(orderID, status, previous string) Event {
	return Event{Name: EventOrderStatusChanged, Data: StatusChange{OrderID: orderID, Status: status, PreviousStatus: previous}}
}

func OrderDeletedEvent(orderID string) Event {
	return Event{Name: EventOrderDeleted, Data: OrderRemoved{OrderID: orderID}}
}
