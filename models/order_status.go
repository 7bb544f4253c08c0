package models

import "strings"

// OrderStatus is the lifecycle state of an order. Values outside the known set parse to
// OrderStatusUnknown so newer clients cannot smuggle arbitrary strings into storage.
type OrderStatus string

const (
	OrderStatusUnknown   OrderStatus = "UNKNOWN"
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusServed    OrderStatus = "SERVED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderFlow is the forward path. CANCELLED sits outside it.
var orderFlow = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusServed,
	OrderStatusPaid,
}

// ParseOrderStatus is case-insensitive and trims whitespace.
func ParseOrderStatus(raw string) OrderStatus {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if s == OrderStatusCancelled {
		return s
	}
	for _, known := range orderFlow {
		if s == known {
			return s
		}
	}
	return OrderStatusUnknown
}

func (s OrderStatus) Known() bool {
	return s != OrderStatusUnknown && ParseOrderStatus(string(s)) == s
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is the following step of the flow, or a cancellation of a
// non-terminal order.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Known() || !next.Known() || s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	for i, st := range orderFlow[:len(orderFlow)-1] {
		if st == s {
			return orderFlow[i+1] == next
		}
	}
	return false
}
