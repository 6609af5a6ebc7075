package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every order status in a stable order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// Line item bounds.
const (
	MinLineItems = 1
	MaxLineItems = 5
	MinQuantity  = 1
	MaxQuantity  = 3
)

// LineItem is one product inside an order. It has no identity of its own.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice Money
}

// Subtotal returns quantity times unit price.
func (li LineItem) Subtotal() Money {
	return li.UnitPrice.Mul(li.Quantity)
}

// Order is a purchase placed by a customer.
type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	OrderedAt  time.Time
	Status     OrderStatus
	Items      []LineItem
	TotalValue Money
}

// ItemsTotal sums the subtotals of every line item.
func (o *Order) ItemsTotal() Money {
	var total Money
	for _, li := range o.Items {
		total += li.Subtotal()
	}

	return total
}
