package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Total      float64 `json:"total"`
}

// NewLineItem builds a line item with its total computed from price and quantity.
func NewLineItem(menuItemID, name string, quantity int, unitPrice float64) LineItem {
	total, _ := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2).Float64()
	return LineItem{
		MenuItemID: menuItemID,
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Total:      total,
	}
}

type Order struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"order_number"`
	CustomerID      string        `json:"customer_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   string        `json:"customer_phone"`
	RestaurantID    string        `json:"restaurant_id"`
	RestaurantName  string        `json:"restaurant_name"`
	DriverID        string        `json:"driver_id,omitempty"`
	DriverName      string        `json:"driver_name,omitempty"`
	Items           []LineItem    `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	DeliveryFee     float64       `json:"delivery_fee"`
	Tax             float64       `json:"tax"`
	Total           float64       `json:"total"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	DeliveryAddress string        `json:"delivery_address"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (o Order) GetID() string { return o.ID }

// LineItemsConsistent reports whether every line total equals price times quantity.
func (o Order) LineItemsConsistent() bool {
	for _, item := range o.Items {
		want := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		if !want.Equal(decimal.NewFromFloat(item.Total).Round(2)) {
			return false
		}
	}
	return true
}

// TotalsConsistent reports whether Total equals Subtotal + DeliveryFee + Tax.
// The figure is not enforced anywhere; it is a consistency probe.
func (o Order) TotalsConsistent() bool {
	sum := decimal.NewFromFloat(o.Subtotal).
		Add(decimal.NewFromFloat(o.DeliveryFee)).
		Add(decimal.NewFromFloat(o.Tax)).
		Round(2)
	return sum.Equal(decimal.NewFromFloat(o.Total).Round(2))
}

// IsTerminal reports whether no further transition is expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether from -> to is a forward step of the order
// lifecycle, or a cancellation of a non-terminal order.
func CanTransition(from, to OrderStatus) bool {
	if !validOrderStatus(to) || from.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromIdx, toIdx := -1, -1
	for i, s := range OrderStatuses {
		if s == from {
			fromIdx = i
		}
		if s == to {
			toIdx = i
		}
	}
	return fromIdx >= 0 && toIdx == fromIdx+1
}

// ValidOrderStatus reports whether s is a known order state.
func ValidOrderStatus(s OrderStatus) bool {
	return validOrderStatus(s)
}
