package factories

import (
	"fmt"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/shopspring/decimal"
)

// orderSpacing separates consecutive fixture orders.
const orderSpacing = 3 * time.Hour

var taxRate = decimal.NewFromFloat(0.08)

// CreateOrders builds n orders, newest first. The i-th order takes status
// OrderStatuses[i%7], so every state is represented evenly.
func (f *Factory) CreateOrders(n int, customers []models.User, restaurants []Restaurant, drivers []models.User) []models.Order {
	if n <= 0 || len(customers) == 0 || len(restaurants) == 0 {
		return []models.Order{}
	}
	orders := make([]models.Order, n)
	for i := range orders {
		status := models.OrderStatuses[i%len(models.OrderStatuses)]
		createdAt := f.now.Add(-time.Duration(i+1) * orderSpacing)
		customer := customers[f.fake.IntBetween(0, len(customers)-1)]
		restaurant := restaurants[f.fake.IntBetween(0, len(restaurants)-1)]
		orders[i] = f.createOrder(n-i, status, createdAt, customer, restaurant, drivers)
	}
	return orders
}

func (f *Factory) createOrder(number int, status models.OrderStatus, createdAt time.Time, customer models.User, restaurant Restaurant, drivers []models.User) models.Order {
	items := f.lineItems(restaurant)
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Total))
	}
	subtotal = subtotal.Round(2)
	fee := decimal.NewFromFloat(f.fake.Float64(2, 1, 6)).Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	method := models.PaymentMethod(f.pick([]string{
		string(models.PaymentMethodCard), string(models.PaymentMethodCash), string(models.PaymentMethodOnline),
	}))

	o := models.Order{
		ID:              f.id(),
		OrderNumber:     fmt.Sprintf("ORD-%05d", number),
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		RestaurantID:    restaurant.Account.ID,
		RestaurantName:  restaurant.Account.Name,
		Items:           items,
		Subtotal:        subtotal.InexactFloat64(),
		DeliveryFee:     fee.InexactFloat64(),
		Tax:             tax.InexactFloat64(),
		Total:           subtotal.Add(fee).Add(tax).InexactFloat64(),
		Status:          status,
		PaymentMethod:   method,
		PaymentStatus:   f.paymentStatus(status, method),
		DeliveryAddress: f.fake.Address().Address(),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt.Add(time.Duration(f.fake.IntBetween(0, 90)) * time.Minute),
	}
	if f.chance(25) {
		o.Notes = f.pick(orderNotes)
	}
	if needsDriver(status) && len(drivers) > 0 {
		driver := drivers[f.fake.IntBetween(0, len(drivers)-1)]
		o.DriverID = driver.ID
		o.DriverName = driver.Name
	}
	return o
}

func needsDriver(s models.OrderStatus) bool {
	return s == models.OrderStatusReady || s == models.OrderStatusPickedUp || s == models.OrderStatusDelivered
}

func (f *Factory) paymentStatus(s models.OrderStatus, method models.PaymentMethod) models.PaymentStatus {
	switch s {
	case models.OrderStatusDelivered:
		return models.PaymentStatusPaid
	case models.OrderStatusCancelled:
		if method == models.PaymentMethodCash {
			return models.PaymentStatusFailed
		}
		return models.PaymentStatusRefunded
	case models.OrderStatusPending:
		return models.PaymentStatusPending
	}
	if method == models.PaymentMethodCash {
		return models.PaymentStatusPending
	}
	return models.PaymentStatusPaid
}

var orderNotes = []string{
	"Leave at the door",
	"Ring the bell twice",
	"No onions please",
	"Extra napkins",
	"Call on arrival",
}
