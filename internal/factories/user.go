package factories

import "github.com/chrisdamba/foodadmin/internal/models"

// CreateCustomer builds a customer with an order history consistent with its
// join date.
func (f *Factory) CreateCustomer() models.User {
	joined := f.timeBefore(day, 720*day)
	u := models.User{
		ID:        f.id(),
		Name:      f.fake.Person().Name(),
		Email:     f.fake.Internet().Email(),
		Phone:     f.fake.Phone().Number(),
		Role:      models.RoleCustomer,
		IsActive:  f.chance(90),
		CreatedAt: joined,
	}

	u.TotalOrders = f.customerOrderCount()
	if u.TotalOrders > 0 {
		u.TotalSpent = money(float64(u.TotalOrders) * f.fake.Float64(2, 12, 45))
		u.LastOrderAt = f.fake.Time().TimeBetween(joined, f.now)
	}
	return u
}

// customerOrderCount draws from three segments: frequent, regular and
// occasional customers.
func (f *Factory) customerOrderCount() int {
	switch r := f.fake.IntBetween(1, 100); {
	case r <= 20:
		return f.fake.IntBetween(25, 80)
	case r <= 60:
		return f.fake.IntBetween(5, 24)
	default:
		return f.fake.IntBetween(0, 4)
	}
}
