package factories

import "github.com/chrisdamba/foodadmin/internal/models"

// CreateDriver builds a delivery partner account.
func (f *Factory) CreateDriver() models.User {
	joined := f.timeBefore(30*day, 720*day)
	return models.User{
		ID:          f.id(),
		Name:        f.fake.Person().Name(),
		Email:       f.fake.Internet().Email(),
		Phone:       f.fake.Phone().Number(),
		Role:        models.RoleDriver,
		TotalOrders: f.fake.IntBetween(20, 900),
		IsActive:    f.chance(85),
		CreatedAt:   joined,
		LastOrderAt: f.fake.Time().TimeBetween(joined, f.now),
	}
}

// driverSnapshot captures a driver's profile with rating counters as they
// stood when a rating was written.
func (f *Factory) driverSnapshot(driver models.User) models.DriverSnapshot {
	return models.DriverSnapshot{
		ID:            driver.ID,
		Name:          driver.Name,
		Email:         driver.Email,
		Phone:         driver.Phone,
		TotalRatings:  f.fake.IntBetween(10, 500),
		AverageRating: f.fake.Float64(1, 3, 5),
	}
}
