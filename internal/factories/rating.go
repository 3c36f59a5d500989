package factories

import (
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
)

// ratingValues skews towards good ratings, as real ones do.
var ratingValues = []float64{5, 5, 5, 4.5, 4.5, 4, 4, 4, 3.5, 3, 2.5, 2, 1.5, 1}

var ratingComments = map[bool][]string{
	true: {
		"Very fast delivery, food was still hot",
		"Friendly and polite driver",
		"Great communication, thank you",
		"Followed the delivery notes perfectly",
	},
	false: {
		"Driver was late and did not call",
		"Food arrived cold",
		"Could not find the address",
		"Rude at the door",
	},
}

// CreateRatings builds n driver ratings for random orders. Orders without a
// driver are rated against a random driver.
func (f *Factory) CreateRatings(n int, orders []models.Order, customers, drivers []models.User) []models.DriverRating {
	if n <= 0 || len(orders) == 0 || len(drivers) == 0 {
		return []models.DriverRating{}
	}
	driversByID := make(map[string]models.User, len(drivers))
	for _, d := range drivers {
		driversByID[d.ID] = d
	}
	customersByID := make(map[string]models.User, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = c
	}

	ratings := make([]models.DriverRating, n)
	for i := range ratings {
		order := orders[f.fake.IntBetween(0, len(orders)-1)]
		driver, ok := driversByID[order.DriverID]
		if !ok {
			driver = drivers[f.fake.IntBetween(0, len(drivers)-1)]
		}
		customer := customersByID[order.CustomerID]
		ratings[i] = f.createRating(order, driver, customer)
	}
	return ratings
}

func (f *Factory) createRating(order models.Order, driver, customer models.User) models.DriverRating {
	value := ratingValues[f.fake.IntBetween(0, len(ratingValues)-1)]
	createdAt := order.CreatedAt.Add(time.Duration(f.fake.IntBetween(20, 240)) * time.Minute)
	if createdAt.After(f.now) {
		createdAt = f.now
	}

	r := models.DriverRating{
		ID:     f.id(),
		Driver: f.driverSnapshot(driver),
		Customer: models.CustomerSnapshot{
			ID:          customer.ID,
			Name:        customer.Name,
			Email:       customer.Email,
			Phone:       customer.Phone,
			TotalOrders: customer.TotalOrders,
		},
		Order: models.OrderSnapshot{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Total:       order.Total,
		},
		Rating:    value,
		IsHidden:  f.chance(5),
		IsDeleted: f.chance(5),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if f.chance(60) {
		r.Comment = f.pick(ratingComments[value >= 3.5])
	}
	if f.chance(70) {
		r.Punctuality = f.subRating(value)
		r.Communication = f.subRating(value)
		r.ServiceQuality = f.subRating(value)
	}
	return r
}

// subRating stays within one star of the overall rating, clamped to [1,5].
func (f *Factory) subRating(overall float64) *float64 {
	v := overall + float64(f.fake.IntBetween(-2, 2))*0.5
	if v < 1 {
		v = 1
	}
	if v > 5 {
		v = 5
	}
	return &v
}
