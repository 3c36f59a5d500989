package factories

import (
	"slices"

	"github.com/chrisdamba/foodadmin/internal/models"
)

// Restaurant is a restaurant account plus the cuisines its menu draws from.
type Restaurant struct {
	Account  models.User
	Cuisines []string
}

func (f *Factory) CreateRestaurant() Restaurant {
	joined := f.timeBefore(60*day, 1000*day)
	return Restaurant{
		Account: models.User{
			ID:          f.id(),
			Name:        f.fake.Company().Name(),
			Email:       f.fake.Internet().Email(),
			Phone:       f.fake.Phone().Number(),
			Role:        models.RoleRestaurant,
			TotalOrders: f.fake.IntBetween(50, 3000),
			IsActive:    f.chance(95),
			CreatedAt:   joined,
			LastOrderAt: f.fake.Time().TimeBetween(joined, f.now),
		},
		Cuisines: f.randomCuisines(),
	}
}

func (f *Factory) randomCuisines() []string {
	count := f.fake.IntBetween(1, 3)
	cuisines := make([]string, 0, count)
	for len(cuisines) < count {
		c := f.pick(allCuisines)
		if !slices.Contains(cuisines, c) {
			cuisines = append(cuisines, c)
		}
	}
	return cuisines
}

var allCuisines = []string{"Italian", "Indian", "American", "Japanese", "Mexican", "Chinese", "Thai",
	"Greek", "French", "Mediterranean", "Pizza", "Burgers", "Curry", "Grill", "Salad"}
