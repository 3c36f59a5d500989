package factories

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/repositories"
)

// Fixtures is one complete, mutually consistent data set.
type Fixtures struct {
	Users         []models.User
	Orders        []models.Order
	Ratings       []models.DriverRating
	Notifications []models.Notification
	Templates     []models.NotificationTemplate
	Rewards       []models.Reward
	UserRewards   []models.UserReward
}

// Total is the number of records across all resources.
func (fx Fixtures) Total() int {
	return len(fx.Users) + len(fx.Orders) + len(fx.Ratings) + len(fx.Notifications) +
		len(fx.Templates) + len(fx.Rewards) + len(fx.UserRewards)
}

// Build generates fixtures with the given counts.
func (f *Factory) Build(counts models.FixturesConfig, adminID string) Fixtures {
	customers := make([]models.User, counts.Customers)
	for i := range customers {
		customers[i] = f.CreateCustomer()
	}
	drivers := make([]models.User, counts.Drivers)
	for i := range drivers {
		drivers[i] = f.CreateDriver()
	}
	restaurants := make([]Restaurant, counts.Restaurants)
	for i := range restaurants {
		restaurants[i] = f.CreateRestaurant()
	}

	users := make([]models.User, 0, len(customers)+len(drivers)+len(restaurants))
	users = append(users, customers...)
	users = append(users, drivers...)
	for _, r := range restaurants {
		users = append(users, r.Account)
	}

	orders := f.CreateOrders(counts.Orders, customers, restaurants, drivers)
	rewards := f.CreateRewards(counts.Rewards, adminID)
	return Fixtures{
		Users:         users,
		Orders:        orders,
		Ratings:       f.CreateRatings(counts.Ratings, orders, customers, drivers),
		Notifications: f.CreateNotifications(counts.Notifications, adminID, users),
		Templates:     f.CreateTemplates(adminID),
		Rewards:       rewards,
		UserRewards:   f.CreateUserRewards(counts.UserRewards, adminID, rewards, customers),
	}
}

// Seed replaces the contents of every store with fx. progress, when set, is
// called with the number of records written after each resource.
func Seed(ctx context.Context, stores repositories.Stores, fx Fixtures, progress func(n int)) error {
	if progress == nil {
		progress = func(int) {}
	}
	steps := []struct {
		name string
		run  func() (int, error)
	}{
		{"users", func() (int, error) { return len(fx.Users), replace(ctx, stores.Users, fx.Users) }},
		{"orders", func() (int, error) { return len(fx.Orders), replace(ctx, stores.Orders, fx.Orders) }},
		{"ratings", func() (int, error) { return len(fx.Ratings), replace(ctx, stores.Ratings, fx.Ratings) }},
		{"notifications", func() (int, error) {
			return len(fx.Notifications), replace(ctx, stores.Notifications, fx.Notifications)
		}},
		{"templates", func() (int, error) { return len(fx.Templates), replace(ctx, stores.Templates, fx.Templates) }},
		{"rewards", func() (int, error) { return len(fx.Rewards), replace(ctx, stores.Rewards, fx.Rewards) }},
		{"user rewards", func() (int, error) {
			return len(fx.UserRewards), replace(ctx, stores.UserRewards, fx.UserRewards)
		}},
	}
	for _, step := range steps {
		n, err := step.run()
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
		progress(n)
	}
	return nil
}

func replace[T repositories.Record](ctx context.Context, store repositories.Store[T], records []T) error {
	if err := store.DeleteAll(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return store.Insert(ctx, records...)
}
