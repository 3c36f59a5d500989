package repositories

import (
	"context"

	"github.com/chrisdamba/foodadmin/internal/models"
)

// Record is anything a Store can hold.
type Record interface {
	GetID() string
}

// Store is the entity store of one resource. List returns records in store
// (insertion) order. Update runs fn against a copy of the record and commits it
// atomically; returning an error from fn leaves the record untouched.
type Store[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, records ...T) error
	Update(ctx context.Context, id string, fn func(*T) error) (T, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type OrderRepository = Store[models.Order]

type RatingRepository = Store[models.DriverRating]

type NotificationRepository = Store[models.Notification]

type TemplateRepository = Store[models.NotificationTemplate]

type RewardRepository = Store[models.Reward]

type UserRewardRepository = Store[models.UserReward]

type UserRepository = Store[models.User]

// Stores bundles one store per resource.
type Stores struct {
	Orders        OrderRepository
	Ratings       RatingRepository
	Notifications NotificationRepository
	Templates     TemplateRepository
	Rewards       RewardRepository
	UserRewards   UserRewardRepository
	Users         UserRepository
}
