package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/foodadmin/internal/latency"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/repositories"
)

type UserFilter struct {
	Role   models.UserRole
	Active *bool
	Search string
}

var userSortKeys = map[string]query.Compare[models.User]{
	"created_at":   query.ByTime(func(u models.User) time.Time { return u.CreatedAt }),
	"name":         query.ByOrdered(func(u models.User) string { return u.Name }),
	"total_orders": query.ByOrdered(func(u models.User) int { return u.TotalOrders }),
	"total_spent":  query.ByOrdered(func(u models.User) float64 { return u.TotalSpent }),
}

// UserService reads the user directory.
type UserService struct {
	base
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository, opts Options) *UserService {
	return &UserService{
		base:  newBase(opts, "users"),
		users: users,
	}
}

func (s *UserService) List(ctx context.Context, f UserFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.User], error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (query.Page[models.User], error) {
		all, err := s.users.List(ctx)
		if err != nil {
			return query.Page[models.User]{}, fmt.Errorf("failed to list users: %w", err)
		}
		return query.List[models.User]{
			Predicates: []query.Predicate[models.User]{
				query.Equal(func(u models.User) models.UserRole { return u.Role }, f.Role),
				query.Flag(func(u models.User) bool { return u.IsActive }, f.Active),
				query.ContainsFold(func(u models.User) []string { return []string{u.Name, u.Email, u.Phone} }, f.Search),
			},
			Sort:         sort,
			SortKeys:     userSortKeys,
			Page:         page,
			DefaultLimit: defaultUserLimit,
		}.Run(all)
	})
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.User, error) {
		return s.users.Get(ctx, id)
	})
}
