package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/repositories"
	"github.com/chrisdamba/foodadmin/internal/repositories/memory"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// testOptions gives a fixed clock and sequential ids.
func testOptions() Options {
	var mu sync.Mutex
	n := 0
	return Options{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%03d", n)
		},
		AdminID: "admin-test",
	}
}

func storeWith[T repositories.Record](t *testing.T, resource string, records ...T) *memory.Store[T] {
	t.Helper()
	s := memory.NewStore[T](resource)
	if len(records) > 0 {
		if err := s.Insert(context.Background(), records...); err != nil {
			t.Fatalf("seeding %s: %v", resource, err)
		}
	}
	return s
}

func testUsers(customers, drivers, restaurants int) []models.User {
	var users []models.User
	add := func(prefix string, role models.UserRole, n int) {
		for i := 1; i <= n; i++ {
			users = append(users, models.User{
				ID:          fmt.Sprintf("%s-%02d", prefix, i),
				Name:        fmt.Sprintf("%s %d", prefix, i),
				Email:       fmt.Sprintf("%s%d@example.com", prefix, i),
				Role:        role,
				TotalOrders: i,
				TotalSpent:  float64(i) * 20,
				IsActive:    i%5 != 0,
				CreatedAt:   testNow.AddDate(0, 0, -i*10),
				LastOrderAt: testNow.AddDate(0, 0, -i),
			})
		}
	}
	add("customer", models.RoleCustomer, customers)
	add("driver", models.RoleDriver, drivers)
	add("restaurant", models.RoleRestaurant, restaurants)
	return users
}

// recordingPublisher captures published notifications and can be made to fail.
type recordingPublisher struct {
	mu        sync.Mutex
	published []models.Notification
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, n models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func ptr[T any](v T) *T { return &v }
