package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
)

func TestUserList(t *testing.T) {
	svc := NewUserService(storeWith(t, "user", testUsers(12, 6, 3)...), testOptions())

	tests := []struct {
		name      string
		filter    UserFilter
		sort      query.SortSpec
		wantTotal int
		wantFirst string
	}{
		{"all", UserFilter{}, query.SortSpec{}, 21, "customer-01"},
		{"drivers", UserFilter{Role: models.RoleDriver}, query.SortSpec{}, 6, "driver-01"},
		{"activeCustomers", UserFilter{Role: models.RoleCustomer, Active: ptr(true)}, query.SortSpec{}, 10, "customer-01"},
		{"inactive", UserFilter{Active: ptr(false)}, query.SortSpec{}, 3, "customer-05"},
		{"topSpender", UserFilter{Role: models.RoleCustomer}, query.SortSpec{Field: "total_spent", Direction: query.SortDesc}, 12, "customer-12"},
		{"searchEmail", UserFilter{Search: "RESTAURANT2@"}, query.SortSpec{}, 1, "restaurant-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tt.filter, tt.sort, query.PageRequest{})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if page.Pagination.Total != tt.wantTotal {
				t.Errorf("List() total = %d, want %d", page.Pagination.Total, tt.wantTotal)
			}
			if page.Items[0].ID != tt.wantFirst {
				t.Errorf("List() first = %s, want %s", page.Items[0].ID, tt.wantFirst)
			}
		})
	}

	if _, err := svc.List(context.Background(), UserFilter{}, query.SortSpec{Field: "height"}, query.PageRequest{}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("List(unknown sort) error = %v", err)
	}
	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get(nobody) error = %v", err)
	}
}
