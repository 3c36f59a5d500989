package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/foodadmin/internal/factories"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
)

func fixtureOrders(t *testing.T, n int) []models.Order {
	t.Helper()
	f := factories.New(1, testNow)
	customers := []models.User{f.CreateCustomer(), f.CreateCustomer()}
	drivers := []models.User{f.CreateDriver()}
	restaurants := []factories.Restaurant{f.CreateRestaurant()}
	return f.CreateOrders(n, customers, restaurants, drivers)
}

func TestOrderListDeliveredPage(t *testing.T) {
	orders := fixtureOrders(t, 50)
	svc := NewOrderService(storeWith(t, "order", orders...), false, testOptions())

	var want []string
	for _, o := range orders {
		if o.Status == models.OrderStatusDelivered {
			want = append(want, o.OrderNumber)
		}
	}

	page, err := svc.List(context.Background(),
		OrderFilter{Status: models.OrderStatusDelivered},
		query.SortSpec{},
		query.PageRequest{Page: 1, Limit: 10},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 7 || len(want) != 7 {
		t.Fatalf("len(Items) = %d, want 7 (fixture has %d)", len(page.Items), len(want))
	}
	if page.Pagination.Total != 7 || page.Pagination.TotalPages != 1 {
		t.Errorf("Pagination = %+v, want total 7 over 1 page", page.Pagination)
	}
	for i, o := range page.Items {
		if o.Status != models.OrderStatusDelivered {
			t.Errorf("item %d status = %s", i, o.Status)
		}
		if o.OrderNumber != want[i] {
			t.Errorf("item %d = %s, want %s in store order", i, o.OrderNumber, want[i])
		}
	}
}

func TestOrderListSortedByCreatedAt(t *testing.T) {
	svc := NewOrderService(storeWith(t, "order", fixtureOrders(t, 50)...), false, testOptions())

	page, err := svc.List(context.Background(),
		OrderFilter{Status: models.OrderStatusDelivered},
		query.SortSpec{Field: "created_at", Direction: query.SortDesc},
		query.PageRequest{Page: 1, Limit: 10},
	)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].CreatedAt.After(page.Items[i-1].CreatedAt) {
			t.Errorf("item %d is newer than item %d", i, i-1)
		}
	}
}

func TestOrderListDefaultsAndValidation(t *testing.T) {
	svc := NewOrderService(storeWith(t, "order", fixtureOrders(t, 25)...), false, testOptions())
	ctx := context.Background()

	page, err := svc.List(ctx, OrderFilter{}, query.SortSpec{}, query.PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Pagination.Limit != 10 || len(page.Items) != 10 || page.Pagination.TotalPages != 3 {
		t.Errorf("default page = %+v (%d items)", page.Pagination, len(page.Items))
	}

	tests := []struct {
		name   string
		filter OrderFilter
		sort   query.SortSpec
		page   query.PageRequest
	}{
		{"unknownSortField", OrderFilter{}, query.SortSpec{Field: "tip"}, query.PageRequest{}},
		{"negativeLimit", OrderFilter{}, query.SortSpec{}, query.PageRequest{Limit: -1}},
		{"badDate", OrderFilter{Dates: query.DateRange{From: "soon"}}, query.SortSpec{}, query.PageRequest{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.List(ctx, tt.filter, tt.sort, tt.page); !errors.Is(err, models.ErrValidation) {
				t.Errorf("List() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestOrderListDateRange(t *testing.T) {
	orders := fixtureOrders(t, 20)
	svc := NewOrderService(storeWith(t, "order", orders...), false, testOptions())

	// Orders are three hours apart going back from testNow, so the previous
	// calendar day holds eight of them.
	day := testNow.AddDate(0, 0, -1).Format("2006-01-02")
	page, err := svc.List(context.Background(),
		OrderFilter{Dates: query.DateRange{From: day, To: day}},
		query.SortSpec{}, query.PageRequest{Limit: 50},
	)
	if err != nil {
		t.Fatal(err)
	}
	want := 0
	for _, o := range orders {
		if o.CreatedAt.Format("2006-01-02") == day {
			want++
		}
	}
	if want != 8 {
		t.Fatalf("fixture has %d orders on the previous day, want 8", want)
	}
	if page.Pagination.Total != want {
		t.Errorf("Total = %d, want %d", page.Pagination.Total, want)
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	base := models.Order{ID: "o1", OrderNumber: "ORD-00001", Status: models.OrderStatusPending, CreatedAt: testNow.Add(-time.Hour)}

	tests := []struct {
		name    string
		strict  bool
		from    models.OrderStatus
		to      models.OrderStatus
		wantErr error
	}{
		{"lenientForward", false, models.OrderStatusPending, models.OrderStatusConfirmed, nil},
		{"lenientBackward", false, models.OrderStatusDelivered, models.OrderStatusPending, nil},
		{"strictForward", true, models.OrderStatusPending, models.OrderStatusConfirmed, nil},
		{"strictSkip", true, models.OrderStatusPending, models.OrderStatusPreparing, models.ErrInvalidTransition},
		{"strictCancel", true, models.OrderStatusReady, models.OrderStatusCancelled, nil},
		{"strictFromTerminal", true, models.OrderStatusCancelled, models.OrderStatusPending, models.ErrInvalidTransition},
		{"unknownStatus", false, models.OrderStatusPending, "teleported", models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			o.Status = tt.from
			store := storeWith(t, "order", o)
			svc := NewOrderService(store, tt.strict, testOptions())

			got, err := svc.UpdateStatus(context.Background(), "o1", tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpdateStatus() error = %v, want %v", err, tt.wantErr)
				}
				stored, _ := store.Get(context.Background(), "o1")
				if stored.Status != tt.from {
					t.Errorf("rejected update changed status to %s", stored.Status)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Status != tt.to || !got.UpdatedAt.Equal(testNow) {
				t.Errorf("UpdateStatus() = %s at %v", got.Status, got.UpdatedAt)
			}
		})
	}

	svc := NewOrderService(storeWith(t, "order", base), false, testOptions())
	if _, err := svc.UpdateStatus(context.Background(), "missing", models.OrderStatusReady); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateStatus(missing) error = %v, want ErrNotFound", err)
	}
}

func TestOrderStatistics(t *testing.T) {
	orders := []models.Order{
		{ID: "1", Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid, Total: 10, CustomerName: "Ada"},
		{ID: "2", Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid, Total: 20},
		{ID: "3", Status: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusRefunded, Total: 5},
		{ID: "4", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending, Total: 7.5},
	}
	svc := NewOrderService(storeWith(t, "order", orders...), false, testOptions())

	stats, err := svc.Statistics(context.Background(), OrderFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalOrders != 4 || stats.DeliveredRevenue != 30 || stats.AverageOrderValue != 10.63 {
		t.Errorf("Statistics() = %+v", stats)
	}
	if stats.CompletionRate != 50 || stats.CancellationRate != 25 {
		t.Errorf("rates = %v / %v, want 50 / 25", stats.CompletionRate, stats.CancellationRate)
	}
	if len(stats.ByStatus) != len(models.OrderStatuses) || stats.ByStatus[models.OrderStatusReady] != 0 {
		t.Errorf("ByStatus = %v, want every status present", stats.ByStatus)
	}
	if stats.ByPaymentStatus[models.PaymentStatusPaid] != 2 {
		t.Errorf("ByPaymentStatus = %v", stats.ByPaymentStatus)
	}

	empty, err := svc.Statistics(context.Background(), OrderFilter{Search: "nobody"})
	if err != nil {
		t.Fatal(err)
	}
	if empty.TotalOrders != 0 || empty.AverageOrderValue != 0 || empty.CompletionRate != 0 {
		t.Errorf("empty Statistics() = %+v", empty)
	}
}
