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

type OrderFilter struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	PaymentMethod models.PaymentMethod
	CustomerID    string
	RestaurantID  string
	DriverID      string
	Search        string
	Dates         query.DateRange
}

type OrderStatistics struct {
	TotalOrders       int                          `json:"total_orders"`
	ByStatus          map[models.OrderStatus]int   `json:"by_status"`
	ByPaymentStatus   map[models.PaymentStatus]int `json:"by_payment_status"`
	DeliveredRevenue  float64                      `json:"delivered_revenue"`
	AverageOrderValue float64                      `json:"average_order_value"`
	CompletionRate    float64                      `json:"completion_rate"`
	CancellationRate  float64                      `json:"cancellation_rate"`
}

var orderSortKeys = map[string]query.Compare[models.Order]{
	"created_at":   query.ByTime(func(o models.Order) time.Time { return o.CreatedAt }),
	"total":        query.ByOrdered(func(o models.Order) float64 { return o.Total }),
	"order_number": query.ByOrdered(func(o models.Order) string { return o.OrderNumber }),
}

type OrderService struct {
	base
	orders repositories.OrderRepository
	strict bool
}

// NewOrderService creates the order service. With strictTransitions set,
// status changes must follow the lifecycle; otherwise any known status may be
// set directly as an admin override.
func NewOrderService(orders repositories.OrderRepository, strictTransitions bool, opts Options) *OrderService {
	return &OrderService{
		base:   newBase(opts, "orders"),
		orders: orders,
		strict: strictTransitions,
	}
}

func (s *OrderService) predicates(f OrderFilter) ([]query.Predicate[models.Order], error) {
	dates, err := query.TimeRange(func(o models.Order) time.Time { return o.CreatedAt }, f.Dates, s.loc)
	if err != nil {
		return nil, err
	}
	return []query.Predicate[models.Order]{
		query.Equal(func(o models.Order) models.OrderStatus { return o.Status }, f.Status),
		query.Equal(func(o models.Order) models.PaymentStatus { return o.PaymentStatus }, f.PaymentStatus),
		query.Equal(func(o models.Order) models.PaymentMethod { return o.PaymentMethod }, f.PaymentMethod),
		query.Equal(func(o models.Order) string { return o.CustomerID }, f.CustomerID),
		query.Equal(func(o models.Order) string { return o.RestaurantID }, f.RestaurantID),
		query.Equal(func(o models.Order) string { return o.DriverID }, f.DriverID),
		query.ContainsFold(func(o models.Order) []string {
			return []string{o.OrderNumber, o.CustomerName, o.RestaurantName, o.CustomerPhone}
		}, f.Search),
		dates,
	}, nil
}

func (s *OrderService) List(ctx context.Context, f OrderFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.Order], error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (query.Page[models.Order], error) {
		preds, err := s.predicates(f)
		if err != nil {
			return query.Page[models.Order]{}, err
		}
		orders, err := s.orders.List(ctx)
		if err != nil {
			return query.Page[models.Order]{}, fmt.Errorf("failed to list orders: %w", err)
		}
		return query.List[models.Order]{
			Predicates:   preds,
			Sort:         sort,
			SortKeys:     orderSortKeys,
			Page:         page,
			DefaultLimit: defaultOrderLimit,
		}.Run(orders)
	})
}

func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Order, error) {
		return s.orders.Get(ctx, id)
	})
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Order, error) {
		if !models.ValidOrderStatus(status) {
			return models.Order{}, models.Invalid("unknown order status %q", status)
		}
		var previous models.OrderStatus
		order, err := s.orders.Update(ctx, id, func(o *models.Order) error {
			if s.strict && !models.CanTransition(o.Status, status) {
				return fmt.Errorf("order %s: %s -> %s: %w", id, o.Status, status, models.ErrInvalidTransition)
			}
			previous = o.Status
			o.Status = status
			o.UpdatedAt = s.now()
			return nil
		})
		if err != nil {
			s.log.Warn("order status update rejected", "order_id", id, "status", status, "error", err)
			return models.Order{}, err
		}
		s.log.Info("order status updated", "order_id", id, "from", previous, "to", status)
		return order, nil
	})
}

func (s *OrderService) Statistics(ctx context.Context, f OrderFilter) (OrderStatistics, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (OrderStatistics, error) {
		preds, err := s.predicates(f)
		if err != nil {
			return OrderStatistics{}, err
		}
		orders, err := s.orders.List(ctx)
		if err != nil {
			return OrderStatistics{}, fmt.Errorf("failed to list orders: %w", err)
		}
		return summarizeOrders(query.Filter(orders, preds...)), nil
	})
}

func summarizeOrders(orders []models.Order) OrderStatistics {
	stats := OrderStatistics{
		TotalOrders:     len(orders),
		ByStatus:        query.CountBy(orders, func(o models.Order) models.OrderStatus { return o.Status }),
		ByPaymentStatus: query.CountBy(orders, func(o models.Order) models.PaymentStatus { return o.PaymentStatus }),
	}
	for _, status := range models.OrderStatuses {
		if _, ok := stats.ByStatus[status]; !ok {
			stats.ByStatus[status] = 0
		}
	}

	totals := make([]float64, 0, len(orders))
	var revenue float64
	for _, o := range orders {
		totals = append(totals, o.Total)
		if o.Status == models.OrderStatusDelivered {
			revenue += o.Total
		}
	}
	stats.DeliveredRevenue = query.RoundTo(revenue, 2)
	stats.AverageOrderValue = query.RoundTo(query.Average(totals), 2)
	stats.CompletionRate = query.Round1(100 * query.Ratio(stats.ByStatus[models.OrderStatusDelivered], len(orders)))
	stats.CancellationRate = query.Round1(100 * query.Ratio(stats.ByStatus[models.OrderStatusCancelled], len(orders)))
	return stats
}
