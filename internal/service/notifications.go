package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/foodadmin/internal/dispatch"
	"github.com/chrisdamba/foodadmin/internal/latency"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/repositories"
)

// failureRatio is the simulated share of recipients a send fails to reach.
const failureRatio = 20

type NotificationFilter struct {
	Status   models.NotificationStatus
	Type     models.NotificationType
	Priority models.NotificationPriority
	Audience models.Audience
	Search   string
	Dates    query.DateRange
}

// SendRequest is the payload of a new notification. A ScheduledAt in the
// future schedules it instead of sending; Draft stores it without sending.
type SendRequest struct {
	Title          string
	Message        string
	Type           models.NotificationType
	Priority       models.NotificationPriority
	TargetAudience models.Audience
	RecipientIDs   []string
	ScheduledAt    *time.Time
	Draft          bool
}

type NotificationStatistics struct {
	TotalNotifications int                               `json:"total_notifications"`
	ByStatus           map[models.NotificationStatus]int `json:"by_status"`
	ByType             map[models.NotificationType]int   `json:"by_type"`
	TotalSent          int                               `json:"total_sent"`
	TotalDelivered     int                               `json:"total_delivered"`
	TotalFailed        int                               `json:"total_failed"`
	TotalPending       int                               `json:"total_pending"`
	DeliveryRate       float64                           `json:"delivery_rate"`
}

var notificationSortKeys = map[string]query.Compare[models.Notification]{
	"created_at": query.ByTime(func(n models.Notification) time.Time { return n.CreatedAt }),
	"priority":   query.ByOrdered(func(n models.Notification) int { return n.Priority.Rank() }),
}

type NotificationService struct {
	base
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	publisher     dispatch.Publisher
}

func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, publisher dispatch.Publisher, opts Options) *NotificationService {
	s := &NotificationService{
		base:          newBase(opts, "notifications"),
		notifications: notifications,
		users:         users,
		publisher:     publisher,
	}
	if s.publisher == nil {
		s.publisher = dispatch.NewLogPublisher(s.log)
	}
	return s
}

func (s *NotificationService) predicates(f NotificationFilter) ([]query.Predicate[models.Notification], error) {
	dates, err := query.TimeRange(func(n models.Notification) time.Time { return n.CreatedAt }, f.Dates, s.loc)
	if err != nil {
		return nil, err
	}
	return []query.Predicate[models.Notification]{
		query.Equal(func(n models.Notification) models.NotificationStatus { return n.Status }, f.Status),
		query.Equal(func(n models.Notification) models.NotificationType { return n.Type }, f.Type),
		query.Equal(func(n models.Notification) models.NotificationPriority { return n.Priority }, f.Priority),
		query.Equal(func(n models.Notification) models.Audience { return n.TargetAudience }, f.Audience),
		query.ContainsFold(func(n models.Notification) []string { return []string{n.Title, n.Message} }, f.Search),
		dates,
	}, nil
}

func (s *NotificationService) List(ctx context.Context, f NotificationFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.Notification], error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (query.Page[models.Notification], error) {
		preds, err := s.predicates(f)
		if err != nil {
			return query.Page[models.Notification]{}, err
		}
		all, err := s.notifications.List(ctx)
		if err != nil {
			return query.Page[models.Notification]{}, fmt.Errorf("failed to list notifications: %w", err)
		}
		return query.List[models.Notification]{
			Predicates:   preds,
			Sort:         sort,
			SortKeys:     notificationSortKeys,
			Page:         page,
			DefaultLimit: defaultNotificationLimit,
		}.Run(all)
	})
}

func (s *NotificationService) Get(ctx context.Context, id string) (models.Notification, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Notification, error) {
		return s.notifications.Get(ctx, id)
	})
}

// Send creates a notification and, unless it is scheduled or a draft, hands it
// to the publisher. A publisher failure is recorded on the notification as
// status failed rather than returned.
func (s *NotificationService) Send(ctx context.Context, req SendRequest) (models.Notification, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Notification, error) {
		now := s.now()
		n := models.Notification{
			ID:             s.newID(),
			AdminID:        s.adminID,
			Title:          req.Title,
			Message:        req.Message,
			Type:           req.Type,
			Priority:       req.Priority,
			TargetAudience: req.TargetAudience,
			RecipientIDs:   dedupe(req.RecipientIDs),
			CreatedAt:      now,
		}
		if n.Priority == "" {
			n.Priority = models.PriorityMedium
		}
		if req.ScheduledAt != nil {
			at := *req.ScheduledAt
			n.ScheduledAt = &at
		}
		if err := n.ValidateContent(); err != nil {
			return models.Notification{}, err
		}

		audience, err := s.audienceSize(ctx, n)
		if err != nil {
			return models.Notification{}, err
		}
		switch {
		case req.Draft:
			n.Status = models.NotificationStatusDraft
		case n.ScheduledAt != nil && n.ScheduledAt.After(now):
			n.Status = models.NotificationStatusScheduled
			n.Delivery = models.DeliveryStats{Pending: audience}
		default:
			n.ScheduledAt = nil
			s.deliver(ctx, &n, audience, now)
		}

		if err := n.Validate(now); err != nil {
			return models.Notification{}, err
		}
		if err := s.notifications.Insert(ctx, n); err != nil {
			return models.Notification{}, err
		}
		s.log.Info("notification created", "notification_id", n.ID, "status", n.Status, "audience", n.TargetAudience, "recipients", audience)
		return n, nil
	})
}

// Resend clones an existing notification as a new record and sends it now.
func (s *NotificationService) Resend(ctx context.Context, id string) (models.Notification, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Notification, error) {
		src, err := s.notifications.Get(ctx, id)
		if err != nil {
			return models.Notification{}, err
		}
		now := s.now()
		n := src
		n.ID = s.newID()
		n.AdminID = s.adminID
		n.RecipientIDs = append([]string(nil), src.RecipientIDs...)
		n.ScheduledAt = nil
		n.CreatedAt = now

		audience, err := s.audienceSize(ctx, n)
		if err != nil {
			return models.Notification{}, err
		}
		s.deliver(ctx, &n, audience, now)

		if err := n.Validate(now); err != nil {
			return models.Notification{}, err
		}
		if err := s.notifications.Insert(ctx, n); err != nil {
			return models.Notification{}, err
		}
		s.log.Info("notification resent", "source_id", id, "notification_id", n.ID, "status", n.Status)
		return n, nil
	})
}

// Delete removes a notification from the store.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return latency.Exec(ctx, s.latency, func(ctx context.Context) error {
		if err := s.notifications.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info("notification deleted", "notification_id", id)
		return nil
	})
}

func (s *NotificationService) Statistics(ctx context.Context, f NotificationFilter) (NotificationStatistics, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (NotificationStatistics, error) {
		preds, err := s.predicates(f)
		if err != nil {
			return NotificationStatistics{}, err
		}
		all, err := s.notifications.List(ctx)
		if err != nil {
			return NotificationStatistics{}, fmt.Errorf("failed to list notifications: %w", err)
		}
		matched := query.Filter(all, preds...)

		stats := NotificationStatistics{
			TotalNotifications: len(matched),
			ByStatus:           query.CountBy(matched, func(n models.Notification) models.NotificationStatus { return n.Status }),
			ByType:             query.CountBy(matched, func(n models.Notification) models.NotificationType { return n.Type }),
		}
		for _, n := range matched {
			stats.TotalSent += n.Delivery.Sent
			stats.TotalDelivered += n.Delivery.Delivered
			stats.TotalFailed += n.Delivery.Failed
			stats.TotalPending += n.Delivery.Pending
		}
		stats.DeliveryRate = query.Round1(100 * query.Ratio(stats.TotalDelivered, stats.TotalSent))
		return stats, nil
	})
}

// deliver publishes n and fills in its counters and status.
func (s *NotificationService) deliver(ctx context.Context, n *models.Notification, audience int, now time.Time) {
	sentAt := now
	n.SentAt = &sentAt
	n.Status = models.NotificationStatusSent
	failed := audience / failureRatio
	n.Delivery = models.DeliveryStats{
		Sent:      audience,
		Delivered: audience - failed,
		Failed:    failed,
	}

	if err := s.publisher.Publish(ctx, *n); err != nil {
		s.log.Warn("notification dispatch failed", "notification_id", n.ID, "error", err)
		n.Status = models.NotificationStatusFailed
		n.SentAt = nil
		n.Delivery = models.DeliveryStats{Sent: audience, Failed: audience}
	}
}

// audienceSize counts the recipients a notification addresses. Specific
// audiences must name existing users.
func (s *NotificationService) audienceSize(ctx context.Context, n models.Notification) (int, error) {
	if n.TargetAudience == models.AudienceSpecific {
		if len(n.RecipientIDs) == 0 {
			return 0, models.Invalid("audience %q requires at least one recipient", models.AudienceSpecific)
		}
		for _, id := range n.RecipientIDs {
			if _, err := s.users.Get(ctx, id); err != nil {
				return 0, err
			}
		}
		return len(n.RecipientIDs), nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}
	return len(query.Filter(users, audiencePredicate(n.TargetAudience))), nil
}

// audiencePredicate matches users in a broadcast audience. It returns nil
// (everyone) for AudienceAll.
func audiencePredicate(a models.Audience) query.Predicate[models.User] {
	var role models.UserRole
	switch a {
	case models.AudienceCustomers:
		role = models.RoleCustomer
	case models.AudienceDrivers:
		role = models.RoleDriver
	case models.AudienceRestaurants:
		role = models.RoleRestaurant
	default:
		return nil
	}
	return query.Equal(func(u models.User) models.UserRole { return u.Role }, role)
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
