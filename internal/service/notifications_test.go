package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/repositories/memory"
)

func newNotificationFixture(t *testing.T, pub *recordingPublisher) (*NotificationService, *memory.Store[models.Notification]) {
	t.Helper()
	store := storeWith[models.Notification](t, "notification")
	users := storeWith(t, "user", testUsers(40, 5, 2)...)
	return NewNotificationService(store, users, pub, testOptions()), store
}

func TestNotificationSend(t *testing.T) {
	future := testNow.Add(24 * time.Hour)
	past := testNow.Add(-time.Hour)

	tests := []struct {
		name          string
		req           SendRequest
		wantStatus    models.NotificationStatus
		wantDelivery  models.DeliveryStats
		wantPublished int
	}{
		{
			name:          "broadcastToCustomers",
			req:           SendRequest{Title: "Hi", Message: "Deal", Type: models.NotificationTypePromotion, TargetAudience: models.AudienceCustomers},
			wantStatus:    models.NotificationStatusSent,
			wantDelivery:  models.DeliveryStats{Sent: 40, Delivered: 38, Failed: 2},
			wantPublished: 1,
		},
		{
			name:          "everyone",
			req:           SendRequest{Title: "Hi", Message: "All", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceAll},
			wantStatus:    models.NotificationStatusSent,
			wantDelivery:  models.DeliveryStats{Sent: 47, Delivered: 45, Failed: 2},
			wantPublished: 1,
		},
		{
			name: "specificRecipientsDeduped",
			req: SendRequest{Title: "Hi", Message: "You", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceSpecific,
				RecipientIDs: []string{"driver-01", "driver-02", "driver-01"}},
			wantStatus:    models.NotificationStatusSent,
			wantDelivery:  models.DeliveryStats{Sent: 2, Delivered: 2},
			wantPublished: 1,
		},
		{
			name:         "scheduled",
			req:          SendRequest{Title: "Later", Message: "Soon", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceDrivers, ScheduledAt: &future},
			wantStatus:   models.NotificationStatusScheduled,
			wantDelivery: models.DeliveryStats{Pending: 5},
		},
		{
			name:          "scheduledInPastSendsNow",
			req:           SendRequest{Title: "Late", Message: "Now", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceRestaurants, ScheduledAt: &past},
			wantStatus:    models.NotificationStatusSent,
			wantDelivery:  models.DeliveryStats{Sent: 2, Delivered: 2},
			wantPublished: 1,
		},
		{
			name:       "draft",
			req:        SendRequest{Title: "Draft", Message: "WIP", Type: models.NotificationTypeWarning, TargetAudience: models.AudienceAll, Draft: true},
			wantStatus: models.NotificationStatusDraft,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc, store := newNotificationFixture(t, pub)

			n, err := svc.Send(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if n.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", n.Status, tt.wantStatus)
			}
			if n.Delivery != tt.wantDelivery {
				t.Errorf("Delivery = %+v, want %+v", n.Delivery, tt.wantDelivery)
			}
			if pub.count() != tt.wantPublished {
				t.Errorf("published %d, want %d", pub.count(), tt.wantPublished)
			}
			if n.Priority != models.PriorityMedium || n.AdminID != "admin-test" || !n.CreatedAt.Equal(testNow) {
				t.Errorf("defaults not applied: %+v", n)
			}
			if (n.SentAt != nil) != (tt.wantStatus == models.NotificationStatusSent) {
				t.Errorf("SentAt = %v for status %s", n.SentAt, n.Status)
			}
			if _, err := store.Get(context.Background(), n.ID); err != nil {
				t.Errorf("notification not stored: %v", err)
			}
		})
	}
}

func TestNotificationSendRejects(t *testing.T) {
	tests := []struct {
		name    string
		req     SendRequest
		wantErr error
	}{
		{"noTitle", SendRequest{Message: "x", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceAll}, models.ErrValidation},
		{"badType", SendRequest{Title: "x", Message: "x", Type: "shout", TargetAudience: models.AudienceAll}, models.ErrValidation},
		{"badAudience", SendRequest{Title: "x", Message: "x", Type: models.NotificationTypeInfo, TargetAudience: "aliens"}, models.ErrValidation},
		{"specificWithoutRecipients", SendRequest{Title: "x", Message: "x", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceSpecific}, models.ErrValidation},
		{"unknownRecipient", SendRequest{Title: "x", Message: "x", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceSpecific, RecipientIDs: []string{"ghost"}}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc, store := newNotificationFixture(t, pub)
			if _, err := svc.Send(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
			}
			if n, _ := store.Count(context.Background()); n != 0 {
				t.Errorf("rejected send stored %d notifications", n)
			}
			if pub.count() != 0 {
				t.Errorf("rejected send published %d", pub.count())
			}
		})
	}
}

func TestNotificationDispatchFailureIsRecorded(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, _ := newNotificationFixture(t, pub)

	n, err := svc.Send(context.Background(), SendRequest{
		Title: "Hi", Message: "Deal", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceDrivers,
	})
	if err != nil {
		t.Fatalf("Send() error = %v, dispatch failures are stored not returned", err)
	}
	if n.Status != models.NotificationStatusFailed || n.SentAt != nil {
		t.Errorf("Send() = %s sent at %v, want failed without sent_at", n.Status, n.SentAt)
	}
	if n.Delivery != (models.DeliveryStats{Sent: 5, Failed: 5}) {
		t.Errorf("Delivery = %+v", n.Delivery)
	}
}

func TestNotificationResend(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc, store := newNotificationFixture(t, pub)

	sentAt := testNow.Add(-48 * time.Hour)
	src := models.Notification{
		ID: "n-src", AdminID: "someone", Title: "Old", Message: "News",
		Type: models.NotificationTypeInfo, Priority: models.PriorityHigh, TargetAudience: models.AudienceDrivers,
		Status: models.NotificationStatusFailed, SentAt: &sentAt, CreatedAt: sentAt,
		Delivery: models.DeliveryStats{Sent: 5, Failed: 5},
	}
	if err := store.Insert(ctx, src); err != nil {
		t.Fatal(err)
	}

	n, err := svc.Resend(ctx, "n-src")
	if err != nil {
		t.Fatal(err)
	}
	if n.ID == "n-src" || n.AdminID != "admin-test" || !n.CreatedAt.Equal(testNow) {
		t.Errorf("Resend() = %+v", n)
	}
	if n.Status != models.NotificationStatusSent || n.Priority != models.PriorityHigh || n.Delivery.Sent != 5 {
		t.Errorf("Resend() = %s %s %+v", n.Status, n.Priority, n.Delivery)
	}
	original, _ := store.Get(ctx, "n-src")
	if original.Status != models.NotificationStatusFailed {
		t.Errorf("source changed to %s", original.Status)
	}
	if c, _ := store.Count(ctx); c != 2 {
		t.Errorf("Count() = %d, want 2", c)
	}
	if _, err := svc.Resend(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Resend(missing) error = %v", err)
	}
}

func TestNotificationListDeleteAndStatistics(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationFixture(t, &recordingPublisher{})

	var ids []string
	for _, req := range []SendRequest{
		{Title: "A", Message: "a", Type: models.NotificationTypeInfo, Priority: models.PriorityLow, TargetAudience: models.AudienceCustomers},
		{Title: "B", Message: "b", Type: models.NotificationTypePromotion, Priority: models.PriorityHigh, TargetAudience: models.AudienceDrivers},
		{Title: "C", Message: "c", Type: models.NotificationTypeInfo, TargetAudience: models.AudienceAll, Draft: true},
	} {
		n, err := svc.Send(ctx, req)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n.ID)
	}

	page, err := svc.List(ctx, NotificationFilter{}, query.SortSpec{Field: "priority", Direction: query.SortDesc}, query.PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 3 || page.Items[0].Title != "B" || page.Items[2].Title != "A" {
		t.Errorf("List(priority desc) = %+v", page.Items)
	}
	page, _ = svc.List(ctx, NotificationFilter{Type: models.NotificationTypeInfo}, query.SortSpec{}, query.PageRequest{})
	if page.Pagination.Total != 2 {
		t.Errorf("List(type info) total = %d, want 2", page.Pagination.Total)
	}

	stats, err := svc.Statistics(ctx, NotificationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	// 40 customers (2 failed) and 5 drivers.
	if stats.TotalNotifications != 3 || stats.TotalSent != 45 || stats.TotalDelivered != 43 || stats.TotalFailed != 2 {
		t.Errorf("Statistics() = %+v", stats)
	}
	if stats.DeliveryRate != 95.6 || stats.ByStatus[models.NotificationStatusDraft] != 1 {
		t.Errorf("DeliveryRate = %v, ByStatus = %v", stats.DeliveryRate, stats.ByStatus)
	}

	if err := svc.Delete(ctx, ids[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, ids[0]); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v", err)
	}
	if err := svc.Delete(ctx, ids[0]); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}
