package factories

import (
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
)

type notificationSeed struct {
	title    string
	message  string
	kind     models.NotificationType
	priority models.NotificationPriority
	audience models.Audience
}

var notificationSeeds = []notificationSeed{
	{"Weekend special", "Get 20% off all orders this weekend.", models.NotificationTypePromotion, models.PriorityMedium, models.AudienceCustomers},
	{"Scheduled maintenance", "The app will be unavailable on Sunday from 2am to 4am.", models.NotificationTypeWarning, models.PriorityHigh, models.AudienceAll},
	{"New surge zones", "Higher delivery fees now apply in the city centre at peak times.", models.NotificationTypeInfo, models.PriorityMedium, models.AudienceDrivers},
	{"Payout processed", "Your weekly payout has been processed.", models.NotificationTypeSuccess, models.PriorityLow, models.AudienceDrivers},
	{"Menu sync failed", "We could not sync your latest menu changes. Please retry.", models.NotificationTypeError, models.PriorityHigh, models.AudienceRestaurants},
	{"Free delivery", "Free delivery on your next order over $25.", models.NotificationTypePromotion, models.PriorityLow, models.AudienceCustomers},
	{"Account review", "Please confirm your account details.", models.NotificationTypeInfo, models.PriorityMedium, models.AudienceSpecific},
}

// CreateNotifications builds n notifications whose counters match the
// audience sizes in users.
func (f *Factory) CreateNotifications(n int, adminID string, users []models.User) []models.Notification {
	if n <= 0 {
		return []models.Notification{}
	}
	out := make([]models.Notification, n)
	for i := range out {
		out[i] = f.createNotification(adminID, users)
	}
	return out
}

func (f *Factory) createNotification(adminID string, users []models.User) models.Notification {
	seed := notificationSeeds[f.fake.IntBetween(0, len(notificationSeeds)-1)]
	createdAt := f.timeBefore(time.Hour, 60*day)
	n := models.Notification{
		ID:             f.id(),
		AdminID:        adminID,
		Title:          seed.title,
		Message:        seed.message,
		Type:           seed.kind,
		Priority:       seed.priority,
		TargetAudience: seed.audience,
		CreatedAt:      createdAt,
	}

	audience := 0
	if seed.audience == models.AudienceSpecific {
		n.RecipientIDs = f.recipients(users)
		audience = len(n.RecipientIDs)
		if audience == 0 {
			n.TargetAudience = models.AudienceAll
		}
	}
	if n.TargetAudience != models.AudienceSpecific {
		audience = audienceCount(n.TargetAudience, users)
	}

	switch r := f.fake.IntBetween(1, 100); {
	case r <= 70:
		sentAt := createdAt
		failed := audience / 20
		n.Status = models.NotificationStatusSent
		n.SentAt = &sentAt
		n.Delivery = models.DeliveryStats{Sent: audience, Delivered: audience - failed, Failed: failed}
	case r <= 82:
		at := f.now.Add(time.Duration(f.fake.IntBetween(1, 14*24)) * time.Hour)
		n.Status = models.NotificationStatusScheduled
		n.ScheduledAt = &at
		n.Delivery = models.DeliveryStats{Pending: audience}
	case r <= 92:
		n.Status = models.NotificationStatusDraft
	default:
		n.Status = models.NotificationStatusFailed
		n.Delivery = models.DeliveryStats{Sent: audience, Failed: audience}
	}
	return n
}

func (f *Factory) recipients(users []models.User) []string {
	if len(users) == 0 {
		return nil
	}
	count := f.fake.IntBetween(1, min(5, len(users)))
	start := f.fake.IntBetween(0, len(users)-count)
	ids := make([]string, count)
	for i := range ids {
		ids[i] = users[start+i].ID
	}
	return ids
}

func audienceCount(a models.Audience, users []models.User) int {
	count := 0
	for _, u := range users {
		switch {
		case a == models.AudienceAll,
			a == models.AudienceCustomers && u.Role == models.RoleCustomer,
			a == models.AudienceDrivers && u.Role == models.RoleDriver,
			a == models.AudienceRestaurants && u.Role == models.RoleRestaurant:
			count++
		}
	}
	return count
}

// CreateTemplates returns the stock notification templates.
func (f *Factory) CreateTemplates(adminID string) []models.NotificationTemplate {
	stock := []models.NotificationTemplate{
		{
			Name:           "Order delayed",
			Title:          "Your order {{order_number}} is running late",
			Message:        "Sorry {{customer_name}}, your order will arrive in about {{minutes}} minutes.",
			Type:           models.NotificationTypeWarning,
			TargetAudience: models.AudienceSpecific,
			Variables:      []string{"order_number", "customer_name", "minutes"},
		},
		{
			Name:           "Promo code",
			Title:          "{{discount}}% off today",
			Message:        "Use code {{code}} at checkout before {{expires}}.",
			Type:           models.NotificationTypePromotion,
			TargetAudience: models.AudienceCustomers,
			Variables:      []string{"discount", "code", "expires"},
		},
		{
			Name:           "Driver bonus",
			Title:          "Earn a {{amount}} bonus",
			Message:        "Complete {{trips}} deliveries this week to earn a bonus.",
			Type:           models.NotificationTypeSuccess,
			TargetAudience: models.AudienceDrivers,
			Variables:      []string{"amount", "trips"},
		},
		{
			Name:           "Menu reminder",
			Title:          "Update your menu",
			Message:        "Keep your menu current so customers see accurate prices.",
			Type:           models.NotificationTypeInfo,
			TargetAudience: models.AudienceRestaurants,
		},
	}
	for i := range stock {
		created := f.timeBefore(30*day, 365*day)
		stock[i].ID = f.id()
		stock[i].AdminID = adminID
		stock[i].CreatedAt = created
		stock[i].UpdatedAt = created
	}
	return stock
}
