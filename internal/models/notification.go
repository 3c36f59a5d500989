package models

import (
	"strings"
	"time"
)

type DeliveryStats struct {
	Sent      int `json:"sent"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
}

type Notification struct {
	ID             string               `json:"id"`
	AdminID        string               `json:"admin_id"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	Type           NotificationType     `json:"type"`
	Priority       NotificationPriority `json:"priority"`
	TargetAudience Audience             `json:"target_audience"`
	RecipientIDs   []string             `json:"recipient_ids,omitempty"`
	ScheduledAt    *time.Time           `json:"scheduled_at,omitempty"`
	SentAt         *time.Time           `json:"sent_at,omitempty"`
	Delivery       DeliveryStats        `json:"delivery"`
	Status         NotificationStatus   `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
}

func (n Notification) GetID() string { return n.ID }

// Validate checks the field combinations a stored notification must satisfy.
func (n Notification) Validate(now time.Time) error {
	if err := n.ValidateContent(); err != nil {
		return err
	}
	switch n.Status {
	case NotificationStatusScheduled:
		if n.ScheduledAt == nil || !n.ScheduledAt.After(now) {
			return Invalid("scheduled notification needs a future scheduled_at")
		}
		if n.SentAt != nil {
			return Invalid("scheduled notification cannot have sent_at")
		}
	case NotificationStatusSent:
		if n.SentAt == nil {
			return Invalid("sent notification needs sent_at")
		}
	case NotificationStatusFailed, NotificationStatusDraft:
	default:
		return Invalid("unknown notification status %q", n.Status)
	}
	if n.Delivery.Delivered+n.Delivery.Failed > n.Delivery.Sent {
		return Invalid("delivered+failed exceeds sent")
	}
	return nil
}

// ValidateContent checks the fields an admin supplies, independent of
// delivery state.
func (n Notification) ValidateContent() error {
	if strings.TrimSpace(n.Title) == "" {
		return Invalid("notification title is required")
	}
	if strings.TrimSpace(n.Message) == "" {
		return Invalid("notification message is required")
	}
	if !validNotificationType(n.Type) {
		return Invalid("unknown notification type %q", n.Type)
	}
	if !validPriority(n.Priority) {
		return Invalid("unknown notification priority %q", n.Priority)
	}
	if !validAudience(n.TargetAudience) {
		return Invalid("unknown target audience %q", n.TargetAudience)
	}
	if n.TargetAudience == AudienceSpecific && len(n.RecipientIDs) == 0 {
		return Invalid("audience %q requires at least one recipient", AudienceSpecific)
	}
	return nil
}

type NotificationTemplate struct {
	ID             string           `json:"id"`
	AdminID        string           `json:"admin_id"`
	Name           string           `json:"name"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	TargetAudience Audience         `json:"target_audience"`
	Variables      []string         `json:"variables,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (t NotificationTemplate) GetID() string { return t.ID }

// Validate checks the required template fields.
func (t NotificationTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Invalid("template name is required")
	}
	if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Message) == "" {
		return Invalid("template title and message are required")
	}
	if !validNotificationType(t.Type) {
		return Invalid("unknown notification type %q", t.Type)
	}
	if !validAudience(t.TargetAudience) {
		return Invalid("unknown target audience %q", t.TargetAudience)
	}
	return nil
}

// Render substitutes {{name}} placeholders in title and message.
// Placeholders without a value are left untouched.
func (t NotificationTemplate) Render(values map[string]string) (title, message string) {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace(t.Title), r.Replace(t.Message)
}
