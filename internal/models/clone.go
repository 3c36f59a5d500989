package models

import "slices"

// Clone methods return a copy that shares no slices or pointers with the
// receiver, so stores can hand records out without exposing their state.

func (o Order) Clone() Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func (r DriverRating) Clone() DriverRating {
	r.Punctuality = clonePtr(r.Punctuality)
	r.Communication = clonePtr(r.Communication)
	r.ServiceQuality = clonePtr(r.ServiceQuality)
	r.Images = slices.Clone(r.Images)
	return r
}

func (n Notification) Clone() Notification {
	n.RecipientIDs = slices.Clone(n.RecipientIDs)
	n.ScheduledAt = clonePtr(n.ScheduledAt)
	n.SentAt = clonePtr(n.SentAt)
	return n
}

func (t NotificationTemplate) Clone() NotificationTemplate {
	t.Variables = slices.Clone(t.Variables)
	return t
}

func (r Reward) Clone() Reward {
	r.ExpiryDays = clonePtr(r.ExpiryDays)
	return r
}

func (u UserReward) Clone() UserReward {
	u.Reward.ExpiryDays = clonePtr(u.Reward.ExpiryDays)
	u.ExpiresAt = clonePtr(u.ExpiresAt)
	u.UsedAt = clonePtr(u.UsedAt)
	return u
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
