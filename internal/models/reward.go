package models

import (
	"strings"
	"time"
)

type Reward struct {
	ID          string     `json:"id"`
	AdminID     string     `json:"admin_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        RewardType `json:"type"`
	Value       float64    `json:"value"`
	ExpiryDays  *int       `json:"expiry_days,omitempty"`
	UsageLimit  int        `json:"usage_limit"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (r Reward) GetID() string { return r.ID }

func (r Reward) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return Invalid("reward name is required")
	}
	if !validRewardType(r.Type) {
		return Invalid("unknown reward type %q", r.Type)
	}
	if r.Value < 0 {
		return Invalid("reward value must not be negative")
	}
	if r.Type == RewardDiscountCoupon && r.Value > 100 {
		return Invalid("discount coupon percentage must be at most 100")
	}
	if r.UsageLimit < 1 {
		return Invalid("usage limit must be at least 1")
	}
	if r.ExpiryDays != nil && *r.ExpiryDays < 1 {
		return Invalid("expiry days must be at least 1")
	}
	return nil
}

// Snapshot copies the fields a user reward keeps about its reward.
func (r Reward) Snapshot() RewardSnapshot {
	snap := RewardSnapshot{
		ID:         r.ID,
		Name:       r.Name,
		Type:       r.Type,
		Value:      r.Value,
		UsageLimit: r.UsageLimit,
	}
	if r.ExpiryDays != nil {
		days := *r.ExpiryDays
		snap.ExpiryDays = &days
	}
	return snap
}

type RewardSnapshot struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       RewardType `json:"type"`
	Value      float64    `json:"value"`
	ExpiryDays *int       `json:"expiry_days,omitempty"`
	UsageLimit int        `json:"usage_limit"`
}

type UserSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserReward struct {
	ID         string           `json:"id"`
	Reward     RewardSnapshot   `json:"reward"`
	User       UserSnapshot     `json:"user"`
	AdminID    string           `json:"admin_id"`
	AssignedAt time.Time        `json:"assigned_at"`
	ExpiresAt  *time.Time       `json:"expires_at,omitempty"`
	UsedAt     *time.Time       `json:"used_at,omitempty"`
	UsedCount  int              `json:"used_count"`
	Status     UserRewardStatus `json:"status"`
	Notes      string           `json:"notes,omitempty"`
}

func (u UserReward) GetID() string { return u.ID }

// IsExpired reports whether the assignment is past its expiry at now,
// independently of the stored status.
func (u UserReward) IsExpired(now time.Time) bool {
	return u.ExpiresAt != nil && !u.ExpiresAt.After(now)
}
