package models

import (
	"time"
)

// User is the live directory entry; ratings and rewards keep snapshots of it.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        UserRole  `json:"role"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	LastOrderAt time.Time `json:"last_order_at"`
}

func (u User) GetID() string { return u.ID }

func (u User) Snapshot() UserSnapshot {
	return UserSnapshot{ID: u.ID, Name: u.Name, Email: u.Email}
}
