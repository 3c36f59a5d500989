package models

import "time"

// DriverSnapshot is the driver as seen when the rating was written.
type DriverSnapshot struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	TotalRatings  int     `json:"total_ratings"`
	AverageRating float64 `json:"average_rating"`
}

type CustomerSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TotalOrders int    `json:"total_orders"`
}

type OrderSnapshot struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
}

type DriverRating struct {
	ID             string           `json:"id"`
	Driver         DriverSnapshot   `json:"driver"`
	Customer       CustomerSnapshot `json:"customer"`
	Order          OrderSnapshot    `json:"order"`
	Rating         float64          `json:"rating"`
	Comment        string           `json:"comment,omitempty"`
	Punctuality    *float64         `json:"punctuality,omitempty"`
	Communication  *float64         `json:"communication,omitempty"`
	ServiceQuality *float64         `json:"service_quality,omitempty"`
	Images         []string         `json:"images,omitempty"`
	IsHidden       bool             `json:"is_hidden"`
	IsDeleted      bool             `json:"is_deleted"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (r DriverRating) GetID() string { return r.ID }

// Countable reports whether the rating takes part in statistics.
func (r DriverRating) Countable() bool {
	return !r.IsDeleted && !r.IsHidden
}
