package model

import "time"

type Package struct {
	PackageID    string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	DeliveryDays int       `json:"delivery_days"`
	Category     string    `json:"category"`
	Image        *string   `json:"image,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
