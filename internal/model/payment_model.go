package model

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type Payment struct {
	PaymentID       int64      `json:"payment_id"`
	OrderID         string     `json:"order_id"`
	PayPalOrderID   string     `json:"paypal_order_id"`
	PayPalCaptureID *string    `json:"paypal_capture_id,omitempty"`
	PayPalPayerID   *string    `json:"paypal_payer_id,omitempty"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}
