package model

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCompleted = "completed"
)

type Order struct {
	OrderID       string    `json:"id"`
	PackageID     string    `json:"package_id"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  *string   `json:"customer_name,omitempty"`
	SoundcloudURL string    `json:"soundcloud_url"`
	Quantity      int       `json:"quantity"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`

	// populated by joined reads, nil otherwise
	Package *Package `json:"package,omitempty"`
	Payment *Payment `json:"payment,omitempty"`
}

// ValidOrderStatus reports whether s is one of the three order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCompleted:
		return true
	}
	return false
}

type DashboardStats struct {
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	PaidOrders      int64   `json:"paidOrders"`
	CompletedOrders int64   `json:"completedOrders"`
	TotalIncome     float64 `json:"totalIncome"`
	TotalPackages   int64   `json:"totalPackages"`
}
