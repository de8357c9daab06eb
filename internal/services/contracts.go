package services

import (
	"context"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/external/paypal"
	"github.com/Dimuthu1234/soundcloud-boost/internal/model"
)

// Store contracts consumed by the services. The pgx repositories satisfy
// these; tests substitute in-memory fakes.

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByEmail(ctx context.Context, email string) ([]model.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// PaymentStore owns the capture state machine. The three transition methods
// combine the status-guarded payment write and the paired order write into
// one atomic unit and report whether this caller performed the transition.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByPayPalOrderID(ctx context.Context, paypalOrderID string) (*model.Payment, error)
	GetByCaptureID(ctx context.Context, captureID string) (*model.Payment, error)
	CompleteCapture(ctx context.Context, paypalOrderID, captureID, payerID string, paidAt time.Time) (bool, error)
	FailCapture(ctx context.Context, paypalOrderID string) (bool, error)
	RefundCapture(ctx context.Context, paypalOrderID string) (bool, error)
}

type PackageStore interface {
	Create(ctx context.Context, p *model.Package) error
	GetByID(ctx context.Context, id string) (*model.Package, error)
	ListActive(ctx context.Context, category string) ([]model.Package, error)
	Update(ctx context.Context, p *model.Package) error
	Delete(ctx context.Context, id string) error
}

type AdminStore interface {
	Create(ctx context.Context, email, passwordHash, name string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
}

// PaymentGateway is the narrow slice of the PayPal API this service needs.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, description string) (*paypal.OrderResult, error)
	CaptureOrder(ctx context.Context, paypalOrderID string) (*paypal.CaptureResult, error)
	GetOrderStatus(ctx context.Context, paypalOrderID string) (string, error)
}

// Mailer failures are logged and swallowed; payment correctness never depends
// on email deliverability.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order, pkg *model.Package) error
	SendStatusUpdate(ctx context.Context, order *model.Order, pkg *model.Package, newStatus string) error
}
