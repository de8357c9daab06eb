package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/Dimuthu1234/soundcloud-boost/external/paypal"
	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type OrderService struct {
	Orders   OrderStore
	Payments PaymentStore
	Packages PackageStore
	Gateway  PaymentGateway
	Mailer   Mailer
	Log      *zap.Logger
}

func NewOrderService(
	orders OrderStore,
	payments PaymentStore,
	packages PackageStore,
	gateway PaymentGateway,
	mailer Mailer,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		Orders:   orders,
		Payments: payments,
		Packages: packages,
		Gateway:  gateway,
		Mailer:   mailer,
		Log:      log,
	}
}

type CreateOrderInput struct {
	PackageID     string
	CustomerEmail string
	CustomerName  string
	SoundcloudURL string
	Quantity      int
}

func (in *CreateOrderInput) validate() error {
	if in.PackageID == "" {
		return errors.New("package id is required")
	}
	if !emailRegex.MatchString(in.CustomerEmail) {
		return errors.New("valid email is required")
	}
	u, err := url.ParseRequestURI(strings.TrimSpace(in.SoundcloudURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("valid soundcloud url is required")
	}
	in.SoundcloudURL = u.String()
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	return nil
}

// roundMoney keeps totals exact to the cent (19.99 * 3 must be 59.97, not
// 59.97000000000001).
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateOrder creates a pending order, registers a payment intent at the
// gateway and persists the pending payment record linked 1:1 to the order.
// On gateway failure the order is retained as pending with no payment record;
// the customer retries with a fresh checkout.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, *paypal.OrderResult, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	pkg, err := s.Packages.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, nil, err
	}
	if pkg == nil {
		return nil, nil, ErrPackageNotFound
	}
	if !pkg.IsActive {
		return nil, nil, ErrPackageInactive
	}

	// Price snapshot: later catalog changes never touch this order.
	totalPrice := roundMoney(pkg.Price * float64(in.Quantity))

	order := &model.Order{
		OrderID:       uuid.NewString(),
		PackageID:     pkg.PackageID,
		CustomerEmail: in.CustomerEmail,
		SoundcloudURL: in.SoundcloudURL,
		Quantity:      in.Quantity,
		TotalPrice:    totalPrice,
		Status:        model.OrderStatusPending,
	}
	if name := strings.TrimSpace(in.CustomerName); name != "" {
		order.CustomerName = &name
	}

	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, nil, err
	}

	description := fmt.Sprintf("SoundCloudBoost - %s x%d", pkg.Title, in.Quantity)
	result, err := s.Gateway.CreateOrder(ctx, totalPrice, "USD", description)
	if err != nil {
		s.Log.Error("paypal create order failed",
			zap.String("order_id", order.OrderID), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	payment := &model.Payment{
		OrderID:       order.OrderID,
		PayPalOrderID: result.OrderID,
		Amount:        totalPrice,
		Currency:      "USD",
		Status:        model.PaymentStatusPending,
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		return nil, nil, err
	}

	order.Package = pkg
	order.Payment = payment
	return order, result, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	return s.Orders.ListByEmail(ctx, email)
}

// AdminList returns a page of orders plus the total count for pagination.
func (s *OrderService) AdminList(ctx context.Context, status string, page, limit int) ([]model.Order, int64, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, 0, errors.New("invalid status filter")
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Orders.List(ctx, status, limit, (page-1)*limit)
}

// UpdateStatus is the administrative transition (fulfillment marks orders
// completed). A status email is sent only when the status actually changed,
// and its failure never fails the update.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, errors.New("invalid status: must be one of pending, paid, completed")
	}

	order, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == status {
		return order, nil
	}

	if err := s.Orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status

	if order.Package != nil {
		if err := s.Mailer.SendStatusUpdate(ctx, order, order.Package, status); err != nil {
			s.Log.Error("failed to send status update email",
				zap.String("order_id", order.OrderID), zap.Error(err))
		}
	}
	return order, nil
}

func (s *OrderService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return s.Orders.Stats(ctx)
}
