package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO orders (order_id, package_id, customer_email, customer_name, soundcloud_url, quantity, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	o.CreatedAt = time.Now()
	_, err := r.DB.Exec(ctx, query,
		o.OrderID, o.PackageID, o.CustomerEmail, o.CustomerName, o.SoundcloudURL,
		o.Quantity, o.TotalPrice, o.Status, o.CreatedAt)
	return err
}

const orderJoinQuery = `
	SELECT o.order_id, o.package_id, o.customer_email, o.customer_name, o.soundcloud_url,
	       o.quantity, o.total_price, o.status, o.created_at,
	       k.package_id, k.title, k.description, k.price, k.delivery_days, k.category, k.image, k.is_active, k.created_at,
	       p.payment_id, p.paypal_order_id, p.paypal_capture_id, p.paypal_payer_id,
	       p.amount, p.currency, p.status, p.created_at, p.paid_at
	FROM orders o
	JOIN packages k ON k.package_id = o.package_id
	LEFT JOIN payments p ON p.order_id = o.order_id
`

func scanOrderJoin(row pgx.Row) (*model.Order, error) {
	var (
		o   model.Order
		pkg model.Package

		paymentID   *int64
		ppOrderID   *string
		ppCaptureID *string
		ppPayerID   *string
		amount      *float64
		currency    *string
		payStatus   *string
		payCreated  *time.Time
		paidAt      *time.Time
	)

	if err := row.Scan(
		&o.OrderID, &o.PackageID, &o.CustomerEmail, &o.CustomerName, &o.SoundcloudURL,
		&o.Quantity, &o.TotalPrice, &o.Status, &o.CreatedAt,
		&pkg.PackageID, &pkg.Title, &pkg.Description, &pkg.Price, &pkg.DeliveryDays,
		&pkg.Category, &pkg.Image, &pkg.IsActive, &pkg.CreatedAt,
		&paymentID, &ppOrderID, &ppCaptureID, &ppPayerID,
		&amount, &currency, &payStatus, &payCreated, &paidAt,
	); err != nil {
		return nil, err
	}

	o.Package = &pkg
	if paymentID != nil {
		o.Payment = &model.Payment{
			PaymentID:       *paymentID,
			OrderID:         o.OrderID,
			PayPalOrderID:   *ppOrderID,
			PayPalCaptureID: ppCaptureID,
			PayPalPayerID:   ppPayerID,
			Amount:          *amount,
			Currency:        *currency,
			Status:          *payStatus,
			CreatedAt:       *payCreated,
			PaidAt:          paidAt,
		}
	}
	return &o, nil
}

// GetByID returns the order with its package and payment, or (nil, nil) when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrderJoin(r.DB.QueryRow(ctx, orderJoinQuery+` WHERE o.order_id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// ListByEmail returns all orders for a customer email, newest first.
func (r *OrderRepository) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, orderJoinQuery+` WHERE o.customer_email=$1 ORDER BY o.created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// List returns a page of orders, newest first, optionally filtered by status,
// along with the total matching count.
func (r *OrderRepository) List(ctx context.Context, status string, limit, offset int) ([]model.Order, int64, error) {
	where := ``
	args := []any{}
	if status != "" {
		where = ` WHERE o.status=$1`
		args = append(args, status)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM orders o` + where
	if err := r.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := orderJoinQuery + where +
		` ORDER BY o.created_at DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list, err := collectOrders(rows)
	return list, total, err
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var list []model.Order
	for rows.Next() {
		o, err := scanOrderJoin(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2 WHERE order_id=$1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order not found")
	}
	return nil
}

// Stats aggregates the dashboard numbers in one round trip.
func (r *OrderRepository) Stats(ctx context.Context) (*model.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status='pending'),
			(SELECT COUNT(*) FROM orders WHERE status='paid'),
			(SELECT COUNT(*) FROM orders WHERE status='completed'),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status='completed'),
			(SELECT COUNT(*) FROM packages WHERE is_active=TRUE)
	`
	var s model.DashboardStats
	if err := r.DB.QueryRow(ctx, query).Scan(
		&s.TotalOrders, &s.PendingOrders, &s.PaidOrders, &s.CompletedOrders,
		&s.TotalIncome, &s.TotalPackages,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
