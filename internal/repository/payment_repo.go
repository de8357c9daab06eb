package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (order_id, paypal_order_id, amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment_id
	`
	p.CreatedAt = time.Now()
	return r.DB.QueryRow(ctx, query,
		p.OrderID, p.PayPalOrderID, p.Amount, p.Currency, p.Status, p.CreatedAt,
	).Scan(&p.PaymentID)
}

const paymentColumns = `payment_id, order_id, paypal_order_id, paypal_capture_id, paypal_payer_id,
	amount, currency, status, created_at, paid_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	if err := row.Scan(
		&p.PaymentID, &p.OrderID, &p.PayPalOrderID, &p.PayPalCaptureID, &p.PayPalPayerID,
		&p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.PaidAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByPayPalOrderID returns (nil, nil) when no record exists for the intent.
func (r *PaymentRepository) GetByPayPalOrderID(ctx context.Context, paypalOrderID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE paypal_order_id=$1`
	return scanPayment(r.DB.QueryRow(ctx, query, paypalOrderID))
}

// GetByCaptureID returns (nil, nil) when no record carries the capture id.
func (r *PaymentRepository) GetByCaptureID(ctx context.Context, captureID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE paypal_capture_id=$1`
	return scanPayment(r.DB.QueryRow(ctx, query, captureID))
}

// transition runs a status-guarded payment UPDATE and the paired order UPDATE
// in one transaction. The guarded UPDATE's RETURNING clause yields no row when
// another caller already moved the payment out of fromStatus, which is how a
// losing racer finds out: it gets (false, nil) and must not repeat side effects.
func (r *PaymentRepository) transition(
	ctx context.Context,
	paymentQuery string,
	paymentArgs []any,
	orderStatus string,
) (bool, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var orderID string
	if err := tx.QueryRow(ctx, paymentQuery, paymentArgs...).Scan(&orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status=$2 WHERE order_id=$1`, orderID, orderStatus); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

// CompleteCapture flips pending (or failed, when a retried capture succeeds
// after an earlier denial) -> completed and marks the order paid. Returns true
// only for the single caller that wins the transition.
func (r *PaymentRepository) CompleteCapture(
	ctx context.Context,
	paypalOrderID, captureID, payerID string,
	paidAt time.Time,
) (bool, error) {
	query := `
		UPDATE payments
		SET status='completed', paypal_capture_id=$2, paypal_payer_id=NULLIF($3, ''), paid_at=$4
		WHERE paypal_order_id=$1 AND status IN ('pending', 'failed')
		RETURNING order_id
	`
	return r.transition(ctx, query, []any{paypalOrderID, captureID, payerID, paidAt}, model.OrderStatusPaid)
}

// FailCapture flips pending -> failed and reverts the order to pending so the
// customer can retry with a fresh checkout.
func (r *PaymentRepository) FailCapture(ctx context.Context, paypalOrderID string) (bool, error) {
	query := `
		UPDATE payments
		SET status='failed'
		WHERE paypal_order_id=$1 AND status='pending'
		RETURNING order_id
	`
	return r.transition(ctx, query, []any{paypalOrderID}, model.OrderStatusPending)
}

// RefundCapture flips completed -> refunded and reverts the order to pending.
func (r *PaymentRepository) RefundCapture(ctx context.Context, paypalOrderID string) (bool, error) {
	query := `
		UPDATE payments
		SET status='refunded'
		WHERE paypal_order_id=$1 AND status='completed'
		RETURNING order_id
	`
	return r.transition(ctx, query, []any{paypalOrderID}, model.OrderStatusPending)
}
