package db

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against DATABASE_URL and verifies it with a ping.
func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		admin_id      BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS packages (
		package_id    TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL,
		price         DOUBLE PRECISION NOT NULL,
		delivery_days INT NOT NULL,
		category      TEXT NOT NULL,
		image         TEXT,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id       TEXT PRIMARY KEY,
		package_id     TEXT NOT NULL REFERENCES packages(package_id),
		customer_email TEXT NOT NULL,
		customer_name  TEXT,
		soundcloud_url TEXT NOT NULL,
		quantity       INT NOT NULL,
		total_price    DOUBLE PRECISION NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_email ON orders(customer_email)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE TABLE IF NOT EXISTS payments (
		payment_id        BIGSERIAL PRIMARY KEY,
		order_id          TEXT NOT NULL UNIQUE REFERENCES orders(order_id),
		paypal_order_id   TEXT NOT NULL UNIQUE,
		paypal_capture_id TEXT,
		paypal_payer_id   TEXT,
		amount            DOUBLE PRECISION NOT NULL,
		currency          TEXT NOT NULL DEFAULT 'USD',
		status            TEXT NOT NULL DEFAULT 'pending',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		paid_at           TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_capture_id ON payments(paypal_capture_id)`,
}

// Migrate bootstraps the schema. Statements are idempotent so this runs on
// every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
