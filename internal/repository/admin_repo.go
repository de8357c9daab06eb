package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	DB *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{DB: db}
}

// Create inserts a new admin and returns the created id.
func (r *AdminRepository) Create(ctx context.Context, email, passwordHash, name string) (int64, error) {
	var id int64
	query := `INSERT INTO admins (email, password_hash, name, created_at) VALUES ($1, $2, $3, $4) RETURNING admin_id`
	if err := r.DB.QueryRow(ctx, query, email, passwordHash, name, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByEmail returns (nil, nil) when no admin has the email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var a model.Admin
	query := `SELECT admin_id, email, password_hash, name, created_at FROM admins WHERE email=$1`
	if err := r.DB.QueryRow(ctx, query, email).Scan(
		&a.AdminID, &a.Email, &a.PasswordHash, &a.Name, &a.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	var a model.Admin
	query := `SELECT admin_id, email, password_hash, name, created_at FROM admins WHERE admin_id=$1`
	if err := r.DB.QueryRow(ctx, query, id).Scan(
		&a.AdminID, &a.Email, &a.PasswordHash, &a.Name, &a.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
