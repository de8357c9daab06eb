package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageRepository struct {
	DB *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{DB: db}
}

const packageColumns = `package_id, title, description, price, delivery_days, category, image, is_active, created_at`

func scanPackage(row pgx.Row) (*model.Package, error) {
	var p model.Package
	if err := row.Scan(
		&p.PackageID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.DeliveryDays,
		&p.Category,
		&p.Image,
		&p.IsActive,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepository) Create(ctx context.Context, p *model.Package) error {
	query := `
		INSERT INTO packages (package_id, title, description, price, delivery_days, category, image, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	p.CreatedAt = time.Now()
	_, err := r.DB.Exec(ctx, query,
		p.PackageID, p.Title, p.Description, p.Price, p.DeliveryDays, p.Category, p.Image, p.IsActive, p.CreatedAt)
	return err
}

// GetByID returns (nil, nil) when the package does not exist.
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*model.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE package_id=$1`
	p, err := scanPackage(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListActive returns active packages, newest first, optionally filtered by category.
func (r *PackageRepository) ListActive(ctx context.Context, category string) ([]model.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE is_active=TRUE`
	args := []any{}
	if category != "" {
		query += ` AND category=$1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *PackageRepository) Update(ctx context.Context, p *model.Package) error {
	query := `
		UPDATE packages
		SET title=$2, description=$3, price=$4, delivery_days=$5, category=$6, image=$7, is_active=$8
		WHERE package_id=$1
	`
	tag, err := r.DB.Exec(ctx, query,
		p.PackageID, p.Title, p.Description, p.Price, p.DeliveryDays, p.Category, p.Image, p.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("package not found")
	}
	return nil
}

func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM packages WHERE package_id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("package not found")
	}
	return nil
}
