package postgres

import (
	"context"
	"database/sql"
	"time"

	"sp3clock/internal/model"
	"sp3clock/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

const productColumns = `id, filename, storage_path, size, gps_week, gps_day, product_date, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*model.Product, error) {
	var p model.Product
	if err := s.Scan(
		&p.ID,
		&p.Filename,
		&p.StoragePath,
		&p.Size,
		&p.GPSWeek,
		&p.GPSDay,
		&p.Date,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Date = p.Date.UTC()
	return &p, nil
}

// Create inserts a product row and returns the stored record.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO sp3_products (id, filename, storage_path, size, gps_week, gps_day, product_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Filename,
		p.StoragePath,
		p.Size,
		p.GPSWeek,
		p.GPSDay,
		p.Date,
		p.CreatedAt,
	)
	return scanProduct(row)
}

// FindByID fetches a single product by its ID.
func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM sp3_products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, id))
}

// FindByFilename fetches a single product by its filename.
func (r *ProductPostgres) FindByFilename(ctx context.Context, filename string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM sp3_products WHERE filename = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, filename))
}

// Filenames returns all product filenames in lexical order.
func (r *ProductPostgres) Filenames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT filename FROM sp3_products ORDER BY filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// List returns products using LIMIT/OFFSET pagination and a total count.
func (r *ProductPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Product], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sp3_products`).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
		SELECT ` + productColumns + `
		FROM sp3_products
		ORDER BY product_date DESC, filename DESC
		LIMIT $1 OFFSET $2
	`
	items, err := r.query(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Product]{Items: items, Total: total}, nil
}

// ListInRange returns products whose date falls within [from, to].
func (r *ProductPostgres) ListInRange(ctx context.Context, from, to time.Time) ([]model.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM sp3_products
		WHERE product_date BETWEEN $1 AND $2
		ORDER BY product_date, filename
	`
	return r.query(ctx, q, from, to)
}

func (r *ProductPostgres) query(ctx context.Context, q string, args ...any) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a product by ID. It does not return an error if the row does not exist.
func (r *ProductPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sp3_products WHERE id = $1`, id)
	return err
}
