// Package repository contains the persistence interfaces. Implementations
// live in subpackages (postgres, directory). A missing record is reported
// as sql.ErrNoRows by every implementation.
package repository

import (
	"context"
	"time"

	"sp3clock/internal/model"
)

// ProductRepository stores SP3 product metadata. No business logic here.
type ProductRepository interface {
	// Create inserts a product record and returns it as stored.
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByFilename(ctx context.Context, filename string) (*model.Product, error)

	// Filenames returns every known product filename.
	Filenames(ctx context.Context) ([]string, error)

	// List returns a page of products, newest product date first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Product], error)

	// ListInRange returns products dated within [from, to], ordered by date then filename.
	ListInRange(ctx context.Context, from, to time.Time) ([]model.Product, error)

	// Delete removes a product by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// AnalysisRepository stores analysis runs with their per-satellite summaries.
type AnalysisRepository interface {
	// Create inserts the analysis and its summaries atomically.
	Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error)

	// FindByID returns the analysis including its summaries.
	FindByID(ctx context.Context, id string) (*model.Analysis, error)

	// List returns a page of analyses without summaries, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Analysis], error)

	// Delete removes an analysis and its summaries. Missing rows are not an error.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
