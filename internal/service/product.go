package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sp3clock/internal/model"
	"sp3clock/internal/repository"
	"sp3clock/internal/sp3"
	"sp3clock/internal/storage"
)

// SP3ContentType is stored with every product object.
const SP3ContentType = "text/plain"

// ProductListResult is the service-level DTO for paginated products.
type ProductListResult struct {
	Items []model.Product `json:"data"`
	Total int             `json:"total"`
}

// ProductService manages uploaded SP3 products.
type ProductService interface {
	// Upload stores the file under its own name and records it. The name must
	// encode a GPS week and day. Storage is rolled back if the record cannot be saved.
	Upload(ctx context.Context, r io.Reader, filename string, size int64) (*model.Product, error)

	// List returns products using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ProductListResult, error)

	// Get returns a single product by its ID.
	Get(ctx context.Context, id string) (*model.Product, error)

	// Delete removes a product from both storage and repository.
	Delete(ctx context.Context, id string) error
}

type productService struct {
	store storage.Storage
	repo  repository.ProductRepository
}

// NewProductService constructs a new ProductService.
func NewProductService(store storage.Storage, repo repository.ProductRepository) ProductService {
	return &productService{store: store, repo: repo}
}

// newProduct builds the record for a file stored under key.
func newProduct(filename, key string, size int64) (*model.Product, error) {
	week, day, ok := sp3.ParseFilenameWeek(filename)
	if !ok || day > 6 {
		return nil, ErrInvalidFilename
	}
	return &model.Product{
		ID:          uuid.New().String(),
		Filename:    filename,
		StoragePath: key,
		Size:        size,
		GPSWeek:     week,
		GPSDay:      day,
		Date:        sp3.GPSDate(week, day),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *productService) Upload(ctx context.Context, r io.Reader, filename string, size int64) (*model.Product, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	name := filepath.Base(filepath.Clean(filename))
	key := storage.ProductKey(name)
	p, err := newProduct(name, key, size)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByFilename(ctx, name); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: SP3ContentType,
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	p.Size = info.Size

	stored, err := s.repo.Create(ctx, p)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *productService) List(ctx context.Context, limit, offset int) (*ProductListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Delete removes the object first; if that fails the record stays so the
// object is not orphaned.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.store.Delete(ctx, p.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
