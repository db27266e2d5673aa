package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"sp3clock/internal/model"
	"sp3clock/internal/repository"
	"sp3clock/internal/storage"
)

// ResultContentType is stored with every result object.
const ResultContentType = "application/json"

// AnalysisListResult is the service-level DTO for paginated analyses.
type AnalysisListResult struct {
	Items []model.Analysis `json:"data"`
	Total int              `json:"total"`
}

// ReportService persists analysis results: the full series as a JSON object
// in storage, the summaries as rows.
type ReportService interface {
	// Save stores the result and records it. The object is removed again if
	// the record cannot be saved.
	Save(ctx context.Context, res *model.AnalysisResult) (*model.Analysis, error)

	List(ctx context.Context, limit, offset int) (*AnalysisListResult, error)
	Get(ctx context.Context, id string) (*model.Analysis, error)

	// OpenResult streams the stored JSON result. The caller closes the reader.
	OpenResult(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// LoadResult decodes the stored result.
	LoadResult(ctx context.Context, id string) (*model.AnalysisResult, error)

	// Delete removes the result object and the record.
	Delete(ctx context.Context, id string) error
}

type reportService struct {
	store storage.Storage
	repo  repository.AnalysisRepository
}

// NewReportService constructs a new ReportService.
func NewReportService(store storage.Storage, repo repository.AnalysisRepository) ReportService {
	return &reportService{store: store, repo: repo}
}

func (s *reportService) Save(ctx context.Context, res *model.AnalysisResult) (*model.Analysis, error) {
	if res == nil || res.Analysis.ID == "" {
		return nil, ErrIDRequired
	}
	key := storage.ResultKey(res.Analysis.ID)
	res.Analysis.ResultPath = key

	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	if _, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: ResultContentType,
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	a := res.Analysis
	stored, err := s.repo.Create(ctx, &a)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *reportService) List(ctx context.Context, limit, offset int) (*AnalysisListResult, error) {
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
	return &AnalysisListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *reportService) Get(ctx context.Context, id string) (*model.Analysis, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *reportService) OpenResult(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	key := a.ResultPath
	if key == "" {
		key = storage.ResultKey(a.ID)
	}
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("open result: %w", err)
	}
	return rc, info, nil
}

func (s *reportService) LoadResult(ctx context.Context, id string) (*model.AnalysisResult, error) {
	rc, _, err := s.OpenResult(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var res model.AnalysisResult
	if err := json.NewDecoder(rc).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", id, err)
	}
	return &res, nil
}

// Delete removes the object first; a missing object does not block removal
// of the record.
func (s *reportService) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	key := a.ResultPath
	if key == "" {
		key = storage.ResultKey(a.ID)
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
