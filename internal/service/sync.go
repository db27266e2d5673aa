package service

import (
	"context"
	"errors"
	"fmt"

	"sp3clock/internal/ftpsource"
	"sp3clock/internal/logging"
	"sp3clock/internal/metrics"
	"sp3clock/internal/repository"
	"sp3clock/internal/sp3"
	"sp3clock/internal/storage"
)

// SyncFailure names a file that could not be fetched.
type SyncFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// SyncReport summarizes one archive sync. An up-to-date archive yields a
// report with New == 0 and no error.
type SyncReport struct {
	Remote     int           `json:"remote"`
	New        int           `json:"new"`
	Downloaded []string      `json:"downloaded"`
	Skipped    []string      `json:"skipped"`
	Failed     []SyncFailure `json:"failed"`
}

// SyncService mirrors the remote SP3 archive into storage.
type SyncService interface {
	// Sync downloads every remote .sp3 file not yet known. A file that fails
	// is reported and cleaned up without stopping the others.
	Sync(ctx context.Context) (*SyncReport, error)
}

// SyncOption customizes a SyncService.
type SyncOption func(*syncService)

// WithSyncLogger sets the logger.
func WithSyncLogger(l *logging.Logger) SyncOption {
	return func(s *syncService) { s.log = l.With("sync") }
}

// WithSyncMetrics records per-file outcomes.
func WithSyncMetrics(m *metrics.Metrics) SyncOption {
	return func(s *syncService) { s.metrics = m }
}

// WithObjectKey overrides how a file name maps to a storage key. The CLI
// stores files flat in its directory.
func WithObjectKey(f func(filename string) string) SyncOption {
	return func(s *syncService) { s.key = f }
}

type syncService struct {
	dial    ftpsource.DialFunc
	store   storage.Storage
	repo    repository.ProductRepository
	key     func(string) string
	log     *logging.Logger
	metrics *metrics.Metrics
}

// NewSyncService constructs a new SyncService.
func NewSyncService(dial ftpsource.DialFunc, store storage.Storage, repo repository.ProductRepository, opts ...SyncOption) SyncService {
	s := &syncService{
		dial:  dial,
		store: store,
		repo:  repo,
		key:   storage.ProductKey,
		log:   logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *syncService) Sync(ctx context.Context) (*SyncReport, error) {
	client, err := s.dial(ctx)
	if err != nil {
		s.log.Error("sync_connect_failed", err, nil)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer client.Close()

	names, err := client.List(ctx)
	if err != nil {
		s.log.Error("sync_list_failed", err, nil)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	remote := ftpsource.FilterSP3(names)

	known, err := s.repo.Filenames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list known products: %w", err)
	}
	have := make(map[string]struct{}, len(known))
	for _, n := range known {
		have[n] = struct{}{}
	}

	report := &SyncReport{
		Remote:     len(remote),
		Downloaded: []string{},
		Skipped:    []string{},
		Failed:     []SyncFailure{},
	}
	for _, name := range remote {
		if _, ok := have[name]; ok {
			continue
		}
		report.New++

		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := s.fetch(ctx, client, name)
		switch {
		case err == nil:
			report.Downloaded = append(report.Downloaded, name)
			s.metrics.SyncFile(metrics.SyncDownloaded)
			s.log.Info("sync_file_downloaded", logging.Fields{"file": name})
		case errors.Is(err, ErrInvalidFilename):
			report.Skipped = append(report.Skipped, name)
			s.metrics.SyncFile(metrics.SyncSkipped)
		default:
			report.Failed = append(report.Failed, SyncFailure{Name: name, Error: err.Error()})
			s.metrics.SyncFile(metrics.SyncFailed)
			s.log.Error("sync_file_failed", err, logging.Fields{"file": name})
		}
	}

	s.log.Info("sync_finished", logging.Fields{
		"remote":     report.Remote,
		"new":        report.New,
		"downloaded": len(report.Downloaded),
		"failed":     len(report.Failed),
	})
	return report, nil
}

// fetch copies one file into storage and registers it. Any partial object
// is removed on failure.
func (s *syncService) fetch(ctx context.Context, client ftpsource.Client, name string) error {
	if _, day, ok := sp3.ParseFilenameWeek(name); !ok || day > 6 {
		return ErrInvalidFilename
	}
	key := s.key(name)

	// An object without a record is left over from an interrupted run; adopt it.
	if ok, err := s.store.Exists(ctx, key); err == nil && ok {
		return s.adopt(ctx, name, key)
	}

	rc, err := client.Retrieve(ctx, name)
	if err != nil {
		return err
	}
	info, err := s.store.Put(ctx, key, rc, storage.PutObjectOptions{Size: -1, ContentType: SP3ContentType})
	closeErr := rc.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return err
	}

	return s.register(ctx, name, key, info.Size)
}

func (s *syncService) adopt(ctx context.Context, name, key string) error {
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	rc.Close()
	return s.register(ctx, name, key, info.Size)
}

func (s *syncService) register(ctx context.Context, name, key string, size int64) error {
	p, err := newProduct(name, key, size)
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return err
	}
	if _, err := s.repo.Create(ctx, p); err != nil {
		_ = s.store.Delete(ctx, key)
		return fmt.Errorf("register %s: %w", name, err)
	}
	return nil
}
