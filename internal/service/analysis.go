package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"sp3clock/internal/clock"
	"sp3clock/internal/config"
	"sp3clock/internal/logging"
	"sp3clock/internal/metrics"
	"sp3clock/internal/model"
	"sp3clock/internal/otel"
	"sp3clock/internal/preset"
	"sp3clock/internal/repository"
	"sp3clock/internal/sp3"
	"sp3clock/internal/storage"
)

// AnalysisRequest selects the data and parameters of one run. Zero values
// fall back to the configured defaults.
type AnalysisRequest struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Satellites []string  `json:"satellites"`
	Preset     string    `json:"preset,omitempty"`
	Window     int       `json:"window,omitempty"`
	Threshold  float64   `json:"threshold,omitempty"`
	Unit       string    `json:"unit,omitempty"`
	TauMode    string    `json:"tau_mode,omitempty"`
	MaxTau     float64   `json:"max_tau,omitempty"`
	Lag        int       `json:"lag,omitempty"`
}

// AnalysisService runs the clock stability pipeline over stored products.
type AnalysisService interface {
	Run(ctx context.Context, req AnalysisRequest) (*model.AnalysisResult, error)
}

// AnalysisOption customizes an AnalysisService.
type AnalysisOption func(*analysisService)

// WithAnalysisLogger sets the logger.
func WithAnalysisLogger(l *logging.Logger) AnalysisOption {
	return func(s *analysisService) { s.log = l.With("analysis") }
}

// WithAnalysisMetrics records run duration and parse statistics.
func WithAnalysisMetrics(m *metrics.Metrics) AnalysisOption {
	return func(s *analysisService) { s.metrics = m }
}

type analysisService struct {
	store   storage.Storage
	repo    repository.ProductRepository
	cfg     config.AnalysisConfig
	cache   *lru.Cache[string, *sp3.File]
	log     *logging.Logger
	metrics *metrics.Metrics
}

// NewAnalysisService constructs a new AnalysisService with a parse cache of
// cfg.CacheSize files.
func NewAnalysisService(store storage.Storage, repo repository.ProductRepository, cfg config.AnalysisConfig, opts ...AnalysisOption) (AnalysisService, error) {
	size := cfg.CacheSize
	if size < 1 {
		size = 1
	}
	cache, err := lru.New[string, *sp3.File](size)
	if err != nil {
		return nil, fmt.Errorf("create parse cache: %w", err)
	}
	s := &analysisService{
		store: store,
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		log:   logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// params is a validated request.
type params struct {
	start, end time.Time
	satellites []string
	window     int
	threshold  float64
	unit       clock.Unit
	tauMode    string
	maxTau     float64
	lag        int
}

func (s *analysisService) validate(req AnalysisRequest) (params, error) {
	p := params{
		window:    req.Window,
		threshold: req.Threshold,
		tauMode:   strings.ToLower(strings.TrimSpace(req.TauMode)),
		maxTau:    req.MaxTau,
		lag:       req.Lag,
	}
	if p.window == 0 {
		p.window = s.cfg.Window
	}
	if p.threshold <= 0 {
		p.threshold = s.cfg.Threshold
	}
	if p.tauMode == "" {
		p.tauMode = s.cfg.TauMode
	}
	if p.maxTau <= 0 {
		p.maxTau = s.cfg.MaxTau
	}
	if p.lag <= 0 {
		p.lag = s.cfg.FrequencyLag
	}

	sats := append([]string(nil), req.Satellites...)
	if req.Preset != "" {
		pr, ok := preset.Lookup(req.Preset)
		if !ok {
			return p, fmt.Errorf("%w: %s", ErrUnknownPreset, req.Preset)
		}
		sats = append(sats, pr.Satellites()...)
	}
	p.satellites = preset.ParseSatellites(strings.Join(sats, ","))
	if len(p.satellites) == 0 {
		return p, ErrNoSatellites
	}

	p.start = day(req.Start)
	p.end = day(req.End)
	if p.start.IsZero() || p.end.IsZero() || p.end.Before(p.start) {
		return p, ErrInvalidRange
	}
	if p.window < 3 || p.window > 15 || p.window%2 == 0 {
		return p, ErrInvalidWindow
	}

	unit := req.Unit
	if unit == "" {
		unit = s.cfg.Unit
	}
	u, err := clock.ParseUnit(unit)
	if err != nil {
		return p, fmt.Errorf("%w: %s", ErrInvalidUnit, unit)
	}
	p.unit = u

	if _, err := clock.TauGrid(p.tauMode, 1, 1); err != nil {
		return p, fmt.Errorf("%w: %s", ErrInvalidTauMode, p.tauMode)
	}
	return p, nil
}

// day truncates to UTC midnight.
func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *analysisService) Run(ctx context.Context, req AnalysisRequest) (*model.AnalysisResult, error) {
	started := time.Now()
	ctx, span := otel.Tracer("analysis").Start(ctx, "analysis.run")
	defer span.End()

	p, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListInRange(ctx, p.start, p.end)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoProducts
	}
	span.SetAttributes(
		attribute.Int("sp3.products", len(products)),
		attribute.Int("sp3.satellites", len(p.satellites)),
	)

	series, interval, err := s.load(ctx, products)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load products")
		return nil, err
	}

	results := make([]*model.SatelliteResult, len(p.satellites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))
	for i, sat := range p.satellites {
		cs, ok := series[sat]
		if !ok || cs.Len() < 3 {
			continue
		}
		g.Go(func() error {
			r, err := s.process(gctx, cs, interval, p)
			if err != nil {
				return fmt.Errorf("satellite %s: %w", sat, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "process satellites")
		return nil, err
	}

	out := &model.AnalysisResult{
		Analysis: model.Analysis{
			ID:         uuid.New().String(),
			Start:      p.start,
			End:        p.end,
			Satellites: p.satellites,
			Window:     p.window,
			Unit:       string(p.unit),
			TauMode:    p.tauMode,
			Files:      len(products),
			CreatedAt:  time.Now().UTC(),
			Summaries:  []model.SatelliteSummary{},
			Missing:    []string{},
		},
		Satellites: []model.SatelliteResult{},
	}
	for i, r := range results {
		if r == nil {
			out.Analysis.Missing = append(out.Analysis.Missing, p.satellites[i])
			continue
		}
		out.Satellites = append(out.Satellites, *r)
		out.Analysis.Summaries = append(out.Analysis.Summaries, r.SatelliteSummary)
	}

	s.metrics.AnalysisDone(started)
	s.log.Info("analysis_finished", logging.Fields{
		"analysis_id": out.Analysis.ID,
		"files":       len(products),
		"satellites":  len(out.Satellites),
		"missing":     out.Analysis.Missing,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return out, nil
}

// load parses products in date order. Each file only contributes epochs
// after the last epoch of the files before it.
func (s *analysisService) load(ctx context.Context, products []model.Product) (map[string]*model.ClockSeries, time.Duration, error) {
	series := make(map[string]*model.ClockSeries)
	var (
		after    time.Time
		interval time.Duration
	)
	for _, pr := range products {
		f, err := s.parse(ctx, pr)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.log.Warn("product_object_missing", logging.Fields{"file": pr.Filename})
				continue
			}
			return nil, 0, fmt.Errorf("parse %s: %w", pr.Filename, err)
		}
		if interval == 0 && f.Header.Interval > 0 {
			interval = f.Header.Interval
		}
		for id, cs := range f.Series {
			tail := since(cs, after)
			if tail.Len() == 0 {
				continue
			}
			acc, ok := series[id]
			if !ok {
				acc = &model.ClockSeries{Satellite: id}
				series[id] = acc
			}
			acc.Extend(tail)
		}
		if last := f.LastEpoch(); last.After(after) {
			after = last
		}
	}
	if interval == 0 {
		interval = sp3.DefaultInterval
	}
	return series, interval, nil
}

// since returns the samples strictly later than after. The cached series
// is shared, so the result only reslices it.
func since(cs *model.ClockSeries, after time.Time) *model.ClockSeries {
	i := 0
	for i < len(cs.Times) && !cs.Times[i].After(after) {
		i++
	}
	return &model.ClockSeries{Satellite: cs.Satellite, Times: cs.Times[i:], Offsets: cs.Offsets[i:]}
}

// parse returns the whole file parsed, from cache when the object is unchanged.
func (s *analysisService) parse(ctx context.Context, pr model.Product) (*sp3.File, error) {
	rc, info, err := s.store.Get(ctx, pr.StoragePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	key := pr.StoragePath + "@" + info.ETag
	if f, ok := s.cache.Get(key); ok {
		s.metrics.CacheLookup(true)
		return f, nil
	}
	s.metrics.CacheLookup(false)

	f, err := sp3.Parse(rc, time.Time{})
	if err != nil {
		return nil, err
	}
	s.metrics.ParsedEpochs(f.Epochs)
	if info.ETag != "" {
		s.cache.Add(key, f)
	}
	return f, nil
}

// process runs filter, detrend, dedrift, frequency and ADEV for one satellite.
func (s *analysisService) process(ctx context.Context, cs *model.ClockSeries, interval time.Duration, p params) (*model.SatelliteResult, error) {
	_, span := otel.Tracer("analysis").Start(ctx, "analysis.satellite")
	defer span.End()
	span.SetAttributes(attribute.String("sp3.satellite", cs.Satellite), attribute.Int("sp3.points", cs.Len()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered, outliers, err := clock.MedianOutlierFilter(cs.Offsets, p.window, p.threshold)
	if err != nil {
		return nil, err
	}
	t := clock.Seconds(cs.Times)
	detrended, linear, err := clock.Detrend(t, filtered, 1)
	if err != nil {
		return nil, fmt.Errorf("detrend: %w", err)
	}
	dedrifted, quad, err := clock.Detrend(t, filtered, 2)
	if err != nil {
		return nil, fmt.Errorf("dedrift: %w", err)
	}

	r := &model.SatelliteResult{
		SatelliteSummary: model.SatelliteSummary{
			Satellite:    cs.Satellite,
			Points:       cs.Len(),
			Slope:        linear[0],
			Intercept:    linear[1],
			Quadratic:    quad,
			RMSDetrended: clock.RMS(detrended),
			RMSDedrifted: clock.RMS(dedrifted),
			Outliers:     outliers,
		},
		Times:         cs.Times,
		Raw:           cs.Offsets,
		Filtered:      filtered,
		Detrended:     detrended,
		Dedrifted:     dedrifted,
		FrequencyTime: []time.Time{},
		Frequency:     []float64{},
		ADEV:          []model.ADEVPoint{},
	}

	if cs.Len() > p.lag {
		ft, y, err := clock.FrequencyOffset(cs.Times, filtered, p.lag)
		if err != nil {
			return nil, fmt.Errorf("frequency offset: %w", err)
		}
		drift, err := clock.FrequencyDrift(ft, y)
		if err != nil && !errors.Is(err, clock.ErrTooFewPoints) {
			return nil, fmt.Errorf("frequency drift: %w", err)
		}
		r.FrequencyTime, r.Frequency, r.DriftPerDay = ft, y, drift
	}

	tau0 := interval.Seconds()
	taus, err := clock.TauGrid(p.tauMode, tau0, p.maxTau)
	if err != nil {
		return nil, err
	}
	adev, err := clock.OverlappingADEV(dedrifted, 1/tau0, taus)
	if err != nil {
		return nil, fmt.Errorf("adev: %w", err)
	}
	r.ADEV = adev
	return r, nil
}
