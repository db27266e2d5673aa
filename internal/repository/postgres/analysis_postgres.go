package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sp3clock/internal/model"
	"sp3clock/internal/repository"
)

// AnalysisPostgres is a PostgreSQL implementation of repository.AnalysisRepository.
// Satellite lists are stored comma separated.
type AnalysisPostgres struct {
	db *sql.DB
}

// NewAnalysisPostgres creates a new AnalysisPostgres repository.
func NewAnalysisPostgres(db *sql.DB) *AnalysisPostgres {
	return &AnalysisPostgres{db: db}
}

var _ repository.AnalysisRepository = (*AnalysisPostgres)(nil)

const analysisColumns = `id, start_date, end_date, satellites, win, unit, tau_mode, files, missing, result_path, created_at`

func scanAnalysis(s scanner) (*model.Analysis, error) {
	var (
		a       model.Analysis
		sats    string
		missing string
	)
	if err := s.Scan(
		&a.ID,
		&a.Start,
		&a.End,
		&sats,
		&a.Window,
		&a.Unit,
		&a.TauMode,
		&a.Files,
		&missing,
		&a.ResultPath,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Start, a.End = a.Start.UTC(), a.End.UTC()
	a.Satellites = splitList(sats)
	a.Missing = splitList(missing)
	return &a, nil
}

// Create inserts the analysis row and its satellite rows in one transaction.
func (r *AnalysisPostgres) Create(ctx context.Context, a *model.Analysis) (_ *model.Analysis, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
		INSERT INTO analyses (id, start_date, end_date, satellites, win, unit, tau_mode, files, missing, result_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + analysisColumns
	out, err := scanAnalysis(tx.QueryRowContext(ctx, q,
		a.ID,
		a.Start,
		a.End,
		strings.Join(a.Satellites, ","),
		a.Window,
		a.Unit,
		a.TauMode,
		a.Files,
		strings.Join(a.Missing, ","),
		a.ResultPath,
		a.CreatedAt,
	))
	if err != nil {
		return nil, err
	}

	const qSat = `
		INSERT INTO analysis_satellites
			(analysis_id, satellite, points, slope, intercept, quad_a, quad_b, quad_c,
			 drift_per_day, rms_detrended, rms_dedrifted, outliers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, s := range a.Summaries {
		q := quadratic(s.Quadratic)
		if _, err = tx.ExecContext(ctx, qSat,
			out.ID,
			s.Satellite,
			s.Points,
			s.Slope,
			s.Intercept,
			q[0], q[1], q[2],
			s.DriftPerDay,
			s.RMSDetrended,
			s.RMSDedrifted,
			s.Outliers,
		); err != nil {
			return nil, fmt.Errorf("insert satellite %s: %w", s.Satellite, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	out.Summaries = a.Summaries
	return out, nil
}

// FindByID fetches an analysis and its satellite summaries.
func (r *AnalysisPostgres) FindByID(ctx context.Context, id string) (*model.Analysis, error) {
	const q = `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	const qSat = `
		SELECT satellite, points, slope, intercept, quad_a, quad_b, quad_c,
		       drift_per_day, rms_detrended, rms_dedrifted, outliers
		FROM analysis_satellites
		WHERE analysis_id = $1
		ORDER BY satellite
	`
	rows, err := r.db.QueryContext(ctx, qSat, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s model.SatelliteSummary
		s.Quadratic = make([]float64, 3)
		if err := rows.Scan(
			&s.Satellite,
			&s.Points,
			&s.Slope,
			&s.Intercept,
			&s.Quadratic[0],
			&s.Quadratic[1],
			&s.Quadratic[2],
			&s.DriftPerDay,
			&s.RMSDetrended,
			&s.RMSDedrifted,
			&s.Outliers,
		); err != nil {
			return nil, err
		}
		a.Summaries = append(a.Summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns analyses using LIMIT/OFFSET pagination and a total count.
func (r *AnalysisPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Analysis], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
		SELECT ` + analysisColumns + `
		FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Analysis]{Items: items, Total: total}, nil
}

// Delete removes an analysis; satellite rows go with it through ON DELETE CASCADE.
func (r *AnalysisPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	return err
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func quadratic(c []float64) [3]float64 {
	var out [3]float64
	copy(out[:], c)
	return out
}
