package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sp3clock/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinel is created by the last step; its presence means the schema is complete.
const sentinel = "public.analysis_satellites"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_sp3_products",
		SQL: `CREATE TABLE IF NOT EXISTS sp3_products (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename     TEXT        NOT NULL UNIQUE,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  gps_week     INTEGER     NOT NULL CHECK (gps_week >= 0),
  gps_day      SMALLINT    NOT NULL CHECK (gps_day BETWEEN 0 AND 6),
  product_date DATE        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_sp3_products_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sp3_products_date ON sp3_products (product_date, filename);`,
	},
	{
		Name: "create_table_analyses",
		SQL: `CREATE TABLE IF NOT EXISTS analyses (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  start_date  DATE        NOT NULL,
  end_date    DATE        NOT NULL CHECK (end_date >= start_date),
  satellites  TEXT        NOT NULL,
  win         INTEGER     NOT NULL,
  unit        TEXT        NOT NULL,
  tau_mode    TEXT        NOT NULL,
  files       INTEGER     NOT NULL DEFAULT 0,
  missing     TEXT        NOT NULL DEFAULT '',
  result_path TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_analyses_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at);`,
	},
	{
		Name: "create_table_analysis_satellites",
		SQL: `CREATE TABLE IF NOT EXISTS analysis_satellites (
  analysis_id   UUID             NOT NULL REFERENCES analyses (id) ON DELETE CASCADE,
  satellite     TEXT             NOT NULL,
  points        INTEGER          NOT NULL,
  slope         DOUBLE PRECISION NOT NULL,
  intercept     DOUBLE PRECISION NOT NULL,
  quad_a        DOUBLE PRECISION NOT NULL,
  quad_b        DOUBLE PRECISION NOT NULL,
  quad_c        DOUBLE PRECISION NOT NULL,
  drift_per_day DOUBLE PRECISION NOT NULL,
  rms_detrended DOUBLE PRECISION NOT NULL,
  rms_dedrifted DOUBLE PRECISION NOT NULL,
  outliers      INTEGER          NOT NULL DEFAULT 0,
  PRIMARY KEY (analysis_id, satellite)
);`,
	},
}

// EnsureMigrated checks for the sentinel table and runs the migration steps if it is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("database")

	log.Write(map[string]any{
		"event":   "db_migration_check",
		"status":  "starting",
		"db_host": dbHost,
	})

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinel)
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		log.Write(map[string]any{
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Write(map[string]any{
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Write(map[string]any{
		"event":   "db_migration_start",
		"status":  "in_progress",
		"db_host": dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Write(map[string]any{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Write(map[string]any{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Write(map[string]any{
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
