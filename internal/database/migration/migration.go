package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name        TEXT        NOT NULL UNIQUE,
  path        TEXT        NOT NULL,
  upload_date TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_pdfs",
		SQL: `CREATE TABLE IF NOT EXISTS pdfs (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  folder_id    UUID        NOT NULL REFERENCES folders (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (folder_id, filename)
);`,
	},
	{
		Name: "create_table_snips",
		SQL: `CREATE TABLE IF NOT EXISTS snips (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  folder_id    UUID        NOT NULL REFERENCES folders (id) ON DELETE CASCADE,
  title        TEXT        NOT NULL CHECK (title <> ''),
  description  TEXT        NOT NULL DEFAULT '',
  captured_at  TIMESTAMP   NOT NULL,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_highlights",
		SQL: `CREATE TABLE IF NOT EXISTS highlights (
  id         BIGSERIAL        PRIMARY KEY,
  pdf_url    TEXT             NOT NULL,
  text       TEXT             NOT NULL,
  start_x    DOUBLE PRECISION NOT NULL,
  start_y    DOUBLE PRECISION NOT NULL,
  end_x      DOUBLE PRECISION NOT NULL,
  end_y      DOUBLE PRECISION NOT NULL,
  created_at TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_pdfs_folder_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_pdfs_folder_id ON pdfs (folder_id);`,
	},
	{
		Name: "create_index_snips_folder_id_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_snips_folder_id_created_at ON snips (folder_id, created_at DESC);`,
	},
	{
		Name: "create_index_highlights_pdf_url",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_highlights_pdf_url ON highlights (pdf_url);`,
	},
}

// EnsureMigrated checks if the 'folders' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	query := "SELECT to_regclass('public.folders') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Str("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Send()
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Str("error_message", err.Error()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}
