package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Stage identifies which part of initialization failed.
type Stage string

const (
	StageSchema Stage = "schema"
	StageSeed   Stage = "seed"
)

// InitError is returned by Initialize. Callers decide per Stage whether to
// continue: a seed failure leaves a usable but empty store, a schema failure
// does not.
type InitError struct {
	Stage Stage
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("database %s initialization failed: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

type Options struct {
	// SeedSampleData inserts the sample reports when the table is empty.
	SeedSampleData bool
	Logger         *slog.Logger
}

// Initialize ensures the reports schema exists and seeds it on first run.
// It is safe to call on every start. On failure the returned error is an
// *InitError.
func Initialize(ctx context.Context, db *sql.DB, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("creating database schema")
	if err := migrateSchema(db); err != nil {
		return &InitError{Stage: StageSchema, Err: err}
	}

	if opts.SeedSampleData {
		inserted, err := seed(ctx, db)
		if err != nil {
			return &InitError{Stage: StageSeed, Err: err}
		}
		if inserted > 0 {
			logger.Info("sample data inserted", "rows", inserted)
		}
	}

	logger.Info("database setup complete")
	return nil
}
