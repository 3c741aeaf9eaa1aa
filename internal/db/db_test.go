package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTempDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "surveydb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return d
}

func countReports(t *testing.T, d *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM surveys").Scan(&n))
	return n
}

func TestOpenCreatesFile(t *testing.T) {
	d := openTempDB(t)
	assert.NoError(t, d.Ping())
}

func TestMigrationsApply(t *testing.T) {
	d := openTempDB(t)

	require.NoError(t, migrateSchema(d))

	var tableName string
	err := d.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='surveys'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "surveys", tableName)

	// Running again is a no-op.
	assert.NoError(t, migrateSchema(d))
}

func TestInitializeSeedsEmptyStore(t *testing.T) {
	d := openTempDB(t)
	ctx := context.Background()

	err := Initialize(ctx, d, Options{SeedSampleData: true, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 4, countReports(t, d))

	var categories []string
	rows, err := d.Query("SELECT category FROM surveys ORDER BY id ASC")
	require.NoError(t, err)
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		categories = append(categories, c)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"pothole", "sidewalk", "streetlight", "drainage"}, categories)
}

func TestInitializeIsIdempotent(t *testing.T) {
	d := openTempDB(t)
	ctx := context.Background()
	opts := Options{SeedSampleData: true, Logger: quietLogger()}

	require.NoError(t, Initialize(ctx, d, opts))
	require.NoError(t, Initialize(ctx, d, opts))

	assert.Equal(t, 4, countReports(t, d))
}

func TestInitializeSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surveydb.db")
	ctx := context.Background()
	opts := Options{SeedSampleData: true, Logger: quietLogger()}

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, Initialize(ctx, first, opts))
	_, err = first.Exec(`INSERT INTO surveys (street, description, lokasi, tanggal, image, category)
		VALUES ('Jalan Baru', 'Retak', 'Depok', '01-05-2025', 'https://example.com/a.jpg', 'cracks')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	require.NoError(t, Initialize(ctx, second, opts))

	assert.Equal(t, 5, countReports(t, second))
}

func TestInitializeDoesNotSeedNonEmptyStore(t *testing.T) {
	d := openTempDB(t)
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, d, Options{Logger: quietLogger()}))
	_, err := d.Exec(`INSERT INTO surveys (street, description, lokasi, tanggal, image, category)
		VALUES ('Jalan Baru', 'Retak', 'Depok', '01-05-2025', 'https://example.com/a.jpg', 'cracks')`)
	require.NoError(t, err)

	require.NoError(t, Initialize(ctx, d, Options{SeedSampleData: true, Logger: quietLogger()}))
	assert.Equal(t, 1, countReports(t, d))
}

func TestInitializeWithoutSeeding(t *testing.T) {
	d := openTempDB(t)

	require.NoError(t, Initialize(context.Background(), d, Options{Logger: quietLogger()}))
	assert.Equal(t, 0, countReports(t, d))
}

func TestInitializeSchemaError(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "surveydb.db"))
	require.NoError(t, err)
	require.NoError(t, d.Close())

	err = Initialize(context.Background(), d, Options{SeedSampleData: true, Logger: quietLogger()})
	require.Error(t, err)

	var initErr *InitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, StageSchema, initErr.Stage)
	assert.Contains(t, err.Error(), "schema")
}

func TestInitializeSeedError(t *testing.T) {
	d := openTempDB(t)
	ctx := context.Background()

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	err := Initialize(cancelled, d, Options{SeedSampleData: true, Logger: quietLogger()})
	require.Error(t, err)

	var initErr *InitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, StageSeed, initErr.Stage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, countReports(t, d))
}

func TestOpenForTestingIsPrivate(t *testing.T) {
	a, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	b, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	_, err = a.Exec(`INSERT INTO surveys (street, description, lokasi, tanggal, image, category)
		VALUES ('Jalan A', 'x', 'y', '01-05-2025', 'z', 'cracks')`)
	require.NoError(t, err)

	assert.Equal(t, 1, countReports(t, a))
	assert.Equal(t, 0, countReports(t, b))
}
