package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publicfix/publicfix/internal/db"
	"github.com/publicfix/publicfix/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newReport(street string) *domain.Report {
	return &domain.Report{
		Street:      street,
		Description: "Jalan berlubang dan rusak parah",
		Location:    "Bogor",
		CreatedDate: "12-04-2025",
		ImageURI:    "https://picsum.photos/id/1/700",
		Category:    domain.CategoryPothole,
	}
}

func TestReportStoreCreate(t *testing.T) {
	store := NewReportStore(openTestDB(t))
	ctx := context.Background()

	in := newReport("Jalan Mangga Besar")
	report, err := store.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, report.ID)
	assert.Equal(t, in.Street, report.Street)
	assert.Equal(t, in.Description, report.Description)
	assert.Equal(t, in.Location, report.Location)
	assert.Equal(t, in.CreatedDate, report.CreatedDate)
	assert.Equal(t, in.ImageURI, report.ImageURI)
	assert.Equal(t, domain.CategoryPothole, report.Category)
}

func TestReportStoreGetByID(t *testing.T) {
	store := NewReportStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.Create(ctx, newReport("Jalan Sudirman"))
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, retrieved)
}

func TestReportStoreGetByID_NotFound(t *testing.T) {
	store := NewReportStore(openTestDB(t))

	retrieved, err := store.GetByID(context.Background(), 99999)
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestReportStoreListNewestFirst(t *testing.T) {
	store := NewReportStore(openTestDB(t))
	ctx := context.Background()

	for _, street := range []string{"Jalan Pertama", "Jalan Kedua", "Jalan Ketiga"} {
		_, err := store.Create(ctx, newReport(street))
		require.NoError(t, err)
	}

	reports, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "Jalan Ketiga", reports[0].Street)
	assert.Equal(t, "Jalan Kedua", reports[1].Street)
	assert.Equal(t, "Jalan Pertama", reports[2].Street)
	for i := 1; i < len(reports); i++ {
		assert.Greater(t, reports[i-1].ID, reports[i].ID)
	}
}

func TestReportStoreListEmpty(t *testing.T) {
	store := NewReportStore(openTestDB(t))

	reports, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestReportStoreCount(t *testing.T) {
	store := NewReportStore(openTestDB(t))
	ctx := context.Background()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = store.Create(ctx, newReport("Jalan Pahlawan"))
	require.NoError(t, err)

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func newMockStore(t *testing.T) (*ReportStore, sqlmock.Sqlmock) {
	t.Helper()
	d, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return NewReportStore(d), mock
}

func TestReportStoreCreate_InsertError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("disk I/O error")

	mock.ExpectExec("INSERT INTO surveys").
		WithArgs("Jalan Diponegoro", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "pothole").
		WillReturnError(boom)

	report, err := store.Create(context.Background(), newReport("Jalan Diponegoro"))
	assert.Nil(t, report)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to create report")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStoreList_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("database is locked")

	mock.ExpectQuery("SELECT (.+) FROM surveys ORDER BY id DESC").WillReturnError(boom)

	reports, err := store.List(context.Background())
	assert.Nil(t, reports)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStoreList_RowError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("corrupt page")

	rows := sqlmock.NewRows([]string{"id", "street", "description", "lokasi", "tanggal", "image", "category"}).
		AddRow(2, "Jalan Kedua", "d", "l", "12-04-2025", "i", "cracks").
		AddRow(1, "Jalan Pertama", "d", "l", "12-04-2025", "i", "cracks").
		RowError(1, boom)
	mock.ExpectQuery("SELECT (.+) FROM surveys ORDER BY id DESC").WillReturnRows(rows)

	reports, err := store.List(context.Background())
	assert.Nil(t, reports)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStoreGetByID_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("database is locked")

	mock.ExpectQuery("SELECT (.+) FROM surveys WHERE id = ?").WithArgs(7).WillReturnError(boom)

	report, err := store.GetByID(context.Background(), 7)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
