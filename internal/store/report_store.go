package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/publicfix/publicfix/internal/domain"
)

// ReportStore reads and writes the surveys table. Reports are insert-only.
type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) Create(ctx context.Context, r *domain.Report) (*domain.Report, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO surveys (street, description, lokasi, tanggal, image, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Street, r.Description, r.Location, r.CreatedDate, r.ImageURI, string(r.Category))
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns nil, nil when no report has the given id.
func (s *ReportStore) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	r := &domain.Report{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, street, description, lokasi, tanggal, image, category FROM surveys WHERE id = ?
	`, id).Scan(&r.ID, &r.Street, &r.Description, &r.Location, &r.CreatedDate, &r.ImageURI, &r.Category)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return r, nil
}

// List returns every report, newest (highest id) first.
func (s *ReportStore) List(ctx context.Context) ([]*domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, street, description, lokasi, tanggal, image, category FROM surveys ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var reports []*domain.Report
	for rows.Next() {
		r := &domain.Report{}
		if err := rows.Scan(&r.ID, &r.Street, &r.Description, &r.Location, &r.CreatedDate, &r.ImageURI, &r.Category); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

func (s *ReportStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM surveys`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
