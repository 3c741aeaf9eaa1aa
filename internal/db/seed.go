package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/publicfix/publicfix/internal/domain"
)

var sampleReports = []domain.Report{
	{
		Street:      "Jalan Mangga Besar",
		Description: "Jalan berlubang dan rusak parah",
		Location:    "Bogor",
		CreatedDate: "12-04-2025",
		ImageURI:    "https://picsum.photos/id/1/700",
		Category:    domain.CategoryPothole,
	},
	{
		Street:      "Jalan Sudirman",
		Description: "Trotoar tidak rata dan berbahaya",
		Location:    "Jakarta",
		CreatedDate: "10-04-2025",
		ImageURI:    "https://picsum.photos/id/28/700",
		Category:    domain.CategorySidewalk,
	},
	{
		Street:      "Jalan Pahlawan",
		Description: "Lampu jalan tidak berfungsi",
		Location:    "Bandung",
		CreatedDate: "05-04-2025",
		ImageURI:    "https://picsum.photos/id/65/700",
		Category:    domain.CategoryStreetlight,
	},
	{
		Street:      "Jalan Diponegoro",
		Description: "Saluran air tersumbat",
		Location:    "Surabaya",
		CreatedDate: "01-04-2025",
		ImageURI:    "https://picsum.photos/id/87/700",
		Category:    domain.CategoryDrainage,
	},
}

// seed inserts sampleReports if the table is empty and returns how many rows
// it wrote. The emptiness check and the inserts share one transaction.
func seed(ctx context.Context, db *sql.DB) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM surveys`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, r := range sampleReports {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO surveys (street, description, lokasi, tanggal, image, category)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.Street, r.Description, r.Location, r.CreatedDate, r.ImageURI, string(r.Category)); err != nil {
			return 0, fmt.Errorf("failed to insert sample report %q: %w", r.Street, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return len(sampleReports), nil
}
