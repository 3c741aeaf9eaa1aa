package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/publicfix/publicfix/internal/domain"
	"github.com/publicfix/publicfix/internal/photostore"
)

// PhotoURIPrefix marks an image URI that refers to the local photo store.
const PhotoURIPrefix = "/photos/"

// reportRepository is the subset of store.ReportStore that ReportService requires.
type reportRepository interface {
	Create(ctx context.Context, r *domain.Report) (*domain.Report, error)
	GetByID(ctx context.Context, id int64) (*domain.Report, error)
	List(ctx context.Context) ([]*domain.Report, error)
}

type ReportService struct {
	reports  reportRepository
	photoStg photostore.PhotoStore
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewReportService builds the service. Creation dates and relative ages are
// computed in loc.
func NewReportService(
	reports reportRepository,
	photoStg photostore.PhotoStore,
	loc *time.Location,
	logger *slog.Logger,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		reports:  reports,
		photoStg: photoStg,
		location: loc,
		now:      time.Now,
		logger:   logger,
	}
}

// ReportView is a report plus the strings the screens display for it.
type ReportView struct {
	*domain.Report
	CategoryLabel string
	LongDate      string
	RelativeAge   string
}

// CreateReport validates in, stores the uploaded photo if there is one and
// inserts the report dated today. Missing fields yield a *ValidationError and
// nothing is written.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*domain.Report, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	imageURI := strings.TrimSpace(in.ImageURL)
	var storageKey string
	if in.Photo != nil && len(in.Photo.Data) > 0 {
		key, err := s.photoStg.Save(ctx, "report", in.Photo.MimeType, bytes.NewReader(in.Photo.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to save photo: %w", err)
		}
		s.logger.Debug("photo saved", "storage_key", key)
		storageKey = key
		imageURI = PhotoURIPrefix + key
	}

	report, err := s.reports.Create(ctx, &domain.Report{
		Street:      in.Street,
		Description: in.Description,
		Location:    in.Location,
		CreatedDate: domain.FormatCreatedDate(s.now().In(s.location)),
		ImageURI:    imageURI,
		Category:    domain.Category(strings.TrimSpace(string(in.Category))),
	})
	if err != nil {
		if storageKey != "" {
			if stgErr := s.photoStg.Delete(ctx, storageKey); stgErr != nil {
				s.logger.Error("failed to roll back photo file", "storage_key", storageKey, "error", stgErr)
			}
		}
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	attrs := []any{"report_id", report.ID, "category", report.Category}
	if storageKey != "" {
		attrs = append(attrs, "photo_size", humanize.IBytes(uint64(len(in.Photo.Data))))
	}
	s.logger.Info("report created", attrs...)
	return report, nil
}

// ListReports returns every report, newest first.
func (s *ReportService) ListReports(ctx context.Context) ([]*ReportView, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	views := make([]*ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, s.view(r, now))
	}
	return views, nil
}

// GetReport returns nil, nil when the report does not exist.
func (s *ReportService) GetReport(ctx context.Context, id int64) (*ReportView, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, nil
	}
	return s.view(report, s.now().In(s.location)), nil
}

func (s *ReportService) view(r *domain.Report, now time.Time) *ReportView {
	v := &ReportView{
		Report:        r,
		CategoryLabel: r.Category.Label(),
		LongDate:      r.CreatedDate,
	}

	long, err := domain.LongDate(r.CreatedDate)
	if err != nil {
		s.logger.Warn("unreadable report date", "report_id", r.ID, "date", r.CreatedDate, "error", err)
		return v
	}
	v.LongDate = long

	if age, err := domain.RelativeAge(r.CreatedDate, now); err == nil {
		v.RelativeAge = age
	}
	return v
}
