package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/publicfix/publicfix/internal/domain"
	"github.com/publicfix/publicfix/internal/service"
)

const (
	msgSaveFailed        = "Gagal menyimpan laporan. Silakan coba lagi."
	msgLoadFailed        = "Gagal memuat laporan. Silakan coba lagi."
	msgUnsupportedFormat = "Format foto tidak didukung. Gunakan JPEG, PNG, GIF, atau WebP."
)

var msgPhotoTooLarge = fmt.Sprintf("Ukuran foto terlalu besar. Maksimal %s.", humanize.IBytes(maxPhotoSize))

type listPage struct {
	Reports []*service.ReportView
	Saved   bool
	Error   string
}

// createPage is the create form, pre-filled with what the user submitted.
type createPage struct {
	SubmissionID string
	Street       string
	Description  string
	Location     string
	Category     domain.Category
	ImageURL     string
	Categories   []domain.CategoryOption
	Error        string
	ErrorField   string
}

type detailPage struct {
	Report *service.ReportView
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	page := listPage{Saved: r.URL.Query().Get("saved") == "1"}
	status := http.StatusOK

	reports, err := s.service.ListReports(r.Context())
	if err != nil {
		s.logger.Error("list reports failed", "error", err)
		page.Error = msgLoadFailed
		status = http.StatusInternalServerError
	}
	page.Reports = reports

	if err := s.renderPage(w, status, page, "pages/reports.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleNewReport(w http.ResponseWriter, r *http.Request) {
	page := createPage{
		SubmissionID: uuid.NewString(),
		Categories:   domain.Categories(),
	}
	if err := s.renderPage(w, http.StatusOK, page, "pages/create.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	form, err := parseReportForm(w, r)
	if err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		s.logger.Info("unreadable report form", "error", err)
		return
	}

	in := service.CreateReportInput{
		Street:      form.values.Get("street"),
		Description: form.values.Get("description"),
		Location:    form.values.Get("location"),
		Category:    domain.Category(form.values.Get("category")),
		ImageURL:    form.values.Get("image_url"),
	}
	page := createPage{
		SubmissionID: uuid.NewString(),
		Street:       in.Street,
		Description:  in.Description,
		Location:     in.Location,
		Category:     in.Category,
		ImageURL:     in.ImageURL,
		Categories:   domain.Categories(),
	}

	if form.photoTooLarge {
		s.logger.Info("rejected oversized photo upload", "limit", humanize.IBytes(maxPhotoSize))
		page.Error = msgPhotoTooLarge
		page.ErrorField = service.FieldPhoto
		if err := s.renderPage(w, http.StatusRequestEntityTooLarge, page, "pages/create.html"); err != nil {
			s.logger.Error("render page failed", "error", err)
		}
		return
	}

	photo, rejected := s.photoUpload(form.photo)
	in.Photo = photo

	token := strings.TrimSpace(form.values.Get("submission_id"))
	id, replayed, err := s.submissions.Do(token, func() (int64, error) {
		// Shared by every duplicate request, so it must outlive the first one.
		report, err := s.service.CreateReport(context.WithoutCancel(r.Context()), in)
		if err != nil {
			return 0, err
		}
		return report.ID, nil
	})
	if err == nil {
		if replayed {
			s.logger.Info("duplicate submission ignored", "submission_id", token, "report_id", id)
		}
		http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
		return
	}

	var verr *service.ValidationError
	status := http.StatusUnprocessableEntity
	switch {
	case errors.As(err, &verr):
		page.Error = verr.Message
		page.ErrorField = verr.Field
		if verr.Field == service.FieldPhoto && rejected {
			page.Error = msgUnsupportedFormat
		}
	default:
		s.logger.Error("create report failed", "error", err)
		page.Error = msgSaveFailed
		status = http.StatusInternalServerError
	}

	if err := s.renderPage(w, status, page, "pages/create.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, err := s.service.GetReport(r.Context(), id)
	if err != nil {
		http.Error(w, msgLoadFailed, http.StatusInternalServerError)
		s.logger.Error("get report failed", "report_id", id, "error", err)
		return
	}

	if report == nil {
		if err := s.renderPage(w, http.StatusNotFound, nil, "pages/not_found.html"); err != nil {
			s.logger.Error("render page failed", "error", err)
		}
		return
	}

	if err := s.renderPage(w, http.StatusOK, detailPage{Report: report}, "pages/detail.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
}
