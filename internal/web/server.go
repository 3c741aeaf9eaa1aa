package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/publicfix/publicfix/internal/photostore"
	"github.com/publicfix/publicfix/internal/service"
)

type Server struct {
	service     *service.ReportService
	templates   fs.FS
	photoStore  photostore.PhotoStore
	router      chi.Router
	logger      *slog.Logger
	submissions *submissionGuard
}

func NewServer(svc *service.ReportService, tmpl fs.FS, ps photostore.PhotoStore, logger *slog.Logger) *Server {
	s := &Server{
		service:     svc,
		templates:   tmpl,
		photoStore:  ps,
		router:      chi.NewRouter(),
		logger:      logger,
		submissions: newSubmissionGuard(rememberedSubmissions),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(func(next http.Handler) http.Handler { return requestLogger(s.logger, next) })
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(securityHeaders)

	s.router.Get("/", s.handleListReports)
	s.router.Get("/reports/new", s.handleNewReport)
	s.router.Post("/reports", s.handleCreateReport)
	s.router.Get("/reports/{id}", s.handleGetReport)
	s.router.Get("/photos/{key}", s.handleGetPhoto)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// Seeded and user-linked photos live on remote hosts.
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"form-action 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// renderPage parses base.html with one page template and executes it with
// the given status.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, page string) error {
	tmpl, err := template.ParseFS(s.templates, "base.html", page)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}
