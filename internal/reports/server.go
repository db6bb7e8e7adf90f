package reports

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
)

// maxUploadBytes bounds one submission including images.
const maxUploadBytes = 20 << 20

// Server exposes the report submission and listing routes.
type Server struct {
	httpServer *http.Server
	store      *Store
	uploadDir  string
	logger     *slog.Logger
}

// NewServer builds the reports HTTP server. The uploads directory is
// created if missing.
func NewServer(addr string, allowedOrigins []string, store *Store, uploadDir string,
	logger *slog.Logger) (*Server, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	s := &Server{store: store, uploadDir: uploadDir, logger: logger}

	// 5 requests/second per IP on the public submission route.
	submitRL := NewRateLimiter(rate.Limit(5), 10)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.With(submitRL.Limit).Post("/api/reports", s.handleSubmit)
	r.Get("/api/reports", s.handleList)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("reports server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	location := r.FormValue("location")
	threatType := r.FormValue("threat_type")
	message := r.FormValue("message")
	if location == "" || threatType == "" || message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}

	reporterName := r.FormValue("reporter_name")
	if reporterName == "" {
		reporterName = "Anonymous"
	}

	var imageURLs []string
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			url, err := s.saveImage(fh)
			if err != nil {
				s.logger.Error("image save failed", "filename", fh.Filename, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store image"})
				return
			}
			imageURLs = append(imageURLs, url)
		}
	}

	report := Report{
		ID:           ulid.MustNew(ulid.Now(), rand.Reader).String(),
		ReporterName: reporterName,
		Location:     location,
		ThreatType:   threatType,
		Message:      message,
		ImageURLs:    imageURLs,
		Status:       StatusNew,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Create(r.Context(), report); err != nil {
		s.logger.Error("report insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store report"})
		return
	}

	s.logger.Info("report submitted", "id", report.ID, "threat_type", threatType, "location", location)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "report_id": report.ID})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("report list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list reports"})
		return
	}
	if list == nil {
		list = []Report{}
	}
	writeJSON(w, http.StatusOK, list)
}

// saveImage stores one uploaded file under a ULID-prefixed sanitized
// name and returns its public URL path.
func (s *Server) saveImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := sanitizeFilename(fh.Filename)
	name = ulid.MustNew(ulid.Now(), rand.Reader).String() + "_" + name

	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + name, nil
}

// sanitizeFilename strips path components and characters that could
// escape the uploads directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
