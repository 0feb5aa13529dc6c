package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/usecase"
)

// DefaultMaxUploadBytes bounds multipart photo uploads
const DefaultMaxUploadBytes = 10 << 20

// HTTPObserver records per-request metrics
type HTTPObserver interface {
	ObserveHTTP(method string, status int, elapsed time.Duration)
}

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	media          interfaces.MediaStore
	observer       HTTPObserver
	metricsHandler http.Handler
	allowedOrigins []string
	maxUploadBytes int64
}

type Options func(*Server)

// WithMetrics enables request metrics and serves handler on /metrics
func WithMetrics(observer HTTPObserver, handler http.Handler) Options {
	return func(s *Server) {
		s.observer = observer
		s.metricsHandler = handler
	}
}

// WithMediaStore serves stored photos on /api/media/{id}
func WithMediaStore(store interfaces.MediaStore) Options {
	return func(s *Server) {
		s.media = store
	}
}

func WithAllowedOrigins(origins []string) Options {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func WithMaxUploadBytes(n int64) Options {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:         r,
		uc:             uc,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger(s.observer))
	r.Use(middleware.Recoverer)
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/prescriptions", func(r chi.Router) {
			r.Get("/", s.listPrescriptions)
			r.Post("/", s.commitPrescription)
			r.Post("/extract", s.extractPrescription)
			r.Delete("/{id}", s.deletePrescription)
		})
		r.Route("/captures", func(r chi.Router) {
			r.Post("/", s.startCapture)
			r.Get("/{id}", s.getCapture)
			r.Delete("/{id}", s.resetCapture)
			r.Post("/{id}/confirm", s.confirmCapture)
		})
		r.Get("/logs", s.listLogs)
		r.Get("/dashboard", s.dashboard)
		if s.media != nil {
			r.Get("/media/{id}", s.getMedia)
		}
	})

	r.Get("/update-dashboard", s.remoteDashboard)
	r.Get("/active-prescriptions", s.activePrescriptions)
	r.Get("/todays-medication", s.todaysMedication)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
