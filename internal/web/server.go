package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/actionpulse/actionpulse/internal/config"
)

// Server is the optional local status API. It binds to the configured host,
// localhost by default.
type Server struct {
	config *config.Config
	log    logrus.FieldLogger
	server *http.Server
}

func NewServer(cfg *config.Config, handler *Handler, gatherer prometheus.Gatherer, log logrus.FieldLogger) *Server {
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(handler, gatherer, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		config: cfg,
		log:    log,
		server: httpServer,
	}
}

// NewRouter wires the API routes.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger(log))

	r.Get("/health", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Get("/reports", h.handleReports)
		r.Get("/reports/{id}", h.handleReport)
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"code":       ww.Status(),
				"duration":   time.Since(start),
				"request_id": chimiddleware.GetReqID(r.Context()),
			}).Debug("http request")
		})
	}
}

// Start blocks serving until Shutdown. http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	s.log.Infof("Starting web server on http://%s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down web server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}
