// Package api serves the weather dashboard: HTML pages, a JSON view of the
// same data, a PNG summary card and operational endpoints.
package api

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lox/weatherdash/internal/models"
	"github.com/lox/weatherdash/internal/pipeline"
)

// Runner is the dashboard pipeline as the server sees it.
type Runner interface {
	Run(ctx context.Context, city string) (*pipeline.Result, error)
	Cities() []models.City
}

type Server struct {
	runner  Runner
	port    string
	tmpl    *template.Template
	log     *zap.SugaredLogger
	started time.Time
	now     func() time.Time
}

func NewServer(runner Runner, port string, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		runner:  runner,
		port:    port,
		tmpl:    newTemplates(),
		log:     log,
		started: time.Now(),
		now:     time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/partials/dashboard", s.handleDashboardPartial).Methods(http.MethodGet)
	r.HandleFunc("/api/cities", s.handleAPICities).Methods(http.MethodGet)
	r.HandleFunc("/api/weather", s.handleAPIWeather).Methods(http.MethodGet)
	r.HandleFunc("/card.png", s.handleCard).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Warnw("http shutdown", "error", err)
		}
	}()

	s.log.Infow("http server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
