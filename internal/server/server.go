package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sewcio543/soupsavvy-sub002/internal/config"
	"github.com/sewcio543/soupsavvy-sub002/internal/logging"
	"github.com/sewcio543/soupsavvy-sub002/internal/source"
)

const shutdownTimeout = 10 * time.Second

// Config contains server configuration.
type Config struct {
	Addr             string
	CORS             CORSConfig
	RateLimit        RateLimitConfig
	RateLimitEnabled bool
	MaxBody          int64
	AllowFetch       bool
}

// ConfigFrom derives server settings from application configuration.
func ConfigFrom(cfg *config.Config) Config {
	cors := DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		cors.AllowOrigins = cfg.Server.CORSOrigins
	}
	return Config{
		Addr: cfg.Server.Addr,
		CORS: cors,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
		RateLimitEnabled: cfg.RateLimit.Enabled,
		MaxBody:          cfg.Server.MaxBody,
		AllowFetch:       cfg.Server.AllowFetch,
	}
}

// Server exposes selection and extraction over HTTP.
type Server struct {
	cfg      Config
	router   *gin.Engine
	loader   *source.Loader
	logger   *logging.Logger
	metrics  *Metrics
	registry *prometheus.Registry
}

// New wires routes and middleware. A nil registry gets a fresh one holding
// the API, loader and Go runtime metrics.
func New(cfg Config, loader *source.Loader, logger *logging.Logger, reg *prometheus.Registry) *Server {
	logger = logging.OrNop(logger).Named("server")
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		loader.WithMetrics(source.NewMetrics(reg))
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:      cfg,
		router:   gin.New(),
		loader:   loader,
		logger:   logger,
		metrics:  NewMetrics(reg),
		registry: reg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.logger), Instrument(s.metrics), CORS(s.cfg.CORS))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1", BodyLimit(s.cfg.MaxBody))
	if s.cfg.RateLimitEnabled {
		v1.Use(RateLimit(s.cfg.RateLimit, 10*time.Minute))
	}
	v1.POST("/select", s.selectElements)
	v1.POST("/extract", s.extractRecords)
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
