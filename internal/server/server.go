package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golf-match-service/internal/app/enrollment"
	"golf-match-service/internal/app/leaderboard"
	"golf-match-service/internal/app/matches"
	"golf-match-service/internal/app/scoring"
	"golf-match-service/internal/config"
	httpserver "golf-match-service/internal/http"
	"golf-match-service/internal/http/handlers"
	"golf-match-service/internal/http/middleware"
	"golf-match-service/internal/logging"
	"golf-match-service/internal/maintenance"
	"golf-match-service/internal/metrics"
	"golf-match-service/internal/store"
	"golf-match-service/internal/tracing"
)

var (
	metricsSetup = metrics.Setup
	tracingSetup = tracing.Setup
)

// Maintenance is the background store housekeeping the server drives.
type Maintenance interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() maintenance.Status
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.SQLStore
	httpServer    httpServer
	metricsServer httpServer
	maintenance   Maintenance
	metricsStop   func(context.Context) error
	tracingStop   func(context.Context) error
	closeStore    func() error
}

// New opens the store and wires services, routes and telemetry. The store is
// the only hard dependency: telemetry failures are logged and skipped.
func New(ctx context.Context, cfg config.Config, version string, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, version, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, version string, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)
	tracingShutdown := buildTracing(ctx, cfg, version, logger)

	st, err := store.Open(ctx, store.Config{
		Path:         cfg.Database.Path,
		BusyTimeout:  cfg.Database.BusyTimeout,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, logger, recorder)
	if err != nil {
		shutdownTelemetry(ctx, metricsShutdown, tracingShutdown)
		return nil, fmt.Errorf("build server: %w", err)
	}

	var maint Maintenance
	if cfg.Database.CheckpointInterval > 0 {
		maint = maintenance.New(st, logger, cfg.Database.CheckpointInterval)
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		httpServer:    buildHTTPServer(cfg, st, maint, logger, recorder),
		metricsServer: metricsSrv,
		maintenance:   maint,
		metricsStop:   metricsShutdown,
		tracingStop:   tracingShutdown,
		closeStore:    st.Close,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, closeStore func() error) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		closeStore: closeStore,
	}
}

func buildServices(cfg config.Config, st *store.SQLStore, recorder *metrics.Recorder) handlers.Services {
	return handlers.Services{
		Matches:     matches.NewService(st, cfg.MaxHoles, recorder),
		Enrollment:  enrollment.NewService(st, recorder),
		Scoring:     scoring.NewService(st, recorder),
		Leaderboard: leaderboard.NewService(st),
	}
}

// readiness fails when the store stops answering or housekeeping keeps failing.
func readiness(st *store.SQLStore, maint Maintenance) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := st.Ping(ctx); err != nil {
			return err
		}
		if maint != nil {
			if status := maint.Status(); !status.Healthy() {
				return fmt.Errorf("store maintenance failing: %s", status.LastError)
			}
		}
		return nil
	}
}

func buildHTTPServer(cfg config.Config, st *store.SQLStore, maint Maintenance, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := handlers.NewHandler(buildServices(cfg, st, recorder), logger, readiness(st, maint))

	var static http.Handler
	if cfg.StaticDir != "" {
		static = handlers.Static(cfg.StaticDir)
	}
	router := httpserver.NewRouter(handler, static)
	wrapped := httpserver.WithMiddleware(router, httpserver.Options{
		Logger:        logger,
		Recorder:      recorder,
		AllowedOrigin: cfg.HTTP.AllowedOrigin,
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.HTTP.RateLimitRPS,
			Burst: cfg.HTTP.RateLimitBurst,
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP servers and store maintenance, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.maintenance != nil {
		s.maintenance.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String(logging.FieldAddr, s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String(logging.FieldAddr, s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// gracefulShutdown drains HTTP traffic before closing the store so in-flight
// requests finish their transactions.
func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.maintenance != nil {
		if err := s.maintenance.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop maintenance", "error", err)
		}
	}

	if s.closeStore != nil {
		if err := s.closeStore(); err != nil && s.logger != nil {
			s.logger.Error("failed to close store", "error", err)
		}
	}

	s.shutdownTelemetry(shutdownCtx)

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func (s *Server) shutdownTelemetry(ctx context.Context) {
	if s.metricsStop != nil {
		if err := s.metricsStop(ctx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if s.tracingStop != nil {
		if err := s.tracingStop(ctx); err != nil && s.logger != nil {
			s.logger.Warn("tracing shutdown failed", "error", err)
		}
	}
}

func shutdownTelemetry(ctx context.Context, stops ...func(context.Context) error) {
	for _, stop := range stops {
		if stop != nil {
			_ = stop(ctx)
		}
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func buildTracing(ctx context.Context, cfg config.Config, version string, logger *slog.Logger) func(context.Context) error {
	shutdown, err := tracingSetup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Metrics.ServiceName,
		Version:     version,
		Endpoint:    cfg.Metrics.OtlpEndpoint,
		Insecure:    cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		if logger != nil {
			logger.Warn("tracing setup failed, continuing without spans", "err", err)
		}
		return nil
	}
	return shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
