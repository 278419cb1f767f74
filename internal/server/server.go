package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	appforecast "github.com/preston-bernstein/nba-projections-service/internal/app/forecast"
	appingest "github.com/preston-bernstein/nba-projections-service/internal/app/ingest"
	appplayers "github.com/preston-bernstein/nba-projections-service/internal/app/players"
	appprojections "github.com/preston-bernstein/nba-projections-service/internal/app/projections"
	appschedule "github.com/preston-bernstein/nba-projections-service/internal/app/schedule"
	appteams "github.com/preston-bernstein/nba-projections-service/internal/app/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/config"
	"github.com/preston-bernstein/nba-projections-service/internal/events"
	"github.com/preston-bernstein/nba-projections-service/internal/history"
	httpserver "github.com/preston-bernstein/nba-projections-service/internal/http"
	"github.com/preston-bernstein/nba-projections-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-projections-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-projections-service/internal/lock"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/metrics"
	"github.com/preston-bernstein/nba-projections-service/internal/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/runner"
	"github.com/preston-bernstein/nba-projections-service/internal/sources"
	"github.com/preston-bernstein/nba-projections-service/internal/sources/balldontlie"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         store.Store
	httpServer    httpServer
	metricsServer httpServer
	scheduler     Scheduler
	metricsStop   func(context.Context) error
	closers       []func(context.Context) error
}

// New validates cfg and wires the store, run lock, forecast runner and HTTP surface.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	}

	s := &Server{cfg: cfg, logger: logger}
	s.metrics, s.metricsServer, s.metricsStop = buildMetrics(cfg, logger, recorder)

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		s.closeAll(ctx)
		return nil, err
	}
	s.store = st
	s.closers = append(s.closers, st.Close)

	locker, closeLocker, err := buildLocker(ctx, cfg.Redis, logger)
	if err != nil {
		s.closeAll(ctx)
		return nil, err
	}
	s.closers = append(s.closers, func(context.Context) error { return closeLocker() })

	snaps := buildSnapshots(cfg.Snapshots, logger)
	publisher, err := buildPublisher(cfg.Events, logger)
	if err != nil {
		s.closeAll(ctx)
		return nil, err
	}
	if publisher != nil {
		s.closers = append(s.closers, publisher.Close)
	}
	hist, err := buildHistory(ctx, cfg.History, logger)
	if err != nil {
		s.closeAll(ctx)
		return nil, err
	}
	if hist != nil {
		s.closers = append(s.closers, hist.Close)
	}

	var extra []sources.ProjectionSink
	if snaps.writer != nil {
		extra = append(extra, snaps.writer)
	}
	if publisher != nil {
		extra = append(extra, publisher)
	}
	if hist != nil {
		extra = append(extra, hist)
	}
	forecaster, err := buildForecaster(cfg, st, locker, extra, logger, s.metrics)
	if err != nil {
		s.closeAll(ctx)
		return nil, err
	}
	ingester, err := buildIngester(cfg.Ingest, st, logger, s.metrics)
	if err != nil {
		s.closeAll(ctx)
		return nil, err
	}
	s.scheduler = runner.New(forecaster, logger, cfg.Forecast.Interval)
	s.httpServer = buildHTTPServer(cfg, st, snaps, s.scheduler, ingester, logger, s.metrics)
	return s, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, sched Scheduler) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		scheduler:  sched,
	}
}

func loadCoefficients(path string, logger *slog.Logger) (*projections.Coefficients, error) {
	if path == "" {
		return nil, nil
	}
	coeffs, err := projections.LoadCoefficientsFile(path)
	if err != nil {
		return nil, fmt.Errorf("load coefficients: %w", err)
	}
	logging.Info(logger, "forecast coefficients loaded", slog.String("path", path))
	return &coeffs, nil
}

// buildPublisher returns nil when no Kafka brokers are configured.
func buildPublisher(cfg config.EventsConfig, logger *slog.Logger) (*events.Publisher, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	pub, err := events.NewPublisher(events.Config{Brokers: cfg.Brokers, Topic: cfg.Topic, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("build publisher: %w", err)
	}
	logging.Info(logger, "publishing projections to kafka", slog.String("topic", cfg.Topic))
	return pub, nil
}

// buildHistory returns nil when no ClickHouse DSN is configured.
func buildHistory(ctx context.Context, cfg config.HistoryConfig, logger *slog.Logger) (*history.Store, error) {
	if cfg.DSN == "" {
		return nil, nil
	}
	hist, err := history.Open(ctx, cfg.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("open projection history: %w", err)
	}
	logging.Info(logger, "projection history enabled")
	return hist, nil
}

// buildForecaster writes to the store first, then to every extra sink.
func buildForecaster(cfg config.Config, st store.Store, locker lock.Locker, extra []sources.ProjectionSink, logger *slog.Logger, recorder *metrics.Recorder) (*appforecast.Service, error) {
	coeffs, err := loadCoefficients(cfg.Forecast.CoefficientsPath, logger)
	if err != nil {
		return nil, err
	}

	retry := sources.RetryOptions{Logger: logger, Metrics: recorder}
	sinks := append([]sources.ProjectionSink{st}, extra...)
	return appforecast.NewService(appforecast.Options{
		Players:      sources.NewRetryingPlayers(st, retry),
		GameLogs:     sources.NewRetryingGameLogs(st, retry),
		Matchups:     sources.NewRetryingMatchups(st, retry),
		Sinks:        sinks,
		Coefficients: coeffs,
		Locker:       locker,
		LockTTL:      cfg.Forecast.LockTTL,
		Logger:       logger,
		Metrics:      recorder,
	})
}

// buildIngester returns nil when no upstream is configured.
func buildIngester(cfg config.IngestConfig, st store.Store, logger *slog.Logger, recorder *metrics.Recorder) (*appingest.Service, error) {
	if cfg.Source != config.IngestBalldontlie {
		return nil, nil
	}
	client := balldontlie.NewClient(balldontlie.Config{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Logger:            logger,
	})
	retry := sources.RetryOptions{Logger: logger, Metrics: recorder}
	svc, err := appingest.NewService(appingest.Options{
		Teams:     sources.NewRetryingTeams(client, retry),
		Players:   sources.NewRetryingPlayers(client, retry),
		Matchups:  sources.NewRetryingMatchups(client, retry),
		GameLogs:  sources.NewRetryingGameLogs(client, retry),
		Store:     st,
		LogWindow: cfg.LogWindow,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build ingester: %w", err)
	}
	logging.Info(logger, "ingestion enabled", slog.String("source", cfg.Source))
	return svc, nil
}

func buildHTTPServer(cfg config.Config, st store.Store, snaps snapshotComponents, sched Scheduler, ingester *appingest.Service, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	var weekStore appprojections.SnapshotStore
	if snaps.store != nil {
		weekStore = snaps.store
	}
	svc := handlers.Services{
		Players:     appplayers.NewService(st),
		Teams:       appteams.NewService(st),
		Projections: appprojections.NewService(st, weekStore),
		Schedule:    appschedule.NewService(st),
	}

	// Without scheduled runs, readiness rests on the store ping alone.
	var statusFn func() runner.Status
	var manual handlers.ManualRunner
	if sched != nil {
		manual = sched
		if cfg.Forecast.Enabled {
			statusFn = sched.Status
		}
	}
	handler := handlers.NewHandler(svc, logger, statusFn, st.Ping)

	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		var ing handlers.Ingester
		if ingester != nil {
			ing = ingester
		}
		admin = handlers.NewAdminHandler(manual, ing, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	return newHTTPServer(":"+cfg.Port, wrapped)
}

// Run starts the metrics and HTTP servers and the forecast runner, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.cfg.Forecast.Enabled {
		s.scheduler.Start(ctx)
	} else {
		logging.Info(s.logger, "scheduled forecasts disabled, manual runs only")
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
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
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.scheduler != nil {
		if err := s.scheduler.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop forecast runner", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	s.closeAll(shutdownCtx)
	logging.Info(s.logger, "shutdown complete")
}

// closeAll releases backends in reverse order of acquisition.
func (s *Server) closeAll(ctx context.Context) {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	if err := errors.Join(errs...); err != nil {
		logging.Warn(s.logger, "closing backends failed", "error", err)
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
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "error", err)
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
