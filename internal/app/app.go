package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"truccoanalytics/internal/config"
	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/internal/infrastructure"
	custommw "truccoanalytics/internal/middleware"
	"truccoanalytics/internal/prediction"
	"truccoanalytics/internal/services"
	"truccoanalytics/internal/session"
	handlers "truccoanalytics/internal/transport/http"
	ws "truccoanalytics/internal/websocket"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// janitorInterval is how often expired sessions are swept.
const janitorInterval = time.Minute

// Application is the dependency container of the analytics server.
type Application struct {
	Config            *config.Config
	Router            *chi.Mux
	Server            *http.Server
	Logger            *slog.Logger
	OTelProviders     *infrastructure.OTelProviders
	SessionStore      *session.Store
	WebSocketHub      *ws.Hub
	DataService       *services.DataService
	PredictionService *prediction.Service
	HealthService     *services.HealthService

	janitorCancel context.CancelFunc
}

// NewApplication wires configuration, logging, telemetry, services and the
// HTTP router into a runnable application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig builds the application around an explicit
// configuration. Used by tests.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	otelMiddleware, err := custommw.NewOTelMiddleware(providers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry middleware: %w", err)
	}

	store := session.NewStore(cfg.Upload.SessionTTL, cfg.Upload.MaxSessions, logger)
	hub := ws.NewHub(logger)

	app := &Application{
		Config:            cfg,
		Logger:            logger,
		OTelProviders:     providers,
		SessionStore:      store,
		WebSocketHub:      hub,
		DataService:       services.NewDataService(store, otelMiddleware.Metrics(), logger),
		PredictionService: prediction.NewService(logger),
		HealthService:     services.NewHealthService(Version, store, hub, logger),
	}

	app.setupRouter(otelMiddleware)
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	logger.Info("application initialized",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port),
		slog.Int64("max_upload_bytes", cfg.Upload.MaxFileSize))

	return app, nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter(otelMiddleware *custommw.OTelMiddleware) {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StripSlashes)
	r.Use(otelMiddleware.Handler)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	workbookHandler := handlers.NewWorkbookHandler(
		a.DataService, a.WebSocketHub, a.Config.Upload.MaxFileSize, a.Logger, errorHandler)
	predictionHandler := handlers.NewPredictionHandler(a.PredictionService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Mount("/workbooks", workbookHandler.Routes())
		r.Mount("/predictions", predictionHandler.Routes())
		r.Mount("/healthz", healthHandler.Routes())
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Route("/ws", func(r chi.Router) {
		r.Use(custommw.WebSocketTraceMiddleware(a.Logger))
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			ws.ServeWS(a.WebSocketHub, w, req, a.Logger)
		})
	})

	a.Router = r
}

// Run starts the server and blocks until shutdown. It handles SIGINT and
// SIGTERM by draining in-flight requests before exiting.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the server and blocks until the context is cancelled
// or the listener fails.
func (a *Application) RunContext(ctx context.Context) error {
	a.WebSocketHub.Start()

	janitorCtx, cancel := context.WithCancel(context.Background())
	a.janitorCancel = cancel
	a.SessionStore.StartJanitor(janitorCtx, janitorInterval)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.shutdown(context.Background())
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
		return a.shutdown(context.Background())
	}
}

func (a *Application) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		firstErr = err
	}

	a.WebSocketHub.Stop()
	if a.janitorCancel != nil {
		a.janitorCancel()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("telemetry shutdown failed", slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}

	a.Logger.Info("shutdown complete")
	return firstErr
}
