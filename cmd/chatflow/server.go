package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/api/handlers"
	"github.com/propertytek/chatflow/booking"
	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/chat"
	"github.com/propertytek/chatflow/config"
	"github.com/propertytek/chatflow/internal/metrics"
	"github.com/propertytek/chatflow/internal/server"
	"github.com/propertytek/chatflow/internal/telemetry"
	"github.com/propertytek/chatflow/llm"
	"github.com/propertytek/chatflow/notify"
	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/session"
	"github.com/propertytek/chatflow/workflow"
	"github.com/propertytek/chatflow/workflow/nodes"
)

// Server is the chatflow process: the chat pipeline plus its HTTP and
// metrics listeners.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	healthHandler *handlers.HealthHandler
	chatHandler   *handlers.ChatHandler

	metricsCollector *metrics.Collector
	otelProviders    *telemetry.Providers

	catalogStore *catalog.Store
	sessionStore *session.Store

	rateLimiterCancel context.CancelFunc
}

// NewServer creates a server from loaded configuration.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
	}
}

// Start wires the chat pipeline and starts both listeners.
func (s *Server) Start() error {
	s.metricsCollector = metrics.NewCollector("chatflow", s.logger)

	providers, err := telemetry.Init(s.cfg.Telemetry, s.logger)
	if err != nil {
		s.logger.Warn("failed to initialize telemetry", zap.Error(err))
	} else {
		s.otelProviders = providers
	}

	if err := s.initHandlers(); err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)
	return nil
}

// initHandlers builds the chat pipeline and the HTTP handlers over it.
func (s *Server) initHandlers() error {
	ctx := context.Background()

	store, err := catalog.Open(s.cfg.Catalog.Path, s.logger)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	s.catalogStore = store
	if s.cfg.Catalog.Seed {
		if err := store.Seed(ctx, catalog.SeedListings()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	sessions, err := session.NewStore(session.Config{
		Addr:         s.cfg.Session.Addr,
		Password:     s.cfg.Session.Password,
		DB:           s.cfg.Session.DB,
		TTL:          s.cfg.Session.TTL,
		PoolSize:     s.cfg.Session.PoolSize,
		MinIdleConns: s.cfg.Session.MinIdleConns,
		HistoryLimit: s.cfg.Session.HistoryLimit,
	}, s.logger)
	if err != nil {
		return fmt.Errorf("connect session store: %w", err)
	}
	s.sessionStore = sessions

	llmClient := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  s.cfg.LLM.APIKey,
		BaseURL: s.cfg.LLM.BaseURL,
		Timeout: s.cfg.LLM.Timeout,
	}, s.logger)
	if s.cfg.LLM.APIKey == "" {
		s.logger.Warn("LLM API key not configured, responses fall back to templates")
	}

	calendarProvider := scheduler.NewHTTPProvider(scheduler.HTTPConfig{
		BaseURL:  s.cfg.Calendar.BaseURL,
		APIKey:   s.cfg.Calendar.APIKey,
		TimeZone: s.cfg.Calendar.TimeZone,
		Timeout:  s.cfg.Calendar.Timeout,
	}, s.logger)

	smsSender := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID: s.cfg.SMS.AccountSID,
		AuthToken:  s.cfg.SMS.AuthToken,
		FromNumber: s.cfg.SMS.FromNumber,
		RatePerSec: s.cfg.SMS.RatePerSec,
	}, s.logger)

	registry := workflow.NewRegistry()
	if err := nodes.RegisterAll(registry, nodes.Deps{
		LLM:       llmClient,
		Catalog:   store,
		Scheduler: calendarProvider,
		SMS:       smsSender,
		Logger:    s.logger,
	}); err != nil {
		return fmt.Errorf("register nodes: %w", err)
	}

	graph, err := workflow.NewLeasingGraph(registry)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	tracker := telemetry.NewRunTracker(s.metricsCollector, s.logger)
	driver := workflow.NewDriver(graph, tracker, s.logger)
	bookingFlow := booking.NewFlow(store, s.logger)

	chatService, err := chat.NewService(chat.Options{
		Driver: driver,
		RunConfig: workflow.RunConfig{
			IntentModel:         s.cfg.Workflow.IntentModel,
			ResponseModel:       s.cfg.Workflow.ResponseModel,
			EnableSMS:           s.cfg.Workflow.EnableSMS,
			SlotDurationMinutes: s.cfg.Workflow.SlotDurationMinutes,
			MaxResearchLoops:    s.cfg.Workflow.MaxResearchLoops,
			MaxSearchIterations: s.cfg.Workflow.MaxSearchIterations,
			RecursionLimit:      s.cfg.Workflow.RecursionLimit,
			NodeTimeout:         s.cfg.Workflow.NodeTimeout,
		},
		RunTimeout: s.cfg.Workflow.RunTimeout,
		Booking:    bookingFlow,
		Sessions:   sessions,
		Catalog:    store,
		Scheduler:  calendarProvider,
		SMS:        smsSender,
		Collector:  s.metricsCollector,
		Logger:     s.logger,
	})
	if err != nil {
		return fmt.Errorf("build chat service: %w", err)
	}

	s.chatHandler = handlers.NewChatHandler(chatService, s.logger)

	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.RegisterCheck(handlers.NewPingCheck("redis", func(ctx context.Context) error {
		if !sessions.Healthy(ctx) {
			return fmt.Errorf("redis ping failed")
		}
		return nil
	}))
	s.healthHandler.RegisterCheck(handlers.NewPingCheck("catalog", store.Ping))

	s.logger.Info("Handlers initialized")
	return nil
}

// startHTTPServer starts the API listener.
func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	mux.HandleFunc("/api/v1/chat", s.chatHandler.HandleChat)

	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
	}
	if s.cfg.Telemetry.Enabled {
		middlewares = append(middlewares, OTelTracing())
	}
	middlewares = append(middlewares,
		CORS(s.cfg.Server.CORSOrigins),
		RateLimiter(rateLimiterCtx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger),
	)
	handler := Chain(mux, middlewares...)

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)
	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// startMetricsServer starts the Prometheus scrape listener.
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)
	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// WaitForShutdown blocks until a shutdown signal, then cleans up.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown stops all listeners and releases resources.
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}
	if s.sessionStore != nil {
		if err := s.sessionStore.Close(); err != nil {
			s.logger.Error("Session store close error", zap.Error(err))
		}
	}
	if s.otelProviders != nil {
		if err := s.otelProviders.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("Graceful shutdown completed")
}
