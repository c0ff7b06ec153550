package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mindweave/mindweave-server/internal/analyzer"
	grpchealth "github.com/mindweave/mindweave-server/internal/api/grpc/health"
	grpcrouter "github.com/mindweave/mindweave-server/internal/api/grpc/router"
	apicontext "github.com/mindweave/mindweave-server/internal/api/http/context"
	"github.com/mindweave/mindweave-server/internal/api/http/handler"
	"github.com/mindweave/mindweave-server/internal/api/http/middleware"
	"github.com/mindweave/mindweave-server/internal/api/http/router"
	"github.com/mindweave/mindweave-server/internal/cache"
	"github.com/mindweave/mindweave-server/internal/config"
	"github.com/mindweave/mindweave-server/internal/housekeeping"
	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/metrics"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/pipeline"
	"github.com/mindweave/mindweave-server/internal/repository/postgres"
	"github.com/mindweave/mindweave-server/internal/server"
	"github.com/mindweave/mindweave-server/internal/service"
	"github.com/mindweave/mindweave-server/internal/session"
	storage "github.com/mindweave/mindweave-server/internal/storage/minio"
	"github.com/mindweave/mindweave-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

func addServe(topLevel *cobra.Command) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC ops listener (default).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	})
}

func runServe(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := logger.New(cfg.LogLevel)
	logger.Info("starting mindweave server", "version", buildVersion, "commit", buildCommit, "date", buildDate)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := postgres.NewConection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	m := metrics.New()
	hub := session.NewHub(logger, 0)
	ctxMgr := apicontext.NewManager()

	userRepo := postgres.NewUserRepository(db)
	entryRepo := postgres.NewEntryRepository(db)
	reflectionRepo := postgres.NewReflectionRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, cfg.JWT.RefreshTTL, logger)
	authService := service.NewAuth(userRepo, tokenService, hub, logger, cfg.Auth.BcryptCost)

	entryCache, err := cache.NewEntryStore(entryRepo, cfg.Cache.MaxUsers, logger)
	if err != nil {
		return fmt.Errorf("failed to create entry cache: %w", err)
	}
	reflectionCache, err := cache.NewReflectionStore(reflectionRepo, cfg.Cache.MaxUsers, logger)
	if err != nil {
		return fmt.Errorf("failed to create reflection cache: %w", err)
	}
	entryCache.Observe(m.CacheLoad)
	reflectionCache.Observe(m.CacheLoad)
	defer entryCache.Listen(hub)()
	defer reflectionCache.Listen(hub)()

	reflector, closeAnalyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAnalyzer()
	reflector = analyzer.Instrumented(reflector, m.AnalyzerFinished)

	submissions := pipeline.New(entryRepo, reflectionRepo, reflector, logger,
		pipeline.WithAnalyzerTimeout(cfg.Analyzer.Timeout),
		pipeline.WithObserver(func(_ uuid.UUID, from, to pipeline.State) {
			m.Transition(string(from), string(to))
		}),
	)
	journalService := service.NewJournal(entryRepo, reflectionRepo, entryCache, reflectionCache, submissions, m, logger)
	subscriptionService := service.NewSubscription(subscriptionRepo, nil, logger)

	exportStorage, err := storage.New(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize export storage: %w", err)
	}
	exportService := service.NewExport(journalService, userRepo, subscriptionService, exportStorage, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, ctxMgr, logger)

	handlers := router.Handlers{
		Auth:         handler.NewAuth(authService, ctxMgr, logger),
		Journal:      handler.NewJournal(journalService, ctxMgr, handler.NewLocator(loc), logger),
		Subscription: handler.NewSubscription(subscriptionService, ctxMgr, logger),
		Export:       handler.NewExport(exportService, ctxMgr, logger),
		Session:      handler.NewSession(hub, m, ctxMgr, cfg.HTTP.AllowedOrigins, logger),
		Health:       handler.NewHealth(db, buildVersion),
		Metrics:      m.Handler(),
	}
	// Only an in-process model can serve the analyze contract; a remote analyzer already does.
	if cfg.Analyzer.Mode == config.AnalyzerGemini {
		handlers.Analyze = handler.NewAnalyze(reflector, logger)
	}
	api := router.New(handlers, authService, ctxMgr, limiter, m, cfg.HTTP.RequestTimeout, logger).Register()

	checker := grpchealth.NewChecker(db, cfg.GRPC.HealthInterval, logger)
	checkerCtx, stopChecker := context.WithCancel(ctx)
	defer stopChecker()
	go checker.Run(checkerCtx)

	scheduler := housekeeping.New(m, cfg.Housekeeping.JobTimeout, logger)
	jobs := []housekeeping.Job{
		housekeeping.PurgeRefreshTokens(cfg.Housekeeping.TokenPurgeSchedule, tokenService, logger),
		housekeeping.SweepRateLimiters(cfg.Housekeeping.LimiterSchedule, limiter, cfg.Housekeeping.LimiterIdle, logger),
	}
	for _, job := range jobs {
		if err := scheduler.Add(job); err != nil {
			return err
		}
	}
	scheduler.Start()

	httpServer := server.NewHTTPServer(api, cfg.HTTP.Address)
	opsServer := server.NewGRPCServer(grpcrouter.New(checker, logger).Register(), cfg.GRPC.Address)

	var httpLayer model.SecurityLayer = server.NewPlainListener()
	if cfg.HTTP.EnableHTTPS {
		httpLayer = server.NewSecurityLayer(cfg.HTTP.CertFileName, cfg.HTTP.KeyFileName)
	}

	var wg sync.WaitGroup
	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("starting server", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
			}
		}()
	}
	start(httpServer, httpLayer)
	start(opsServer, server.NewPlainListener())

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}
	stopChecker()
	if err := opsServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", opsServer.Address())
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("housekeeping did not stop in time", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return nil
}

func newAnalyzer(ctx context.Context, cfg *config.Config) (model.Analyzer, func(), error) {
	switch cfg.Analyzer.Mode {
	case config.AnalyzerHTTP:
		return analyzer.NewHTTPClient(cfg.Analyzer.URL, &http.Client{}, cfg.Analyzer.ResponseFields), func() {}, nil
	default:
		g, err := analyzer.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize analyzer: %w", err)
		}
		return g, func() { _ = g.Close() }, nil
	}
}
