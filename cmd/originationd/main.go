package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/loan-origination/internal/application/usecase"
	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/internal/domain/service"
	"github.com/bibbank/loan-origination/internal/infrastructure/cache"
	"github.com/bibbank/loan-origination/internal/infrastructure/config"
	"github.com/bibbank/loan-origination/internal/infrastructure/document"
	"github.com/bibbank/loan-origination/internal/infrastructure/kafka"
	"github.com/bibbank/loan-origination/internal/infrastructure/notification"
	pgRepo "github.com/bibbank/loan-origination/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/loan-origination/internal/infrastructure/storage"
	grpcPresentation "github.com/bibbank/loan-origination/internal/presentation/grpc"
	"github.com/bibbank/loan-origination/internal/presentation/rest"
	"github.com/bibbank/loan-origination/migrations"
	"github.com/bibbank/loan-origination/pkg/auth"
	pkgkafka "github.com/bibbank/loan-origination/pkg/kafka"
	"github.com/bibbank/loan-origination/pkg/observability"
	pkgpostgres "github.com/bibbank/loan-origination/pkg/postgres"
	"github.com/bibbank/loan-origination/pkg/residency"
)

func main() {
	if err := run(); err != nil {
		slog.Error("loan-origination exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting loan-origination",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
		SampleRatio: 1,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	decisionMetrics, err := observability.NewDecisionMetrics(meterProvider)
	if err != nil {
		return fmt.Errorf("init decision metrics: %w", err)
	}

	// Underwriting policy.
	uwPolicy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("load underwriting policy: %w", err)
	}
	engine := service.NewEligibilityEngine(uwPolicy)
	sanctionCalc := service.NewSanctionCalculator(uwPolicy)
	rates := service.NewRateSelector(uwPolicy.RateTable)
	logger.Info("underwriting policy loaded",
		"file", cfg.PolicyFile,
		"min_credit_score", uwPolicy.MinCreditScore,
		"max_foir_pct", uwPolicy.MaxFOIRPct.String(),
	)

	// Database connection.
	dbCfg := pkgpostgres.Config{
		URL:      cfg.DB.URL,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns),

		ApplicationName:  cfg.ServiceName,
		StatementTimeout: cfg.DB.StatementTimeout,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), migrations.FS, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Profile cache.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, profile reads go to postgres", "addr", cfg.Redis.Addr, "error", err)
	}

	customers := cache.NewCachedCustomerRepository(pgRepo.NewCustomerRepo(pool), redisClient, cfg.Redis.ProfileTTL, logger)
	appRepo := pgRepo.NewLoanApplicationRepo(pool)

	// Event publishing.
	kafkaProducer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.ServiceName,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
		TLS:           cfg.Kafka.TLS,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer kafkaProducer.Close()
	publisher := kafka.NewKafkaEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)

	// Sanction documents.
	if err := checkResidency(cfg.Storage, logger); err != nil {
		return err
	}
	store, err := storage.NewDocumentStore(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Secure:    cfg.Storage.Secure,
		URLExpiry: cfg.Storage.URLExpiry,
	})
	if err != nil {
		return fmt.Errorf("connect to document store: %w", err)
	}
	renderer, err := document.NewRenderer(document.Lender{
		Name:    cfg.LenderName,
		Address: cfg.LenderAddress,
		Support: cfg.LenderSupport,
	})
	if err != nil {
		return fmt.Errorf("load sanction letter template: %w", err)
	}

	var notifier port.Notifier
	if cfg.SMTP.Host != "" {
		notifier = notification.NewEmailNotifier(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logger.Info("SMTP not configured, sanction emails disabled")
	}

	// Wire use cases.
	sanctionLoan := usecase.NewSanctionLoanUseCase(usecase.SanctionLoanDeps{
		Customers:     customers,
		Applications:  appRepo,
		Publisher:     publisher,
		Engine:        engine,
		Sanction:      sanctionCalc,
		Renderer:      renderer,
		Store:         store,
		Notifier:      notifier,
		Metrics:       decisionMetrics,
		Logger:        logger,
		NotifyTimeout: cfg.SMTP.SendTimeout,
	})
	handler := grpcPresentation.NewHandler(grpcPresentation.UseCases{
		GetOffer:              usecase.NewGetOfferUseCase(customers, engine),
		QuoteEMI:              usecase.NewQuoteEMIUseCase(customers, rates),
		EvaluateEligibility:   usecase.NewEvaluateEligibilityUseCase(customers, publisher, engine, decisionMetrics, logger),
		SanctionLoan:          sanctionLoan,
		GetApplication:        usecase.NewGetApplicationUseCase(appRepo),
		ListApplications:      usecase.NewListApplicationsUseCase(appRepo),
		ChangeStatus:          usecase.NewChangeApplicationStatusUseCase(appRepo, publisher, logger),
		GetKYC:                usecase.NewGetKYCUseCase(customers),
		ListCustomerDocuments: usecase.NewListCustomerDocumentsUseCase(customers, appRepo, store, logger),
		RecordSalarySlip:      usecase.NewRecordSalarySlipUseCase(customers, customers, publisher, logger),
		GetRepaymentSchedule:  usecase.NewGetRepaymentScheduleUseCase(appRepo),
	}, logger)

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	grpcServer, err := grpcPresentation.NewServer(handler, logger, jwtSvc, grpcPresentation.ServerOptions{
		TLSCertFile:     cfg.TLS.CertFile,
		TLSKeyFile:      cfg.TLS.KeyFile,
		TLSClientCAFile: cfg.TLS.ClientCAFile,
		Reflection:      cfg.TLS.Reflection,
	})
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, map[string]rest.Pinger{
		"postgres": rest.PingFunc(func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }),
	}, metricsHandler, logger).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	// Sanction emails still in flight are bounded by SMTP_SEND_TIMEOUT.
	sanctionLoan.Wait()

	logger.Info("loan-origination stopped")
	return serveErr
}

// newJWTService builds a validation-only JWT service: public key preferred,
// shared secret as fallback.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Leeway:   cfg.ClockSkew,
	}
	switch {
	case cfg.PublicKeyPEM != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKeyPEM
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key file: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Secret
	}
	return auth.NewJWTService(jwtCfg)
}

// checkResidency refuses to start when the document store breaks the data
// residency rule, unless enforcement is switched off for local development.
func checkResidency(cfg config.StorageConfig, logger *slog.Logger) error {
	err := residency.NewChecker(nil).CheckStorage(residency.Jurisdiction(cfg.Jurisdiction), residency.StorageLocation{
		Region: cfg.Region,
		Secure: cfg.Secure,
	})
	if err == nil {
		return nil
	}
	if cfg.EnforceResidency {
		return fmt.Errorf("document store: %w", err)
	}
	logger.Warn("document store violates data residency, enforcement disabled", "jurisdiction", cfg.Jurisdiction, "error", err)
	return nil
}
