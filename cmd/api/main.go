// Entry point for REST API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"timesheet.service/internal/api"
	"timesheet.service/internal/api/middleware"
	"timesheet.service/internal/config"
	"timesheet.service/internal/core"
	"timesheet.service/internal/core/lifecycle"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
	"timesheet.service/pkg/aws"
	"timesheet.service/pkg/database"
	"timesheet.service/pkg/logger"
	"timesheet.service/pkg/telemetry"
)

const devJWTSecret = "local-dev-secret"

type stores struct {
	submissions repository.SubmissionRepository
	payments    repository.PaymentRepository
	timeOff     repository.TimeOffRepository
	users       repository.UserRepository
	tx          repository.Transactor
}

// localUsers populates the directory in memory mode, which has no
// access-management portal to sync from.
var localUsers = []model.User{
	{ID: "admin-1", Name: "Local Admin", Email: "admin@example.com", Role: model.RoleAdmin, Active: true},
	{ID: "manager-1", Name: "Local Manager", Email: "manager@example.com", Role: model.RoleManager, Active: true},
	{ID: "contractor-1", Name: "Local Contractor", Email: "contractor@example.com", Role: model.RoleContractor, Active: true},
	{ID: "contractor-2", Name: "Second Contractor", Email: "contractor2@example.com", Role: model.RoleContractor, Active: true},
}

func openStores(ctx context.Context, cfg config.Config) (stores, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("Using in-memory storage. Data is lost on restart.")
		mem := repository.NewMemoryStore(localUsers...)
		return stores{mem, mem, mem, mem, mem}, func() {}, nil
	}

	db, err := database.NewInstrumentedConnection(ctx, cfg)
	if err != nil {
		return stores{}, nil, err
	}
	log.Info().Msg("Successfully connected to the database.")
	return stores{
		submissions: repository.NewSubmissionRepository(db),
		payments:    repository.NewPaymentRepository(db),
		timeOff:     repository.NewTimeOffRepository(db),
		users:       repository.NewUserRepository(db),
		tx:          repository.NewTxManager(db),
	}, func() { db.Close() }, nil
}

// newProducer publishes to SQS when a notification queue is configured and
// only logs events otherwise.
func newProducer(ctx context.Context, cfg config.Config) (messaging.NotificationProducer, error) {
	if cfg.NotificationSQSQueueURL == "" {
		log.Warn().Msg("No notification queue configured; events will only be logged")
		return messaging.LogProducer{}, nil
	}

	awsCfg, err := aws.NewAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return messaging.NewSQSProducer(sqs.NewFromConfig(awsCfg), cfg.NotificationSQSQueueURL, cfg.PayrollSQSQueueURL), nil
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("timesheet-api", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	if cfg.JWTSecret == "" {
		if !cfg.IsLocalDev {
			log.Fatal().Msg("JWT_SECRET must be set")
		}
		log.Warn().Msg("JWT_SECRET not set; using the local development secret")
		cfg.JWTSecret = devJWTSecret
	}

	ctx := context.Background()

	st, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening storage")
	}
	defer closeStores()

	producer, err := newProducer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize dependencies
	applier := lifecycle.NewApplier(st.submissions, st.payments, st.tx, producer)
	submissionService := core.NewSubmissionService(st.submissions, st.payments, applier, producer)
	calendarService := core.NewCalendarService(st.timeOff, st.users)

	// Setup router and server
	router := api.NewRouter(submissionService, calendarService, middleware.NewAuthenticator(cfg.JWTSecret))

	// Middleware to inject logger with trace ID
	loggerMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.EnrichContextWithLogger(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(loggerMiddleware(router), "api")

	serverAddr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("storage", cfg.StorageDriver).Msg("API Service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// The server gets 5 seconds to finish the requests it is handling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
