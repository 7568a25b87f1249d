package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Satheshwaran26/rentr/docs"
	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/database"
	"github.com/Satheshwaran26/rentr/internal/events"
	"github.com/Satheshwaran26/rentr/internal/http/handler"
	"github.com/Satheshwaran26/rentr/internal/http/middleware"
	"github.com/Satheshwaran26/rentr/internal/http/router"
	"github.com/Satheshwaran26/rentr/internal/jobs"
	"github.com/Satheshwaran26/rentr/internal/logger"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/Satheshwaran26/rentr/internal/service"
	"github.com/Satheshwaran26/rentr/internal/storage"
	"go.uber.org/zap"
)

// @title Rentr Maintenance API
// @version 1.0
// @description Property maintenance lifecycle: vendor approval, work orders, proposals, SLA tracking and invoicing
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@rentr.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// In staging/production secrets come from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	if cfg.Database.SeedDemoData {
		if err := database.SeedDemoData(ctx, db, log); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	store := repository.NewStore(db, cfg.Lifecycle.LockTimeout())

	// Event subscribers run after commit, in order
	hub := events.NewHub(cfg.CORS.AllowedOrigins, log)
	subscribers := []events.Subscriber{
		events.NewNotificationSubscriber(store, log),
		hub,
	}
	if cfg.SMS.Enabled {
		sender, err := events.NewTwilioSender(cfg.SMS)
		if err != nil {
			return fmt.Errorf("failed to initialize sms sender: %w", err)
		}
		subscribers = append(subscribers, events.NewSMSNotifier(store, sender, log))
	} else {
		log.Info("SMS notifications disabled")
	}
	dispatcher := events.NewDispatcher(store, cfg.Events, log, subscribers...)

	deps := service.Deps{
		Store:    store,
		Notifier: dispatcher,
		Clock:    time.Now,
		Config:   cfg.Lifecycle,
		Logger:   log,
	}
	vendorService := service.NewVendorService(deps)
	workOrderService := service.NewWorkOrderService(deps)
	proposalService := service.NewProposalService(deps)
	taskService := service.NewTaskService(deps)
	invoiceService := service.NewInvoiceService(deps, fileStorage)
	slaMonitor := service.NewSLAMonitor(deps)
	reviewAdvancer := service.NewReviewAdvancer(deps)

	tokens := auth.NewTokenManager(&cfg.Auth)
	authService := service.NewAuthService(store, tokens, log)
	notificationService := service.NewNotificationService(store, log)
	activityService := service.NewActivityService(store)
	dashboardService := service.NewDashboardService(store)
	propertyService := service.NewPropertyService(store)

	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		Vendor:       handler.NewVendorHandler(vendorService, log),
		WorkOrder:    handler.NewWorkOrderHandler(workOrderService, activityService, log),
		Proposal:     handler.NewProposalHandler(proposalService, log),
		Task:         handler.NewTaskHandler(taskService, log),
		Invoice:      handler.NewInvoiceHandler(invoiceService, cfg.Storage.MaxUploadSizeMB, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, activityService, propertyService, log),
		Events:       handler.NewEventsHandler(hub, log),
	})

	// Deliver events left in the outbox by a previous run
	dispatchCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(dispatchCtx)
	}()
	dispatcher.Kick()

	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterLifecycleJobs(scheduler, cfg, slaMonitor, reviewAdvancer, dispatcher, log, true); err != nil {
		stopDispatcher()
		return fmt.Errorf("failed to register lifecycle jobs: %w", err)
	}
	scheduler.Start()
	log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			runErr = err
		}
	}

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	log.Info("Scheduler stopped")

	// Committed events stay in the outbox and are redelivered on the next start
	stopDispatcher()
	<-dispatcherDone

	if runErr == nil {
		log.Info("Server stopped gracefully")
	}
	return runErr
}
