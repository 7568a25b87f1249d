package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/database"
	"github.com/Satheshwaran26/rentr/internal/http/handler"
	"github.com/Satheshwaran26/rentr/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/Satheshwaran26/rentr/docs" // Import generated swagger docs
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth         *handler.AuthHandler
	Vendor       *handler.VendorHandler
	WorkOrder    *handler.WorkOrderHandler
	Proposal     *handler.ProposalHandler
	Task         *handler.TaskHandler
	Invoice      *handler.InvoiceHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Events       *handler.EventsHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database readiness with pool stats
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.handlers
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/vendors/signup", h.Vendor.Signup)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", h.Vendor.List)
				r.Get("/{id}", h.Vendor.Get)
				r.Post("/{id}/approve", h.Vendor.Approve)
				r.Post("/{id}/reject", h.Vendor.Reject)
				r.Post("/{id}/block", h.Vendor.Block)
			})

			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", h.WorkOrder.List)
				r.Post("/", h.WorkOrder.Create)
				r.Get("/available", h.WorkOrder.ListAvailable)
				r.Get("/{id}", h.WorkOrder.Get)
				r.Patch("/{id}", h.WorkOrder.UpdateDraft)

				// Lifecycle endpoints
				r.Post("/{id}/publish", h.WorkOrder.Publish)
				r.Post("/{id}/review", h.WorkOrder.OpenReview)
				r.Post("/{id}/start", h.WorkOrder.StartWork)
				r.Post("/{id}/complete", h.WorkOrder.MarkComplete)
				r.Put("/{id}/sla", h.WorkOrder.ExtendSLA)
				r.Post("/{id}/rating", h.WorkOrder.Rate)
				r.Get("/{id}/history", h.WorkOrder.History)
				r.Get("/{id}/activity", h.WorkOrder.Activity)

				// Sub-resources
				r.Get("/{id}/proposals", h.Proposal.ListByWorkOrder)
				r.Post("/{id}/proposals", h.Proposal.Submit)
				r.Get("/{id}/tasks", h.Task.List)
				r.Post("/{id}/tasks", h.Task.Add)
				r.Post("/{id}/invoices", h.Invoice.Submit)
			})

			r.Route("/proposals", func(r chi.Router) {
				r.Get("/mine", h.Proposal.ListMine)
				r.Post("/{id}/approve", h.Proposal.Approve)
				r.Post("/{id}/reject", h.Proposal.Reject)
			})

			r.Patch("/tasks/{id}", h.Task.Update)

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", h.Invoice.List)
				r.Post("/{id}/approve", h.Invoice.Approve)
				r.Post("/{id}/reject", h.Invoice.Reject)
				r.Get("/{id}/document", h.Invoice.Download)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.CountUnread)
				r.Put("/read-all", h.Notification.MarkAllRead)
				r.Put("/{id}/read", h.Notification.MarkRead)
			})

			r.Get("/dashboard/stats", h.Dashboard.Stats)
			r.Get("/activity", h.Dashboard.Activity)
			r.Get("/properties", h.Dashboard.Properties)

			r.Get("/events/ws", h.Events.Stream)
		})
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := database.HealthCheck(ctx, rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	body := map[string]interface{}{
		"status":  "healthy",
		"service": "database",
	}
	if sqlDB, err := rt.db.DB(); err == nil {
		stats := sqlDB.Stats()
		body["stats"] = map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		}
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]interface{})
	status, code := "healthy", http.StatusOK
	if err := database.HealthCheck(ctx, rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		status, code = "unhealthy", http.StatusServiceUnavailable
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
