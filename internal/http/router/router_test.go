package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/database"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/events"
	"github.com/Satheshwaran26/rentr/internal/http/handler"
	"github.com/Satheshwaran26/rentr/internal/http/middleware"
	"github.com/Satheshwaran26/rentr/internal/http/router"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/Satheshwaran26/rentr/internal/service"
	"github.com/Satheshwaran26/rentr/internal/storage"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t          *testing.T
	handler    http.Handler
	dispatcher *events.Dispatcher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	require.NoError(t, database.SeedDemoData(context.Background(), db, log))

	cfg := &config.Config{
		App:       config.AppConfig{Name: "rentr", Environment: "development"},
		Auth:      config.AuthConfig{JWTSecret: "router-test-secret", Issuer: "rentr", TokenTTLHours: 1},
		Lifecycle: config.LifecycleConfig{ReviewTrigger: "manual"},
		Events:    config.EventsConfig{MaxAttempts: 3, BatchSize: 50},
		Storage:   config.StorageConfig{MaxUploadSizeMB: 1},
		Server:    config.ServerConfig{EnableSwagger: true},
		Security:  config.SecurityConfig{ContentTypeNosniff: true, FrameOptions: "DENY"},
	}

	store := repository.NewStore(db, 5*time.Second)
	hub := events.NewHub(nil, log)
	dispatcher := events.NewDispatcher(store, cfg.Events, log, events.NewNotificationSubscriber(store, log), hub)
	docs, err := storage.NewLocalStorage(t.TempDir(), 1<<20)
	require.NoError(t, err)

	deps := service.Deps{Store: store, Notifier: dispatcher, Clock: time.Now, Config: cfg.Lifecycle, Logger: log}
	tokens := auth.NewTokenManager(&cfg.Auth)
	activity := service.NewActivityService(store)

	rt := router.NewRouter(cfg, log, db, auth.NewMiddleware(tokens, log), middleware.NewRateLimiter(&cfg.RateLimit, log), router.Handlers{
		Auth:         handler.NewAuthHandler(service.NewAuthService(store, tokens, log), log),
		Vendor:       handler.NewVendorHandler(service.NewVendorService(deps), log),
		WorkOrder:    handler.NewWorkOrderHandler(service.NewWorkOrderService(deps), activity, log),
		Proposal:     handler.NewProposalHandler(service.NewProposalService(deps), log),
		Task:         handler.NewTaskHandler(service.NewTaskService(deps), log),
		Invoice:      handler.NewInvoiceHandler(service.NewInvoiceService(deps, docs), cfg.Storage.MaxUploadSizeMB, log),
		Notification: handler.NewNotificationHandler(service.NewNotificationService(store, log), log),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(store), activity, service.NewPropertyService(store), log),
		Events:       handler.NewEventsHandler(hub, log),
	})

	return &testAPI{t: t, handler: rt.Setup(), dispatcher: dispatcher}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: email, Password: password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp domain.LoginResponse
	decode(a.t, w, &resp)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), w.Body.String())
}

func requireAPIError(t *testing.T, w *httptest.ResponseRecorder, status int, errType string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	var body domain.APIError
	decode(t, w, &body)
	assert.Equal(t, errType, body.Type)
	assert.Equal(t, status, body.Status)
}

func (a *testAPI) manhattan(token string) uuid.UUID {
	a.t.Helper()
	w := a.do(http.MethodGet, "/api/v1/properties", token, nil)
	require.Equal(a.t, http.StatusOK, w.Code)
	var properties []domain.PropertyDTO
	decode(a.t, w, &properties)
	for _, p := range properties {
		if p.Area == "Manhattan" {
			return p.ID
		}
	}
	a.t.Fatal("no Manhattan property seeded")
	return uuid.Nil
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	for _, path := range []string{"/health/db", "/health/ready"} {
		w = api.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		var body map[string]interface{}
		decode(t, w, &body)
		assert.Equal(t, "healthy", body["status"], path)
	}
}

func TestAuthentication(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: "agent@rentr.com", Password: "wrong"})
	requireAPIError(t, w, http.StatusUnauthorized, string(domain.KindUnauthorized))

	w = api.do(http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: "not-an-email", Password: "x"})
	requireAPIError(t, w, http.StatusBadRequest, string(domain.KindValidation))

	w = api.do(http.MethodGet, "/api/v1/work-orders", "", nil)
	requireAPIError(t, w, http.StatusUnauthorized, domain.ErrorTypeUnauthenticated)

	w = api.do(http.MethodGet, "/api/v1/work-orders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := api.login("agent@rentr.com", "agent123")
	w = api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me domain.UserDTO
	decode(t, w, &me)
	assert.Equal(t, "agent@rentr.com", me.Email)
	assert.Equal(t, domain.RoleAgent, me.Role)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestVendorSignupAndApproval(t *testing.T) {
	api := newTestAPI(t)

	signup := domain.SignupVendorRequest{
		Name:              "Dana Ortiz",
		Email:             "dana@sparkfix.test",
		Password:          "secret99",
		ConfirmPassword:   "secret99",
		Phone:             "+12125550177",
		BusinessName:      "Sparkfix Electric",
		ServiceCategories: []domain.ServiceCategory{domain.CategoryElectrical},
		ServiceAreas:      []string{"Queens, Brooklyn"},
		Capacity:          3,
		AcceptTerms:       true,
	}
	w := api.do(http.MethodPost, "/api/v1/vendors/signup", "", signup)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var vendor domain.VendorDTO
	decode(t, w, &vendor)
	assert.Equal(t, domain.VendorStatusPending, vendor.Status)
	assert.Equal(t, "/api/v1/vendors/"+vendor.ID.String(), w.Header().Get("Location"))

	w = api.do(http.MethodPost, "/api/v1/vendors/signup", "", signup)
	requireAPIError(t, w, http.StatusBadRequest, string(domain.KindValidation))

	// A pending vendor can log in but not bid
	vendorToken := api.login("dana@sparkfix.test", "secret99")
	w = api.do(http.MethodGet, "/api/v1/vendors", vendorToken, nil)
	requireAPIError(t, w, http.StatusForbidden, string(domain.KindUnauthorized))

	admin := api.login("admin@rentr.com", "admin123")
	w = api.do(http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &vendor)
	assert.Equal(t, domain.VendorStatusApproved, vendor.Status)

	w = api.do(http.MethodPost, "/api/v1/vendors/"+vendor.ID.String()+"/approve", admin, nil)
	requireAPIError(t, w, http.StatusConflict, string(domain.KindInvalidTransition))

	w = api.do(http.MethodPost, "/api/v1/vendors/"+uuid.NewString()+"/approve", admin, nil)
	requireAPIError(t, w, http.StatusNotFound, string(domain.KindNotFound))

	w = api.do(http.MethodGet, "/api/v1/vendors/not-a-uuid", admin, nil)
	requireAPIError(t, w, http.StatusBadRequest, domain.ErrorTypeBadRequest)
}

func TestWorkOrderLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	agent := api.login("agent@rentr.com", "agent123")
	plumber := api.login("vendor@rentr.com", "vendor123")
	propertyID := api.manhattan(agent)

	// Validation surfaces field errors
	w := api.do(http.MethodPost, "/api/v1/work-orders", agent, domain.CreateWorkOrderRequest{PropertyID: propertyID})
	requireAPIError(t, w, http.StatusBadRequest, string(domain.KindValidation))
	var invalid domain.APIError
	decode(t, w, &invalid)
	assert.Contains(t, invalid.Errors, "title")

	deadline := time.Now().Add(48 * time.Hour).UTC()
	w = api.do(http.MethodPost, "/api/v1/work-orders", agent, domain.CreateWorkOrderRequest{
		Title:       "Burst pipe in basement",
		Category:    domain.CategoryPlumbing,
		Priority:    domain.PriorityUrgent,
		PropertyID:  propertyID,
		SLADeadline: &deadline,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order domain.WorkOrderDTO
	decode(t, w, &order)
	assert.Equal(t, domain.WorkOrderStatusPublished, order.Status)
	orderPath := "/api/v1/work-orders/" + order.ID.String()

	// Vendors cannot create orders
	w = api.do(http.MethodPost, "/api/v1/work-orders", plumber, domain.CreateWorkOrderRequest{
		Title: "x", Category: domain.CategoryPlumbing, Priority: domain.PriorityLow, PropertyID: propertyID, SLADeadline: &deadline,
	})
	requireAPIError(t, w, http.StatusForbidden, string(domain.KindUnauthorized))

	w = api.do(http.MethodGet, "/api/v1/work-orders/available", plumber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var available struct {
		Data  []domain.WorkOrderDTO `json:"data"`
		Total int64                 `json:"total"`
	}
	decode(t, w, &available)
	require.Equal(t, int64(1), available.Total)
	assert.Equal(t, order.ID, available.Data[0].ID)

	w = api.do(http.MethodPost, orderPath+"/proposals", plumber, domain.SubmitProposalRequest{EstimatedCost: 640, Availability: "Within 2 hours"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var proposal domain.ProposalDTO
	decode(t, w, &proposal)

	w = api.do(http.MethodPost, "/api/v1/proposals/"+proposal.ID.String()+"/approve", plumber, nil)
	requireAPIError(t, w, http.StatusForbidden, string(domain.KindUnauthorized))

	w = api.do(http.MethodPost, "/api/v1/proposals/"+proposal.ID.String()+"/approve", agent, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/v1/proposals/"+proposal.ID.String()+"/approve", agent, nil)
	requireAPIError(t, w, http.StatusConflict, string(domain.KindAlreadyDecided))

	// The vendor hears about the win through the outbox
	delivered, err := api.dispatcher.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Positive(t, delivered)
	w = api.do(http.MethodGet, "/api/v1/notifications/unread-count", plumber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unread map[string]int64
	decode(t, w, &unread)
	assert.Positive(t, unread["count"])

	// Completing before starting is not an edge of the lifecycle
	w = api.do(http.MethodPost, orderPath+"/complete", plumber, nil)
	requireAPIError(t, w, http.StatusConflict, string(domain.KindInvalidTransition))

	w = api.do(http.MethodPost, orderPath+"/start", plumber, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(http.MethodPost, orderPath+"/complete", plumber, domain.MarkCompleteRequest{Note: "Replaced the section"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Invoice with an attached document
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("amount", "615.50"))
	part, err := mw.CreateFormFile("document", "invoice-118.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 invoice"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, orderPath+"/invoices", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+plumber)
	w = httptest.NewRecorder()
	api.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var invoice domain.InvoiceDTO
	decode(t, w, &invoice)
	assert.InDelta(t, 615.50, invoice.Amount, 0.001)
	assert.Equal(t, "invoice-118.pdf", invoice.DocumentName)

	w = api.do(http.MethodGet, "/api/v1/invoices/"+invoice.ID.String()+"/document", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4 invoice", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-118.pdf")

	w = api.do(http.MethodPost, "/api/v1/invoices/"+invoice.ID.String()+"/approve", agent, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodGet, orderPath, agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail domain.WorkOrderDetailDTO
	decode(t, w, &detail)
	assert.Equal(t, domain.WorkOrderStatusClosed, detail.Status)
	require.NotNil(t, detail.ActualCost)
	assert.InDelta(t, 615.50, *detail.ActualCost, 0.001)

	w = api.do(http.MethodGet, orderPath+"/history", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []domain.StatusHistoryDTO
	decode(t, w, &history)
	require.NotEmpty(t, history)
	assert.Equal(t, domain.WorkOrderStatusClosed, history[len(history)-1].ToStatus)

	w = api.do(http.MethodPost, orderPath+"/rating", agent, domain.RateWorkOrderRequest{Score: 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/dashboard/stats", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitProposal_IneligibleVendorOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	agent := api.login("agent@rentr.com", "agent123")
	plumber := api.login("vendor@rentr.com", "vendor123")

	var queens uuid.UUID
	w := api.do(http.MethodGet, "/api/v1/properties", agent, nil)
	var properties []domain.PropertyDTO
	decode(t, w, &properties)
	for _, p := range properties {
		if p.Area == "Queens" {
			queens = p.ID
		}
	}
	require.NotEqual(t, uuid.Nil, queens)

	deadline := time.Now().Add(24 * time.Hour).UTC()
	w = api.do(http.MethodPost, "/api/v1/work-orders", agent, domain.CreateWorkOrderRequest{
		Title: "Dripping tap", Category: domain.CategoryPlumbing, Priority: domain.PriorityLow,
		PropertyID: queens, SLADeadline: &deadline,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order domain.WorkOrderDTO
	decode(t, w, &order)

	// The demo plumber covers Manhattan and Brooklyn only
	w = api.do(http.MethodPost, "/api/v1/work-orders/"+order.ID.String()+"/proposals", plumber,
		domain.SubmitProposalRequest{EstimatedCost: 90, Availability: "Tomorrow"})
	requireAPIError(t, w, http.StatusUnprocessableEntity, string(domain.KindVendorNotEligible))
}

func TestSwaggerIsServed(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/work-orders")
}
