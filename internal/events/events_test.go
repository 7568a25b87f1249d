package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/Satheshwaran26/rentr/internal/testutil"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSubscriber struct {
	mu   sync.Mutex
	seen []uuid.UUID
	err  error
}

func (s *recordingSubscriber) Name() string { return "recording" }

func (s *recordingSubscriber) Handle(_ context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.seen = append(s.seen, event.ID)
	return nil
}

func (s *recordingSubscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(testutil.SetupTestDB(t), time.Second)
}

func createEvent(t *testing.T, store *repository.Store, eventType domain.EventType, actorID, vendorID *uuid.UUID) *domain.Event {
	t.Helper()
	event := &domain.Event{
		Type:       eventType,
		EntityType: "work_order",
		EntityID:   uuid.New(),
		VendorID:   vendorID,
		ActorID:    actorID,
		ActorRole:  domain.RoleAgent,
		Severity:   domain.SeverityInfo,
		Title:      "Proposal approved",
		Message:    "Your proposal for Leaking pipe was approved",
		Payload:    `{"ok":true}`,
	}
	require.NoError(t, store.Repos().Events.Create(context.Background(), event))
	return event
}

func TestDispatcher_DeliversEachEventOnce(t *testing.T) {
	store := newStore(t)
	sub := &recordingSubscriber{}
	d := NewDispatcher(store, config.EventsConfig{BatchSize: 2}, zap.NewNop(), sub)

	for i := 0; i < 5; i++ {
		createEvent(t, store, domain.EventProposalSubmitted, nil, nil)
	}

	delivered, err := d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, delivered)
	assert.Equal(t, 5, sub.count())

	delivered, err = d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Equal(t, 5, sub.count())
}

func TestDispatcher_RetriesUntilMaxAttempts(t *testing.T) {
	store := newStore(t)
	sub := &recordingSubscriber{err: errors.New("smtp down")}
	d := NewDispatcher(store, config.EventsConfig{MaxAttempts: 2}, zap.NewNop(), sub)
	event := createEvent(t, store, domain.EventSlaBreach, nil, nil)

	for i := 0; i < 3; i++ {
		delivered, err := d.DispatchPending(context.Background())
		require.NoError(t, err)
		assert.Zero(t, delivered)
	}

	stored, err := store.Repos().Events.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Attempts)
	assert.Nil(t, stored.DispatchedAt)
	assert.Contains(t, stored.LastError, "smtp down")
}

func TestDispatcher_RecoversAfterFailure(t *testing.T) {
	store := newStore(t)
	sub := &recordingSubscriber{err: errors.New("temporary")}
	d := NewDispatcher(store, config.EventsConfig{}, zap.NewNop(), sub)
	event := createEvent(t, store, domain.EventInvoiceSubmitted, nil, nil)

	_, err := d.DispatchPending(context.Background())
	require.NoError(t, err)

	sub.mu.Lock()
	sub.err = nil
	sub.mu.Unlock()

	delivered, err := d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	stored, err := store.Repos().Events.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.DispatchedAt)
	assert.Equal(t, 2, stored.Attempts)
}

func TestDispatcher_RunDeliversOnKick(t *testing.T) {
	store := newStore(t)
	sub := &recordingSubscriber{}
	d := NewDispatcher(store, config.EventsConfig{}, zap.NewNop(), sub)
	createEvent(t, store, domain.EventVendorApproved, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Kick()
	d.Kick()
	require.Eventually(t, func() bool { return sub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestNotificationSubscriber(t *testing.T) {
	store := newStore(t)
	db := store.DB()
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	agent := testutil.CreateTestUser(t, db, domain.RoleAgent)
	vendor := testutil.CreateTestVendor(t, db, domain.VendorStatusApproved,
		[]domain.ServiceCategory{domain.CategoryPlumbing}, []string{"Manhattan"})

	sub := NewNotificationSubscriber(store, zap.NewNop())
	event := createEvent(t, store, domain.EventProposalApproved, &agent.ID, &vendor.ID)

	// Redelivery must not duplicate notifications
	require.NoError(t, sub.Handle(context.Background(), event))
	require.NoError(t, sub.Handle(context.Background(), event))

	notifications := store.Repos().Notifications
	for _, tc := range []struct {
		name   string
		userID uuid.UUID
		want   int64
	}{
		{"admin", admin.ID, 1},
		{"vendor", vendor.ID, 1},
		{"acting agent", agent.ID, 0},
	} {
		count, err := notifications.CountUnread(context.Background(), tc.userID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, count, tc.name)
	}
}

type fakeSender struct {
	to, body string
	calls    int
	err      error
}

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	f.calls++
	f.to, f.body = to, body
	return f.err
}

func TestSMSNotifier(t *testing.T) {
	store := newStore(t)
	vendor := testutil.CreateTestVendor(t, store.DB(), domain.VendorStatusApproved,
		[]domain.ServiceCategory{domain.CategoryPlumbing}, []string{"Manhattan"})
	sender := &fakeSender{}
	n := NewSMSNotifier(store, sender, zap.NewNop())

	approved := createEvent(t, store, domain.EventProposalApproved, nil, &vendor.ID)
	require.NoError(t, n.Handle(context.Background(), approved))
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, vendor.Phone, sender.to)
	assert.Contains(t, sender.body, "Proposal approved")

	submitted := createEvent(t, store, domain.EventProposalSubmitted, nil, &vendor.ID)
	require.NoError(t, n.Handle(context.Background(), submitted))
	assert.Equal(t, 1, sender.calls, "vendors are not texted about their own submissions")

	sender.err = errors.New("rate limited")
	assert.Error(t, n.Handle(context.Background(), approved))
}

func TestNewTwilioSender_RequiresCredentials(t *testing.T) {
	_, err := NewTwilioSender(config.SMSConfig{AccountSID: "AC123"})
	assert.Error(t, err)

	sender, err := NewTwilioSender(config.SMSConfig{AccountSID: "AC123", AuthToken: "token", FromNumber: "+15550000000"})
	require.NoError(t, err)
	assert.Equal(t, "+15550000000", sender.from)
}

func TestHub_AudienceFiltering(t *testing.T) {
	hub := NewHub([]string{"*"}, zap.NewNop())
	vendorA, vendorB := uuid.New(), uuid.New()
	actors := map[string]domain.Actor{
		"staff": {ID: uuid.New(), Role: domain.RoleAgent},
		"a":     {ID: vendorA, Role: domain.RoleVendor},
		"b":     {ID: vendorB, Role: domain.RoleVendor},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, actors[r.URL.Query().Get("as")])
	}))
	defer server.Close()

	dial := func(as string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "?as=" + as
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
	staff, a, b := dial("staff"), dial("a"), dial("b")
	require.Eventually(t, func() bool { return hub.Clients() == 3 }, 2*time.Second, 10*time.Millisecond)

	event := &domain.Event{
		Type:       domain.EventProposalApproved,
		EntityType: "proposal",
		EntityID:   uuid.New(),
		VendorID:   &vendorA,
		Title:      "Proposal approved",
	}
	event.ID = uuid.New()
	require.NoError(t, hub.Handle(context.Background(), event))

	for name, conn := range map[string]*websocket.Conn{"staff": staff, "a": a} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err, name)
		var dto domain.EventDTO
		require.NoError(t, json.Unmarshal(msg, &dto))
		assert.Equal(t, event.ID, dto.ID, name)
	}

	require.NoError(t, b.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := b.ReadMessage()
	assert.Error(t, err, "other vendors do not receive the event")
}
