package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// smsEvents are the events a vendor is texted about
var smsEvents = map[domain.EventType]bool{
	domain.EventVendorApproved:   true,
	domain.EventVendorBlocked:    true,
	domain.EventProposalApproved: true,
	domain.EventProposalRejected: true,
	domain.EventSlaBreach:        true,
	domain.EventInvoiceApproved:  true,
	domain.EventInvoiceRejected:  true,
}

// MessageSender sends a text message
type MessageSender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends messages through the Twilio REST API
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg config.SMSConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, errors.New("twilio account sid, auth token and from number are required")
	}
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from: cfg.FromNumber,
	}, nil
}

func (t *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}

// SMSNotifier texts vendors about decisions that concern them
type SMSNotifier struct {
	store  *repository.Store
	sender MessageSender
	logger *zap.Logger
}

func NewSMSNotifier(store *repository.Store, sender MessageSender, logger *zap.Logger) *SMSNotifier {
	return &SMSNotifier{store: store, sender: sender, logger: logger}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Handle(ctx context.Context, event *domain.Event) error {
	if event.VendorID == nil || !smsEvents[event.Type] {
		return nil
	}

	vendor, err := n.store.Repos().Vendors.GetByID(ctx, *event.VendorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load vendor: %w", err)
	}
	if vendor.Phone == "" {
		return nil
	}

	if err := n.sender.Send(ctx, vendor.Phone, fmt.Sprintf("Rentr: %s. %s", event.Title, event.Message)); err != nil {
		return err
	}
	n.logger.Info("sms sent",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("event_type", string(event.Type)),
	)
	return nil
}
