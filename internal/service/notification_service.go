package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/api/dto"
	"github.com/spec-kit/coordination-audit/internal/config"
	"github.com/spec-kit/coordination-audit/internal/events"
)

// Notification channels.
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// digestCompanies caps how many companies an audit digest names.
const digestCompanies = 5

// Notification is one outgoing message. Delivery is stubbed: it is logged, not sent.
type Notification struct {
	Channel string
	Target  string
	Subject string
	Body    string
}

// NotificationService turns directory and audit events into digests for the
// configured email sender and webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger.Named("notifications"),
		cfg:        cfg,
	}
}

// NotificationEvents lists the event types the service reacts to.
var NotificationEvents = []events.EventType{events.EventDirectoryLoaded, events.EventAuditCompleted}

// RegisterHandlers subscribes Handle directly, so notifications run on the publishing
// goroutine. The server uses worker.StartNotificationWorker instead.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range NotificationEvents {
		n.dispatcher.Subscribe(t, n.Handle)
	}
}

// Handle delivers every notification the event calls for.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	for _, msg := range n.Compose(event) {
		n.deliver(ctx, event, msg)
	}
	return nil
}

// Compose builds the notifications for an event, one per configured channel. Clean
// audits and loads with nothing pending produce none.
func (n *NotificationService) Compose(event events.Event) []Notification {
	var subject, body string
	var channels []string

	switch payload := event.Payload.(type) {
	case events.DirectoryLoadedPayload:
		if payload.Pending == 0 {
			return nil
		}
		subject = fmt.Sprintf("%d public mailboxes await a company", payload.Pending)
		body = fmt.Sprintf("Load of %s added %d people (%d already known); %d need a manual company assignment.",
			payload.Source, payload.Added, payload.Skipped, payload.Pending)
		channels = []string{ChannelWebhook}
	case events.AuditCompletedPayload:
		if payload.Overdue == 0 {
			return nil
		}
		subject = fmt.Sprintf("%d overdue coordinations as of %s", payload.Overdue, payload.ReferenceDate)
		body = auditDigest(payload)
		channels = []string{ChannelEmail, ChannelWebhook}
	default:
		return nil
	}

	var out []Notification
	for _, channel := range channels {
		target := n.target(channel)
		if target == "" {
			continue
		}
		out = append(out, Notification{Channel: channel, Target: target, Subject: subject, Body: body})
	}
	return out
}

func (n *NotificationService) target(channel string) string {
	switch channel {
	case ChannelEmail:
		return strings.TrimSpace(n.cfg.EmailFrom)
	case ChannelWebhook:
		return strings.TrimSpace(n.cfg.WebhookURL)
	}
	return ""
}

func auditDigest(p events.AuditCompletedPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audit of %s found %d overdue coordinations", p.Source, p.Overdue)
	if p.Unresolved > 0 {
		fmt.Fprintf(&b, " and %d approvers missing from the directory", p.Unresolved)
	}
	b.WriteString(".")

	counts := dto.SortedCounts(p.OverdueCounts)
	for i, c := range counts {
		if i == digestCompanies {
			fmt.Fprintf(&b, "\n  ... and %d more", len(counts)-digestCompanies)
			break
		}
		fmt.Fprintf(&b, "\n  %s: %d", c.Company, c.Count)
	}
	return b.String()
}

func (n *NotificationService) deliver(_ context.Context, event events.Event, msg Notification) {
	n.logger.Info("notification",
		zap.String("channel", msg.Channel),
		zap.String("target", msg.Target),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject", msg.Subject),
	)
	n.logger.Debug("notification body", zap.String("event_id", event.ID), zap.String("body", msg.Body))
}
