package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/coordination-audit/internal/config"
	"github.com/spec-kit/coordination-audit/internal/events"
	"github.com/spec-kit/coordination-audit/internal/service"
)

func TestNotificationWorker_DeliversEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, config.NotificationConfig{
		EmailFrom:  "audit@example.com",
		WebhookURL: "https://hooks.example.com/audit",
	})

	w := StartNotificationWorker(context.Background(), dispatcher, notifications, logger)
	require.NotNil(t, w)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:      "e-1",
		Type:    events.EventAuditCompleted,
		Payload: events.AuditCompletedPayload{Overdue: 2},
	}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:      "e-2",
		Type:    events.EventDirectoryLoaded,
		Payload: events.DirectoryLoadedPayload{Added: 1, Pending: 1},
	}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:      "e-3",
		Type:    events.EventDirectoryLoaded,
		Payload: events.DirectoryLoadedPayload{Added: 4},
	}))
	w.Stop()

	sent := logs.FilterMessage("notification")
	require.Equal(t, 3, sent.Len())
	require.Equal(t, 2, sent.FilterField(zap.String("event_id", "e-1")).Len())
	require.Equal(t, 1, sent.FilterField(zap.String("event_id", "e-2")).Len())
}

func TestNotificationWorker_StopIsIdempotent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{})
	w := StartNotificationWorker(context.Background(), dispatcher, notifications, zap.NewNop())

	w.Stop()
	w.Stop()
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventAuditCompleted}))
}
