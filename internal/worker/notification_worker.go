package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/events"
	"github.com/spec-kit/coordination-audit/internal/service"
)

const defaultQueueSize = 64

// NotificationWorker hands events to the notification service on its own goroutine,
// so slow notification sinks never hold up an HTTP request.
type NotificationWorker struct {
	queue   chan events.Event
	handle  events.EventHandler
	logger  *zap.Logger
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// StartNotificationWorker subscribes the worker to notification events and starts draining them.
// The worker stops when ctx is cancelled or Stop is called.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notificationService *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	if dispatcher == nil || notificationService == nil {
		return nil
	}
	w := &NotificationWorker{
		queue:  make(chan events.Event, defaultQueueSize),
		handle: notificationService.Handle,
		logger: logger,
	}
	for _, t := range service.NotificationEvents {
		dispatcher.Subscribe(t, w.enqueue)
	}

	w.wg.Add(1)
	go w.run(ctx)
	return w
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; event dropped", zap.String("type", string(event.Type)), zap.String("event_id", event.ID))
	}
	return nil
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.queue:
			if !ok {
				return
			}
			// Handlers get a fresh context: the request that published the event may be gone.
			if err := w.handle(context.Background(), event); err != nil {
				w.logger.Warn("notification failed", zap.String("type", string(event.Type)), zap.Error(err))
			}
		}
	}
}

// Stop drains queued events and waits for the worker goroutine to exit.
func (w *NotificationWorker) Stop() {
	if w == nil {
		return
	}
	w.closeMu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.closeMu.Unlock()
	w.wg.Wait()
}
