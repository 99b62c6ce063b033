package worker

import (
	"context"

	"github.com/spec-kit/demand-service/internal/events"
	"github.com/spec-kit/demand-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartEventMetrics counts every published event under its type name.
func StartEventMetrics(dispatcher events.Dispatcher, counter service.Counter) {
	if dispatcher == nil || counter == nil {
		return
	}
	dispatcher.SubscribeAll(func(_ context.Context, event events.Event) error {
		counter.Inc(string(event.Type))
		return nil
	})
}
