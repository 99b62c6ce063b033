package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/config"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/events"
)

// NotificationService turns demand and document events into email and
// webhook notifications. Delivery is stubbed and only logged.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
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

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDemandCreated, n.handleDemandCreated)
	n.dispatcher.Subscribe(events.EventDemandStatusChanged, n.handleDemandStatusChanged)
	n.dispatcher.Subscribe(events.EventDemandAssigned, n.handleDemandAssigned)
	n.dispatcher.Subscribe(events.EventDocumentCreated, n.handleDocumentEvent)
	n.dispatcher.Subscribe(events.EventDocumentUpdated, n.handleDocumentEvent)
}

func (n *NotificationService) handleDemandCreated(ctx context.Context, event events.Event) error {
	p, _ := payloadAs[events.DemandCreatedPayload](event)
	n.logger.Info("demand created",
		zap.String("demanda_id", event.DemandaID),
		zap.String("tipo_demanda", p.TipoDemanda),
		zap.String("orgao", p.Orgao),
		zap.String("analista", p.Analista))
	n.webhook(ctx, event)
	return nil
}

func (n *NotificationService) handleDemandStatusChanged(ctx context.Context, event events.Event) error {
	p, _ := payloadAs[events.DemandStatusChangedPayload](event)
	n.logger.Info("demand status changed",
		zap.String("demanda_id", event.DemandaID),
		zap.String("old_status", string(p.OldStatus)),
		zap.String("new_status", string(p.NewStatus)),
		zap.String("reason", p.Reason))
	// Analysts are only mailed when a demand starts waiting on a reply or closes.
	if p.NewStatus == domain.DemandStatusAguardando || p.NewStatus == domain.DemandStatusFinalizada {
		n.email(ctx, event, "")
	}
	n.webhook(ctx, event)
	return nil
}

func (n *NotificationService) handleDemandAssigned(ctx context.Context, event events.Event) error {
	p, _ := payloadAs[events.DemandAssignedPayload](event)
	n.logger.Info("demand assigned",
		zap.String("demanda_id", event.DemandaID),
		zap.String("old_analista", p.OldAnalista),
		zap.String("new_analista", p.NewAnalista))
	n.email(ctx, event, p.NewAnalista)
	return nil
}

func (n *NotificationService) handleDocumentEvent(ctx context.Context, event events.Event) error {
	p, ok := payloadAs[events.DocumentPayload](event)
	if !ok {
		n.logger.Warn("document event without payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	fields := []zap.Field{
		zap.String("event_type", string(event.Type)),
		zap.String("demanda_id", event.DemandaID),
		zap.String("document_id", string(p.DocumentID)),
		zap.String("tipo_documento", string(p.TipoDocumento)),
		zap.String("kind", p.Kind),
		zap.Bool("incomplete", p.Incomplete),
	}
	if !p.Incomplete {
		n.logger.Info("document complete", fields...)
		return nil
	}
	n.logger.Info("document pending", fields...)
	n.webhook(ctx, event)
	return nil
}

func (n *NotificationService) email(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification queued",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("demanda_id", event.DemandaID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) webhook(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification queued",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("demanda_id", event.DemandaID),
		zap.String("event_type", string(event.Type)))
}

// payloadAs accepts payloads published by value or by pointer.
func payloadAs[T any](event events.Event) (T, bool) {
	switch p := event.Payload.(type) {
	case T:
		return p, true
	case *T:
		if p != nil {
			return *p, true
		}
	}
	var zero T
	return zero, false
}
