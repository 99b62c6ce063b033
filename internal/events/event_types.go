package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/demand-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDemandCreated       EventType = "demand_created"
	EventDemandStatusChanged EventType = "demand_status_changed"
	EventDemandAssigned      EventType = "demand_assigned"
	EventDocumentCreated     EventType = "document_created"
	EventDocumentUpdated     EventType = "document_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	DemandaID string    `json:"demanda_id"`
	ActorID   *string   `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, demandaID string, actorID *string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		DemandaID: demandaID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// DemandCreatedPayload payload.
type DemandCreatedPayload struct {
	TipoDemanda string `json:"tipo_demanda"`
	Orgao       string `json:"orgao"`
	Analista    string `json:"analista"`
}

// DemandStatusChangedPayload payload.
type DemandStatusChangedPayload struct {
	OldStatus domain.DemandStatus `json:"old_status"`
	NewStatus domain.DemandStatus `json:"new_status"`
	Reason    string              `json:"reason,omitempty"`
}

// DemandAssignedPayload payload.
type DemandAssignedPayload struct {
	OldAnalista string `json:"old_analista"`
	NewAnalista string `json:"new_analista"`
}

// DocumentPayload payload for document events.
type DocumentPayload struct {
	DocumentID    domain.DocumentID   `json:"document_id"`
	TipoDocumento domain.DocumentType `json:"tipo_documento"`
	Kind          string              `json:"kind,omitempty"`
	Incomplete    bool                `json:"incomplete"`
}
