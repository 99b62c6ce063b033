package domain

import "time"

// DemandChangeType captures what changed in a history entry.
type DemandChangeType string

const (
	ChangeTypeStatus    DemandChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee  DemandChangeType = "ANALYST_CHANGE"
	ChangeTypeFinalized DemandChangeType = "FINALIZED"
	ChangeTypeReopened  DemandChangeType = "REOPENED"
	ChangeTypeDocument  DemandChangeType = "DOCUMENT_CHANGE"
)

// DemandHistory is an immutable audit trail entry.
type DemandHistory struct {
	ID          string           `json:"id"`
	DemandaID   string           `json:"demandaId"`
	ChangedByID *string          `json:"changedById,omitempty"`
	ChangeType  DemandChangeType `json:"changeType"`
	OldValue    map[string]any   `json:"oldValue"`
	NewValue    map[string]any   `json:"newValue"`
	CreatedAt   time.Time        `json:"createdAt"`
}
