package docworkflow

import (
	"errors"

	"github.com/spec-kit/demand-service/internal/domain"
)

// Phase is a state of the update flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseEditing    Phase = "editing"
	PhaseValidating Phase = "validating"
)

// ErrNotEditing is returned when submitting without an open document.
var ErrNotEditing = errors.New("no document is being edited")

// Session drives one document through
// idle -> editing -> validating -> (rejected: editing | accepted: idle).
// It is not safe for concurrent use.
type Session struct {
	phase   Phase
	doc     domain.Document
	kind    Kind
	working EditState
	initial EditState
	lastErr error
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{phase: PhaseIdle}
}

// Open starts editing doc with fresh snapshots, discarding any previous
// document.
func (s *Session) Open(doc domain.Document, recipientNames string) {
	s.doc = doc.Clone()
	s.kind = ResolveKind(doc)
	s.initial = InitializeEditState(doc, recipientNames)
	s.working = InitializeEditState(doc, recipientNames)
	s.lastErr = nil
	s.phase = PhaseEditing
}

// Phase returns the current state.
func (s *Session) Phase() Phase { return s.phase }

// Kind returns the workflow of the open document.
func (s *Session) Kind() Kind { return s.kind }

// Document returns the document being edited.
func (s *Session) Document() domain.Document { return s.doc }

// Working exposes the mutable snapshot.
func (s *Session) Working() *EditState { return &s.working }

// Initial returns a copy of the snapshot taken when the document was opened.
func (s *Session) Initial() EditState { return s.initial.Clone() }

// Err returns the last rejection.
func (s *Session) Err() error { return s.lastErr }

// HasChanges gates the save action.
func (s *Session) HasChanges() bool {
	if s.phase != PhaseEditing {
		return false
	}
	return HasChanges(s.working, s.initial, s.kind)
}

// Submit validates the working snapshot. A rejection keeps the session
// editing and records the error; an accepted patch closes the session.
func (s *Session) Submit(allDocs []domain.Document, lookup Lookup) (*domain.DocumentPatch, error) {
	if s.phase != PhaseEditing {
		return nil, ErrNotEditing
	}
	s.phase = PhaseValidating
	patch, err := PrepareUpdate(s.working, s.kind, allDocs, lookup)
	if err != nil {
		s.lastErr = err
		s.phase = PhaseEditing
		return nil, err
	}
	s.Close()
	return patch, nil
}

// Close returns to idle and drops every snapshot.
func (s *Session) Close() {
	s.phase = PhaseIdle
	s.doc = domain.Document{}
	s.kind = ""
	s.working = EditState{}
	s.initial = EditState{}
	s.lastErr = nil
}
