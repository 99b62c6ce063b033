package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/completeness"
	"github.com/spec-kit/demand-service/internal/dates"
	"github.com/spec-kit/demand-service/internal/docworkflow"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/events"
	"github.com/spec-kit/demand-service/internal/repository"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// DocumentService coordinates documents and their update workflow.
type DocumentService struct {
	documents  repository.DocumentRepository
	demands    repository.DemandRepository
	status     *DemandService
	history    repository.DemandHistoryRepository
	dispatcher events.Dispatcher
	counter    Counter
	logger     *zap.Logger
	now        func() time.Time
}

// DocumentDependencies bundles collaborators for the document service.
type DocumentDependencies struct {
	DocumentRepo  repository.DocumentRepository
	DemandRepo    repository.DemandRepository
	HistoryRepo   repository.DemandHistoryRepository
	DemandService *DemandService
	Dispatcher    events.Dispatcher
	Counter       Counter
	Logger        *zap.Logger
	Now           func() time.Time
}

// DocumentView pairs a document with its completeness verdict.
type DocumentView struct {
	domain.Document
	Incomplete bool                `json:"incomplete"`
	Reason     completeness.Reason `json:"reason,omitempty"`
}

// EditView is what an update form starts from.
type EditView struct {
	Document domain.Document       `json:"document"`
	Kind     docworkflow.Kind      `json:"kind"`
	State    docworkflow.EditState `json:"state"`
}

// NewDocumentService constructs the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = systemNow
	}
	return &DocumentService{
		documents:  deps.DocumentRepo,
		demands:    deps.DemandRepo,
		status:     deps.DemandService,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		counter:    deps.Counter,
		logger:     logger,
		now:        now,
	}
}

// Create attaches a new document to a demand. Dates may be given in either
// format and are stored as YYYY-MM-DD.
func (s *DocumentService) Create(ctx context.Context, actor *domain.Analyst, demandID string, input domain.Document) (*DocumentView, error) {
	if _, err := s.demands.GetByID(ctx, demandID); err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": demandID})
	}
	doc := input.Clone()
	doc.ID = ""
	doc.DemandaID = demandID
	doc.TipoDocumento = domain.DocumentType(strings.TrimSpace(string(doc.TipoDocumento)))
	if doc.TipoDocumento == "" {
		return nil, apperrors.NewValidationError("tipoDocumento is required", nil)
	}

	if err := s.normalizeDates(&doc); err != nil {
		return nil, err
	}
	siblings, err := s.documents.ListByDemand(ctx, demandID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := validateReferences(doc, siblings); err != nil {
		return nil, err
	}
	if doc.TipoDocumento == domain.DocumentTypeOficioCircular {
		seedRecipients(&doc)
	}
	if doc.Respondido == nil {
		doc.Respondido = defaultRespondido(doc)
	}

	if err := s.documents.Create(ctx, &doc); err != nil {
		return nil, apperrors.MapError(err)
	}
	view := newDocumentView(doc)
	s.publish(ctx, events.NewEvent(events.EventDocumentCreated, demandID, actorID(actor), events.DocumentPayload{
		DocumentID:    doc.ID,
		TipoDocumento: doc.TipoDocumento,
		Kind:          string(docworkflow.ResolveKind(doc)),
		Incomplete:    view.Incomplete,
	}))
	if _, err := s.status.RefreshStatus(ctx, actor, demandID, string(events.EventDocumentCreated)); err != nil {
		return nil, err
	}
	return &view, nil
}

// Get returns a document with its completeness verdict.
func (s *DocumentService) Get(ctx context.Context, id domain.DocumentID) (*DocumentView, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "document", map[string]any{"document_id": id})
	}
	view := newDocumentView(*doc)
	return &view, nil
}

// ListByDemand returns every document of a demand.
func (s *DocumentService) ListByDemand(ctx context.Context, demandID string, onlyIncomplete bool) ([]DocumentView, error) {
	if _, err := s.demands.GetByID(ctx, demandID); err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": demandID})
	}
	docs, err := s.documents.ListByDemand(ctx, demandID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	views := make([]DocumentView, 0, len(docs))
	for _, doc := range docs {
		view := newDocumentView(doc)
		if onlyIncomplete && !view.Incomplete {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// EditState resolves the workflow and seeds the edit snapshot.
func (s *DocumentService) EditState(ctx context.Context, id domain.DocumentID) (*EditView, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "document", map[string]any{"document_id": id})
	}
	session := docworkflow.NewSession()
	session.Open(*doc, doc.Destinatario)
	return &EditView{
		Document: session.Document(),
		Kind:     session.Kind(),
		State:    session.Initial(),
	}, nil
}

// Update submits an edited snapshot through the workflow, persists the
// resulting patch and refreshes the parent demand status.
func (s *DocumentService) Update(ctx context.Context, actor *domain.Analyst, id domain.DocumentID, state docworkflow.EditState) (*DocumentView, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "document", map[string]any{"document_id": id})
	}
	if err := s.validateEditDates(state); err != nil {
		return nil, err
	}

	session := docworkflow.NewSession()
	session.Open(*doc, doc.Destinatario)
	*session.Working() = state.Clone()
	if !session.HasChanges() {
		return nil, apperrors.NewValidationError("no changes to save", map[string]any{"document_id": id})
	}

	siblings, err := s.documents.ListByDemand(ctx, doc.DemandaID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	kind := session.Kind()
	patch, err := session.Submit(siblings, nil)
	if err != nil {
		return nil, s.rejected(id, err)
	}

	updated := patch.Apply(*doc)
	if err := validateReferences(updated, siblings); err != nil {
		return nil, err
	}
	if err := s.documents.Update(ctx, &updated); err != nil {
		return nil, mapLookupError(err, "document", map[string]any{"document_id": id})
	}

	view := newDocumentView(updated)
	if err := s.recordDocumentChange(ctx, actor, *doc, updated, kind); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.EventDocumentUpdated, updated.DemandaID, actorID(actor), events.DocumentPayload{
		DocumentID:    updated.ID,
		TipoDocumento: updated.TipoDocumento,
		Kind:          string(kind),
		Incomplete:    view.Incomplete,
	}))
	if updated.DemandaID != "" {
		if _, err := s.status.RefreshStatus(ctx, actor, updated.DemandaID, string(events.EventDocumentUpdated)); err != nil {
			return nil, err
		}
	}
	return &view, nil
}

func (s *DocumentService) rejected(id domain.DocumentID, err error) error {
	var validation *docworkflow.ValidationError
	if !errors.As(err, &validation) {
		return apperrors.MapError(err)
	}
	if s.counter != nil {
		s.counter.Inc(counterDocumentUpdateRejected)
	}
	s.logger.Info("document update rejected",
		zap.String("document_id", string(id)),
		zap.String("reason", validation.Message))
	return apperrors.NewValidationError(validation.Message, map[string]any{
		"document_id": id,
		"pending":     validation.Pending,
	})
}

func (s *DocumentService) recordDocumentChange(ctx context.Context, actor *domain.Analyst, before, after domain.Document, kind docworkflow.Kind) error {
	if s.history == nil || after.DemandaID == "" {
		return nil
	}
	err := s.history.Create(ctx, &domain.DemandHistory{
		DemandaID:   after.DemandaID,
		ChangedByID: actorID(actor),
		ChangeType:  domain.ChangeTypeDocument,
		OldValue: map[string]any{
			"documentId": before.ID,
			"incomplete": completeness.IsIncomplete(before),
		},
		NewValue: map[string]any{
			"documentId": after.ID,
			"kind":       kind,
			"incomplete": completeness.IsIncomplete(after),
		},
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *DocumentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *DocumentService) normalizeDates(doc *domain.Document) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"dataEnvio", &doc.DataEnvio},
		{"dataResposta", &doc.DataResposta},
		{"dataFinalizacao", &doc.DataFinalizacao},
	}
	for _, f := range fields {
		stored, err := s.storageDate(f.name, *f.value)
		if err != nil {
			return err
		}
		*f.value = stored
	}
	for i := range doc.DestinatariosData {
		row := &doc.DestinatariosData[i]
		var err error
		if row.DataEnvio, err = s.storageDate("destinatariosData.dataEnvio", row.DataEnvio); err != nil {
			return err
		}
		if row.DataResposta, err = s.storageDate("destinatariosData.dataResposta", row.DataResposta); err != nil {
			return err
		}
	}
	return nil
}

func (s *DocumentService) storageDate(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	display := dates.Normalize(value)
	stored := dates.ToStorage(display)
	if stored == "" {
		return "", apperrors.NewValidationError("invalid date", map[string]any{"field": field, "value": value})
	}
	if v := dates.NotInFutureAt(display, s.now()); !v.IsValid {
		return "", apperrors.NewValidationError(v.Message, map[string]any{"field": field})
	}
	return stored, nil
}

func (s *DocumentService) validateEditDates(state docworkflow.EditState) error {
	values := map[string]string{
		"dataEnvio":       state.DataEnvio,
		"dataResposta":    state.DataResposta,
		"dataFinalizacao": state.DataFinalizacao,
	}
	for i, row := range state.DestinatariosData {
		values[fmt.Sprintf("destinatariosData[%d].dataEnvio", i)] = row.DataEnvio
		values[fmt.Sprintf("destinatariosData[%d].dataResposta", i)] = row.DataResposta
	}
	for field, value := range values {
		if value == "" {
			continue
		}
		if dates.ToStorage(dates.Normalize(value)) == "" {
			return apperrors.NewValidationError("invalid date, expected DD/MM/YYYY", map[string]any{"field": field})
		}
		if v := dates.NotInFutureAt(dates.Normalize(value), s.now()); !v.IsValid {
			return apperrors.NewValidationError(v.Message, map[string]any{"field": field})
		}
	}
	return nil
}

func newDocumentView(doc domain.Document) DocumentView {
	reason, incomplete := completeness.Check(doc)
	return DocumentView{Document: doc, Incomplete: incomplete, Reason: reason}
}

// referenceTypes maps each selection list to the document type it must hold.
var referenceTypes = []struct {
	field string
	want  domain.DocumentType
	ids   func(domain.Document) []domain.DocumentID
}{
	{"selectedMidias", domain.DocumentTypeMidia, func(d domain.Document) []domain.DocumentID { return d.SelectedMidias }},
	{"selectedRelatoriosTecnicos", domain.DocumentTypeRelatorioTecnico, func(d domain.Document) []domain.DocumentID { return d.SelectedRelatoriosTecnicos }},
	{"selectedRelatoriosInteligencia", domain.DocumentTypeRelatorioInteligencia, func(d domain.Document) []domain.DocumentID { return d.SelectedRelatoriosInteligencia }},
	{"selectedAutosCircunstanciados", domain.DocumentTypeAutosCircunstanciados, func(d domain.Document) []domain.DocumentID { return d.SelectedAutosCircunstanciados }},
	{"selectedDecisoes", domain.DocumentTypeDecisaoJudicial, func(d domain.Document) []domain.DocumentID { return d.SelectedDecisoes }},
}

// validateReferences checks that every selected id is a sibling document of
// the expected type.
func validateReferences(doc domain.Document, siblings []domain.Document) error {
	lookup := docworkflow.LookupFrom(siblings)
	for _, ref := range referenceTypes {
		for _, id := range ref.ids(doc) {
			if id == doc.ID && doc.ID != "" {
				return apperrors.NewValidationError("a document cannot reference itself", map[string]any{"field": ref.field, "id": id})
			}
			target, ok := lookup(id)
			if !ok {
				return apperrors.NewValidationError("referenced document not found in demand", map[string]any{"field": ref.field, "id": id})
			}
			if target.TipoDocumento != ref.want {
				return apperrors.NewValidationError("referenced document has the wrong type", map[string]any{
					"field":    ref.field,
					"id":       id,
					"expected": ref.want,
					"actual":   target.TipoDocumento,
				})
			}
		}
	}
	return nil
}

// seedRecipients builds one recipient row per name when none were given and
// mirrors the first row to the top-level fields.
func seedRecipients(doc *domain.Document) {
	if len(doc.DestinatariosData) == 0 {
		for _, name := range docworkflow.SplitRecipients(doc.Destinatario) {
			doc.DestinatariosData = append(doc.DestinatariosData, domain.DestinatarioData{
				Nome:              name,
				DataEnvio:         doc.DataEnvio,
				DataResposta:      doc.DataResposta,
				CodigoRastreio:    doc.CodigoRastreio,
				NaoPossuiRastreio: doc.NaoPossuiRastreio,
				Respondido:        doc.DataResposta != "",
			})
		}
	} else if strings.TrimSpace(doc.Destinatario) == "" {
		names := make([]string, 0, len(doc.DestinatariosData))
		for _, row := range doc.DestinatariosData {
			names = append(names, row.Nome)
		}
		doc.Destinatario = strings.Join(names, ", ")
	}
	*doc = domain.MirrorFirstRecipient(*doc)
}

// defaultRespondido sets the response flag for documents that wait for an
// answer; others keep nil.
func defaultRespondido(doc domain.Document) *bool {
	switch doc.TipoDocumento {
	case domain.DocumentTypeOficioCircular:
		if !completeness.ExpectsResponse(doc.Assunto) {
			return nil
		}
		return ptrBool(docworkflow.AllRecipientsAnswered(doc.DestinatariosData))
	case domain.DocumentTypeOficio:
		if docworkflow.ResolveKind(doc) != docworkflow.KindOficio {
			return nil
		}
		return ptrBool(doc.DataResposta != "")
	default:
		return nil
	}
}
