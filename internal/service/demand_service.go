package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/dates"
	"github.com/spec-kit/demand-service/internal/demandstatus"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/events"
	"github.com/spec-kit/demand-service/internal/repository"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// DemandService coordinates the demand lifecycle.
type DemandService struct {
	demands    repository.DemandRepository
	documents  repository.DocumentRepository
	history    repository.DemandHistoryRepository
	dispatcher events.Dispatcher
	cache      DashboardCache
	logger     *zap.Logger
	now        func() time.Time
}

// DemandDependencies bundles repositories for the demand service.
type DemandDependencies struct {
	DemandRepo   repository.DemandRepository
	DocumentRepo repository.DocumentRepository
	HistoryRepo  repository.DemandHistoryRepository
	Dispatcher   events.Dispatcher
	Cache        DashboardCache
	Logger       *zap.Logger
	Now          func() time.Time
}

// DemandCreateInput describes demand creation payload. DataInicial accepts
// display or storage format, is kept in display format and defaults to today.
type DemandCreateInput struct {
	TipoDemanda  string
	Orgao        string
	Analista     string
	Distribuidor string
	DataInicial  string
}

// DemandListFilter describes listing filters. Statuses match the derived
// status.
type DemandListFilter struct {
	Analista    *string
	Orgao       *string
	TipoDemanda *string
	SearchTerm  *string
	Statuses    []domain.DemandStatus
	Limit       int
	Offset      int
}

// NewDemandService constructs the service.
func NewDemandService(deps DemandDependencies) *DemandService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = systemNow
	}
	return &DemandService{
		demands:    deps.DemandRepo,
		documents:  deps.DocumentRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     logger,
		now:        now,
	}
}

// Create registers a new demand.
func (s *DemandService) Create(ctx context.Context, actor *domain.Analyst, input DemandCreateInput) (*domain.Demand, error) {
	demand := &domain.Demand{
		TipoDemanda:  strings.TrimSpace(input.TipoDemanda),
		Orgao:        strings.TrimSpace(input.Orgao),
		Analista:     strings.TrimSpace(input.Analista),
		Distribuidor: strings.TrimSpace(input.Distribuidor),
		DataInicial:  dates.Normalize(strings.TrimSpace(input.DataInicial)),
	}
	if demand.TipoDemanda == "" || demand.Orgao == "" {
		return nil, apperrors.NewValidationError("tipoDemanda and orgao are required", nil)
	}
	if demand.DataInicial == "" {
		demand.DataInicial = s.today()
	}
	if err := s.validateDate("dataInicial", demand.DataInicial); err != nil {
		return nil, err
	}
	if demand.Analista == "" && actor != nil && actor.Role == domain.AnalystRoleAnalista {
		demand.Analista = actor.Name
	}
	demand.Status = demandstatus.Calculate(*demand, nil)

	if err := s.demands.Create(ctx, demand); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx)
	s.publish(ctx, events.NewEvent(events.EventDemandCreated, demand.ID, actorID(actor), events.DemandCreatedPayload{
		TipoDemanda: demand.TipoDemanda,
		Orgao:       demand.Orgao,
		Analista:    demand.Analista,
	}))
	return demand, nil
}

// Get returns a demand with its derived status.
func (s *DemandService) Get(ctx context.Context, id string) (*domain.Demand, error) {
	demand, err := s.demands.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": id})
	}
	docs, err := s.documents.ListByDemand(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	demand.Status = demandstatus.Calculate(*demand, docs)
	return demand, nil
}

// List returns demands with their derived status.
func (s *DemandService) List(ctx context.Context, filter DemandListFilter) ([]domain.Demand, error) {
	repoFilter := repository.DemandFilter{
		Analista:    filter.Analista,
		Orgao:       filter.Orgao,
		TipoDemanda: filter.TipoDemanda,
		SearchTerm:  filter.SearchTerm,
	}
	// Status is derived, so pagination happens after filtering on it.
	if len(filter.Statuses) == 0 {
		repoFilter.Limit = filter.Limit
		repoFilter.Offset = filter.Offset
	}
	demands, err := s.demands.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byDemand := demandstatus.IndexByDemand(docs)

	result := make([]domain.Demand, 0, len(demands))
	for _, demand := range demands {
		demand.Status = demandstatus.Calculate(demand, byDemand[demand.ID])
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, demand.Status) {
			continue
		}
		result = append(result, demand)
	}
	if len(filter.Statuses) > 0 {
		result = page(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

// Finalize closes the current cycle. The date goes to NovaDataFinal when
// the demand was reopened, to DataFinal otherwise.
func (s *DemandService) Finalize(ctx context.Context, actor *domain.Analyst, id, date string) (*domain.Demand, error) {
	demand, err := s.demands.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": id})
	}
	if demand.Finalized() {
		return nil, apperrors.NewConflict("demand already finalized", map[string]any{"demanda_id": id})
	}
	date = s.dateOrToday(date)
	if err := s.validateDate("dataFinal", date); err != nil {
		return nil, err
	}
	if err := notBefore("dataFinal", date, "dataInicial", demand.DataInicial); err != nil {
		return nil, err
	}
	if demand.Reopened() {
		if err := notBefore("novaDataFinal", date, "dataReabertura", demand.DataReabertura); err != nil {
			return nil, err
		}
	}

	old := map[string]any{"dataFinal": demand.DataFinal, "novaDataFinal": demand.NovaDataFinal}
	if demand.Reopened() {
		demand.NovaDataFinal = date
	} else {
		demand.DataFinal = date
	}
	if err := s.demands.Update(ctx, demand); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, actor, demand.ID, domain.ChangeTypeFinalized, old, map[string]any{
		"dataFinal":     demand.DataFinal,
		"novaDataFinal": demand.NovaDataFinal,
	}); err != nil {
		return nil, err
	}
	return s.RefreshStatus(ctx, actor, demand.ID, string(domain.ChangeTypeFinalized))
}

// Reopen starts a new cycle on a finalized demand.
func (s *DemandService) Reopen(ctx context.Context, actor *domain.Analyst, id, date string) (*domain.Demand, error) {
	demand, err := s.demands.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": id})
	}
	if !demand.Finalized() {
		return nil, apperrors.NewConflict("only finalized demands can be reopened", map[string]any{"demanda_id": id})
	}
	date = s.dateOrToday(date)
	if err := s.validateDate("dataReabertura", date); err != nil {
		return nil, err
	}
	if err := notBefore("dataReabertura", date, "dataFinal", demand.LastFinalDate()); err != nil {
		return nil, err
	}

	old := map[string]any{"dataReabertura": demand.DataReabertura, "novaDataFinal": demand.NovaDataFinal}
	demand.DataReabertura = date
	demand.NovaDataFinal = ""
	if err := s.demands.Update(ctx, demand); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, actor, demand.ID, domain.ChangeTypeReopened, old, map[string]any{
		"dataReabertura": demand.DataReabertura,
		"novaDataFinal":  demand.NovaDataFinal,
	}); err != nil {
		return nil, err
	}
	return s.RefreshStatus(ctx, actor, demand.ID, string(domain.ChangeTypeReopened))
}

// History returns the audit trail of a demand.
func (s *DemandService) History(ctx context.Context, id string) ([]domain.DemandHistory, error) {
	if _, err := s.demands.GetByID(ctx, id); err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": id})
	}
	entries, err := s.history.ListByDemand(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// RefreshStatus recomputes the derived status and persists it when it
// changed, recording history and publishing demand_status_changed.
func (s *DemandService) RefreshStatus(ctx context.Context, actor *domain.Analyst, id, reason string) (*domain.Demand, error) {
	demand, err := s.demands.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": id})
	}
	docs, err := s.documents.ListByDemand(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer s.invalidate(ctx)

	next := demandstatus.Calculate(*demand, docs)
	if next == demand.Status {
		return demand, nil
	}
	previous := demand.Status
	demand.Status = next
	if err := s.demands.Update(ctx, demand); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, actor, demand.ID, domain.ChangeTypeStatus,
		map[string]any{"status": previous},
		map[string]any{"status": next},
	); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.EventDemandStatusChanged, demand.ID, actorID(actor), events.DemandStatusChangedPayload{
		OldStatus: previous,
		NewStatus: next,
		Reason:    reason,
	}))
	return demand, nil
}

func (s *DemandService) record(ctx context.Context, actor *domain.Analyst, demandaID string, change domain.DemandChangeType, oldValue, newValue map[string]any) error {
	if s.history == nil {
		return nil
	}
	err := s.history.Create(ctx, &domain.DemandHistory{
		DemandaID:   demandaID,
		ChangedByID: actorID(actor),
		ChangeType:  change,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *DemandService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *DemandService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DemandService) today() string {
	return s.now().Format(dates.DisplayLayout)
}

func (s *DemandService) dateOrToday(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.today()
	}
	return dates.Normalize(date)
}

func (s *DemandService) validateDate(field, display string) error {
	if dates.ToStorage(display) == "" {
		return apperrors.NewValidationError("invalid date, expected DD/MM/YYYY", map[string]any{"field": field})
	}
	if v := dates.NotInFutureAt(display, s.now()); !v.IsValid {
		return apperrors.NewValidationError(v.Message, map[string]any{"field": field})
	}
	return nil
}

// notBefore rejects date when it falls before bound. Storage format sorts
// chronologically, so the comparison is on strings. An unparsable bound
// imposes nothing.
func notBefore(field, date, boundField, bound string) error {
	floor := dates.ToStorage(dates.Normalize(bound))
	if floor == "" {
		return nil
	}
	if dates.ToStorage(date) < floor {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s cannot be before %s", field, boundField),
			map[string]any{"field": field, boundField: dates.Normalize(bound)},
		)
	}
	return nil
}

func containsStatus(statuses []domain.DemandStatus, status domain.DemandStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
