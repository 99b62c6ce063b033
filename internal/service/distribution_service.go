package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/demandstatus"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/events"
	"github.com/spec-kit/demand-service/internal/repository"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// DistributionService hands demands to analysts.
type DistributionService struct {
	demands     repository.DemandRepository
	documents   repository.DocumentRepository
	analysts    repository.AnalystRepository
	historyRepo repository.DemandHistoryRepository
	dispatcher  events.Dispatcher
	cache       DashboardCache
	logger      *zap.Logger
}

// DistributionDependencies bundles repositories.
type DistributionDependencies struct {
	DemandRepo   repository.DemandRepository
	DocumentRepo repository.DocumentRepository
	AnalystRepo  repository.AnalystRepository
	HistoryRepo  repository.DemandHistoryRepository
	Dispatcher   events.Dispatcher
	Cache        DashboardCache
	Logger       *zap.Logger
}

// NewDistributionService creates the service.
func NewDistributionService(deps DistributionDependencies) *DistributionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistributionService{
		demands:     deps.DemandRepo,
		documents:   deps.DocumentRepo,
		analysts:    deps.AnalystRepo,
		historyRepo: deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
		cache:       deps.Cache,
		logger:      logger,
	}
}

// Assign gives the demand to the named analyst (DISTRIBUIDOR/ADMIN).
func (s *DistributionService) Assign(ctx context.Context, actor *domain.Analyst, demandID, analystName string) (*domain.Demand, error) {
	if err := requireRole(actor, domain.AnalystRoleDistribuidor); err != nil {
		return nil, err
	}
	analystName = strings.TrimSpace(analystName)
	if analystName == "" {
		return nil, apperrors.NewValidationError("analista is required", nil)
	}
	assignee, err := s.analysts.GetByName(ctx, analystName)
	if err != nil {
		return nil, mapLookupError(err, "analyst", map[string]any{"analista": analystName})
	}
	if !assignee.Active {
		return nil, apperrors.NewConflict("analyst inactive", map[string]any{"analista": analystName})
	}
	return s.assign(ctx, actor, demandID, assignee)
}

// AutoAssign gives the demand to the active analyst with the fewest open
// demands. Ties go to the earliest registered analyst.
func (s *DistributionService) AutoAssign(ctx context.Context, actor *domain.Analyst, demandID string) (*domain.Demand, error) {
	if err := requireRole(actor, domain.AnalystRoleDistribuidor); err != nil {
		return nil, err
	}
	role := domain.AnalystRoleAnalista
	candidates, err := s.analysts.List(ctx, &role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	active := candidates[:0]
	for _, candidate := range candidates {
		if candidate.Active {
			active = append(active, candidate)
		}
	}
	if len(active) == 0 {
		return nil, apperrors.NewConflict("no eligible analyst", nil)
	}

	load, err := s.openLoad(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(active, func(i, j int) bool {
		li, lj := load[strings.ToLower(active[i].Name)], load[strings.ToLower(active[j].Name)]
		if li != lj {
			return li < lj
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	assignee := active[0]
	return s.assign(ctx, actor, demandID, &assignee)
}

func (s *DistributionService) assign(ctx context.Context, actor *domain.Analyst, demandID string, assignee *domain.Analyst) (*domain.Demand, error) {
	demand, err := s.demands.GetByID(ctx, demandID)
	if err != nil {
		return nil, mapLookupError(err, "demand", map[string]any{"demanda_id": demandID})
	}
	if demand.Finalized() {
		return nil, apperrors.NewConflict("demand already finalized", map[string]any{"demanda_id": demandID})
	}

	oldAnalista := demand.Analista
	demand.Analista = assignee.Name
	demand.Distribuidor = actor.Name
	if err := s.demands.Update(ctx, demand); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAssigneeChange(ctx, actor.ID, demand.ID, oldAnalista, demand.Analista); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}
	s.publishAssignmentEvent(ctx, actor.ID, events.DemandAssignedPayload{
		OldAnalista: oldAnalista,
		NewAnalista: demand.Analista,
	}, demand.ID)

	docs, err := s.documents.ListByDemand(ctx, demand.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	demand.Status = demandstatus.Calculate(*demand, docs)
	return demand, nil
}

// openLoad counts non-finalized demands per lower-cased analyst name.
func (s *DistributionService) openLoad(ctx context.Context) (map[string]int, error) {
	demands, err := s.demands.List(ctx, repository.DemandFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byDemand := demandstatus.IndexByDemand(docs)
	load := make(map[string]int)
	for _, demand := range demands {
		if demandstatus.Calculate(demand, byDemand[demand.ID]) == domain.DemandStatusFinalizada {
			continue
		}
		load[strings.ToLower(demand.Analista)]++
	}
	return load, nil
}

func (s *DistributionService) recordAssigneeChange(ctx context.Context, actorID, demandID, oldAnalista, newAnalista string) error {
	return s.historyRepo.Create(ctx, &domain.DemandHistory{
		DemandaID:   demandID,
		ChangedByID: &actorID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue: map[string]any{
			"analista": oldAnalista,
		},
		NewValue: map[string]any{
			"analista": newAnalista,
		},
	})
}

func (s *DistributionService) publishAssignmentEvent(ctx context.Context, actorID string, payload events.DemandAssignedPayload, demandID string) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEvent(events.EventDemandAssigned, demandID, &actorID, payload)); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(events.EventDemandAssigned)), zap.Error(err))
	}
}
