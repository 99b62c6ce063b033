package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/dashboard"
	"github.com/spec-kit/demand-service/internal/repository"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// DashboardService serves aggregate counters.
type DashboardService struct {
	demands   repository.DemandRepository
	documents repository.DocumentRepository
	cache     DashboardCache
	logger    *zap.Logger
}

// NewDashboardService constructs the service. cache may be nil.
func NewDashboardService(demands repository.DemandRepository, documents repository.DocumentRepository, cache DashboardCache, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{demands: demands, documents: documents, cache: cache, logger: logger}
}

// Summary returns the counters for filter, served from cache when possible.
// Cache failures degrade to a fresh computation.
func (s *DashboardService) Summary(ctx context.Context, filter dashboard.Filter) (*dashboard.Summary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, filter)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	demands, err := s.demands.List(ctx, repository.DemandFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary := dashboard.Summarize(demands, docs, filter)

	if s.cache != nil {
		if err := s.cache.Set(ctx, filter, summary); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return &summary, nil
}

// IncompleteDocuments lists incomplete documents across every demand.
func (s *DashboardService) IncompleteDocuments(ctx context.Context) ([]DocumentView, error) {
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	views := []DocumentView{}
	for _, doc := range docs {
		if view := newDocumentView(doc); view.Incomplete {
			views = append(views, view)
		}
	}
	return views, nil
}
