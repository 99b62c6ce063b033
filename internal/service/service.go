package service

import (
	"context"
	"time"

	"github.com/spec-kit/demand-service/internal/dashboard"
	"github.com/spec-kit/demand-service/internal/domain"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// DashboardCache stores computed summaries. *cache.DashboardCache
// satisfies it; a nil cache always misses.
type DashboardCache interface {
	Get(ctx context.Context, filter dashboard.Filter) (*dashboard.Summary, error)
	Set(ctx context.Context, filter dashboard.Filter, summary dashboard.Summary) error
	Invalidate(ctx context.Context) error
}

// Counter records named domain counters.
type Counter interface {
	Inc(name string)
}

const counterDocumentUpdateRejected = "document_update_rejected"

func requireRole(actor *domain.Analyst, allowed ...domain.AnalystRole) error {
	if actor == nil {
		return apperrors.NewUnauthorized("analyst required")
	}
	if actor.Role == domain.AnalystRoleAdmin {
		return nil
	}
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

func mapLookupError(err error, resource string, details map[string]any) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}

func actorID(actor *domain.Analyst) *string {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

func ptrBool(v bool) *bool {
	return &v
}

func systemNow() time.Time {
	return time.Now()
}
