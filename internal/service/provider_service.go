package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/repository"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// ProviderService manages the circular-letter recipient catalog.
type ProviderService struct {
	providers repository.ProviderRepository
}

// NewProviderService constructs the service.
func NewProviderService(providers repository.ProviderRepository) *ProviderService {
	return &ProviderService{providers: providers}
}

// List returns catalog entries.
func (s *ProviderService) List(ctx context.Context, includeInactive bool) ([]domain.Provider, error) {
	providers, err := s.providers.List(ctx, !includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return providers, nil
}

// Create adds a catalog entry (ADMIN).
func (s *ProviderService) Create(ctx context.Context, actor *domain.Analyst, name, address string) (*domain.Provider, error) {
	if err := requireRole(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("nome is required", nil)
	}
	if strings.Contains(name, ",") {
		return nil, apperrors.NewValidationError("nome cannot contain commas", map[string]any{"nome": name})
	}
	provider := &domain.Provider{Name: name, Address: strings.TrimSpace(address), IsActive: true}
	if err := s.providers.Create(ctx, provider); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("provider already exists", map[string]any{"nome": name})
		}
		return nil, apperrors.MapError(err)
	}
	return provider, nil
}
