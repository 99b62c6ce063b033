package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/demand-service/internal/domain"
)

// MemoryStore backs every in-memory repository. It is used when no Postgres
// DSN is configured and by service tests.
type MemoryStore struct {
	mu        sync.RWMutex
	demands   map[string]domain.Demand
	documents map[domain.DocumentID]domain.Document
	analysts  map[string]domain.Analyst
	history   []domain.DemandHistory
	providers map[string]domain.Provider
	now       func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		demands:   make(map[string]domain.Demand),
		documents: make(map[domain.DocumentID]domain.Document),
		analysts:  make(map[string]domain.Analyst),
		providers: make(map[string]domain.Provider),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Demands returns a DemandRepository over the store.
func (s *MemoryStore) Demands() DemandRepository { return &memoryDemandRepository{store: s} }

// Documents returns a DocumentRepository over the store.
func (s *MemoryStore) Documents() DocumentRepository { return &memoryDocumentRepository{store: s} }

// Analysts returns an AnalystRepository over the store.
func (s *MemoryStore) Analysts() AnalystRepository { return &memoryAnalystRepository{store: s} }

// History returns a DemandHistoryRepository over the store.
func (s *MemoryStore) History() DemandHistoryRepository { return &memoryHistoryRepository{store: s} }

// Providers returns a ProviderRepository over the store.
func (s *MemoryStore) Providers() ProviderRepository { return &memoryProviderRepository{store: s} }

type memoryDemandRepository struct {
	store *MemoryStore
}

func (r *memoryDemandRepository) Create(_ context.Context, demand *domain.Demand) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if demand.ID == "" {
		demand.ID = uuid.NewString()
	}
	now := s.now()
	demand.CreatedAt = now
	demand.UpdatedAt = now
	s.demands[demand.ID] = *demand
	return nil
}

func (r *memoryDemandRepository) Update(_ context.Context, demand *domain.Demand) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.demands[demand.ID]; !ok {
		return ErrNotFound
	}
	demand.UpdatedAt = s.now()
	s.demands[demand.ID] = *demand
	return nil
}

func (r *memoryDemandRepository) GetByID(_ context.Context, id string) (*domain.Demand, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	demand, ok := s.demands[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &demand, nil
}

func (r *memoryDemandRepository) List(_ context.Context, filter DemandFilter) ([]domain.Demand, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Demand
	for _, demand := range s.demands {
		if filter.Analista != nil && !strings.EqualFold(demand.Analista, *filter.Analista) {
			continue
		}
		if filter.Orgao != nil && demand.Orgao != *filter.Orgao {
			continue
		}
		if filter.TipoDemanda != nil && demand.TipoDemanda != *filter.TipoDemanda {
			continue
		}
		if filter.SearchTerm != nil && !matchesSearch(demand, *filter.SearchTerm) {
			continue
		}
		result = append(result, demand)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

func matchesSearch(demand domain.Demand, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{demand.Orgao, demand.TipoDemanda, demand.Analista} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		return items
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type memoryDocumentRepository struct {
	store *MemoryStore
}

func (r *memoryDocumentRepository) Create(_ context.Context, doc *domain.Document) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = domain.DocumentID(uuid.NewString())
	}
	now := s.now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	s.documents[doc.ID] = doc.Clone()
	return nil
}

func (r *memoryDocumentRepository) Update(_ context.Context, doc *domain.Document) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[doc.ID]; !ok {
		return ErrNotFound
	}
	doc.UpdatedAt = s.now()
	s.documents[doc.ID] = doc.Clone()
	return nil
}

func (r *memoryDocumentRepository) GetByID(_ context.Context, id domain.DocumentID) (*domain.Document, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := doc.Clone()
	return &out, nil
}

func (r *memoryDocumentRepository) ListByDemand(_ context.Context, demandaID string) ([]domain.Document, error) {
	return r.collect(func(doc domain.Document) bool { return doc.DemandaID == demandaID }), nil
}

func (r *memoryDocumentRepository) ListAll(_ context.Context) ([]domain.Document, error) {
	return r.collect(func(domain.Document) bool { return true }), nil
}

func (r *memoryDocumentRepository) collect(keep func(domain.Document) bool) []domain.Document {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for _, doc := range s.documents {
		if keep(doc) {
			result = append(result, doc.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

type memoryAnalystRepository struct {
	store *MemoryStore
}

func (r *memoryAnalystRepository) Create(_ context.Context, analyst *domain.Analyst) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.analysts {
		if strings.EqualFold(existing.Email, analyst.Email) {
			return ErrDuplicate
		}
	}
	if analyst.ID == "" {
		analyst.ID = uuid.NewString()
	}
	now := s.now()
	analyst.CreatedAt = now
	analyst.UpdatedAt = now
	s.analysts[analyst.ID] = *analyst
	return nil
}

func (r *memoryAnalystRepository) Update(_ context.Context, analyst *domain.Analyst) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analysts[analyst.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.analysts {
		if id != analyst.ID && strings.EqualFold(existing.Email, analyst.Email) {
			return ErrDuplicate
		}
	}
	analyst.UpdatedAt = s.now()
	s.analysts[analyst.ID] = *analyst
	return nil
}

func (r *memoryAnalystRepository) GetByID(_ context.Context, id string) (*domain.Analyst, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	analyst, ok := s.analysts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &analyst, nil
}

func (r *memoryAnalystRepository) GetByEmail(_ context.Context, email string) (*domain.Analyst, error) {
	return r.find(func(a domain.Analyst) bool { return strings.EqualFold(a.Email, email) })
}

func (r *memoryAnalystRepository) GetByName(_ context.Context, name string) (*domain.Analyst, error) {
	return r.find(func(a domain.Analyst) bool { return strings.EqualFold(a.Name, name) })
}

func (r *memoryAnalystRepository) find(match func(domain.Analyst) bool) (*domain.Analyst, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, analyst := range s.analysts {
		if match(analyst) {
			found := analyst
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryAnalystRepository) List(_ context.Context, role *domain.AnalystRole) ([]domain.Analyst, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Analyst
	for _, analyst := range s.analysts {
		if role != nil && analyst.Role != *role {
			continue
		}
		result = append(result, analyst)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type memoryHistoryRepository struct {
	store *MemoryStore
}

func (r *memoryHistoryRepository) Create(_ context.Context, history *domain.DemandHistory) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	history.CreatedAt = s.now()
	s.history = append(s.history, *history)
	return nil
}

func (r *memoryHistoryRepository) ListByDemand(_ context.Context, demandaID string) ([]domain.DemandHistory, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.DemandHistory
	for _, entry := range s.history {
		if entry.DemandaID == demandaID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type memoryProviderRepository struct {
	store *MemoryStore
}

func (r *memoryProviderRepository) Create(_ context.Context, provider *domain.Provider) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.providers {
		if strings.EqualFold(existing.Name, provider.Name) {
			return ErrDuplicate
		}
	}
	if provider.ID == "" {
		provider.ID = uuid.NewString()
	}
	provider.CreatedAt = s.now()
	s.providers[provider.ID] = *provider
	return nil
}

func (r *memoryProviderRepository) List(_ context.Context, activeOnly bool) ([]domain.Provider, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Provider
	for _, provider := range s.providers {
		if activeOnly && !provider.IsActive {
			continue
		}
		result = append(result, provider)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
