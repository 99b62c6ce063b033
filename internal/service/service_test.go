package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/events"
	"github.com/spec-kit/demand-service/internal/repository"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type countingCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingCounter) Inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[name]++
}

func (c *countingCounter) get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

type fixture struct {
	store        *repository.MemoryStore
	dispatcher   events.Dispatcher
	published    *[]events.Event
	counter      *countingCounter
	demands      *DemandService
	documents    *DocumentService
	distribution *DistributionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	published := &[]events.Event{}
	var mu sync.Mutex
	for _, eventType := range []events.EventType{
		events.EventDemandCreated,
		events.EventDemandStatusChanged,
		events.EventDemandAssigned,
		events.EventDocumentCreated,
		events.EventDocumentUpdated,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			*published = append(*published, event)
			return nil
		})
	}
	now := func() time.Time { return fixedNow }
	counter := &countingCounter{}

	demands := NewDemandService(DemandDependencies{
		DemandRepo:   store.Demands(),
		DocumentRepo: store.Documents(),
		HistoryRepo:  store.History(),
		Dispatcher:   dispatcher,
		Now:          now,
	})
	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		published:  published,
		counter:    counter,
		demands:    demands,
		documents: NewDocumentService(DocumentDependencies{
			DocumentRepo:  store.Documents(),
			DemandRepo:    store.Demands(),
			HistoryRepo:   store.History(),
			DemandService: demands,
			Dispatcher:    dispatcher,
			Counter:       counter,
			Now:           now,
		}),
		distribution: NewDistributionService(DistributionDependencies{
			DemandRepo:   store.Demands(),
			DocumentRepo: store.Documents(),
			AnalystRepo:  store.Analysts(),
			HistoryRepo:  store.History(),
			Dispatcher:   dispatcher,
		}),
	}
}

func (f *fixture) analyst(t *testing.T, name string, role domain.AnalystRole) *domain.Analyst {
	t.Helper()
	a := &domain.Analyst{Name: name, Email: name + "@example.com", Role: role, Active: true}
	require.NoError(t, f.store.Analysts().Create(context.Background(), a))
	return a
}

func (f *fixture) demand(t *testing.T, actor *domain.Analyst) *domain.Demand {
	t.Helper()
	d, err := f.demands.Create(context.Background(), actor, DemandCreateInput{
		TipoDemanda: "Quebra de sigilo",
		Orgao:       "PF",
		DataInicial: "10/06/2024",
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) eventTypes() []events.EventType {
	out := make([]events.EventType, 0, len(*f.published))
	for _, e := range *f.published {
		out = append(out, e.Type)
	}
	return out
}

func requireCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code)
	return de
}

func changeTypes(entries []domain.DemandHistory) []domain.DemandChangeType {
	out := make([]domain.DemandChangeType, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ChangeType)
	}
	return out
}
