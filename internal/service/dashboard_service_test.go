package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-service/internal/dashboard"
	"github.com/spec-kit/demand-service/internal/domain"
)

type fakeDashboardCache struct {
	entries     map[string]dashboard.Summary
	getErr      error
	sets        int
	invalidated int
}

func newFakeDashboardCache() *fakeDashboardCache {
	return &fakeDashboardCache{entries: map[string]dashboard.Summary{}}
}

func (c *fakeDashboardCache) Get(_ context.Context, filter dashboard.Filter) (*dashboard.Summary, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	summary, ok := c.entries[filter.Key()]
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

func (c *fakeDashboardCache) Set(_ context.Context, filter dashboard.Filter, summary dashboard.Summary) error {
	c.sets++
	c.entries[filter.Key()] = summary
	return nil
}

func (c *fakeDashboardCache) Invalidate(context.Context) error {
	c.invalidated++
	c.entries = map[string]dashboard.Summary{}
	return nil
}

func TestDashboardSummaryUsesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cache := newFakeDashboardCache()
	f.demands.cache = cache
	svc := NewDashboardService(f.store.Demands(), f.store.Documents(), cache, nil)

	d := f.demand(t, nil)
	_, err := f.documents.Create(ctx, nil, d.ID, domain.Document{TipoDocumento: domain.DocumentTypeMidia})
	require.NoError(t, err)

	first, err := svc.Summary(ctx, dashboard.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalDemands)
	assert.Equal(t, 1, first.IncompleteDocuments)
	assert.Equal(t, 1, first.ByStatus[domain.DemandStatusEmAndamento])
	assert.Equal(t, 1, cache.sets)

	_, err = svc.Summary(ctx, dashboard.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second read served from cache")

	before := cache.invalidated
	f.demand(t, nil)
	assert.Greater(t, cache.invalidated, before)

	fresh, err := svc.Summary(ctx, dashboard.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.TotalDemands)
}

func TestDashboardSummaryDegradesOnCacheError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cache := newFakeDashboardCache()
	cache.getErr = errors.New("redis down")
	svc := NewDashboardService(f.store.Demands(), f.store.Documents(), cache, nil)
	f.demand(t, nil)

	summary, err := svc.Summary(ctx, dashboard.Filter{Analista: "Ninguem"})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalDemands)

	summary, err = svc.Summary(ctx, dashboard.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalDemands)
}

func TestDashboardIncompleteDocuments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewDashboardService(f.store.Demands(), f.store.Documents(), nil, nil)
	d := f.demand(t, nil)

	_, err := f.documents.Create(ctx, nil, d.ID, domain.Document{TipoDocumento: domain.DocumentTypeMidia, TamanhoMidia: "1GB", HashMidia: "h"})
	require.NoError(t, err)
	pending, err := f.documents.Create(ctx, nil, d.ID, domain.Document{TipoDocumento: domain.DocumentTypeRelatorioTecnico})
	require.NoError(t, err)

	views, err := svc.IncompleteDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, pending.ID, views[0].ID)
}
