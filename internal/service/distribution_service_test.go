package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/events"
)

func TestDistributionAssign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dist := f.analyst(t, "Dora", domain.AnalystRoleDistribuidor)
	ana := f.analyst(t, "Ana", domain.AnalystRoleAnalista)
	idle := f.analyst(t, "Ivo", domain.AnalystRoleAnalista)
	idle.Active = false
	require.NoError(t, f.store.Analysts().Update(ctx, idle))

	d := f.demand(t, nil)
	closed := f.demand(t, nil)
	_, err := f.demands.Finalize(ctx, nil, closed.ID, "14/06/2024")
	require.NoError(t, err)

	tests := []struct {
		name     string
		actor    *domain.Analyst
		demandID string
		analyst  string
		code     string
	}{
		{"analyst cannot distribute", ana, d.ID, "Ana", "FORBIDDEN"},
		{"anonymous", nil, d.ID, "Ana", "UNAUTHORIZED"},
		{"blank name", dist, d.ID, "  ", "VALIDATION_FAILED"},
		{"unknown analyst", dist, d.ID, "Zeca", "NOT_FOUND"},
		{"inactive analyst", dist, d.ID, "Ivo", "CONFLICT"},
		{"unknown demand", dist, "missing", "Ana", "NOT_FOUND"},
		{"finalized demand", dist, closed.ID, "Ana", "CONFLICT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.distribution.Assign(ctx, tt.actor, tt.demandID, tt.analyst)
			requireCode(t, err, tt.code)
		})
	}

	assigned, err := f.distribution.Assign(ctx, dist, d.ID, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", assigned.Analista)
	assert.Equal(t, "Dora", assigned.Distribuidor)
	assert.Equal(t, domain.DemandStatusFilaDeEspera, assigned.Status)

	history, err := f.demands.History(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.DemandChangeType{domain.ChangeTypeAssignee}, changeTypes(history))
	assert.Equal(t, "", history[0].OldValue["analista"])
	assert.Equal(t, "Ana", history[0].NewValue["analista"])
	assert.Contains(t, f.eventTypes(), events.EventDemandAssigned)
}

func TestDistributionAutoAssignPicksLeastLoaded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dist := f.analyst(t, "Dora", domain.AnalystRoleDistribuidor)
	ana := f.analyst(t, "Ana", domain.AnalystRoleAnalista)
	f.analyst(t, "Bia", domain.AnalystRoleAnalista)

	busy, err := f.demands.Create(ctx, ana, DemandCreateInput{TipoDemanda: "Quebra", Orgao: "PF", DataInicial: "10/06/2024"})
	require.NoError(t, err)
	require.Equal(t, "Ana", busy.Analista)

	target := f.demand(t, nil)
	assigned, err := f.distribution.AutoAssign(ctx, dist, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bia", assigned.Analista)

	_, err = f.demands.Finalize(ctx, nil, busy.ID, "14/06/2024")
	require.NoError(t, err)

	next := f.demand(t, nil)
	assigned, err = f.distribution.AutoAssign(ctx, dist, next.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", assigned.Analista)
}

func TestDistributionAutoAssignWithoutCandidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.analyst(t, "Root", domain.AnalystRoleAdmin)
	d := f.demand(t, nil)

	_, err := f.distribution.AutoAssign(ctx, admin, d.ID)
	requireCode(t, err, "CONFLICT")
}
