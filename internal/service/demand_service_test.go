package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/events"
)

func TestDemandCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.analyst(t, "Ana", domain.AnalystRoleAnalista)

	t.Run("defaults", func(t *testing.T) {
		d, err := f.demands.Create(ctx, ana, DemandCreateInput{TipoDemanda: " Quebra ", Orgao: "PF"})
		require.NoError(t, err)
		assert.NotEmpty(t, d.ID)
		assert.Equal(t, "Quebra", d.TipoDemanda)
		assert.Equal(t, "15/06/2024", d.DataInicial)
		assert.Equal(t, "Ana", d.Analista)
		assert.Equal(t, domain.DemandStatusFilaDeEspera, d.Status)
		assert.Contains(t, f.eventTypes(), events.EventDemandCreated)
	})

	tests := []struct {
		name  string
		input DemandCreateInput
	}{
		{"missing orgao", DemandCreateInput{TipoDemanda: "Quebra"}},
		{"future date", DemandCreateInput{TipoDemanda: "Quebra", Orgao: "PF", DataInicial: "16/06/2024"}},
		{"malformed date", DemandCreateInput{TipoDemanda: "Quebra", Orgao: "PF", DataInicial: "10-06-2024x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.demands.Create(ctx, ana, tt.input)
			requireCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestDemandCreateAcceptsStorageFormat(t *testing.T) {
	f := newFixture(t)

	d, err := f.demands.Create(context.Background(), nil, DemandCreateInput{TipoDemanda: "Quebra", Orgao: "PF", DataInicial: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, "10/06/2024", d.DataInicial)
}

func TestDemandDateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("final before initial", func(t *testing.T) {
		f := newFixture(t)
		d := f.demand(t, nil)

		_, err := f.demands.Finalize(ctx, nil, d.ID, "01/01/2020")
		de := requireCode(t, err, "VALIDATION_FAILED")
		assert.Equal(t, "dataFinal", de.Details["field"])

		stored, err := f.demands.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.DataFinal)
		assert.NotEqual(t, domain.DemandStatusFinalizada, stored.Status)
	})

	t.Run("final on initial day", func(t *testing.T) {
		f := newFixture(t)
		d := f.demand(t, nil)

		finalized, err := f.demands.Finalize(ctx, nil, d.ID, "2024-06-10")
		require.NoError(t, err)
		assert.Equal(t, "10/06/2024", finalized.DataFinal)
	})

	t.Run("reopen before final", func(t *testing.T) {
		f := newFixture(t)
		d := f.demand(t, nil)
		_, err := f.demands.Finalize(ctx, nil, d.ID, "14/06/2024")
		require.NoError(t, err)

		_, err = f.demands.Reopen(ctx, nil, d.ID, "12/06/2024")
		de := requireCode(t, err, "VALIDATION_FAILED")
		assert.Equal(t, "dataReabertura", de.Details["field"])
	})

	t.Run("new final before reopening", func(t *testing.T) {
		f := newFixture(t)
		d := f.demand(t, nil)
		_, err := f.demands.Finalize(ctx, nil, d.ID, "12/06/2024")
		require.NoError(t, err)
		_, err = f.demands.Reopen(ctx, nil, d.ID, "14/06/2024")
		require.NoError(t, err)

		_, err = f.demands.Finalize(ctx, nil, d.ID, "13/06/2024")
		de := requireCode(t, err, "VALIDATION_FAILED")
		assert.Equal(t, "novaDataFinal", de.Details["field"])
	})

	t.Run("second reopen follows latest final", func(t *testing.T) {
		f := newFixture(t)
		d := f.demand(t, nil)
		_, err := f.demands.Finalize(ctx, nil, d.ID, "11/06/2024")
		require.NoError(t, err)
		_, err = f.demands.Reopen(ctx, nil, d.ID, "12/06/2024")
		require.NoError(t, err)
		_, err = f.demands.Finalize(ctx, nil, d.ID, "14/06/2024")
		require.NoError(t, err)

		_, err = f.demands.Reopen(ctx, nil, d.ID, "13/06/2024")
		requireCode(t, err, "VALIDATION_FAILED")
		reopened, err := f.demands.Reopen(ctx, nil, d.ID, "15/06/2024")
		require.NoError(t, err)
		assert.Equal(t, "15/06/2024", reopened.DataReabertura)
	})
}

func TestDemandLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.analyst(t, "Ana", domain.AnalystRoleAnalista)
	d := f.demand(t, ana)

	_, err := f.demands.Reopen(ctx, ana, d.ID, "")
	requireCode(t, err, "CONFLICT")

	finalized, err := f.demands.Finalize(ctx, ana, d.ID, "14/06/2024")
	require.NoError(t, err)
	assert.Equal(t, "14/06/2024", finalized.DataFinal)
	assert.Equal(t, domain.DemandStatusFinalizada, finalized.Status)

	_, err = f.demands.Finalize(ctx, ana, d.ID, "")
	requireCode(t, err, "CONFLICT")

	reopened, err := f.demands.Reopen(ctx, ana, d.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "15/06/2024", reopened.DataReabertura)
	assert.Empty(t, reopened.NovaDataFinal)
	assert.Equal(t, domain.DemandStatusFilaDeEspera, reopened.Status)

	again, err := f.demands.Finalize(ctx, ana, d.ID, "15/06/2024")
	require.NoError(t, err)
	assert.Equal(t, "14/06/2024", again.DataFinal)
	assert.Equal(t, "15/06/2024", again.NovaDataFinal)
	assert.Equal(t, domain.DemandStatusFinalizada, again.Status)

	history, err := f.demands.History(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.DemandChangeType{
		domain.ChangeTypeFinalized, domain.ChangeTypeStatus,
		domain.ChangeTypeReopened, domain.ChangeTypeStatus,
		domain.ChangeTypeFinalized, domain.ChangeTypeStatus,
	}, changeTypes(history))
	require.NotNil(t, history[0].ChangedByID)
	assert.Equal(t, ana.ID, *history[0].ChangedByID)
}

func TestDemandFinalizeRejectsFutureDate(t *testing.T) {
	f := newFixture(t)
	d := f.demand(t, nil)

	_, err := f.demands.Finalize(context.Background(), nil, d.ID, "20/06/2024")
	de := requireCode(t, err, "VALIDATION_FAILED")
	assert.Equal(t, "A data não pode ser posterior a hoje.", de.Message)
}

func TestDemandNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.demands.Get(ctx, "missing")
	requireCode(t, err, "NOT_FOUND")
	_, err = f.demands.History(ctx, "missing")
	requireCode(t, err, "NOT_FOUND")
	_, err = f.demands.Finalize(ctx, nil, "missing", "")
	requireCode(t, err, "NOT_FOUND")
}

func TestDemandListFiltersDerivedStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	open := f.demand(t, nil)
	closed := f.demand(t, nil)
	_, err := f.demands.Finalize(ctx, nil, closed.ID, "14/06/2024")
	require.NoError(t, err)

	all, err := f.demands.List(ctx, DemandListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	finalized, err := f.demands.List(ctx, DemandListFilter{Statuses: []domain.DemandStatus{domain.DemandStatusFinalizada}})
	require.NoError(t, err)
	require.Len(t, finalized, 1)
	assert.Equal(t, closed.ID, finalized[0].ID)

	queued, err := f.demands.List(ctx, DemandListFilter{Statuses: []domain.DemandStatus{domain.DemandStatusFilaDeEspera}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, open.ID, queued[0].ID)

	empty, err := f.demands.List(ctx, DemandListFilter{Statuses: []domain.DemandStatus{domain.DemandStatusFinalizada}, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRefreshStatusOnlyRecordsChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.demand(t, nil)

	_, err := f.demands.RefreshStatus(ctx, nil, d.ID, "manual")
	require.NoError(t, err)
	history, err := f.demands.History(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NotContains(t, f.eventTypes(), events.EventDemandStatusChanged)
}
