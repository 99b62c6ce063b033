//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/persistence"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("demands"),
		tcpostgres.WithUsername("demands"),
		tcpostgres.WithPassword("demands"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	// A second run finds nothing pending.
	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	demands := NewDemandRepository(pool)
	documents := NewDocumentRepository(pool)
	analysts := NewAnalystRepository(pool)
	history := NewDemandHistoryRepository(pool)
	providers := NewProviderRepository(pool)

	t.Run("analysts", func(t *testing.T) {
		a := &domain.Analyst{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: domain.AnalystRoleAnalista, Active: true}
		require.NoError(t, analysts.Create(ctx, a))
		assert.NotEmpty(t, a.ID)

		dup := &domain.Analyst{Name: "Ana 2", Email: "ana@example.com", PasswordHash: "x", Role: domain.AnalystRoleAnalista}
		assert.ErrorIs(t, analysts.Create(ctx, dup), ErrDuplicate)

		byName, err := analysts.GetByName(ctx, "ANA")
		require.NoError(t, err)
		assert.Equal(t, a.ID, byName.ID)

		_, err = analysts.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("demands and documents", func(t *testing.T) {
		d := &domain.Demand{TipoDemanda: "Quebra", Orgao: "PF", Analista: "Ana", DataInicial: "10/06/2024", Status: domain.DemandStatusFilaDeEspera}
		require.NoError(t, demands.Create(ctx, d))
		require.NotEmpty(t, d.ID)

		d.DataFinal = "14/06/2024"
		require.NoError(t, demands.Update(ctx, d))
		stored, err := demands.GetByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "14/06/2024", stored.DataFinal)

		orgao := "PF"
		listed, err := demands.List(ctx, DemandFilter{Orgao: &orgao})
		require.NoError(t, err)
		assert.Len(t, listed, 1)

		respondido := false
		midia := &domain.Document{DemandaID: d.ID, TipoDocumento: domain.DocumentTypeMidia}
		require.NoError(t, documents.Create(ctx, midia))
		circular := &domain.Document{
			DemandaID:      d.ID,
			TipoDocumento:  domain.DocumentTypeOficioCircular,
			Assunto:        domain.SubjectRequisicaoDadosCadastrais,
			Destinatario:   "Vivo, Claro",
			Respondido:     &respondido,
			SelectedMidias: []domain.DocumentID{midia.ID},
			DestinatariosData: []domain.DestinatarioData{
				{Nome: "Vivo", DataEnvio: "2024-06-12"},
				{Nome: "Claro", DataEnvio: "2024-06-12", DataResposta: "2024-06-13", Respondido: true},
			},
		}
		require.NoError(t, documents.Create(ctx, circular))

		got, err := documents.GetByID(ctx, circular.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Respondido)
		assert.False(t, *got.Respondido)
		assert.Equal(t, []domain.DocumentID{midia.ID}, got.SelectedMidias)
		assert.Equal(t, circular.DestinatariosData, got.DestinatariosData)

		gotMidia, err := documents.GetByID(ctx, midia.ID)
		require.NoError(t, err)
		assert.Nil(t, gotMidia.Respondido)

		docs, err := documents.ListByDemand(ctx, d.ID)
		require.NoError(t, err)
		assert.Len(t, docs, 2)

		require.NoError(t, history.Create(ctx, &domain.DemandHistory{
			DemandaID:  d.ID,
			ChangeType: domain.ChangeTypeFinalized,
			OldValue:   map[string]any{"dataFinal": ""},
			NewValue:   map[string]any{"dataFinal": "14/06/2024"},
		}))
		entries, err := history.ListByDemand(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "14/06/2024", entries[0].NewValue["dataFinal"])
	})

	t.Run("providers", func(t *testing.T) {
		require.NoError(t, providers.Create(ctx, &domain.Provider{Name: "Vivo", IsActive: true}))
		require.NoError(t, providers.Create(ctx, &domain.Provider{Name: "Oi", IsActive: false}))
		assert.ErrorIs(t, providers.Create(ctx, &domain.Provider{Name: "Vivo"}), ErrDuplicate)

		active, err := providers.List(ctx, true)
		require.NoError(t, err)
		assert.Len(t, active, 1)
		all, err := providers.List(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
