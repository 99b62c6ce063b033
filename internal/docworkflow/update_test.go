package docworkflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-service/internal/domain"
)

func TestPrepareUpdateRejectsUnfinalizedAutos(t *testing.T) {
	docs := []domain.Document{
		{ID: "7", TipoDocumento: domain.DocumentTypeAutosCircunstanciados, NumeroDocumento: "AC-7/2024", DataFinalizacao: ""},
	}
	working := EditState{NumeroAtena: "AT1", SelectedAutosCircunstanciados: []domain.DocumentID{"7"}}

	patch, err := PrepareUpdate(working, KindOficioAutosCircunstanciados, docs, nil)
	require.Error(t, err)
	assert.Nil(t, patch)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "AC-7/2024")
	assert.Contains(t, verr.Message, "não foi finalizado.")
	assert.Equal(t, []domain.DocumentID{"7"}, verr.Pending)
}

func TestPrepareUpdateNamesEveryPendingAuto(t *testing.T) {
	docs := []domain.Document{
		{ID: "7", NumeroDocumento: "AC-7", DataFinalizacao: ""},
		{ID: "8", NumeroDocumento: "AC-8", DataFinalizacao: "2024-01-01"},
	}
	working := EditState{SelectedAutosCircunstanciados: []domain.DocumentID{"7", "8", "404"}}

	_, err := PrepareUpdate(working, KindOficioAutosCircunstanciados, docs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AC-7, 404")
	assert.Contains(t, err.Error(), "não foram finalizados.")
}

func TestPrepareUpdateAcceptsFinalizedAutos(t *testing.T) {
	lookup := func(id domain.DocumentID) (domain.Document, bool) {
		return domain.Document{ID: id, DataFinalizacao: "2024-01-01"}, true
	}
	working := EditState{NumeroAtena: "AT2", SelectedAutosCircunstanciados: []domain.DocumentID{"7"}, DataEnvio: "01/01/2024"}

	patch, err := PrepareUpdate(working, KindOficioAutosCircunstanciados, nil, lookup)
	require.NoError(t, err)
	require.NotNil(t, patch.SelectedAutosCircunstanciados)
	assert.Equal(t, []domain.DocumentID{"7"}, *patch.SelectedAutosCircunstanciados)
	assert.Equal(t, "AT2", *patch.NumeroAtena)
	assert.Nil(t, patch.DataEnvio, "reference kinds carry no dates")
}

func TestPrepareUpdateCircular(t *testing.T) {
	working := EditState{
		NumeroAtena: "AT3",
		DestinatariosData: []domain.DestinatarioData{
			{Nome: "A", DataEnvio: "01/03/2024", DataResposta: "05/03/2024", CodigoRastreio: "BR1"},
			{Nome: "B", DataEnvio: "02/03/2024", NaoPossuiRastreio: true},
		},
	}

	patch, err := PrepareUpdate(working, KindOficioCircular, nil, nil)
	require.NoError(t, err)
	assert.False(t, *patch.Respondido)
	assert.Equal(t, "2024-03-01", *patch.DataEnvio)
	assert.Equal(t, "2024-03-05", *patch.DataResposta)
	assert.Equal(t, "BR1", *patch.CodigoRastreio)
	assert.False(t, *patch.NaoPossuiRastreio)
	require.Len(t, *patch.DestinatariosData, 2)
	assert.Equal(t, "2024-03-02", (*patch.DestinatariosData)[1].DataEnvio)
	assert.Equal(t, "02/03/2024", working.DestinatariosData[1].DataEnvio, "working snapshot untouched")

	working.DestinatariosData[1].DataResposta = "06/03/2024"
	patch, err = PrepareUpdate(working, KindOficioCircularOutros, nil, nil)
	require.NoError(t, err)
	assert.True(t, *patch.Respondido)
}

func TestPrepareUpdateCircularWithoutRecipients(t *testing.T) {
	patch, err := PrepareUpdate(EditState{NumeroAtena: "AT"}, KindOficioCircular, nil, nil)
	require.NoError(t, err)
	assert.False(t, *patch.Respondido)
	assert.Nil(t, patch.DataEnvio)
}

func TestAllRecipientsAnswered(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.DestinatarioData
		want bool
	}{
		{"no recipients", nil, false},
		{"one pending", []domain.DestinatarioData{{Nome: "A", DataResposta: "01/03/2024"}, {Nome: "B"}}, false},
		{"all answered", []domain.DestinatarioData{{Nome: "A", DataResposta: "01/03/2024"}, {Nome: "B", DataResposta: "02/03/2024"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllRecipientsAnswered(tt.rows))
		})
	}
}

func TestPrepareUpdateScalarKinds(t *testing.T) {
	t.Run("finalizacao", func(t *testing.T) {
		patch, err := PrepareUpdate(EditState{DataFinalizacao: "20/02/2024"}, KindFinalizacao, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "2024-02-20", *patch.DataFinalizacao)
		assert.Nil(t, patch.NumeroAtena)
	})

	t.Run("midia", func(t *testing.T) {
		patch, err := PrepareUpdate(EditState{TamanhoMidia: "2GB", HashMidia: "ff", ApresentouDefeito: true}, KindMidia, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "2GB", *patch.TamanhoMidia)
		assert.True(t, *patch.ApresentouDefeito)
	})

	t.Run("oficio", func(t *testing.T) {
		working := EditState{NumeroAtena: "AT", DataEnvio: "01/01/2024", DataResposta: "", Respondido: false, NaoPossuiRastreio: true}
		patch, err := PrepareUpdate(working, KindOficio, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", *patch.DataEnvio)
		assert.Equal(t, "", *patch.DataResposta)
		assert.False(t, *patch.Respondido)
		assert.True(t, *patch.NaoPossuiRastreio)
	})

	t.Run("default changes nothing", func(t *testing.T) {
		patch, err := PrepareUpdate(EditState{NumeroAtena: "x"}, KindDefault, nil, nil)
		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})
}

func TestPrepareUpdateReferenceKinds(t *testing.T) {
	working := EditState{
		NumeroAtena:                "AT",
		SelectedMidias:             []domain.DocumentID{"1"},
		SelectedRelatoriosTecnicos: []domain.DocumentID{"2"},
		SelectedDecisoes:           []domain.DocumentID{"3"},
	}

	patch, err := PrepareUpdate(working, KindOficioRelatorioMidia, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.DocumentID{"1"}, *patch.SelectedMidias)
	assert.Equal(t, []domain.DocumentID{"2"}, *patch.SelectedRelatoriosTecnicos)
	assert.Nil(t, patch.SelectedDecisoes)

	patch, err = PrepareUpdate(working, KindComunicacaoNaoCumprimento, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.DocumentID{"3"}, *patch.SelectedDecisoes)
	assert.Nil(t, patch.DataEnvio)

	(*patch.SelectedDecisoes)[0] = "changed"
	assert.Equal(t, domain.DocumentID("3"), working.SelectedDecisoes[0])
}

func TestPatchAppliesOntoDocument(t *testing.T) {
	doc := circularDoc()
	state := InitializeEditState(doc, "")
	state.DestinatariosData[0].DataResposta = "04/03/2024"
	state.DestinatariosData[1].DataResposta = "05/03/2024"

	patch, err := PrepareUpdate(state, KindOficioCircular, nil, nil)
	require.NoError(t, err)

	updated := patch.Apply(doc)
	assert.True(t, updated.Answered())
	assert.Equal(t, "2024-03-04", updated.DataResposta)
	assert.Len(t, updated.DestinatariosData, 2)
	assert.Empty(t, doc.DestinatariosData, "source document untouched")
}
