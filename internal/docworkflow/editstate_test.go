package docworkflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-service/internal/domain"
)

func boolRef(v bool) *bool { return &v }

func circularDoc() domain.Document {
	return domain.Document{
		ID:             "10",
		DemandaID:      "d1",
		TipoDocumento:  domain.DocumentTypeOficioCircular,
		Assunto:        domain.SubjectRequisicaoDadosCadastrais,
		Destinatario:   "Provedor A, Provedor B",
		NumeroAtena:    "AT1",
		DataEnvio:      "2024-03-01",
		CodigoRastreio: "BR1",
		Respondido:     boolRef(false),
	}
}

func TestInitializeEditStateConvertsDates(t *testing.T) {
	doc := domain.Document{
		TipoDocumento:   domain.DocumentTypeRelatorioTecnico,
		DataFinalizacao: "2024-02-15",
		DataEnvio:       "05/02/2024",
	}
	state := InitializeEditState(doc, "")
	assert.Equal(t, "15/02/2024", state.DataFinalizacao)
	assert.Equal(t, "05/02/2024", state.DataEnvio)
	assert.NotNil(t, state.SelectedMidias)
	assert.Nil(t, state.DestinatariosData)
}

func TestInitializeEditStateExpandsRecipients(t *testing.T) {
	state := InitializeEditState(circularDoc(), "Provedor A, Provedor B ,, Provedor C")
	require.Len(t, state.DestinatariosData, 3)
	for _, row := range state.DestinatariosData {
		assert.Equal(t, "01/03/2024", row.DataEnvio)
		assert.Equal(t, "BR1", row.CodigoRastreio)
		assert.False(t, row.Respondido)
	}
	assert.Equal(t, "Provedor C", state.DestinatariosData[2].Nome)
}

func TestInitializeEditStateFallsBackToDocumentRecipients(t *testing.T) {
	state := InitializeEditState(circularDoc(), "")
	require.Len(t, state.DestinatariosData, 2)
	assert.Equal(t, "Provedor A", state.DestinatariosData[0].Nome)
	assert.Equal(t, "Provedor B", state.DestinatariosData[1].Nome)
}

func TestInitializeEditStateReusesStoredRows(t *testing.T) {
	doc := circularDoc()
	doc.DestinatariosData = []domain.DestinatarioData{
		{Nome: "Provedor B", DataEnvio: "2024-03-02", DataResposta: "2024-03-09", Respondido: true, CodigoRastreio: "BR2"},
	}
	state := InitializeEditState(doc, "")
	require.Len(t, state.DestinatariosData, 2)
	assert.Equal(t, "01/03/2024", state.DestinatariosData[0].DataEnvio)
	assert.Equal(t, "09/03/2024", state.DestinatariosData[1].DataResposta)
	assert.Equal(t, "BR2", state.DestinatariosData[1].CodigoRastreio)
}

func TestInitializeEditStateIsIdempotentAndUnaliased(t *testing.T) {
	doc := circularDoc()
	doc.SelectedDecisoes = []domain.DocumentID{"1", "2"}

	a := InitializeEditState(doc, "")
	b := InitializeEditState(doc, "")
	assert.Equal(t, a, b)

	a.DestinatariosData[0].CodigoRastreio = "CHANGED"
	a.SelectedDecisoes[0] = "99"
	assert.Equal(t, "BR1", b.DestinatariosData[0].CodigoRastreio)
	assert.Equal(t, domain.DocumentID("1"), b.SelectedDecisoes[0])
	assert.Equal(t, domain.DocumentID("1"), doc.SelectedDecisoes[0])
}

func TestHasChanges(t *testing.T) {
	t.Run("finalizacao", func(t *testing.T) {
		initial := EditState{DataFinalizacao: ""}
		working := initial.Clone()
		assert.False(t, HasChanges(working, initial, KindFinalizacao))
		working.DataFinalizacao = "01/02/2024"
		assert.True(t, HasChanges(working, initial, KindFinalizacao))
		assert.False(t, HasChanges(working, initial, KindMidia))
	})

	t.Run("midia", func(t *testing.T) {
		initial := EditState{HashMidia: "h"}
		working := initial.Clone()
		working.ApresentouDefeito = true
		assert.True(t, HasChanges(working, initial, KindMidia))
	})

	t.Run("oficio", func(t *testing.T) {
		initial := EditState{NumeroAtena: "AT1"}
		working := initial.Clone()
		working.Respondido = true
		assert.True(t, HasChanges(working, initial, KindOficio))
	})

	t.Run("circular compares recipient rows deeply", func(t *testing.T) {
		initial := InitializeEditState(circularDoc(), "")
		working := initial.Clone()
		assert.False(t, HasChanges(working, initial, KindOficioCircular))
		working.DestinatariosData[1].DataResposta = "10/03/2024"
		assert.True(t, HasChanges(working, initial, KindOficioCircular))
		assert.True(t, HasChanges(working, initial, KindOficioCircularOutros))
	})

	t.Run("reference kinds compare their own list", func(t *testing.T) {
		initial := InitializeEditState(domain.Document{}, "")
		working := initial.Clone()
		working.SelectedMidias = append(working.SelectedMidias, "5")
		assert.True(t, HasChanges(working, initial, KindOficioMidia))
		assert.True(t, HasChanges(working, initial, KindOficioRelatorioMidia))
		assert.False(t, HasChanges(working, initial, KindOficioRelatorioTecnico))
		assert.False(t, HasChanges(working, initial, KindOficioAutosCircunstanciados))
		assert.False(t, HasChanges(working, initial, KindDefault))
	})

	t.Run("decision kinds", func(t *testing.T) {
		initial := InitializeEditState(domain.Document{}, "")
		working := initial.Clone()
		working.SelectedDecisoes = []domain.DocumentID{"8"}
		assert.True(t, HasChanges(working, initial, KindEncaminhamentoDecisaoJudicial))
		assert.True(t, HasChanges(working, initial, KindComunicacaoNaoCumprimento))
	})

	t.Run("nil and empty lists are equal", func(t *testing.T) {
		assert.False(t, HasChanges(EditState{}, EditState{SelectedMidias: []domain.DocumentID{}}, KindOficioMidia))
	})
}
