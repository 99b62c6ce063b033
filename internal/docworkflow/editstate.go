package docworkflow

import (
	"slices"
	"strings"

	"github.com/spec-kit/demand-service/internal/dates"
	"github.com/spec-kit/demand-service/internal/domain"
)

// EditState is the editable snapshot behind an update form. Dates are in
// display format.
type EditState struct {
	NumeroAtena       string `json:"numeroAtena"`
	DataEnvio         string `json:"dataEnvio"`
	DataResposta      string `json:"dataResposta"`
	Respondido        bool   `json:"respondido"`
	CodigoRastreio    string `json:"codigoRastreio"`
	NaoPossuiRastreio bool   `json:"naopossuiRastreio"`

	DataFinalizacao   string `json:"dataFinalizacao"`
	ApresentouDefeito bool   `json:"apresentouDefeito"`
	TamanhoMidia      string `json:"tamanhoMidia"`
	HashMidia         string `json:"hashMidia"`
	SenhaMidia        string `json:"senhaMidia"`

	SelectedMidias                 []domain.DocumentID `json:"selectedMidias"`
	SelectedRelatoriosTecnicos     []domain.DocumentID `json:"selectedRelatoriosTecnicos"`
	SelectedRelatoriosInteligencia []domain.DocumentID `json:"selectedRelatoriosInteligencia"`
	SelectedAutosCircunstanciados  []domain.DocumentID `json:"selectedAutosCircunstanciados"`
	SelectedDecisoes               []domain.DocumentID `json:"selectedDecisoes"`

	DestinatariosData []domain.DestinatarioData `json:"destinatariosData"`
}

// Clone returns a copy that shares no slices with s.
func (s EditState) Clone() EditState {
	out := s
	out.SelectedMidias = domain.CloneIDs(s.SelectedMidias)
	out.SelectedRelatoriosTecnicos = domain.CloneIDs(s.SelectedRelatoriosTecnicos)
	out.SelectedRelatoriosInteligencia = domain.CloneIDs(s.SelectedRelatoriosInteligencia)
	out.SelectedAutosCircunstanciados = domain.CloneIDs(s.SelectedAutosCircunstanciados)
	out.SelectedDecisoes = domain.CloneIDs(s.SelectedDecisoes)
	out.DestinatariosData = domain.CloneRecipients(s.DestinatariosData)
	return out
}

// InitializeEditState seeds a snapshot from doc. For Ofício Circular the
// comma-joined recipientNames expand into one row per name; when empty the
// document's own recipient list is used. Rows already stored for a name are
// reused, new names start from the document's top-level values.
func InitializeEditState(doc domain.Document, recipientNames string) EditState {
	state := EditState{
		NumeroAtena:       doc.NumeroAtena,
		DataEnvio:         dates.Normalize(doc.DataEnvio),
		DataResposta:      dates.Normalize(doc.DataResposta),
		Respondido:        doc.Answered(),
		CodigoRastreio:    doc.CodigoRastreio,
		NaoPossuiRastreio: doc.NaoPossuiRastreio,

		DataFinalizacao:   dates.Normalize(doc.DataFinalizacao),
		ApresentouDefeito: doc.ApresentouDefeito,
		TamanhoMidia:      doc.TamanhoMidia,
		HashMidia:         doc.HashMidia,
		SenhaMidia:        doc.SenhaMidia,

		SelectedMidias:                 orEmpty(doc.SelectedMidias),
		SelectedRelatoriosTecnicos:     orEmpty(doc.SelectedRelatoriosTecnicos),
		SelectedRelatoriosInteligencia: orEmpty(doc.SelectedRelatoriosInteligencia),
		SelectedAutosCircunstanciados:  orEmpty(doc.SelectedAutosCircunstanciados),
		SelectedDecisoes:               orEmpty(doc.SelectedDecisoes),
	}
	if doc.TipoDocumento == domain.DocumentTypeOficioCircular {
		state.DestinatariosData = recipientRows(doc, recipientNames, state)
	}
	return state
}

func recipientRows(doc domain.Document, recipientNames string, top EditState) []domain.DestinatarioData {
	names := SplitRecipients(recipientNames)
	if len(names) == 0 {
		names = SplitRecipients(doc.Destinatario)
	}
	if len(names) == 0 {
		for _, row := range doc.DestinatariosData {
			names = append(names, row.Nome)
		}
	}

	stored := make(map[string]domain.DestinatarioData, len(doc.DestinatariosData))
	for _, row := range doc.DestinatariosData {
		stored[row.Nome] = row
	}

	rows := make([]domain.DestinatarioData, 0, len(names))
	for _, name := range names {
		if row, ok := stored[name]; ok {
			row.DataEnvio = dates.Normalize(row.DataEnvio)
			row.DataResposta = dates.Normalize(row.DataResposta)
			rows = append(rows, row)
			continue
		}
		rows = append(rows, domain.DestinatarioData{
			Nome:              name,
			DataEnvio:         top.DataEnvio,
			DataResposta:      top.DataResposta,
			Respondido:        top.Respondido,
			CodigoRastreio:    top.CodigoRastreio,
			NaoPossuiRastreio: top.NaoPossuiRastreio,
		})
	}
	return rows
}

// SplitRecipients splits a comma-joined recipient list, dropping blanks.
func SplitRecipients(joined string) []string {
	var names []string
	for _, part := range strings.Split(joined, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func orEmpty(ids []domain.DocumentID) []domain.DocumentID {
	if ids == nil {
		return []domain.DocumentID{}
	}
	return domain.CloneIDs(ids)
}

// HasChanges compares the fields the kind's form edits.
func HasChanges(working, initial EditState, kind Kind) bool {
	switch kind {
	case KindFinalizacao:
		return working.DataFinalizacao != initial.DataFinalizacao
	case KindMidia:
		return working.ApresentouDefeito != initial.ApresentouDefeito ||
			working.TamanhoMidia != initial.TamanhoMidia ||
			working.HashMidia != initial.HashMidia ||
			working.SenhaMidia != initial.SenhaMidia
	case KindOficio:
		return working.NumeroAtena != initial.NumeroAtena ||
			working.DataEnvio != initial.DataEnvio ||
			working.DataResposta != initial.DataResposta ||
			working.Respondido != initial.Respondido ||
			working.CodigoRastreio != initial.CodigoRastreio ||
			working.NaoPossuiRastreio != initial.NaoPossuiRastreio
	case KindOficioCircular, KindOficioCircularOutros:
		return working.NumeroAtena != initial.NumeroAtena ||
			!slices.Equal(working.DestinatariosData, initial.DestinatariosData)
	case KindOficioMidia:
		return referencesChanged(working, initial, working.SelectedMidias, initial.SelectedMidias)
	case KindOficioRelatorioTecnico:
		return referencesChanged(working, initial, working.SelectedRelatoriosTecnicos, initial.SelectedRelatoriosTecnicos)
	case KindOficioRelatorioInteligencia:
		return referencesChanged(working, initial, working.SelectedRelatoriosInteligencia, initial.SelectedRelatoriosInteligencia)
	case KindOficioRelatorioMidia:
		return referencesChanged(working, initial, working.SelectedRelatoriosTecnicos, initial.SelectedRelatoriosTecnicos) ||
			!slices.Equal(working.SelectedMidias, initial.SelectedMidias)
	case KindOficioAutosCircunstanciados:
		return referencesChanged(working, initial, working.SelectedAutosCircunstanciados, initial.SelectedAutosCircunstanciados)
	case KindEncaminhamentoDecisaoJudicial, KindComunicacaoNaoCumprimento:
		return referencesChanged(working, initial, working.SelectedDecisoes, initial.SelectedDecisoes)
	default:
		return false
	}
}

func referencesChanged(working, initial EditState, a, b []domain.DocumentID) bool {
	return working.NumeroAtena != initial.NumeroAtena || !slices.Equal(a, b)
}
