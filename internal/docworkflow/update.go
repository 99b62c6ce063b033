package docworkflow

import (
	"fmt"
	"strings"

	"github.com/spec-kit/demand-service/internal/dates"
	"github.com/spec-kit/demand-service/internal/domain"
)

// Lookup resolves a referenced document by id.
type Lookup func(id domain.DocumentID) (domain.Document, bool)

// LookupFrom indexes docs for use as a Lookup.
func LookupFrom(docs []domain.Document) Lookup {
	index := make(map[domain.DocumentID]domain.Document, len(docs))
	for _, doc := range docs {
		index[doc.ID] = doc
	}
	return func(id domain.DocumentID) (domain.Document, bool) {
		doc, ok := index[id]
		return doc, ok
	}
}

// ValidationError rejects an update because a referenced document is not
// in the state the update requires.
type ValidationError struct {
	Message string
	Pending []domain.DocumentID
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PrepareUpdate builds the patch for working under kind. It returns either a
// patch or a *ValidationError. When lookup is nil, allDocs is indexed instead.
func PrepareUpdate(working EditState, kind Kind, allDocs []domain.Document, lookup Lookup) (*domain.DocumentPatch, error) {
	if lookup == nil {
		lookup = LookupFrom(allDocs)
	}
	if kind == KindOficioAutosCircunstanciados {
		if err := requireFinalizedAutos(working.SelectedAutosCircunstanciados, lookup); err != nil {
			return nil, err
		}
	}

	patch := &domain.DocumentPatch{}
	switch kind {
	case KindFinalizacao:
		patch.DataFinalizacao = strPtr(toStorage(working.DataFinalizacao))
	case KindMidia:
		patch.ApresentouDefeito = boolPtr(working.ApresentouDefeito)
		patch.TamanhoMidia = strPtr(working.TamanhoMidia)
		patch.HashMidia = strPtr(working.HashMidia)
		patch.SenhaMidia = strPtr(working.SenhaMidia)
	case KindOficio:
		patch.NumeroAtena = strPtr(working.NumeroAtena)
		patch.DataEnvio = strPtr(toStorage(working.DataEnvio))
		patch.DataResposta = strPtr(toStorage(working.DataResposta))
		patch.Respondido = boolPtr(working.Respondido)
		patch.CodigoRastreio = strPtr(working.CodigoRastreio)
		patch.NaoPossuiRastreio = boolPtr(working.NaoPossuiRastreio)
	case KindOficioCircular, KindOficioCircularOutros:
		circularPatch(patch, working)
	case KindOficioMidia:
		patch.NumeroAtena = strPtr(working.NumeroAtena)
		patch.SelectedMidias = idsPtr(working.SelectedMidias)
	case KindOficioRelatorioTecnico:
		patch.NumeroAtena = strPtr(working.NumeroAtena)
		patch.SelectedRelatoriosTecnicos = idsPtr(working.SelectedRelatoriosTecnicos)
	case KindOficioRelatorioInteligencia:
		patch.NumeroAtena = strPtr(working.NumeroAtena)
		patch.SelectedRelatoriosInteligencia = idsPtr(working.SelectedRelatoriosInteligencia)
	case KindOficioRelatorioMidia:
		patch.NumeroAtena = strPtr(working.NumeroAtena)
		patch.SelectedRelatoriosTecnicos = idsPtr(working.SelectedRelatoriosTecnicos)
		patch.SelectedMidias = idsPtr(working.SelectedMidias)
	case KindOficioAutosCircunstanciados:
		patch.NumeroAtena = strPtr(working.NumeroAtena)
		patch.SelectedAutosCircunstanciados = idsPtr(working.SelectedAutosCircunstanciados)
	case KindEncaminhamentoDecisaoJudicial, KindComunicacaoNaoCumprimento:
		patch.NumeroAtena = strPtr(working.NumeroAtena)
		patch.SelectedDecisoes = idsPtr(working.SelectedDecisoes)
	}
	return patch, nil
}

// circularPatch stores the recipient rows, derives the aggregate response
// flag and mirrors the first recipient onto the top-level fields.
func circularPatch(patch *domain.DocumentPatch, working EditState) {
	rows := make([]domain.DestinatarioData, len(working.DestinatariosData))
	for i, row := range working.DestinatariosData {
		row.DataEnvio = toStorage(row.DataEnvio)
		row.DataResposta = toStorage(row.DataResposta)
		rows[i] = row
	}
	patch.NumeroAtena = strPtr(working.NumeroAtena)
	patch.DestinatariosData = &rows
	patch.Respondido = boolPtr(AllRecipientsAnswered(rows))

	if len(rows) == 0 {
		return
	}
	mirrored := domain.MirrorFirstRecipient(domain.Document{DestinatariosData: rows})
	patch.DataEnvio = strPtr(mirrored.DataEnvio)
	patch.DataResposta = strPtr(mirrored.DataResposta)
	patch.CodigoRastreio = strPtr(mirrored.CodigoRastreio)
	patch.NaoPossuiRastreio = boolPtr(mirrored.NaoPossuiRastreio)
}

// AllRecipientsAnswered reports whether every recipient has a response
// date. An empty list reports false, not the vacuous true: a circular letter
// with nobody to answer is still waiting on its recipients.
func AllRecipientsAnswered(rows []domain.DestinatarioData) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if row.DataResposta == "" {
			return false
		}
	}
	return true
}

func requireFinalizedAutos(ids []domain.DocumentID, lookup Lookup) error {
	var pending []domain.DocumentID
	var labels []string
	for _, id := range ids {
		doc, ok := lookup(id)
		if ok && doc.DataFinalizacao != "" {
			continue
		}
		pending = append(pending, id)
		label := string(id)
		if ok && doc.NumeroDocumento != "" {
			label = doc.NumeroDocumento
		}
		labels = append(labels, label)
	}
	switch len(pending) {
	case 0:
		return nil
	case 1:
		return &ValidationError{
			Message: fmt.Sprintf("O auto circunstanciado %s não foi finalizado.", labels[0]),
			Pending: pending,
		}
	default:
		return &ValidationError{
			Message: fmt.Sprintf("Os autos circunstanciados %s não foram finalizados.", strings.Join(labels, ", ")),
			Pending: pending,
		}
	}
}

func toStorage(value string) string {
	return dates.ToStorage(dates.Normalize(value))
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func idsPtr(ids []domain.DocumentID) *[]domain.DocumentID {
	out := domain.CloneIDs(ids)
	if out == nil {
		out = []domain.DocumentID{}
	}
	return &out
}
