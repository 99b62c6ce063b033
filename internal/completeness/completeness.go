// Package completeness decides whether a document is missing a mandatory
// field, an expected response or a required reference to other documents.
package completeness

import (
	"strings"

	"github.com/spec-kit/demand-service/internal/domain"
)

// Reason names the first rule a document fails.
type Reason string

const (
	ReasonNotSent             Reason = "not_sent"
	ReasonPendingResponse     Reason = "pending_response"
	ReasonMissingAtena        Reason = "missing_atena"
	ReasonMissingTracking     Reason = "missing_tracking"
	ReasonMissingReferences   Reason = "missing_references"
	ReasonMissingFinalization Reason = "missing_finalization"
	ReasonMissingMediaFields  Reason = "missing_media_fields"
	ReasonNotAnswered         Reason = "not_answered"
)

// Subjects of circular letters that never expect a response.
var noResponseSubjects = map[domain.Subject]struct{}{
	domain.SubjectEncaminhamentoMidia:                 {},
	domain.SubjectEncaminhamentoRelatorioTecnico:      {},
	domain.SubjectEncaminhamentoRelatorioInteligencia: {},
	domain.SubjectEncaminhamentoRelatorioTecnicoMidia: {},
	domain.SubjectEncaminhamentoAutos:                 {},
	domain.SubjectComunicacaoNaoCumprimento:           {},
	domain.SubjectOutros:                              {},
}

// ExpectsResponse reports whether a circular letter with this subject
// waits for answers from its recipients.
func ExpectsResponse(subject domain.Subject) bool {
	_, skip := noResponseSubjects[subject]
	return !skip
}

// IsIncomplete reports whether doc still needs work. Unknown document types
// are always complete.
func IsIncomplete(doc domain.Document) bool {
	_, incomplete := Check(doc)
	return incomplete
}

// Check returns the first failing rule for doc, if any.
func Check(doc domain.Document) (Reason, bool) {
	switch doc.TipoDocumento {
	case domain.DocumentTypeMidia:
		if doc.TamanhoMidia == "" || doc.HashMidia == "" {
			return ReasonMissingMediaFields, true
		}
		return "", false
	case domain.DocumentTypeRelatorioTecnico, domain.DocumentTypeRelatorioInteligencia, domain.DocumentTypeAutosCircunstanciados:
		if doc.DataFinalizacao == "" {
			return ReasonMissingFinalization, true
		}
		return "", false
	case domain.DocumentTypeOficioCircular:
		return checkCircular(doc)
	case domain.DocumentTypeOficio:
		return checkOficio(doc)
	default:
		return "", false
	}
}

func checkCircular(doc domain.Document) (Reason, bool) {
	if doc.DataEnvio == "" {
		return ReasonNotSent, true
	}
	if ExpectsResponse(doc.Assunto) && doc.DataResposta == "" {
		return ReasonPendingResponse, true
	}
	if doc.NumeroAtena == "" {
		return ReasonMissingAtena, true
	}
	if doc.Assunto != domain.SubjectOutros {
		for _, dest := range doc.DestinatariosData {
			if dest.DataEnvio != "" && !dest.NaoPossuiRastreio && dest.CodigoRastreio == "" {
				return ReasonMissingTracking, true
			}
		}
	}
	return "", false
}

func checkOficio(doc domain.Document) (Reason, bool) {
	if doc.NumeroAtena == "" {
		return ReasonMissingAtena, true
	}
	if strings.HasPrefix(string(doc.Assunto), "Encaminhamento") || doc.Assunto == domain.SubjectOutros {
		return checkEncaminhamento(doc)
	}
	missingTracking := !doc.NaoPossuiRastreio && doc.CodigoRastreio == ""
	if doc.Assunto == domain.SubjectComunicacaoNaoCumprimento {
		switch {
		case doc.DataEnvio == "":
			return ReasonNotSent, true
		case missingTracking:
			return ReasonMissingTracking, true
		}
		return "", false
	}
	switch {
	case doc.DataEnvio == "":
		return ReasonNotSent, true
	case missingTracking:
		return ReasonMissingTracking, true
	case doc.Answered() && doc.DataResposta == "":
		return ReasonPendingResponse, true
	case !doc.Answered():
		return ReasonNotAnswered, true
	}
	return "", false
}

// EncaminhamentoIncomplete applies the forwarding rule: the document must be
// sent and carry the references its subject requires. Subjects without a
// reference requirement are complete.
func EncaminhamentoIncomplete(doc domain.Document) bool {
	_, incomplete := checkEncaminhamento(doc)
	return incomplete
}

func checkEncaminhamento(doc domain.Document) (Reason, bool) {
	var hasRefs bool
	switch doc.Assunto {
	case domain.SubjectEncaminhamentoMidia:
		hasRefs = len(doc.SelectedMidias) > 0
	case domain.SubjectEncaminhamentoRelatorioTecnico:
		hasRefs = len(doc.SelectedRelatoriosTecnicos) > 0
	case domain.SubjectEncaminhamentoRelatorioInteligencia:
		hasRefs = len(doc.SelectedRelatoriosInteligencia) > 0
	case domain.SubjectEncaminhamentoAutos:
		hasRefs = len(doc.SelectedAutosCircunstanciados) > 0
	case domain.SubjectEncaminhamentoRelatorioTecnicoMidia:
		hasRefs = len(doc.SelectedRelatoriosTecnicos) > 0 && len(doc.SelectedMidias) > 0
	default:
		return "", false
	}
	if doc.DataEnvio == "" {
		return ReasonNotSent, true
	}
	if !hasRefs {
		return ReasonMissingReferences, true
	}
	return "", false
}
