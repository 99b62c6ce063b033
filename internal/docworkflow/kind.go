// Package docworkflow resolves which update form a document uses and turns
// an edited snapshot into a partial update.
package docworkflow

import "github.com/spec-kit/demand-service/internal/domain"

// Kind tags the update workflow of a document.
type Kind string

const (
	KindFinalizacao                   Kind = "finalizacao"
	KindMidia                         Kind = "midia"
	KindOficio                        Kind = "oficio"
	KindOficioCircular                Kind = "oficio_circular"
	KindOficioCircularOutros          Kind = "oficio_circular_outros"
	KindComunicacaoNaoCumprimento     Kind = "comunicacao_nao_cumprimento"
	KindEncaminhamentoDecisaoJudicial Kind = "encaminhamento_decisao_judicial"
	KindOficioMidia                   Kind = "oficio_midia"
	KindOficioRelatorioTecnico        Kind = "oficio_relatorio_tecnico"
	KindOficioRelatorioInteligencia   Kind = "oficio_relatorio_inteligencia"
	KindOficioRelatorioMidia          Kind = "oficio_relatorio_midia"
	KindOficioAutosCircunstanciados   Kind = "oficio_autos_circunstanciados"
	KindDefault                       Kind = "default"
)

// AllKinds lists every workflow kind.
var AllKinds = []Kind{
	KindFinalizacao,
	KindMidia,
	KindOficio,
	KindOficioCircular,
	KindOficioCircularOutros,
	KindComunicacaoNaoCumprimento,
	KindEncaminhamentoDecisaoJudicial,
	KindOficioMidia,
	KindOficioRelatorioTecnico,
	KindOficioRelatorioInteligencia,
	KindOficioRelatorioMidia,
	KindOficioAutosCircunstanciados,
	KindDefault,
}

// IsCircular reports whether the kind edits per-recipient rows.
func (k Kind) IsCircular() bool {
	return k == KindOficioCircular || k == KindOficioCircularOutros
}

// IsReference reports whether the kind edits only references to other
// documents plus the Atena number.
func (k Kind) IsReference() bool {
	switch k {
	case KindComunicacaoNaoCumprimento,
		KindEncaminhamentoDecisaoJudicial,
		KindOficioMidia,
		KindOficioRelatorioTecnico,
		KindOficioRelatorioInteligencia,
		KindOficioRelatorioMidia,
		KindOficioAutosCircunstanciados:
		return true
	default:
		return false
	}
}

// ResolveKind dispatches on the document type, then on the subject for
// Ofício and Ofício Circular.
func ResolveKind(doc domain.Document) Kind {
	switch doc.TipoDocumento {
	case domain.DocumentTypeRelatorioTecnico, domain.DocumentTypeRelatorioInteligencia, domain.DocumentTypeAutosCircunstanciados:
		return KindFinalizacao
	case domain.DocumentTypeMidia:
		return KindMidia
	case domain.DocumentTypeOficioCircular:
		if doc.Assunto == domain.SubjectOutros {
			return KindOficioCircularOutros
		}
		return KindOficioCircular
	case domain.DocumentTypeOficio:
		return oficioKind(doc.Assunto)
	default:
		return KindDefault
	}
}

func oficioKind(subject domain.Subject) Kind {
	switch subject {
	case domain.SubjectEncaminhamentoMidia:
		return KindOficioMidia
	case domain.SubjectEncaminhamentoRelatorioTecnico:
		return KindOficioRelatorioTecnico
	case domain.SubjectEncaminhamentoRelatorioInteligencia:
		return KindOficioRelatorioInteligencia
	case domain.SubjectEncaminhamentoRelatorioTecnicoMidia:
		return KindOficioRelatorioMidia
	case domain.SubjectEncaminhamentoAutos:
		return KindOficioAutosCircunstanciados
	case domain.SubjectComunicacaoNaoCumprimento:
		return KindComunicacaoNaoCumprimento
	case domain.SubjectEncaminhamentoDecisaoJudicial,
		domain.SubjectRequisicaoDadosCadastrais,
		domain.SubjectRequisicaoDadosCadastraisPreservacao,
		domain.SubjectSolicitacaoDadosCadastrais,
		domain.SubjectSolicitacaoDadosCadastraisPreservacao:
		return KindEncaminhamentoDecisaoJudicial
	default:
		return KindOficio
	}
}
