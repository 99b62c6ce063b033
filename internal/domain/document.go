package domain

import "time"

// DocumentID identifies a document. Cross references between documents are
// stored as ids, never as embedded records.
type DocumentID string

// DocumentType enumerates the instruments attached to a demand.
type DocumentType string

const (
	DocumentTypeOficio                DocumentType = "Ofício"
	DocumentTypeOficioCircular        DocumentType = "Ofício Circular"
	DocumentTypeMidia                 DocumentType = "Mídia"
	DocumentTypeRelatorioTecnico      DocumentType = "Relatório Técnico"
	DocumentTypeRelatorioInteligencia DocumentType = "Relatório de Inteligência"
	DocumentTypeAutosCircunstanciados DocumentType = "Autos Circunstanciados"
	DocumentTypeDecisaoJudicial       DocumentType = "Decisão Judicial"
)

// KnownDocumentTypes is the catalog offered by the document form.
var KnownDocumentTypes = []DocumentType{
	DocumentTypeOficio,
	DocumentTypeOficioCircular,
	DocumentTypeMidia,
	DocumentTypeRelatorioTecnico,
	DocumentTypeRelatorioInteligencia,
	DocumentTypeAutosCircunstanciados,
	DocumentTypeDecisaoJudicial,
}

// IsReport reports whether the type is finalized through a finalization date.
func (t DocumentType) IsReport() bool {
	switch t {
	case DocumentTypeRelatorioTecnico, DocumentTypeRelatorioInteligencia, DocumentTypeAutosCircunstanciados:
		return true
	default:
		return false
	}
}

// Subject enumerates the fixed catalog of document subjects (assunto).
type Subject string

const (
	SubjectEncaminhamentoMidia                   Subject = "Encaminhamento de mídia"
	SubjectEncaminhamentoRelatorioTecnico        Subject = "Encaminhamento de relatório técnico"
	SubjectEncaminhamentoRelatorioInteligencia   Subject = "Encaminhamento de relatório de inteligência"
	SubjectEncaminhamentoRelatorioTecnicoMidia   Subject = "Encaminhamento de relatório técnico e mídia"
	SubjectEncaminhamentoAutos                   Subject = "Encaminhamento de autos circunstanciados"
	SubjectEncaminhamentoDecisaoJudicial         Subject = "Encaminhamento de decisão judicial"
	SubjectComunicacaoNaoCumprimento             Subject = "Comunicação de não cumprimento de decisão judicial"
	SubjectRequisicaoDadosCadastrais             Subject = "Requisição de dados cadastrais"
	SubjectRequisicaoDadosCadastraisPreservacao  Subject = "Requisição de dados cadastrais e preservação de dados"
	SubjectSolicitacaoDadosCadastrais            Subject = "Solicitação de dados cadastrais"
	SubjectSolicitacaoDadosCadastraisPreservacao Subject = "Solicitação de dados cadastrais e preservação de dados"
	SubjectRequisicaoInformacoes                 Subject = "Requisição de informações"
	SubjectOutros                                Subject = "Outros"
)

// KnownSubjects is the catalog offered by the document form.
var KnownSubjects = []Subject{
	SubjectEncaminhamentoMidia,
	SubjectEncaminhamentoRelatorioTecnico,
	SubjectEncaminhamentoRelatorioInteligencia,
	SubjectEncaminhamentoRelatorioTecnicoMidia,
	SubjectEncaminhamentoAutos,
	SubjectEncaminhamentoDecisaoJudicial,
	SubjectComunicacaoNaoCumprimento,
	SubjectRequisicaoDadosCadastrais,
	SubjectRequisicaoDadosCadastraisPreservacao,
	SubjectSolicitacaoDadosCadastrais,
	SubjectSolicitacaoDadosCadastraisPreservacao,
	SubjectRequisicaoInformacoes,
	SubjectOutros,
}

// IsCadastral reports whether the subject requests registration data.
func (s Subject) IsCadastral() bool {
	switch s {
	case SubjectRequisicaoDadosCadastrais,
		SubjectRequisicaoDadosCadastraisPreservacao,
		SubjectSolicitacaoDadosCadastrais,
		SubjectSolicitacaoDadosCadastraisPreservacao:
		return true
	default:
		return false
	}
}

// DestinatarioData is one recipient row of an Ofício Circular.
type DestinatarioData struct {
	Nome              string `json:"nome"`
	DataEnvio         string `json:"dataEnvio"`
	DataResposta      string `json:"dataResposta"`
	Respondido        bool   `json:"respondido"`
	CodigoRastreio    string `json:"codigoRastreio"`
	NaoPossuiRastreio bool   `json:"naopossuiRastreio"`
}

// Document is an instrument tied to a demand. Dates use the storage format
// YYYY-MM-DD; an empty string means the date is not set.
type Document struct {
	ID              DocumentID   `json:"id"`
	DemandaID       string       `json:"demandaId"`
	TipoDocumento   DocumentType `json:"tipoDocumento"`
	Assunto         Subject      `json:"assunto"`
	Destinatario    string       `json:"destinatario"`
	NumeroDocumento string       `json:"numeroDocumento"`
	NumeroAtena     string       `json:"numeroAtena"`
	DataEnvio       string       `json:"dataEnvio"`
	DataResposta    string       `json:"dataResposta"`
	// Respondido is nil for documents that never expect a response.
	Respondido        *bool  `json:"respondido,omitempty"`
	CodigoRastreio    string `json:"codigoRastreio"`
	NaoPossuiRastreio bool   `json:"naopossuiRastreio"`

	DataFinalizacao   string `json:"dataFinalizacao"`
	ApresentouDefeito bool   `json:"apresentouDefeito"`
	TamanhoMidia      string `json:"tamanhoMidia"`
	HashMidia         string `json:"hashMidia"`
	SenhaMidia        string `json:"senhaMidia"`

	SelectedMidias                 []DocumentID `json:"selectedMidias"`
	SelectedRelatoriosTecnicos     []DocumentID `json:"selectedRelatoriosTecnicos"`
	SelectedRelatoriosInteligencia []DocumentID `json:"selectedRelatoriosInteligencia"`
	SelectedAutosCircunstanciados  []DocumentID `json:"selectedAutosCircunstanciados"`
	SelectedDecisoes               []DocumentID `json:"selectedDecisoes"`

	DestinatariosData []DestinatarioData `json:"destinatariosData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Answered reports whether the single-recipient response flag is set.
func (d Document) Answered() bool {
	return d.Respondido != nil && *d.Respondido
}

// Clone returns a copy that shares no slices or pointers with d.
func (d Document) Clone() Document {
	out := d
	if d.Respondido != nil {
		v := *d.Respondido
		out.Respondido = &v
	}
	out.SelectedMidias = CloneIDs(d.SelectedMidias)
	out.SelectedRelatoriosTecnicos = CloneIDs(d.SelectedRelatoriosTecnicos)
	out.SelectedRelatoriosInteligencia = CloneIDs(d.SelectedRelatoriosInteligencia)
	out.SelectedAutosCircunstanciados = CloneIDs(d.SelectedAutosCircunstanciados)
	out.SelectedDecisoes = CloneIDs(d.SelectedDecisoes)
	out.DestinatariosData = CloneRecipients(d.DestinatariosData)
	return out
}

// CloneIDs copies an id list; nil stays nil.
func CloneIDs(ids []DocumentID) []DocumentID {
	if ids == nil {
		return nil
	}
	out := make([]DocumentID, len(ids))
	copy(out, ids)
	return out
}

// CloneRecipients copies recipient rows; nil stays nil.
func CloneRecipients(rows []DestinatarioData) []DestinatarioData {
	if rows == nil {
		return nil
	}
	out := make([]DestinatarioData, len(rows))
	copy(out, rows)
	return out
}

// MirrorFirstRecipient applies the Ofício Circular convention that the
// top-level send, response and tracking fields mirror the first recipient
// row. Documents without recipients are returned unchanged.
func MirrorFirstRecipient(doc Document) Document {
	if len(doc.DestinatariosData) == 0 {
		return doc
	}
	first := doc.DestinatariosData[0]
	doc.DataEnvio = first.DataEnvio
	doc.DataResposta = first.DataResposta
	doc.CodigoRastreio = first.CodigoRastreio
	doc.NaoPossuiRastreio = first.NaoPossuiRastreio
	return doc
}

// DocumentPatch is a partial update. Nil fields are left untouched.
type DocumentPatch struct {
	NumeroAtena       *string `json:"numeroAtena,omitempty"`
	DataEnvio         *string `json:"dataEnvio,omitempty"`
	DataResposta      *string `json:"dataResposta,omitempty"`
	Respondido        *bool   `json:"respondido,omitempty"`
	CodigoRastreio    *string `json:"codigoRastreio,omitempty"`
	NaoPossuiRastreio *bool   `json:"naopossuiRastreio,omitempty"`

	DataFinalizacao   *string `json:"dataFinalizacao,omitempty"`
	ApresentouDefeito *bool   `json:"apresentouDefeito,omitempty"`
	TamanhoMidia      *string `json:"tamanhoMidia,omitempty"`
	HashMidia         *string `json:"hashMidia,omitempty"`
	SenhaMidia        *string `json:"senhaMidia,omitempty"`

	SelectedMidias                 *[]DocumentID `json:"selectedMidias,omitempty"`
	SelectedRelatoriosTecnicos     *[]DocumentID `json:"selectedRelatoriosTecnicos,omitempty"`
	SelectedRelatoriosInteligencia *[]DocumentID `json:"selectedRelatoriosInteligencia,omitempty"`
	SelectedAutosCircunstanciados  *[]DocumentID `json:"selectedAutosCircunstanciados,omitempty"`
	SelectedDecisoes               *[]DocumentID `json:"selectedDecisoes,omitempty"`

	DestinatariosData *[]DestinatarioData `json:"destinatariosData,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p DocumentPatch) Empty() bool {
	return p == (DocumentPatch{})
}

// Apply returns a copy of doc with the patch fields written over it.
func (p DocumentPatch) Apply(doc Document) Document {
	out := doc.Clone()
	setString(&out.NumeroAtena, p.NumeroAtena)
	setString(&out.DataEnvio, p.DataEnvio)
	setString(&out.DataResposta, p.DataResposta)
	setString(&out.CodigoRastreio, p.CodigoRastreio)
	setString(&out.DataFinalizacao, p.DataFinalizacao)
	setString(&out.TamanhoMidia, p.TamanhoMidia)
	setString(&out.HashMidia, p.HashMidia)
	setString(&out.SenhaMidia, p.SenhaMidia)
	setBool(&out.NaoPossuiRastreio, p.NaoPossuiRastreio)
	setBool(&out.ApresentouDefeito, p.ApresentouDefeito)
	if p.Respondido != nil {
		v := *p.Respondido
		out.Respondido = &v
	}
	setIDs(&out.SelectedMidias, p.SelectedMidias)
	setIDs(&out.SelectedRelatoriosTecnicos, p.SelectedRelatoriosTecnicos)
	setIDs(&out.SelectedRelatoriosInteligencia, p.SelectedRelatoriosInteligencia)
	setIDs(&out.SelectedAutosCircunstanciados, p.SelectedAutosCircunstanciados)
	setIDs(&out.SelectedDecisoes, p.SelectedDecisoes)
	if p.DestinatariosData != nil {
		out.DestinatariosData = CloneRecipients(*p.DestinatariosData)
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setIDs(dst *[]DocumentID, src *[]DocumentID) {
	if src != nil {
		*dst = CloneIDs(*src)
	}
}
