package dto

import "github.com/spec-kit/demand-service/internal/domain"

// CreateDocumentRequest payload. Dates accept DD/MM/YYYY or YYYY-MM-DD.
type CreateDocumentRequest struct {
	TipoDocumento     domain.DocumentType `json:"tipoDocumento"`
	Assunto           domain.Subject      `json:"assunto"`
	Destinatario      string              `json:"destinatario"`
	NumeroDocumento   string              `json:"numeroDocumento"`
	NumeroAtena       string              `json:"numeroAtena"`
	DataEnvio         string              `json:"dataEnvio"`
	DataResposta      string              `json:"dataResposta"`
	Respondido        *bool               `json:"respondido"`
	CodigoRastreio    string              `json:"codigoRastreio"`
	NaoPossuiRastreio bool                `json:"naopossuiRastreio"`

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

// ToDocument maps the payload onto a document.
func (r CreateDocumentRequest) ToDocument() domain.Document {
	return domain.Document{
		TipoDocumento:                  r.TipoDocumento,
		Assunto:                        r.Assunto,
		Destinatario:                   r.Destinatario,
		NumeroDocumento:                r.NumeroDocumento,
		NumeroAtena:                    r.NumeroAtena,
		DataEnvio:                      r.DataEnvio,
		DataResposta:                   r.DataResposta,
		Respondido:                     r.Respondido,
		CodigoRastreio:                 r.CodigoRastreio,
		NaoPossuiRastreio:              r.NaoPossuiRastreio,
		DataFinalizacao:                r.DataFinalizacao,
		ApresentouDefeito:              r.ApresentouDefeito,
		TamanhoMidia:                   r.TamanhoMidia,
		HashMidia:                      r.HashMidia,
		SenhaMidia:                     r.SenhaMidia,
		SelectedMidias:                 r.SelectedMidias,
		SelectedRelatoriosTecnicos:     r.SelectedRelatoriosTecnicos,
		SelectedRelatoriosInteligencia: r.SelectedRelatoriosInteligencia,
		SelectedAutosCircunstanciados:  r.SelectedAutosCircunstanciados,
		SelectedDecisoes:               r.SelectedDecisoes,
		DestinatariosData:              r.DestinatariosData,
	}
}
