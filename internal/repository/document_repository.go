package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-service/internal/domain"
)

// DocumentRepository handles persistence for documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	Update(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id domain.DocumentID) (*domain.Document, error)
	ListByDemand(ctx context.Context, demandaID string) ([]domain.Document, error)
	ListAll(ctx context.Context) ([]domain.Document, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository instantiates the repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

const documentColumns = `id::text, COALESCE(demanda_id::text, ''), tipo_documento, assunto, destinatario,
               numero_documento, numero_atena, data_envio, data_resposta, respondido, codigo_rastreio,
               nao_possui_rastreio, data_finalizacao, apresentou_defeito, tamanho_midia, hash_midia,
               senha_midia, selected_midias, selected_relatorios_tecnicos, selected_relatorios_inteligencia,
               selected_autos_circunstanciados, selected_decisoes, destinatarios_data, created_at, updated_at`

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documentos (demanda_id, tipo_documento, assunto, destinatario, numero_documento, numero_atena,
            data_envio, data_resposta, respondido, codigo_rastreio, nao_possui_rastreio, data_finalizacao,
            apresentou_defeito, tamanho_midia, hash_midia, senha_midia, selected_midias,
            selected_relatorios_tecnicos, selected_relatorios_inteligencia, selected_autos_circunstanciados,
            selected_decisoes, destinatarios_data)
        VALUES (NULLIF($1,'')::uuid,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
        RETURNING id::text, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		doc.DemandaID,
		doc.TipoDocumento,
		doc.Assunto,
		doc.Destinatario,
		doc.NumeroDocumento,
		doc.NumeroAtena,
		doc.DataEnvio,
		doc.DataResposta,
		doc.Respondido,
		doc.CodigoRastreio,
		doc.NaoPossuiRastreio,
		doc.DataFinalizacao,
		doc.ApresentouDefeito,
		doc.TamanhoMidia,
		doc.HashMidia,
		doc.SenhaMidia,
		idsOrEmpty(doc.SelectedMidias),
		idsOrEmpty(doc.SelectedRelatoriosTecnicos),
		idsOrEmpty(doc.SelectedRelatoriosInteligencia),
		idsOrEmpty(doc.SelectedAutosCircunstanciados),
		idsOrEmpty(doc.SelectedDecisoes),
		recipientsOrEmpty(doc.DestinatariosData),
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.Document) error {
	const query = `
        UPDATE documentos SET tipo_documento=$1, assunto=$2, destinatario=$3, numero_documento=$4,
            numero_atena=$5, data_envio=$6, data_resposta=$7, respondido=$8, codigo_rastreio=$9,
            nao_possui_rastreio=$10, data_finalizacao=$11, apresentou_defeito=$12, tamanho_midia=$13,
            hash_midia=$14, senha_midia=$15, selected_midias=$16, selected_relatorios_tecnicos=$17,
            selected_relatorios_inteligencia=$18, selected_autos_circunstanciados=$19, selected_decisoes=$20,
            destinatarios_data=$21, updated_at=NOW()
        WHERE id=$22
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		doc.TipoDocumento,
		doc.Assunto,
		doc.Destinatario,
		doc.NumeroDocumento,
		doc.NumeroAtena,
		doc.DataEnvio,
		doc.DataResposta,
		doc.Respondido,
		doc.CodigoRastreio,
		doc.NaoPossuiRastreio,
		doc.DataFinalizacao,
		doc.ApresentouDefeito,
		doc.TamanhoMidia,
		doc.HashMidia,
		doc.SenhaMidia,
		idsOrEmpty(doc.SelectedMidias),
		idsOrEmpty(doc.SelectedRelatoriosTecnicos),
		idsOrEmpty(doc.SelectedRelatoriosInteligencia),
		idsOrEmpty(doc.SelectedAutosCircunstanciados),
		idsOrEmpty(doc.SelectedDecisoes),
		recipientsOrEmpty(doc.DestinatariosData),
		doc.ID,
	).Scan(&doc.UpdatedAt)
	return mapNoRows(err)
}

func (r *documentRepository) GetByID(ctx context.Context, id domain.DocumentID) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documentos WHERE id=$1`
	var doc domain.Document
	if err := scanDocument(r.pool.QueryRow(ctx, query, string(id)), &doc); err != nil {
		return nil, mapNoRows(err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByDemand(ctx context.Context, demandaID string) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documentos WHERE demanda_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, demandaID)
}

func (r *documentRepository) ListAll(ctx context.Context) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documentos ORDER BY created_at ASC`
	return r.list(ctx, query)
}

func (r *documentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

func scanDocument(row pgx.Row, doc *domain.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.DemandaID,
		&doc.TipoDocumento,
		&doc.Assunto,
		&doc.Destinatario,
		&doc.NumeroDocumento,
		&doc.NumeroAtena,
		&doc.DataEnvio,
		&doc.DataResposta,
		&doc.Respondido,
		&doc.CodigoRastreio,
		&doc.NaoPossuiRastreio,
		&doc.DataFinalizacao,
		&doc.ApresentouDefeito,
		&doc.TamanhoMidia,
		&doc.HashMidia,
		&doc.SenhaMidia,
		&doc.SelectedMidias,
		&doc.SelectedRelatoriosTecnicos,
		&doc.SelectedRelatoriosInteligencia,
		&doc.SelectedAutosCircunstanciados,
		&doc.SelectedDecisoes,
		&doc.DestinatariosData,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// JSONB columns are NOT NULL; nil slices are written as empty arrays.
func idsOrEmpty(ids []domain.DocumentID) []domain.DocumentID {
	if ids == nil {
		return []domain.DocumentID{}
	}
	return ids
}

func recipientsOrEmpty(rows []domain.DestinatarioData) []domain.DestinatarioData {
	if rows == nil {
		return []domain.DestinatarioData{}
	}
	return rows
}
