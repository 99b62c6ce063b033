package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-service/internal/domain"
)

// DemandFilter captures listing parameters.
type DemandFilter struct {
	Analista    *string
	Orgao       *string
	TipoDemanda *string
	SearchTerm  *string
	Limit       int
	Offset      int
}

// DemandRepository encapsulates demand persistence.
type DemandRepository interface {
	Create(ctx context.Context, demand *domain.Demand) error
	Update(ctx context.Context, demand *domain.Demand) error
	GetByID(ctx context.Context, id string) (*domain.Demand, error)
	List(ctx context.Context, filter DemandFilter) ([]domain.Demand, error)
}

type demandRepository struct {
	pool *pgxpool.Pool
}

// NewDemandRepository instantiates repository.
func NewDemandRepository(pool *pgxpool.Pool) DemandRepository {
	return &demandRepository{pool: pool}
}

const demandColumns = `id::text, tipo_demanda, orgao, analista, distribuidor, data_inicial, data_final,
               data_reabertura, nova_data_final, status, created_at, updated_at`

func (r *demandRepository) Create(ctx context.Context, demand *domain.Demand) error {
	const query = `
        INSERT INTO demandas (tipo_demanda, orgao, analista, distribuidor, data_inicial, data_final, data_reabertura, nova_data_final, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id::text, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		demand.TipoDemanda,
		demand.Orgao,
		demand.Analista,
		demand.Distribuidor,
		demand.DataInicial,
		demand.DataFinal,
		demand.DataReabertura,
		demand.NovaDataFinal,
		demand.Status,
	).Scan(&demand.ID, &demand.CreatedAt, &demand.UpdatedAt)
}

func (r *demandRepository) Update(ctx context.Context, demand *domain.Demand) error {
	const query = `
        UPDATE demandas SET tipo_demanda=$1, orgao=$2, analista=$3, distribuidor=$4, data_inicial=$5,
            data_final=$6, data_reabertura=$7, nova_data_final=$8, status=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		demand.TipoDemanda,
		demand.Orgao,
		demand.Analista,
		demand.Distribuidor,
		demand.DataInicial,
		demand.DataFinal,
		demand.DataReabertura,
		demand.NovaDataFinal,
		demand.Status,
		demand.ID,
	).Scan(&demand.UpdatedAt)
	return mapNoRows(err)
}

func (r *demandRepository) GetByID(ctx context.Context, id string) (*domain.Demand, error) {
	query := `SELECT ` + demandColumns + ` FROM demandas WHERE id=$1`
	var demand domain.Demand
	if err := scanDemand(r.pool.QueryRow(ctx, query, id), &demand); err != nil {
		return nil, mapNoRows(err)
	}
	return &demand, nil
}

func (r *demandRepository) List(ctx context.Context, filter DemandFilter) ([]domain.Demand, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Analista != nil {
		args = append(args, *filter.Analista)
		clauses = append(clauses, fmt.Sprintf("LOWER(analista)=LOWER($%d)", len(args)))
	}
	if filter.Orgao != nil {
		args = append(args, *filter.Orgao)
		clauses = append(clauses, fmt.Sprintf("orgao=$%d", len(args)))
	}
	if filter.TipoDemanda != nil {
		args = append(args, *filter.TipoDemanda)
		clauses = append(clauses, fmt.Sprintf("tipo_demanda=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(orgao) LIKE %s OR LOWER(tipo_demanda) LIKE %s OR LOWER(analista) LIKE %s)", placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM demandas WHERE %s ORDER BY created_at DESC`, demandColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Demand
	for rows.Next() {
		var demand domain.Demand
		if err := scanDemand(rows, &demand); err != nil {
			return nil, err
		}
		result = append(result, demand)
	}
	return result, rows.Err()
}

func scanDemand(row pgx.Row, demand *domain.Demand) error {
	return row.Scan(
		&demand.ID,
		&demand.TipoDemanda,
		&demand.Orgao,
		&demand.Analista,
		&demand.Distribuidor,
		&demand.DataInicial,
		&demand.DataFinal,
		&demand.DataReabertura,
		&demand.NovaDataFinal,
		&demand.Status,
		&demand.CreatedAt,
		&demand.UpdatedAt,
	)
}
