package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-service/internal/domain"
)

// DemandHistoryRepository stores audit entries.
type DemandHistoryRepository interface {
	Create(ctx context.Context, history *domain.DemandHistory) error
	ListByDemand(ctx context.Context, demandaID string) ([]domain.DemandHistory, error)
}

type demandHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewDemandHistoryRepository builds repository.
func NewDemandHistoryRepository(pool *pgxpool.Pool) DemandHistoryRepository {
	return &demandHistoryRepository{pool: pool}
}

func (r *demandHistoryRepository) Create(ctx context.Context, history *domain.DemandHistory) error {
	const query = `
        INSERT INTO demanda_history (demanda_id, changed_by_id, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id::text, created_at`
	return r.pool.QueryRow(ctx, query,
		history.DemandaID,
		history.ChangedByID,
		history.ChangeType,
		valuesOrEmpty(history.OldValue),
		valuesOrEmpty(history.NewValue),
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *demandHistoryRepository) ListByDemand(ctx context.Context, demandaID string) ([]domain.DemandHistory, error) {
	const query = `
        SELECT id::text, demanda_id::text, changed_by_id, change_type, old_value, new_value, created_at
        FROM demanda_history WHERE demanda_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, demandaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DemandHistory
	for rows.Next() {
		var history domain.DemandHistory
		if err := rows.Scan(
			&history.ID,
			&history.DemandaID,
			&history.ChangedByID,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

func valuesOrEmpty(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return values
}
