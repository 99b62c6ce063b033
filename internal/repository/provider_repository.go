package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-service/internal/domain"
)

// ProviderRepository reads the recipient catalog.
type ProviderRepository interface {
	Create(ctx context.Context, provider *domain.Provider) error
	List(ctx context.Context, activeOnly bool) ([]domain.Provider, error)
}

type providerRepository struct {
	pool *pgxpool.Pool
}

// NewProviderRepository instantiates the repository.
func NewProviderRepository(pool *pgxpool.Pool) ProviderRepository {
	return &providerRepository{pool: pool}
}

func (r *providerRepository) Create(ctx context.Context, provider *domain.Provider) error {
	const query = `
        INSERT INTO provedores (nome, endereco, ativo)
        VALUES ($1,$2,$3)
        RETURNING id::text, created_at`
	err := r.pool.QueryRow(ctx, query, provider.Name, provider.Address, provider.IsActive).
		Scan(&provider.ID, &provider.CreatedAt)
	return mapUniqueViolation(err)
}

func (r *providerRepository) List(ctx context.Context, activeOnly bool) ([]domain.Provider, error) {
	query := `SELECT id::text, nome, endereco, ativo, created_at FROM provedores`
	if activeOnly {
		query += ` WHERE ativo`
	}
	query += ` ORDER BY nome ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Provider
	for rows.Next() {
		var provider domain.Provider
		if err := rows.Scan(&provider.ID, &provider.Name, &provider.Address, &provider.IsActive, &provider.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, provider)
	}
	return result, rows.Err()
}
