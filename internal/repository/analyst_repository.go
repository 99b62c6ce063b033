package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-service/internal/domain"
)

// AnalystRepository handles persistence for analysts.
type AnalystRepository interface {
	Create(ctx context.Context, analyst *domain.Analyst) error
	Update(ctx context.Context, analyst *domain.Analyst) error
	GetByID(ctx context.Context, id string) (*domain.Analyst, error)
	GetByEmail(ctx context.Context, email string) (*domain.Analyst, error)
	GetByName(ctx context.Context, name string) (*domain.Analyst, error)
	List(ctx context.Context, role *domain.AnalystRole) ([]domain.Analyst, error)
}

type analystRepository struct {
	pool *pgxpool.Pool
}

// NewAnalystRepository instantiates the repository.
func NewAnalystRepository(pool *pgxpool.Pool) AnalystRepository {
	return &analystRepository{pool: pool}
}

const analystColumns = `id::text, name, email, password_hash, role, active, created_at, updated_at`

func (r *analystRepository) Create(ctx context.Context, analyst *domain.Analyst) error {
	const query = `
        INSERT INTO analysts (name, email, password_hash, role, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id::text, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		analyst.Name,
		analyst.Email,
		analyst.PasswordHash,
		analyst.Role,
		analyst.Active,
	).Scan(&analyst.ID, &analyst.CreatedAt, &analyst.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *analystRepository) Update(ctx context.Context, analyst *domain.Analyst) error {
	const query = `
        UPDATE analysts SET name=$1, email=$2, password_hash=$3, role=$4, active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		analyst.Name,
		analyst.Email,
		analyst.PasswordHash,
		analyst.Role,
		analyst.Active,
		analyst.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *analystRepository) GetByID(ctx context.Context, id string) (*domain.Analyst, error) {
	return r.getOne(ctx, `SELECT `+analystColumns+` FROM analysts WHERE id=$1`, id)
}

func (r *analystRepository) GetByEmail(ctx context.Context, email string) (*domain.Analyst, error) {
	return r.getOne(ctx, `SELECT `+analystColumns+` FROM analysts WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *analystRepository) GetByName(ctx context.Context, name string) (*domain.Analyst, error) {
	return r.getOne(ctx, `SELECT `+analystColumns+` FROM analysts WHERE LOWER(name)=LOWER($1)`, name)
}

func (r *analystRepository) List(ctx context.Context, role *domain.AnalystRole) ([]domain.Analyst, error) {
	query := `SELECT ` + analystColumns + ` FROM analysts`
	args := []any{}
	if role != nil {
		query += ` WHERE role=$1`
		args = append(args, *role)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Analyst
	for rows.Next() {
		var analyst domain.Analyst
		if err := scanAnalyst(rows, &analyst); err != nil {
			return nil, err
		}
		result = append(result, analyst)
	}
	return result, rows.Err()
}

func (r *analystRepository) getOne(ctx context.Context, query string, arg string) (*domain.Analyst, error) {
	var analyst domain.Analyst
	if err := scanAnalyst(r.pool.QueryRow(ctx, query, arg), &analyst); err != nil {
		return nil, mapNoRows(err)
	}
	return &analyst, nil
}

func scanAnalyst(row pgx.Row, analyst *domain.Analyst) error {
	return row.Scan(
		&analyst.ID,
		&analyst.Name,
		&analyst.Email,
		&analyst.PasswordHash,
		&analyst.Role,
		&analyst.Active,
		&analyst.CreatedAt,
		&analyst.UpdatedAt,
	)
}
