package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/platform/persistence"
)

// InstitutionRepository implements account.InstitutionRepository for PostgreSQL
type InstitutionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewInstitutionRepository creates a new PostgreSQL institution repository
func NewInstitutionRepository(logger *slog.Logger, db *persistence.PostgresDB) account.InstitutionRepository {
	return &InstitutionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new institution
func (r *InstitutionRepository) Create(ctx context.Context, inst *account.Institution) error {
	query := `
		INSERT INTO instituicoes (id, nome, ativa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query, inst.ID, inst.Name, inst.Active, inst.CreatedAt, inst.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create institution", "error", err)
		return fmt.Errorf("failed to create institution: %w", err)
	}

	return nil
}

// GetByID retrieves an institution by its ID
func (r *InstitutionRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Institution, error) {
	query := `
		SELECT id, nome, ativa, created_at, updated_at
		FROM instituicoes
		WHERE id = $1
	`

	var inst account.Institution
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&inst.ID,
		&inst.Name,
		&inst.Active,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrInstitutionNotFound{InstitutionID: id}
		}
		r.logger.Error("Failed to get institution", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get institution: %w", err)
	}

	return &inst, nil
}

// List returns institutions ordered by name
func (r *InstitutionRepository) List(ctx context.Context, activeOnly bool) ([]*account.Institution, error) {
	query := `SELECT id, nome, ativa, created_at, updated_at FROM instituicoes`
	if activeOnly {
		query += ` WHERE ativa`
	}
	query += ` ORDER BY nome`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list institutions", "error", err)
		return nil, fmt.Errorf("failed to list institutions: %w", err)
	}
	defer rows.Close()

	var institutions []*account.Institution
	for rows.Next() {
		var inst account.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Active, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan institution: %w", err)
		}
		institutions = append(institutions, &inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate institutions: %w", err)
	}

	return institutions, nil
}

// Update persists changes to an existing institution
func (r *InstitutionRepository) Update(ctx context.Context, inst *account.Institution) error {
	query := `
		UPDATE instituicoes
		SET nome = $1, ativa = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.querier.Exec(ctx, query, inst.Name, inst.Active, inst.UpdatedAt, inst.ID)
	if err != nil {
		r.logger.Error("Failed to update institution", "id", inst.ID.String(), "error", err)
		return fmt.Errorf("failed to update institution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return account.ErrInstitutionNotFound{InstitutionID: inst.ID}
	}

	return nil
}

// Delete physically removes the institution. A foreign key violation means
// payment instruments still reference it.
func (r *InstitutionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM instituicoes WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return account.ErrInstitutionInUse{InstitutionID: id}
		}
		r.logger.Error("Failed to delete institution", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete institution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return account.ErrInstitutionNotFound{InstitutionID: id}
	}

	return nil
}
