package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/familia-ledger/internal/domain/category"
	"github.com/familia-ledger/internal/platform/persistence"
)

// CategoryRepository implements category.Repository for PostgreSQL
type CategoryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(logger *slog.Logger, db *persistence.PostgresDB) category.Repository {
	return &CategoryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new category
func (r *CategoryRepository) Create(ctx context.Context, cat *category.Category) error {
	query := `
		INSERT INTO categorias (id, nome, tipo, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.querier.Exec(ctx, query, cat.ID, cat.Name, cat.Kind, cat.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create category", "error", err)
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `
		SELECT id, nome, tipo, created_at
		FROM categorias
		WHERE id = $1
	`

	var cat category.Category
	err := r.querier.QueryRow(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.Kind, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound{CategoryID: id}
		}
		r.logger.Error("Failed to get category", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &cat, nil
}

// List returns all categories ordered by kind then name
func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	query := `
		SELECT id, nome, tipo, created_at
		FROM categorias
		ORDER BY tipo, nome
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		var cat category.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Kind, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// Update persists changes to an existing category
func (r *CategoryRepository) Update(ctx context.Context, cat *category.Category) error {
	query := `
		UPDATE categorias
		SET nome = $1, tipo = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, cat.Name, cat.Kind, cat.ID)
	if err != nil {
		r.logger.Error("Failed to update category", "id", cat.ID.String(), "error", err)
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound{CategoryID: cat.ID}
	}

	return nil
}

// Delete physically removes the category. A foreign key violation means
// ledger entries still reference it.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return category.ErrCategoryInUse{CategoryID: id}
		}
		r.logger.Error("Failed to delete category", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound{CategoryID: id}
	}

	return nil
}
