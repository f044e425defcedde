// Package postgres provides PostgreSQL implementations of the domain
// repositories. Relational data (accounts, institutions, categories and
// the ledger itself) lives here; audit snapshots live in the mongo
// package.
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
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/platform/persistence"
)

// foreignKeyViolation is the PostgreSQL error code raised when a delete
// would orphan referencing rows.
const foreignKeyViolation = "23503"

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new payment instrument
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO contas (id, nome, tipo, subtipo, instituicao_id, ultimos_digitos,
			tipo_chave_pix, chave_pix, dia_fechamento, dia_vencimento,
			proprietario_id, proprietario_nome, ativa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Name,
		acc.Type,
		nullString(string(acc.Subtype)),
		acc.InstitutionID,
		nullString(acc.LastDigits),
		nullString(acc.PixKeyType),
		nullString(acc.PixKey),
		nullInt(acc.StatementCloseDay),
		nullInt(acc.StatementDueDay),
		acc.OwnerID,
		acc.OwnerName,
		acc.Active,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := accountSelect + ` WHERE id = $1`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// List returns accounts ordered by type then name
func (r *AccountRepository) List(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	query := accountSelect
	if activeOnly {
		query += ` WHERE ativa`
	}
	query += ` ORDER BY tipo, nome`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// Update persists changes to an existing account
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE contas
		SET nome = $1, subtipo = $2, instituicao_id = $3, ultimos_digitos = $4,
			tipo_chave_pix = $5, chave_pix = $6, dia_fechamento = $7,
			dia_vencimento = $8, ativa = $9, updated_at = $10
		WHERE id = $11
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		nullString(string(acc.Subtype)),
		acc.InstitutionID,
		nullString(acc.LastDigits),
		nullString(acc.PixKeyType),
		nullString(acc.PixKey),
		nullInt(acc.StatementCloseDay),
		nullInt(acc.StatementDueDay),
		acc.Active,
		acc.UpdatedAt,
		acc.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}

	return nil
}

// Delete physically removes the account. A foreign key violation means
// ledger entries still reference it and only deactivation is possible.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM contas WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return account.ErrAccountInUse{AccountID: id}
		}
		r.logger.Error("Failed to delete account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// CountByInstitutionID reports how many instruments reference an institution
func (r *AccountRepository) CountByInstitutionID(ctx context.Context, institutionID uuid.UUID) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx,
		`SELECT COUNT(*) FROM contas WHERE instituicao_id = $1`, institutionID,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count accounts by institution", "institutionID", institutionID.String(), "error", err)
		return 0, fmt.Errorf("failed to count accounts by institution: %w", err)
	}

	return count, nil
}

const accountSelect = `
	SELECT id, nome, tipo, subtipo, instituicao_id, ultimos_digitos,
		tipo_chave_pix, chave_pix, dia_fechamento, dia_vencimento,
		proprietario_id, proprietario_nome, ativa, created_at, updated_at
	FROM contas`

func scanAccount(row pgx.Row) (*account.Account, error) {
	var (
		acc        account.Account
		subtype    *string
		lastDigits *string
		pixKeyType *string
		pixKey     *string
		closeDay   *int
		dueDay     *int
	)
	err := row.Scan(
		&acc.ID,
		&acc.Name,
		&acc.Type,
		&subtype,
		&acc.InstitutionID,
		&lastDigits,
		&pixKeyType,
		&pixKey,
		&closeDay,
		&dueDay,
		&acc.OwnerID,
		&acc.OwnerName,
		&acc.Active,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if subtype != nil {
		acc.Subtype = shared.CheckingSubtype(*subtype)
	}
	if lastDigits != nil {
		acc.LastDigits = *lastDigits
	}
	if pixKeyType != nil {
		acc.PixKeyType = *pixKeyType
	}
	if pixKey != nil {
		acc.PixKey = *pixKey
	}
	if closeDay != nil {
		acc.StatementCloseDay = *closeDay
	}
	if dueDay != nil {
		acc.StatementDueDay = *dueDay
	}

	return &acc, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}
