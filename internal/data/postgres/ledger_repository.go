package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const entryInsert = `
	INSERT INTO transacoes (id, tipo, valor, data, descricao, categoria_id,
		conta_origem_id, conta_destino_id, autor_id, autor_nome, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// Create stores a new ledger entry
func (r *LedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	_, err := r.querier.Exec(ctx, entryInsert,
		entry.ID,
		entry.Kind,
		entry.Amount,
		entry.OccurredOn,
		entry.Description,
		entry.CategoryID,
		entry.SourceAccountID,
		entry.DestinationAccountID,
		entry.AuthorID,
		entry.AuthorName,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ledger entry", "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// CreateBatch inserts installment entries one by one, in order. On failure
// it reports how many made it in; already persisted installments are left
// in place for the caller to surface.
func (r *LedgerRepository) CreateBatch(ctx context.Context, entries []*ledger.Entry) (int, error) {
	for i, entry := range entries {
		if err := r.Create(ctx, entry); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

const entrySelect = `
	SELECT id, tipo, valor, data, descricao, categoria_id,
		conta_origem_id, conta_destino_id, autor_id, autor_nome, created_at
	FROM transacoes`

// GetByID retrieves a ledger entry by its ID
func (r *LedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	entry, err := scanEntry(r.querier.QueryRow(ctx, entrySelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrEntryNotFound{EntryID: id}
		}
		r.logger.Error("Failed to get ledger entry", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return entry, nil
}

// List returns the entries matching the filter, most recent date first
func (r *LedgerRepository) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Entry, error) {
	query, args := buildListQuery(filter)

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// CountByAccountID reports how many entries reference the account as
// either leg of the movement
func (r *LedgerRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx,
		`SELECT COUNT(*) FROM transacoes WHERE conta_origem_id = $1 OR conta_destino_id = $1`,
		accountID,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count entries by account", "accountID", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count entries by account: %w", err)
	}

	return count, nil
}

// CountByCategoryID reports how many entries reference the category
func (r *LedgerRepository) CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx,
		`SELECT COUNT(*) FROM transacoes WHERE categoria_id = $1`, categoryID,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count entries by category", "categoryID", categoryID.String(), "error", err)
		return 0, fmt.Errorf("failed to count entries by category: %w", err)
	}

	return count, nil
}

// Update persists the editable fields of an entry
func (r *LedgerRepository) Update(ctx context.Context, entry *ledger.Entry) error {
	query := `
		UPDATE transacoes
		SET valor = $1, data = $2, descricao = $3, categoria_id = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		entry.Amount,
		entry.OccurredOn,
		entry.Description,
		entry.CategoryID,
		entry.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update ledger entry", "id", entry.ID.String(), "error", err)
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{EntryID: entry.ID}
	}

	return nil
}

// Delete physically removes an entry
func (r *LedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM transacoes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete ledger entry", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{EntryID: id}
	}

	return nil
}

// buildListQuery assembles the filtered listing statement. Zero-valued
// filter fields add no predicate.
func buildListQuery(filter ledger.Filter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.From.IsZero() {
		conditions = append(conditions, "data >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "data <= "+arg(filter.To))
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			kinds[i] = string(k)
		}
		conditions = append(conditions, "tipo = ANY("+arg(kinds)+")")
	}
	if len(filter.AuthorNames) > 0 {
		conditions = append(conditions, "autor_nome = ANY("+arg(filter.AuthorNames)+")")
	}
	if filter.AccountID != uuid.Nil {
		placeholder := arg(filter.AccountID)
		conditions = append(conditions, "(conta_origem_id = "+placeholder+" OR conta_destino_id = "+placeholder+")")
	}

	query := entrySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY data DESC, created_at DESC"

	return query, args
}

func scanEntry(row pgx.Row) (*ledger.Entry, error) {
	var entry ledger.Entry
	err := row.Scan(
		&entry.ID,
		&entry.Kind,
		&entry.Amount,
		&entry.OccurredOn,
		&entry.Description,
		&entry.CategoryID,
		&entry.SourceAccountID,
		&entry.DestinationAccountID,
		&entry.AuthorID,
		&entry.AuthorName,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
