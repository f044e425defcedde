package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/domain/shared"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}

	institutionID := uuid.New()
	ownerID := uuid.New()
	acc := &account.Account{
		ID:            uuid.New(),
		Name:          "Conta Corrente Ana",
		Type:          shared.AccountTypeChecking,
		Subtype:       shared.CheckingSubtypeDebit,
		InstitutionID: &institutionID,
		LastDigits:    "4321",
		OwnerID:       &ownerID,
		OwnerName:     "Ana",
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	query := `INSERT INTO contas`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Name, acc.Type, pgxmock.AnyArg(), acc.InstitutionID, pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				acc.OwnerID, acc.OwnerName, acc.Active, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Name, acc.Type, pgxmock.AnyArg(), acc.InstitutionID, pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				acc.OwnerID, acc.OwnerName, acc.Active, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	accID := uuid.New()
	now := time.Now()

	query := `FROM contas
	WHERE id = \$1`

	columns := []string{"id", "nome", "tipo", "subtipo", "instituicao_id", "ultimos_digitos",
		"tipo_chave_pix", "chave_pix", "dia_fechamento", "dia_vencimento",
		"proprietario_id", "proprietario_nome", "ativa", "created_at", "updated_at"}

	t.Run("success for cash pool", func(t *testing.T) {
		rows := pgxmock.NewRows(columns).
			AddRow(accID, "Dinheiro em Casa", shared.AccountTypeCash, nil, nil, nil,
				nil, nil, nil, nil, nil, shared.CashPoolOwnerName, true, now, now)
		mock.ExpectQuery(query).WithArgs(accID).WillReturnRows(rows)

		acc, err := repo.GetByID(ctx, accID)
		require.NoError(t, err)
		assert.Equal(t, accID, acc.ID)
		assert.Equal(t, shared.AccountTypeCash, acc.Type)
		assert.Equal(t, shared.CashPoolOwnerName, acc.OwnerName)
		assert.Nil(t, acc.OwnerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success for credit card", func(t *testing.T) {
		institutionID := uuid.New()
		ownerID := uuid.New()
		lastDigits := "8765"
		closeDay := 3
		dueDay := 10
		rows := pgxmock.NewRows(columns).
			AddRow(accID, "Cartão Nubank", shared.AccountTypeCredit, nil, &institutionID, &lastDigits,
				nil, nil, &closeDay, &dueDay, &ownerID, "Ana", true, now, now)
		mock.ExpectQuery(query).WithArgs(accID).WillReturnRows(rows)

		acc, err := repo.GetByID(ctx, accID)
		require.NoError(t, err)
		assert.Equal(t, shared.AccountTypeCredit, acc.Type)
		assert.Equal(t, "8765", acc.LastDigits)
		assert.Equal(t, 3, acc.StatementCloseDay)
		assert.Equal(t, 10, acc.StatementDueDay)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accID).WillReturnError(pgx.ErrNoRows)

		acc, err := repo.GetByID(ctx, accID)
		assert.Error(t, err)
		assert.Nil(t, acc)
		var notFoundErr account.ErrAccountNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, accID, notFoundErr.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Delete(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	accID := uuid.New()

	query := `DELETE FROM contas WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(accID).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, accID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("still referenced by ledger entries", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(accID).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})

		err := repo.Delete(ctx, accID)
		var inUseErr account.ErrAccountInUse
		assert.ErrorAs(t, err, &inUseErr)
		assert.Equal(t, accID, inUseErr.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(accID).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, accID)
		var notFoundErr account.ErrAccountNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_CountByInstitutionID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	institutionID := uuid.New()

	query := `SELECT COUNT\(\*\) FROM contas WHERE instituicao_id = \$1`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"count"}).AddRow(int64(2))
		mock.ExpectQuery(query).WithArgs(institutionID).WillReturnRows(rows)

		count, err := repo.CountByInstitutionID(ctx, institutionID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
