package mutation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// MockLedgerRepo for testing
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) CreateBatch(ctx context.Context, entries []*ledger.Entry) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) Update(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditRepo for testing
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, record *audit.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepo) List(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Record), args.Error(1)
}

func (m *MockAuditRepo) ListByActorSince(ctx context.Context, actorID uuid.UUID, since time.Time) ([]*audit.Record, error) {
	args := m.Called(ctx, actorID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Record), args.Error(1)
}

func testActor() shared.Actor {
	return shared.Actor{
		ID:          uuid.New(),
		Username:    "ana",
		DisplayName: "Ana",
	}
}

func expenseDraft(amount int64) ledger.Draft {
	categoryID := uuid.New()
	return ledger.Draft{
		Kind:            shared.EntryKindExpense,
		Amount:          amount,
		OccurredOn:      time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Description:     "Mercado",
		CategoryID:      &categoryID,
		SourceAccountID: uuid.New(),
	}
}

func existingEntry(author shared.Actor) *ledger.Entry {
	entry, err := ledger.NewEntry(expenseDraft(30000), author.ID, author.DisplayName)
	if err != nil {
		panic(err)
	}
	return entry
}

func newTestCoordinator(entries *MockLedgerRepo, audits *MockAuditRepo) *Coordinator {
	return NewCoordinator(entries, audits, nil, slog.Default())
}

func TestCoordinator_Create_SingleEntry(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)
	actor := testActor()

	mockEntries.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	created, err := coordinator.Create(context.Background(), actor, expenseDraft(12345), 1)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, int64(12345), created[0].Amount)
	assert.Equal(t, actor.ID, created[0].AuthorID)
	assert.Equal(t, "Ana", created[0].AuthorName)
	mockEntries.AssertExpectations(t)
}

func TestCoordinator_Create_InvalidDraft(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	draft := expenseDraft(500)
	draft.Description = ""

	_, err := coordinator.Create(context.Background(), testActor(), draft, 1)

	var validationErr *ledger.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "description", validationErr.Field)
	mockEntries.AssertNotCalled(t, "Create")
}

func TestCoordinator_Create_InstallmentSplit(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	// 1000.00 in 3 installments: 333.33 + 333.33 + 333.34
	draft := expenseDraft(100000)
	draft.OccurredOn = time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	mockEntries.On("CreateBatch", mock.Anything, mock.Anything).Return(3, nil).Once()

	created, err := coordinator.Create(context.Background(), testActor(), draft, 3)
	require.NoError(t, err)
	require.Len(t, created, 3)

	var sum int64
	for _, e := range created {
		sum += e.Amount
	}
	assert.Equal(t, int64(100000), sum)
	assert.Equal(t, int64(33333), created[0].Amount)
	assert.Equal(t, int64(33333), created[1].Amount)
	assert.Equal(t, int64(33334), created[2].Amount)

	assert.Equal(t, "Mercado (1/3)", created[0].Description)
	assert.Equal(t, "Mercado (2/3)", created[1].Description)
	assert.Equal(t, "Mercado (3/3)", created[2].Description)

	// Jan 31 -> Feb 28 (clamped) -> Mar 31
	assert.Equal(t, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), created[0].OccurredOn)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), created[1].OccurredOn)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), created[2].OccurredOn)
	mockEntries.AssertExpectations(t)
}

func TestCoordinator_Create_InstallmentsRequireExpense(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	draft := expenseDraft(100000)
	draft.Kind = shared.EntryKindIncome

	_, err := coordinator.Create(context.Background(), testActor(), draft, 3)

	var validationErr *ledger.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "installments", validationErr.Field)
}

func TestCoordinator_Create_PartialBatchSurfaced(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	mockEntries.On("CreateBatch", mock.Anything, mock.Anything).
		Return(2, errors.New("connection reset")).Once()

	created, err := coordinator.Create(context.Background(), testActor(), expenseDraft(90000), 4)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 2, batchErr.Inserted)
	assert.Equal(t, 4, batchErr.Total)
	assert.Len(t, created, 2)
	mockEntries.AssertExpectations(t)
}

func TestCoordinator_Delete_NonAuthorNeverReachesAudit(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	author := testActor()
	intruder := testActor()
	entry := existingEntry(author)

	mockEntries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Once()

	err := coordinator.Delete(context.Background(), intruder, entry.ID, "limpeza")

	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, intruder.ID, authErr.ActorID)
	mockAudits.AssertNotCalled(t, "Create")
	mockEntries.AssertNotCalled(t, "Delete")
	mockEntries.AssertExpectations(t)
}

func TestCoordinator_Delete_AuditFailureLeavesLedgerUntouched(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	author := testActor()
	entry := existingEntry(author)

	mockEntries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Once()
	mockAudits.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("mongo unavailable")).Once()

	err := coordinator.Delete(context.Background(), author, entry.ID, "duplicado")

	var auditErr *AuditWriteError
	require.ErrorAs(t, err, &auditErr)
	mockEntries.AssertNotCalled(t, "Delete")
	mockAudits.AssertExpectations(t)
}

func TestCoordinator_Delete_EmptyReasonRejected(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	author := testActor()
	entry := existingEntry(author)

	mockEntries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Once()

	err := coordinator.Delete(context.Background(), author, entry.ID, "")

	require.ErrorIs(t, err, audit.ErrEmptyReason)
	mockAudits.AssertNotCalled(t, "Create")
	mockEntries.AssertNotCalled(t, "Delete")
}

func TestCoordinator_Delete_PersistenceFailureAfterAudit(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	author := testActor()
	entry := existingEntry(author)

	mockEntries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Once()
	mockAudits.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	mockEntries.On("Delete", mock.Anything, entry.ID).
		Return(errors.New("deadlock detected")).Once()

	err := coordinator.Delete(context.Background(), author, entry.ID, "lançamento errado")

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, entry.ID, persistenceErr.EntryID)
	mockEntries.AssertExpectations(t)
	mockAudits.AssertExpectations(t)
}

func TestCoordinator_Update_SnapshotsPriorValues(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	author := testActor()
	entry := existingEntry(author)
	newCategoryID := uuid.New()

	var written *audit.Record
	mockEntries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Once()
	mockAudits.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(1).(*audit.Record)
		}).Return(nil).Once()
	mockEntries.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := coordinator.Update(context.Background(), author, entry.ID, ledger.Update{
		Amount:      45000,
		OccurredOn:  entry.OccurredOn,
		Description: "Mercado do mês",
		CategoryID:  &newCategoryID,
	}, "valor digitado errado")

	require.NoError(t, err)
	assert.Equal(t, int64(45000), updated.Amount)
	assert.Equal(t, "Mercado do mês", updated.Description)

	require.NotNil(t, written)
	assert.Equal(t, shared.AuditActionUpdate, written.Action)
	assert.Equal(t, entry.ID, written.EntryID)
	assert.Equal(t, entry.Amount, written.PriorAmount)
	assert.Equal(t, entry.Description, written.PriorDescription)
	assert.Equal(t, "valor digitado errado", written.Reason)
	assert.Equal(t, author.ID, written.ActorID)
	mockEntries.AssertExpectations(t)
	mockAudits.AssertExpectations(t)
}

func TestCoordinator_Update_NotFoundPassesThrough(t *testing.T) {
	mockEntries := &MockLedgerRepo{}
	mockAudits := &MockAuditRepo{}
	coordinator := newTestCoordinator(mockEntries, mockAudits)

	id := uuid.New()
	mockEntries.On("GetByID", mock.Anything, id).
		Return(nil, ledger.ErrEntryNotFound{EntryID: id}).Once()

	_, err := coordinator.Update(context.Background(), testActor(), id, ledger.Update{
		Amount:      100,
		OccurredOn:  time.Now(),
		Description: "x",
	}, "motivo")

	assert.ErrorIs(t, err, ledger.ErrEntryNotFound{})
}

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		n      int
		shares []int64
	}{
		{name: "even split", total: 90000, n: 3, shares: []int64{30000, 30000, 30000}},
		{name: "remainder on last", total: 100000, n: 3, shares: []int64{33333, 33333, 33334}},
		{name: "single share", total: 777, n: 1, shares: []int64{777}},
		{name: "one centavo each plus remainder", total: 10, n: 3, shares: []int64{3, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAmount(tt.total, tt.n)
			assert.Equal(t, tt.shares, got)

			var sum int64
			for _, s := range got {
				sum += s
			}
			assert.Equal(t, tt.total, sum)
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	jan31 := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), addMonthsClamped(jan31, 1))
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), addMonthsClamped(jan31, 2))
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), addMonthsClamped(jan31, 3))

	// leap year February keeps the 29th
	jan31LeapYear := time.Date(2028, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC), addMonthsClamped(jan31LeapYear, 1))
}
