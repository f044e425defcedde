package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/shared"
)

func reasonRecords(reasons ...string) []*audit.Record {
	records := make([]*audit.Record, len(reasons))
	for i, reason := range reasons {
		records[i] = &audit.Record{
			ID:     uuid.New(),
			Action: shared.AuditActionDeletion,
			Reason: reason,
		}
	}
	return records
}

func TestAuditService_ListDeletions_ForcesAction(t *testing.T) {
	auditRepo := new(MockAuditRepository)
	svc := NewAuditService(auditRepo)

	auditRepo.On("List", mock.Anything, mock.MatchedBy(func(f audit.Filter) bool {
		return f.Action == shared.AuditActionDeletion
	})).Return([]*audit.Record{}, nil)

	// A caller-supplied action is overridden, not trusted
	_, err := svc.ListDeletions(context.Background(), audit.Filter{Action: shared.AuditActionUpdate})

	require.NoError(t, err)
	auditRepo.AssertExpectations(t)
}

func TestAuditService_ListUpdates_ForcesAction(t *testing.T) {
	auditRepo := new(MockAuditRepository)
	svc := NewAuditService(auditRepo)

	auditRepo.On("List", mock.Anything, mock.MatchedBy(func(f audit.Filter) bool {
		return f.Action == shared.AuditActionUpdate
	})).Return([]*audit.Record{}, nil)

	_, err := svc.ListUpdates(context.Background(), audit.Filter{})

	require.NoError(t, err)
	auditRepo.AssertExpectations(t)
}

func TestAuditService_FrequentReasons_TopThree(t *testing.T) {
	auditRepo := new(MockAuditRepository)
	svc := NewAuditService(auditRepo)

	actorID := uuid.New()
	auditRepo.On("ListByActorSince", mock.Anything, actorID, mock.AnythingOfType("time.Time")).
		Return(reasonRecords(
			"valor errado",
			"duplicado",
			"valor errado",
			"data errada",
			"duplicado",
			"valor errado",
			"categoria errada",
		), nil)

	reasons, err := svc.FrequentReasons(context.Background(), actorID)

	require.NoError(t, err)
	assert.Equal(t, []string{"valor errado", "duplicado", "data errada"}, reasons)
}

func TestAuditService_FrequentReasons_TiesBreakByFirstSeen(t *testing.T) {
	auditRepo := new(MockAuditRepository)
	svc := NewAuditService(auditRepo)

	actorID := uuid.New()
	// All reasons appear once; records arrive oldest first
	auditRepo.On("ListByActorSince", mock.Anything, actorID, mock.AnythingOfType("time.Time")).
		Return(reasonRecords("primeiro", "segundo", "terceiro", "quarto"), nil)

	reasons, err := svc.FrequentReasons(context.Background(), actorID)

	require.NoError(t, err)
	assert.Equal(t, []string{"primeiro", "segundo", "terceiro"}, reasons)
}

func TestAuditService_FrequentReasons_WindowIsThirtyDays(t *testing.T) {
	auditRepo := new(MockAuditRepository)
	svc := NewAuditService(auditRepo)

	actorID := uuid.New()
	var capturedSince time.Time
	auditRepo.On("ListByActorSince", mock.Anything, actorID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			capturedSince = args.Get(2).(time.Time)
		}).
		Return([]*audit.Record{}, nil)

	reasons, err := svc.FrequentReasons(context.Background(), actorID)

	require.NoError(t, err)
	assert.Empty(t, reasons)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), capturedSince, time.Minute)
}
