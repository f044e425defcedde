package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/shared"
)

// frequentReasonWindow is how far back reason suggestions look
const frequentReasonWindow = 30 * 24 * time.Hour

// maxFrequentReasons caps the number of quick-fill suggestions
const maxFrequentReasons = 3

// AuditServiceImpl implements the AuditService interface
type AuditServiceImpl struct {
	auditRepo audit.Repository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo audit.Repository) AuditService {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

// ListDeletions returns deletion snapshots matching the filter
func (s *AuditServiceImpl) ListDeletions(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	filter.Action = shared.AuditActionDeletion
	return s.auditRepo.List(ctx, filter)
}

// ListUpdates returns pre-edit snapshots matching the filter
func (s *AuditServiceImpl) ListUpdates(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	filter.Action = shared.AuditActionUpdate
	return s.auditRepo.List(ctx, filter)
}

// FrequentReasons buckets the actor's last thirty days of audit records
// by exact reason string and returns up to the three most frequent. No
// cache is kept; the query runs fresh on every call. Ties break by
// first-seen order, which keeps the result stable across calls.
func (s *AuditServiceImpl) FrequentReasons(ctx context.Context, actorID uuid.UUID) ([]string, error) {
	since := time.Now().Add(-frequentReasonWindow)
	records, err := s.auditRepo.ListByActorSince(ctx, actorID, since)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, record := range records {
		if _, seen := counts[record.Reason]; !seen {
			firstSeen[record.Reason] = i
		}
		counts[record.Reason]++
	}

	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if counts[reasons[i]] != counts[reasons[j]] {
			return counts[reasons[i]] > counts[reasons[j]]
		}
		return firstSeen[reasons[i]] < firstSeen[reasons[j]]
	})

	if len(reasons) > maxFrequentReasons {
		reasons = reasons[:maxFrequentReasons]
	}
	return reasons, nil
}
