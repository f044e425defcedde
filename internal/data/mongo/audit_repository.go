// Package mongo provides the MongoDB implementation of the audit trail.
// Snapshots are split across two collections, one per mutation kind, and
// are never updated or removed once written.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/shared"
)

const (
	// DeletedEntriesCollection holds snapshots of deleted ledger entries
	DeletedEntriesCollection = "transacoes_excluidas"
	// UpdatedEntriesCollection holds pre-edit snapshots of updated entries
	UpdatedEntriesCollection = "transacoes_atualizadas"
)

// AuditRepository implements the audit.Repository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditRepository) collectionFor(action shared.AuditAction) *mongo.Collection {
	if action == shared.AuditActionDeletion {
		return r.db.Collection(DeletedEntriesCollection)
	}
	return r.db.Collection(UpdatedEntriesCollection)
}

// Create persists the snapshot. The caller must not touch the ledger until
// this returns nil: the acknowledged insert is what makes the later
// mutation safe to perform.
func (r *AuditRepository) Create(ctx context.Context, record *audit.Record) error {
	collection := r.collectionFor(record.Action)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to write audit record",
			"entry_id", record.EntryID.String(),
			"action", string(record.Action),
			"error", err)
		return fmt.Errorf("failed to write audit record: %w", err)
	}

	return nil
}

// List returns the audit records matching the filter, most recent first.
// With no action constraint both collections are queried and merged.
func (r *AuditRepository) List(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	query := buildAuditQuery(filter)

	actions := []shared.AuditAction{shared.AuditActionDeletion, shared.AuditActionUpdate}
	if filter.Action != "" {
		actions = []shared.AuditAction{filter.Action}
	}

	var records []*audit.Record
	for _, action := range actions {
		part, err := r.find(ctx, r.collectionFor(action), query, nil)
		if err != nil {
			return nil, err
		}
		records = append(records, part...)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})

	return records, nil
}

// ListByActorSince returns the actor's records from both collections,
// oldest first, for reason-frequency bucketing.
func (r *AuditRepository) ListByActorSince(ctx context.Context, actorID uuid.UUID, since time.Time) ([]*audit.Record, error) {
	query := bson.M{
		"actor_id":    actorID,
		"recorded_at": bson.M{"$gte": since},
	}
	opts := options.Find().SetSort(bson.M{"recorded_at": 1})

	var records []*audit.Record
	for _, name := range []string{DeletedEntriesCollection, UpdatedEntriesCollection} {
		part, err := r.find(ctx, r.db.Collection(name), query, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, part...)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})

	return records, nil
}

func (r *AuditRepository) find(ctx context.Context, collection *mongo.Collection, query bson.M, opts *options.FindOptions) ([]*audit.Record, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = collection.Find(ctx, query, opts)
	} else {
		cursor, err = collection.Find(ctx, query)
	}
	if err != nil {
		r.logger.Error("Failed to query audit records",
			"collection", collection.Name(),
			"error", err)
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*audit.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode audit records",
			"collection", collection.Name(),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit records: %w", err)
	}

	return records, nil
}

// buildAuditQuery translates the filter into a bson document. The Month
// field selects records from any instant inside that calendar month.
func buildAuditQuery(filter audit.Filter) bson.M {
	query := bson.M{}

	if !filter.Month.IsZero() {
		start := time.Date(filter.Month.Year(), filter.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		query["recorded_at"] = bson.M{
			"$gte": start,
			"$lt":  start.AddDate(0, 1, 0),
		}
	}
	if filter.Kind != "" {
		query["prior_kind"] = filter.Kind
	}
	if len(filter.AuthorNames) > 0 {
		query["author_name"] = bson.M{"$in": filter.AuthorNames}
	}

	return query
}
