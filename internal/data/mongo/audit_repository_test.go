package mongo

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/shared"
)

func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("failed to create mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("familia_ledger_test")
}

func TestNewAuditRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewAuditRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &AuditRepository{}, repo)
}

func TestAuditRepository_CollectionFor(t *testing.T) {
	repo := &AuditRepository{db: testDatabase(t), logger: slog.Default()}

	assert.Equal(t, DeletedEntriesCollection, repo.collectionFor(shared.AuditActionDeletion).Name())
	assert.Equal(t, UpdatedEntriesCollection, repo.collectionFor(shared.AuditActionUpdate).Name())
}

func TestBuildAuditQuery(t *testing.T) {
	t.Run("empty filter yields empty query", func(t *testing.T) {
		query := buildAuditQuery(audit.Filter{})
		assert.Empty(t, query)
	})

	t.Run("month filter covers the whole calendar month", func(t *testing.T) {
		query := buildAuditQuery(audit.Filter{
			Month: time.Date(2026, time.February, 17, 15, 30, 0, 0, time.UTC),
		})

		window, ok := query["recorded_at"].(bson.M)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), window["$gte"])
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), window["$lt"])
	})

	t.Run("kind and author filters", func(t *testing.T) {
		query := buildAuditQuery(audit.Filter{
			Kind:        shared.EntryKindExpense,
			AuthorNames: []string{"Ana", "Bruno"},
		})

		assert.Equal(t, shared.EntryKindExpense, query["prior_kind"])
		assert.Equal(t, bson.M{"$in": []string{"Ana", "Bruno"}}, query["author_name"])
	})
}
