// Package producers publishes the advisory ledger change feed. Events are
// best-effort notifications for downstream consumers (exports, alerts);
// the ledger itself never depends on their delivery.
package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/segmentio/kafka-go"

	"github.com/familia-ledger/internal/config"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// Event names carried on the change feed
const (
	EventEntryCreated = "entry_created"
	EventEntryUpdated = "entry_updated"
	EventEntryDeleted = "entry_deleted"
)

// LedgerEvent is the JSON payload published per committed mutation
type LedgerEvent struct {
	Event     string           `json:"event"`
	EntryID   uuid.UUID        `json:"entry_id"`
	Kind      shared.EntryKind `json:"kind,omitempty"`
	Amount    int64            `json:"amount,omitempty"`
	ActorID   uuid.UUID        `json:"actor_id"`
	ActorName string           `json:"actor_name"`
	At        time.Time        `json:"at"`
}

// LedgerEventProducer writes change events to Kafka. Publishes run on a
// bounded worker pool so a slow broker never delays a committed mutation.
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
	pool   *ants.Pool
}

// NewLedgerEventProducer creates the change feed producer and ensures the
// topic exists.
func NewLedgerEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig, poolSize int) (*LedgerEventProducer, error) {
	if cfg.LedgerEventsTopic == "" {
		return nil, fmt.Errorf("kafka ledger events topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for ledger event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.LedgerEventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure topic %s exists for ledger event producer: %w", cfg.LedgerEventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.LedgerEventsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.MaxWait,
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create publish worker pool: %w", err)
	}

	return &LedgerEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.LedgerEventsTopic,
		pool:   pool,
	}, nil
}

// EntriesCreated publishes one event per created entry
func (p *LedgerEventProducer) EntriesCreated(_ context.Context, entries []*ledger.Entry, actor shared.Actor) {
	for _, entry := range entries {
		p.submit(LedgerEvent{
			Event:     EventEntryCreated,
			EntryID:   entry.ID,
			Kind:      entry.Kind,
			Amount:    entry.Amount,
			ActorID:   actor.ID,
			ActorName: actor.DisplayName,
			At:        time.Now(),
		})
	}
}

// EntryUpdated publishes an update event
func (p *LedgerEventProducer) EntryUpdated(_ context.Context, entry *ledger.Entry, actor shared.Actor) {
	p.submit(LedgerEvent{
		Event:     EventEntryUpdated,
		EntryID:   entry.ID,
		Kind:      entry.Kind,
		Amount:    entry.Amount,
		ActorID:   actor.ID,
		ActorName: actor.DisplayName,
		At:        time.Now(),
	})
}

// EntryDeleted publishes a delete event
func (p *LedgerEventProducer) EntryDeleted(_ context.Context, entryID uuid.UUID, actor shared.Actor) {
	p.submit(LedgerEvent{
		Event:     EventEntryDeleted,
		EntryID:   entryID,
		ActorID:   actor.ID,
		ActorName: actor.DisplayName,
		At:        time.Now(),
	})
}

// submit hands the event to the worker pool. The request context is not
// propagated: the publish must outlive the HTTP request that caused it.
func (p *LedgerEventProducer) submit(event LedgerEvent) {
	err := p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		p.publish(ctx, event)
	})
	if err != nil {
		p.logger.Warn("Dropped ledger event, worker pool unavailable",
			"event", event.Event,
			"entry_id", event.EntryID.String(),
			"error", err)
	}
}

func (p *LedgerEventProducer) publish(ctx context.Context, event LedgerEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal ledger event",
			"event", event.Event,
			"entry_id", event.EntryID.String(),
			"error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EntryID.String()),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"topic", p.topic,
			"event", event.Event,
			"entry_id", event.EntryID.String(),
			"error", err)
		return
	}

	p.logger.Debug("Published ledger event",
		"topic", p.topic,
		"event", event.Event,
		"entry_id", event.EntryID.String())
}

// Close drains the worker pool and closes the writer
func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer", "topic", p.topic)
	p.pool.Release()
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
