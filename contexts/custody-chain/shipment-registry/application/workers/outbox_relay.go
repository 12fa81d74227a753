package workers

import (
	"context"
	"log/slog"
	"time"

	"freightledger/contexts/custody-chain/shipment-registry/application"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

const defaultBatchSize = 50

// OutboxRelay drains pending custody outbox rows into the event publisher.
// Rows are published in insertion order and marked published only after a
// successful publish, so a crash re-delivers instead of dropping.
type OutboxRelay struct {
	Outbox        ports.OutboxRepository
	Publisher     ports.CustodyEventPublisher
	Clock         ports.Clock
	SourceService string
	BatchSize     int
	Logger        *slog.Logger
}

// RunOnce publishes at most one batch. Returns the number of rows
// published; stops at the first failure to preserve ordering.
func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)

	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	rows, err := r.Outbox.ListPendingOutbox(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, row := range rows {
		event := ports.CustodyEvent{
			EventID:          row.OutboxID,
			EventType:        row.EventType,
			OccurredAt:       row.CreatedAt,
			SourceService:    r.SourceService,
			SchemaVersion:    1,
			PartitionKeyPath: "shipment_id",
			PartitionKey:     row.PartitionKey,
			Data:             row.Payload,
		}
		if err := r.Publisher.PublishCustodyEvent(ctx, event); err != nil {
			logger.Error("outbox publish failed",
				"event", "custody_outbox_publish_failed",
				"module", "custody-chain/shipment-registry",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, r.now()); err != nil {
			return published, err
		}
		published++
	}

	if published > 0 {
		logger.Info("outbox batch published",
			"event", "custody_outbox_batch_published",
			"module", "custody-chain/shipment-registry",
			"layer", "worker",
			"count", published,
		)
	}
	return published, nil
}

func (r OutboxRelay) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now()
	}
	return time.Now().UTC()
}
