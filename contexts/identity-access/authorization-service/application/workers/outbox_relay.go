package workers

import (
	"context"
	"log/slog"
	"time"

	application "freightledger/contexts/identity-access/authorization-service/application"
	"freightledger/contexts/identity-access/authorization-service/ports"
)

// OutboxRelay drains pending role-change outbox rows into the event bus.
type OutboxRelay struct {
	Outbox        ports.OutboxRepository
	Publisher     ports.RoleChangedPublisher
	Clock         ports.Clock
	SourceService string
	BatchSize     int
	Logger        *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("authz outbox list failed",
			"event", "authz_outbox_list_failed",
			"module", "identity-access/authorization-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		event := ports.RoleChangedEvent{
			EventID:          row.OutboxID,
			EventType:        row.EventType,
			OccurredAt:       row.CreatedAt,
			SourceService:    r.SourceService,
			SchemaVersion:    1,
			PartitionKeyPath: "actor",
			PartitionKey:     row.PartitionKey,
			Data:             row.Payload,
		}
		if err := r.Publisher.PublishRoleChanged(ctx, event); err != nil {
			logger.Error("authz outbox publish failed",
				"event", "authz_outbox_publish_failed",
				"module", "identity-access/authorization-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}
