package events

import (
	"context"
	"log/slog"

	"freightledger/contexts/identity-access/authorization-service/ports"
)

// Publisher is a structured-log role-change publisher used where no
// broker is wired (tests, single-process deployments).
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

func (p Publisher) PublishRoleChanged(_ context.Context, event ports.RoleChangedEvent) error {
	p.logger.Info("role changed event published",
		"event", "authz_role_changed_published",
		"module", "identity-access/authorization-service",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}
