package events

import (
	"context"
	"log/slog"

	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

// Publisher is a structured-log custody event publisher used where no
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

func (p Publisher) PublishCustodyEvent(_ context.Context, event ports.CustodyEvent) error {
	p.logger.Info("custody event published",
		"event", "custody_event_published",
		"module", "custody-chain/shipment-registry",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}
