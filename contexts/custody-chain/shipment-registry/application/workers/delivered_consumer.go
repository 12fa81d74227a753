package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"freightledger/contexts/custody-chain/shipment-registry/application"
	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

// DeliveredConsumer reacts to shipment delivery events, typically to
// notify downstream systems. Event ids are deduplicated so redelivered
// envelopes are processed at most once.
type DeliveredConsumer struct {
	ConsumerName string
	Dedup        ports.EventDedupStore
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (c DeliveredConsumer) Handle(ctx context.Context, event ports.CustodyEvent) error {
	logger := application.ResolveLogger(c.Logger)

	if event.EventType != entities.EventShipmentDelivered {
		return nil
	}

	firstTime, err := c.Dedup.MarkProcessed(ctx, c.ConsumerName, event.EventID, c.now())
	if err != nil {
		return err
	}
	if !firstTime {
		logger.Info("delivered event skipped",
			"event", "custody_delivered_duplicate",
			"module", "custody-chain/shipment-registry",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	var payload entities.ShipmentDeliveredEvent
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}

	logger.Info("shipment delivered",
		"event", "custody_delivered_processed",
		"module", "custody-chain/shipment-registry",
		"layer", "worker",
		"shipment_id", payload.ShipmentID,
	)
	return nil
}

func (c DeliveredConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now()
	}
	return time.Now().UTC()
}
