package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"freightledger/contexts/custody-chain/shipment-registry/application"
	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	domainerrors "freightledger/contexts/custody-chain/shipment-registry/domain/errors"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

type TransferHandlerCommand struct {
	ShipmentID uint64
	NewHandler string
	Sender     string
}

// TransferHandlerUseCase hands custody to a new handler. Only the current
// handler may transfer, and the new handler gains the shipment in their
// index. Transfers are accepted regardless of lifecycle state.
type TransferHandlerUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc TransferHandlerUseCase) Execute(ctx context.Context, cmd TransferHandlerCommand) (entities.Shipment, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("transfer handler started",
		"event", "transfer_handler_started",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"shipment_id", cmd.ShipmentID,
		"sender", cmd.Sender,
	)

	sender := strings.TrimSpace(cmd.Sender)
	if sender == "" {
		return entities.Shipment{}, domainerrors.ErrInvalidActor
	}
	if strings.TrimSpace(cmd.NewHandler) == "" {
		return entities.Shipment{}, domainerrors.ErrInvalidShipmentInput
	}

	shipment, err := uc.Repository.TransferHandler(ctx, ports.TransferHandlerInput{
		ShipmentID:    cmd.ShipmentID,
		NewHandler:    cmd.NewHandler,
		Sender:        sender,
		OutboxID:      uc.IDGenerator.NewID(),
		TransferredAt: uc.now(),
	})
	if err != nil {
		logger.Error("transfer handler failed",
			"event", "transfer_handler_failed",
			"module", "custody-chain/shipment-registry",
			"layer", "application",
			"shipment_id", cmd.ShipmentID,
			"error", err.Error(),
		)
		return entities.Shipment{}, err
	}

	logger.Info("transfer handler completed",
		"event", "transfer_handler_completed",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"shipment_id", shipment.ID,
		"new_handler", shipment.CurrentHandler,
	)
	return shipment, nil
}

func (uc TransferHandlerUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now().UTC()
}
