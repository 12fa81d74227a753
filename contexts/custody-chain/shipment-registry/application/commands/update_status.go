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

type UpdateStatusCommand struct {
	ShipmentID uint64
	Status     entities.Status
	Sender     string
}

// UpdateStatusUseCase moves a shipment through its lifecycle. Delivered is
// terminal: the shipment is deactivated, stamped, and a delivery event is
// recorded after the status event. Inactive shipments reject all further
// status changes.
type UpdateStatusUseCase struct {
	Repository      ports.Repository
	Roles           ports.RoleChecker
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	TransporterRole string
	Logger          *slog.Logger
}

func (uc UpdateStatusUseCase) Execute(ctx context.Context, cmd UpdateStatusCommand) (entities.Shipment, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("update status started",
		"event", "update_status_started",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"shipment_id", cmd.ShipmentID,
		"status", cmd.Status.String(),
		"sender", cmd.Sender,
	)

	sender := strings.TrimSpace(cmd.Sender)
	if sender == "" {
		return entities.Shipment{}, domainerrors.ErrInvalidActor
	}
	if !cmd.Status.Valid() {
		return entities.Shipment{}, domainerrors.ErrInvalidStatus
	}

	isTransporter, err := uc.Roles.HasRole(ctx, uc.TransporterRole, sender)
	if err != nil {
		return entities.Shipment{}, err
	}

	shipment, err := uc.Repository.UpdateStatus(ctx, ports.UpdateStatusInput{
		ShipmentID:              cmd.ShipmentID,
		Status:                  cmd.Status,
		Sender:                  sender,
		ActorHasTransporterRole: isTransporter,
		StatusOutboxID:          uc.IDGenerator.NewID(),
		DeliveredOutboxID:       uc.IDGenerator.NewID(),
		UpdatedAt:               uc.now(),
	})
	if err != nil {
		logger.Error("update status failed",
			"event", "update_status_failed",
			"module", "custody-chain/shipment-registry",
			"layer", "application",
			"shipment_id", cmd.ShipmentID,
			"error", err.Error(),
		)
		return entities.Shipment{}, err
	}

	logger.Info("update status completed",
		"event", "update_status_completed",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"shipment_id", shipment.ID,
		"status", shipment.Status.String(),
	)
	return shipment, nil
}

func (uc UpdateStatusUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now().UTC()
}
