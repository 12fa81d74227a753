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

type UpdateLocationCommand struct {
	ShipmentID uint64
	Latitude   string
	Longitude  string
	Sender     string
}

// UpdateLocationUseCase appends a location record. Either the current
// handler or any transporter may report. Location updates are accepted for
// delivered shipments too, so late reports filed after handover still land
// in the history.
type UpdateLocationUseCase struct {
	Repository      ports.Repository
	Roles           ports.RoleChecker
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	TransporterRole string
	Logger          *slog.Logger
}

func (uc UpdateLocationUseCase) Execute(ctx context.Context, cmd UpdateLocationCommand) (entities.LocationRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("update location started",
		"event", "update_location_started",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"shipment_id", cmd.ShipmentID,
		"sender", cmd.Sender,
	)

	sender := strings.TrimSpace(cmd.Sender)
	if sender == "" {
		return entities.LocationRecord{}, domainerrors.ErrInvalidActor
	}

	isTransporter, err := uc.Roles.HasRole(ctx, uc.TransporterRole, sender)
	if err != nil {
		return entities.LocationRecord{}, err
	}

	record, err := uc.Repository.UpdateLocation(ctx, ports.UpdateLocationInput{
		ShipmentID:              cmd.ShipmentID,
		Latitude:                cmd.Latitude,
		Longitude:               cmd.Longitude,
		Sender:                  sender,
		ActorHasTransporterRole: isTransporter,
		OutboxID:                uc.IDGenerator.NewID(),
		RecordedAt:              uc.now(),
	})
	if err != nil {
		logger.Error("update location failed",
			"event", "update_location_failed",
			"module", "custody-chain/shipment-registry",
			"layer", "application",
			"shipment_id", cmd.ShipmentID,
			"error", err.Error(),
		)
		return entities.LocationRecord{}, err
	}

	logger.Info("update location completed",
		"event", "update_location_completed",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"shipment_id", cmd.ShipmentID,
	)
	return record, nil
}

func (uc UpdateLocationUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now().UTC()
}
