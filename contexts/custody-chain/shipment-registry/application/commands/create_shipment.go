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

type CreateShipmentCommand struct {
	ProductName string
	Description string
	Recipient   string
	IPFSHash    string
	Sender      string
}

// CreateShipmentUseCase registers a new shipment. Only manufacturers may
// create; the sender becomes the initial handler. IPFSHash is optional
// metadata and may be empty.
type CreateShipmentUseCase struct {
	Repository       ports.Repository
	Roles            ports.RoleChecker
	Clock            ports.Clock
	IDGenerator      ports.IDGenerator
	ManufacturerRole string
	Logger           *slog.Logger
}

func (uc CreateShipmentUseCase) Execute(ctx context.Context, cmd CreateShipmentCommand) (entities.Shipment, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("create shipment started",
		"event", "create_shipment_started",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"sender", cmd.Sender,
	)

	sender := strings.TrimSpace(cmd.Sender)
	if sender == "" {
		return entities.Shipment{}, domainerrors.ErrInvalidActor
	}
	if strings.TrimSpace(cmd.ProductName) == "" || strings.TrimSpace(cmd.Recipient) == "" {
		return entities.Shipment{}, domainerrors.ErrInvalidShipmentInput
	}

	ok, err := uc.Roles.HasRole(ctx, uc.ManufacturerRole, sender)
	if err != nil {
		return entities.Shipment{}, err
	}
	if !ok {
		logger.Warn("create shipment denied",
			"event", "create_shipment_denied",
			"module", "custody-chain/shipment-registry",
			"layer", "application",
			"sender", sender,
		)
		return entities.Shipment{}, domainerrors.ErrManufacturerRoleRequired
	}

	shipment, err := uc.Repository.CreateShipment(ctx, ports.CreateShipmentInput{
		ProductName: cmd.ProductName,
		Description: cmd.Description,
		Recipient:   cmd.Recipient,
		IPFSHash:    cmd.IPFSHash,
		Sender:      sender,
		OutboxID:    uc.IDGenerator.NewID(),
		CreatedAt:   uc.now(),
	})
	if err != nil {
		logger.Error("create shipment failed",
			"event", "create_shipment_failed",
			"module", "custody-chain/shipment-registry",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.Shipment{}, err
	}

	logger.Info("create shipment completed",
		"event", "create_shipment_completed",
		"module", "custody-chain/shipment-registry",
		"layer", "application",
		"shipment_id", shipment.ID,
	)
	return shipment, nil
}

func (uc CreateShipmentUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now().UTC()
}
