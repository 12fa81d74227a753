package httpadapter

import (
	"context"
	"log/slog"

	application "freightledger/contexts/custody-chain/shipment-registry/application"
	"freightledger/contexts/custody-chain/shipment-registry/application/commands"
	"freightledger/contexts/custody-chain/shipment-registry/application/queries"
	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	httptransport "freightledger/contexts/custody-chain/shipment-registry/transport/http"
)

// Handler maps HTTP DTOs to registry commands/queries.
type Handler struct {
	CreateShipment     commands.CreateShipmentUseCase
	UpdateLocation     commands.UpdateLocationUseCase
	UpdateStatus       commands.UpdateStatusUseCase
	TransferHandler    commands.TransferHandlerUseCase
	GetShipment        queries.GetShipmentUseCase
	GetLocationHistory queries.GetLocationHistoryUseCase
	ListUserShipments  queries.ListUserShipmentsUseCase
	ShipmentCounter    queries.ShipmentCounterUseCase
	Logger             *slog.Logger
}

// CreateShipmentHandler registers a shipment for a manufacturer sender.
func (h Handler) CreateShipmentHandler(
	ctx context.Context,
	sender string,
	request httptransport.CreateShipmentRequest,
) (httptransport.ShipmentDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http create shipment received",
		"event", "custody_http_create_shipment_received",
		"module", "custody-chain/shipment-registry",
		"layer", "transport",
		"sender", sender,
	)

	shipment, err := h.CreateShipment.Execute(ctx, commands.CreateShipmentCommand{
		ProductName: request.ProductName,
		Description: request.Description,
		Recipient:   request.Recipient,
		IPFSHash:    request.IPFSHash,
		Sender:      sender,
	})
	if err != nil {
		logger.Error("http create shipment failed",
			"event", "custody_http_create_shipment_failed",
			"module", "custody-chain/shipment-registry",
			"layer", "transport",
			"sender", sender,
			"error", err.Error(),
		)
		return httptransport.ShipmentDTO{}, err
	}
	return toShipmentDTO(shipment), nil
}

// UpdateLocationHandler appends one location record.
func (h Handler) UpdateLocationHandler(
	ctx context.Context,
	sender string,
	shipmentID uint64,
	request httptransport.UpdateLocationRequest,
) (httptransport.LocationRecordDTO, error) {
	record, err := h.UpdateLocation.Execute(ctx, commands.UpdateLocationCommand{
		ShipmentID: shipmentID,
		Latitude:   request.Latitude,
		Longitude:  request.Longitude,
		Sender:     sender,
	})
	if err != nil {
		return httptransport.LocationRecordDTO{}, err
	}
	return httptransport.LocationRecordDTO{
		ShipmentID: record.ShipmentID,
		Latitude:   record.Latitude,
		Longitude:  record.Longitude,
		RecordedBy: record.RecordedBy,
		RecordedAt: record.RecordedAt,
	}, nil
}

// UpdateStatusHandler changes a shipment's lifecycle state.
func (h Handler) UpdateStatusHandler(
	ctx context.Context,
	sender string,
	shipmentID uint64,
	request httptransport.UpdateStatusRequest,
) (httptransport.ShipmentDTO, error) {
	shipment, err := h.UpdateStatus.Execute(ctx, commands.UpdateStatusCommand{
		ShipmentID: shipmentID,
		Status:     entities.Status(request.Status),
		Sender:     sender,
	})
	if err != nil {
		return httptransport.ShipmentDTO{}, err
	}
	return toShipmentDTO(shipment), nil
}

// TransferHandlerHandler hands custody to a new handler.
func (h Handler) TransferHandlerHandler(
	ctx context.Context,
	sender string,
	shipmentID uint64,
	request httptransport.TransferHandlerRequest,
) (httptransport.ShipmentDTO, error) {
	logger := application.ResolveLogger(h.Logger)

	shipment, err := h.TransferHandler.Execute(ctx, commands.TransferHandlerCommand{
		ShipmentID: shipmentID,
		NewHandler: request.NewHandler,
		Sender:     sender,
	})
	if err != nil {
		logger.Error("http transfer handler failed",
			"event", "custody_http_transfer_handler_failed",
			"module", "custody-chain/shipment-registry",
			"layer", "transport",
			"sender", sender,
			"error", err.Error(),
		)
		return httptransport.ShipmentDTO{}, err
	}
	return toShipmentDTO(shipment), nil
}

// GetShipmentHandler reads one shipment.
func (h Handler) GetShipmentHandler(ctx context.Context, shipmentID uint64) (httptransport.ShipmentDTO, error) {
	shipment, err := h.GetShipment.Execute(ctx, queries.GetShipmentQuery{ShipmentID: shipmentID})
	if err != nil {
		return httptransport.ShipmentDTO{}, err
	}
	return toShipmentDTO(shipment), nil
}

// GetLocationHistoryHandler returns the full location history in
// insertion order.
func (h Handler) GetLocationHistoryHandler(ctx context.Context, shipmentID uint64) (httptransport.LocationHistoryResponse, error) {
	records, err := h.GetLocationHistory.Execute(ctx, queries.GetLocationHistoryQuery{ShipmentID: shipmentID})
	if err != nil {
		return httptransport.LocationHistoryResponse{}, err
	}

	items := make([]httptransport.LocationRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, httptransport.LocationRecordDTO{
			ShipmentID: record.ShipmentID,
			Latitude:   record.Latitude,
			Longitude:  record.Longitude,
			RecordedBy: record.RecordedBy,
			RecordedAt: record.RecordedAt,
		})
	}
	return httptransport.LocationHistoryResponse{
		ShipmentID: shipmentID,
		Locations:  items,
	}, nil
}

// ListUserShipmentsHandler returns the ids associated with an actor.
func (h Handler) ListUserShipmentsHandler(ctx context.Context, actor string) (httptransport.UserShipmentsResponse, error) {
	ids, err := h.ListUserShipments.Execute(ctx, queries.ListUserShipmentsQuery{Actor: actor})
	if err != nil {
		return httptransport.UserShipmentsResponse{}, err
	}
	if ids == nil {
		ids = []uint64{}
	}
	return httptransport.UserShipmentsResponse{
		Actor:       actor,
		ShipmentIDs: ids,
	}, nil
}

// ShipmentCounterHandler reports how many shipments exist.
func (h Handler) ShipmentCounterHandler(ctx context.Context) (httptransport.ShipmentCounterResponse, error) {
	total, err := h.ShipmentCounter.Execute(ctx)
	if err != nil {
		return httptransport.ShipmentCounterResponse{}, err
	}
	return httptransport.ShipmentCounterResponse{Total: total}, nil
}

func toShipmentDTO(shipment entities.Shipment) httptransport.ShipmentDTO {
	return httptransport.ShipmentDTO{
		ID:             shipment.ID,
		ProductName:    shipment.ProductName,
		Description:    shipment.Description,
		Manufacturer:   shipment.Manufacturer,
		Recipient:      shipment.Recipient,
		IPFSHash:       shipment.IPFSHash,
		Status:         uint8(shipment.Status),
		StatusLabel:    shipment.Status.String(),
		CurrentHandler: shipment.CurrentHandler,
		IsActive:       shipment.IsActive,
		CreatedAt:      shipment.CreatedAt,
		DeliveredAt:    shipment.DeliveredAt,
	}
}
