package shipmentregistry

import (
	"context"
	"testing"

	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	domainerrors "freightledger/contexts/custody-chain/shipment-registry/domain/errors"
	httptransport "freightledger/contexts/custody-chain/shipment-registry/transport/http"
)

// staticRoles is a RoleChecker stub keyed by role name.
type staticRoles struct {
	members map[string][]string
}

func (s staticRoles) HasRole(_ context.Context, role string, actor string) (bool, error) {
	for _, member := range s.members[role] {
		if member == actor {
			return true, nil
		}
	}
	return false, nil
}

func newTestModule() Module {
	return NewInMemoryModule(nil, staticRoles{members: map[string][]string{
		ManufacturerRoleName: {"maker-1"},
		TransporterRoleName:  {"carrier-1"},
	}})
}

func TestCreateShipmentRequiresManufacturerRole(t *testing.T) {
	module := newTestModule()
	_, err := module.Handler.CreateShipmentHandler(context.Background(), "carrier-1", httptransport.CreateShipmentRequest{
		ProductName: "solar panels",
		Recipient:   "warehouse-2",
	})
	if err != domainerrors.ErrManufacturerRoleRequired {
		t.Fatalf("expected role denial, got %v", err)
	}
	if err.Error() != "AccessControl: sender does not have required role" {
		t.Fatalf("unexpected denial message %q", err.Error())
	}

	count, _ := module.Handler.ShipmentCounterHandler(context.Background())
	if count.Total != 0 {
		t.Fatalf("failed create must not register shipments, got %d", count.Total)
	}
}

func TestCreateShipmentEmptyIPFSHashAllowed(t *testing.T) {
	module := newTestModule()
	created, err := module.Handler.CreateShipmentHandler(context.Background(), "maker-1", httptransport.CreateShipmentRequest{
		ProductName: "solar panels",
		Description: "pallet of 40",
		Recipient:   "warehouse-2",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.IPFSHash != "" {
		t.Fatalf("expected empty ipfs hash, got %q", created.IPFSHash)
	}

	fetched, err := module.Handler.GetShipmentHandler(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.IPFSHash != "" {
		t.Fatalf("empty ipfs hash must round-trip, got %q", fetched.IPFSHash)
	}
}

func TestCustodyLifecycle(t *testing.T) {
	module := newTestModule()
	ctx := context.Background()

	first, err := module.Handler.CreateShipmentHandler(ctx, "maker-1", httptransport.CreateShipmentRequest{
		ProductName: "vaccine batch",
		Recipient:   "clinic-9",
		IPFSHash:    "QmDocs1",
	})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := module.Handler.CreateShipmentHandler(ctx, "maker-1", httptransport.CreateShipmentRequest{
		ProductName: "test kits",
		Recipient:   "clinic-9",
	})
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	count, err := module.Handler.ShipmentCounterHandler(ctx)
	if err != nil || count.Total != 2 {
		t.Fatalf("expected counter 2, got %d (%v)", count.Total, err)
	}

	if _, err := module.Handler.TransferHandlerHandler(ctx, "maker-1", first.ID, httptransport.TransferHandlerRequest{
		NewHandler: "carrier-1",
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	inTransit, err := module.Handler.UpdateStatusHandler(ctx, "carrier-1", first.ID, httptransport.UpdateStatusRequest{
		Status: uint8(entities.StatusInTransit),
	})
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if inTransit.Status != uint8(entities.StatusInTransit) || !inTransit.IsActive {
		t.Fatalf("unexpected state %d active=%v", inTransit.Status, inTransit.IsActive)
	}

	if _, err := module.Handler.UpdateLocationHandler(ctx, "carrier-1", first.ID, httptransport.UpdateLocationRequest{
		Latitude:  "52.52",
		Longitude: "13.40",
	}); err != nil {
		t.Fatalf("location update failed: %v", err)
	}

	delivered, err := module.Handler.UpdateStatusHandler(ctx, "carrier-1", first.ID, httptransport.UpdateStatusRequest{
		Status: uint8(entities.StatusDelivered),
	})
	if err != nil {
		t.Fatalf("delivery failed: %v", err)
	}
	if delivered.IsActive || delivered.DeliveredAt == nil {
		t.Fatalf("delivered shipment must be inactive with timestamp, got active=%v at=%v", delivered.IsActive, delivered.DeliveredAt)
	}

	_, err = module.Handler.UpdateStatusHandler(ctx, "carrier-1", first.ID, httptransport.UpdateStatusRequest{
		Status: uint8(entities.StatusOutForDelivery),
	})
	if err != domainerrors.ErrShipmentNotActive {
		t.Fatalf("expected shipment not active, got %v", err)
	}
	if err.Error() != "Shipment not active" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	history, err := module.Handler.GetLocationHistoryHandler(ctx, first.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history.Locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(history.Locations))
	}

	makerShipments, err := module.Handler.ListUserShipmentsHandler(ctx, "maker-1")
	if err != nil {
		t.Fatalf("user shipments failed: %v", err)
	}
	if len(makerShipments.ShipmentIDs) != 2 {
		t.Fatalf("manufacturer must be indexed for both shipments, got %v", makerShipments.ShipmentIDs)
	}
	recipientShipments, _ := module.Handler.ListUserShipmentsHandler(ctx, "clinic-9")
	if len(recipientShipments.ShipmentIDs) != 2 {
		t.Fatalf("recipient must be indexed for both shipments, got %v", recipientShipments.ShipmentIDs)
	}
	carrierShipments, _ := module.Handler.ListUserShipmentsHandler(ctx, "carrier-1")
	if len(carrierShipments.ShipmentIDs) != 1 || carrierShipments.ShipmentIDs[0] != first.ID {
		t.Fatalf("carrier must be indexed for first shipment, got %v", carrierShipments.ShipmentIDs)
	}
}

func TestTransferHandlerDeniedForNonHandler(t *testing.T) {
	module := newTestModule()
	ctx := context.Background()

	created, err := module.Handler.CreateShipmentHandler(ctx, "maker-1", httptransport.CreateShipmentRequest{
		ProductName: "machine parts",
		Recipient:   "plant-3",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = module.Handler.TransferHandlerHandler(ctx, "carrier-1", created.ID, httptransport.TransferHandlerRequest{
		NewHandler: "carrier-1",
	})
	if err != domainerrors.ErrNotCurrentHandler {
		t.Fatalf("expected not current handler, got %v", err)
	}
	if err.Error() != "Not current handler" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUpdateStatusDeniedForStranger(t *testing.T) {
	module := newTestModule()
	ctx := context.Background()

	created, err := module.Handler.CreateShipmentHandler(ctx, "maker-1", httptransport.CreateShipmentRequest{
		ProductName: "machine parts",
		Recipient:   "plant-3",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = module.Handler.UpdateStatusHandler(ctx, "stranger", created.ID, httptransport.UpdateStatusRequest{
		Status: uint8(entities.StatusInTransit),
	})
	if err != domainerrors.ErrNotAuthorized {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if err.Error() != "Not authorized" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUpdateStatusRejectsUndefinedValue(t *testing.T) {
	module := newTestModule()
	ctx := context.Background()

	created, err := module.Handler.CreateShipmentHandler(ctx, "maker-1", httptransport.CreateShipmentRequest{
		ProductName: "machine parts",
		Recipient:   "plant-3",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = module.Handler.UpdateStatusHandler(ctx, "maker-1", created.ID, httptransport.UpdateStatusRequest{
		Status: 9,
	})
	if err != domainerrors.ErrInvalidStatus {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestListUserShipmentsUnknownUser(t *testing.T) {
	module := newTestModule()
	resp, err := module.Handler.ListUserShipmentsHandler(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if resp.ShipmentIDs == nil || len(resp.ShipmentIDs) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", resp.ShipmentIDs)
	}
}

func TestGetShipmentUnknownID(t *testing.T) {
	module := newTestModule()
	_, err := module.Handler.GetShipmentHandler(context.Background(), 99)
	if err != domainerrors.ErrShipmentNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
