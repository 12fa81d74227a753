package memory

import (
	"context"
	"testing"
	"time"

	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	domainerrors "freightledger/contexts/custody-chain/shipment-registry/domain/errors"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

func createTestShipment(t *testing.T, store *Store, outboxID string) entities.Shipment {
	t.Helper()
	shipment, err := store.CreateShipment(context.Background(), ports.CreateShipmentInput{
		ProductName: "vaccine batch",
		Description: "cold chain pallet",
		Recipient:   "clinic-9",
		IPFSHash:    "QmTestHash",
		Sender:      "maker-1",
		OutboxID:    outboxID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}
	return shipment
}

func TestCreateShipmentAssignsDenseIDs(t *testing.T) {
	store := NewStore()
	first := createTestShipment(t, store, "out-1")
	second := createTestShipment(t, store, "out-2")
	third := createTestShipment(t, store, "out-3")

	if first.ID != 1 || second.ID != 2 || third.ID != 3 {
		t.Fatalf("expected ids 1,2,3, got %d,%d,%d", first.ID, second.ID, third.ID)
	}
	count, err := store.CountShipments(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestCreateShipmentInitialState(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")

	if shipment.Status != entities.StatusCreated {
		t.Fatalf("unexpected status %v", shipment.Status)
	}
	if !shipment.IsActive {
		t.Fatal("new shipment must be active")
	}
	if shipment.CurrentHandler != "maker-1" || shipment.Manufacturer != "maker-1" {
		t.Fatalf("sender must be manufacturer and initial handler, got %s/%s", shipment.Manufacturer, shipment.CurrentHandler)
	}
	if shipment.DeliveredAt != nil {
		t.Fatal("delivered timestamp must be unset")
	}

	recipientIDs, err := store.ListUserShipments(context.Background(), "clinic-9")
	if err != nil {
		t.Fatalf("list user shipments failed: %v", err)
	}
	if len(recipientIDs) != 1 || recipientIDs[0] != shipment.ID {
		t.Fatalf("recipient must be indexed at creation, got %v", recipientIDs)
	}
}

func TestUpdateLocationUnknownShipment(t *testing.T) {
	store := NewStore()
	_, err := store.UpdateLocation(context.Background(), ports.UpdateLocationInput{
		ShipmentID: 42,
		Latitude:   "1.0",
		Longitude:  "2.0",
		Sender:     "maker-1",
		OutboxID:   "out-x",
		RecordedAt: time.Now().UTC(),
	})
	if err != domainerrors.ErrShipmentNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateLocationDeniedWithoutHandlerOrRole(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")

	_, err := store.UpdateLocation(context.Background(), ports.UpdateLocationInput{
		ShipmentID:              shipment.ID,
		Latitude:                "1.0",
		Longitude:               "2.0",
		Sender:                  "stranger",
		ActorHasTransporterRole: false,
		OutboxID:                "out-2",
		RecordedAt:              time.Now().UTC(),
	})
	if err != domainerrors.ErrNotAuthorized {
		t.Fatalf("expected not authorized, got %v", err)
	}

	records, err := store.ListLocations(context.Background(), shipment.ID)
	if err != nil {
		t.Fatalf("list locations failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("denied update must not append history, got %d records", len(records))
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 1 {
		t.Fatalf("denied update must not append outbox rows, got %d", len(pending))
	}
}

func TestUpdateLocationPreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")

	coords := [][2]string{
		{"10.0", "20.0"},
		{"11.0", "21.0"},
		{"12.0", "22.0"},
		{"13.0", "23.0"},
		{"14.0", "24.0"},
	}
	for i, pair := range coords {
		_, err := store.UpdateLocation(context.Background(), ports.UpdateLocationInput{
			ShipmentID:              shipment.ID,
			Latitude:                pair[0],
			Longitude:               pair[1],
			Sender:                  "carrier-1",
			ActorHasTransporterRole: true,
			OutboxID:                "out-loc-" + pair[0],
			RecordedAt:              time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("update location %d failed: %v", i, err)
		}
	}

	records, err := store.ListLocations(context.Background(), shipment.ID)
	if err != nil {
		t.Fatalf("list locations failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i, record := range records {
		if record.Latitude != coords[i][0] || record.Longitude != coords[i][1] {
			t.Fatalf("record %d out of order: %s,%s", i, record.Latitude, record.Longitude)
		}
	}
}

func TestUpdateLocationAcceptedAfterDelivery(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")

	_, err := store.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID:        shipment.ID,
		Status:            entities.StatusDelivered,
		Sender:            "maker-1",
		StatusOutboxID:    "out-st",
		DeliveredOutboxID: "out-dl",
		UpdatedAt:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	_, err = store.UpdateLocation(context.Background(), ports.UpdateLocationInput{
		ShipmentID: shipment.ID,
		Latitude:   "9.0",
		Longitude:  "8.0",
		Sender:     "maker-1",
		OutboxID:   "out-late",
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("late location report must be accepted, got %v", err)
	}
}

func TestUpdateStatusDeliveredIsTerminal(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")
	now := time.Now().UTC()

	delivered, err := store.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID:        shipment.ID,
		Status:            entities.StatusDelivered,
		Sender:            "maker-1",
		StatusOutboxID:    "out-st",
		DeliveredOutboxID: "out-dl",
		UpdatedAt:         now,
	})
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.IsActive {
		t.Fatal("delivered shipment must be inactive")
	}
	if delivered.DeliveredAt == nil || !delivered.DeliveredAt.Equal(now) {
		t.Fatalf("delivered timestamp not recorded: %v", delivered.DeliveredAt)
	}

	_, err = store.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID:        shipment.ID,
		Status:            entities.StatusInTransit,
		Sender:            "maker-1",
		StatusOutboxID:    "out-st2",
		DeliveredOutboxID: "out-dl2",
		UpdatedAt:         time.Now().UTC(),
	})
	if err != domainerrors.ErrShipmentNotActive {
		t.Fatalf("expected shipment not active, got %v", err)
	}
}

func TestUpdateStatusOutboxOrderOnDelivery(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")

	_, err := store.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID:        shipment.ID,
		Status:            entities.StatusDelivered,
		Sender:            "maker-1",
		StatusOutboxID:    "out-st",
		DeliveredOutboxID: "out-dl",
		UpdatedAt:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(pending))
	}
	if pending[0].EventType != entities.EventShipmentCreated {
		t.Fatalf("row 0: %s", pending[0].EventType)
	}
	if pending[1].EventType != entities.EventStatusUpdated {
		t.Fatalf("status event must precede delivered event, got %s", pending[1].EventType)
	}
	if pending[2].EventType != entities.EventShipmentDelivered {
		t.Fatalf("row 2: %s", pending[2].EventType)
	}
}

func TestTransferHandlerRequiresCurrentHandler(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")

	_, err := store.TransferHandler(context.Background(), ports.TransferHandlerInput{
		ShipmentID:    shipment.ID,
		NewHandler:    "carrier-1",
		Sender:        "stranger",
		OutboxID:      "out-2",
		TransferredAt: time.Now().UTC(),
	})
	if err != domainerrors.ErrNotCurrentHandler {
		t.Fatalf("expected not current handler, got %v", err)
	}

	unchanged, _ := store.GetShipment(context.Background(), shipment.ID)
	if unchanged.CurrentHandler != "maker-1" {
		t.Fatalf("failed transfer must not change handler, got %s", unchanged.CurrentHandler)
	}
}

func TestTransferHandlerIndexesNewHandlerOnce(t *testing.T) {
	store := NewStore()
	shipment := createTestShipment(t, store, "out-1")
	ctx := context.Background()

	if _, err := store.TransferHandler(ctx, ports.TransferHandlerInput{
		ShipmentID:    shipment.ID,
		NewHandler:    "carrier-1",
		Sender:        "maker-1",
		OutboxID:      "out-2",
		TransferredAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if _, err := store.TransferHandler(ctx, ports.TransferHandlerInput{
		ShipmentID:    shipment.ID,
		NewHandler:    "maker-1",
		Sender:        "carrier-1",
		OutboxID:      "out-3",
		TransferredAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("transfer back failed: %v", err)
	}
	if _, err := store.TransferHandler(ctx, ports.TransferHandlerInput{
		ShipmentID:    shipment.ID,
		NewHandler:    "carrier-1",
		Sender:        "maker-1",
		OutboxID:      "out-4",
		TransferredAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("second transfer failed: %v", err)
	}

	ids, err := store.ListUserShipments(ctx, "carrier-1")
	if err != nil {
		t.Fatalf("list user shipments failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != shipment.ID {
		t.Fatalf("handler must be indexed once, got %v", ids)
	}
	makerIDs, _ := store.ListUserShipments(ctx, "maker-1")
	if len(makerIDs) != 1 {
		t.Fatalf("manufacturer must be indexed once, got %v", makerIDs)
	}
}

func TestListUserShipmentsUnknownUserEmpty(t *testing.T) {
	store := NewStore()
	ids, err := store.ListUserShipments(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty list, got %v", ids)
	}
}

func TestMarkOutboxPublishedRemovesFromPending(t *testing.T) {
	store := NewStore()
	createTestShipment(t, store, "out-1")
	createTestShipment(t, store, "out-2")

	if err := store.MarkOutboxPublished(context.Background(), "out-1", time.Now().UTC()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "out-2" {
		t.Fatalf("expected only out-2 pending, got %v", pending)
	}
}

func TestMarkProcessedDeduplicates(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "cg-1", "evt-1", time.Now().UTC())
	if err != nil || !first {
		t.Fatalf("first mark must succeed: %v %v", first, err)
	}
	second, err := store.MarkProcessed(ctx, "cg-1", "evt-1", time.Now().UTC())
	if err != nil || second {
		t.Fatalf("duplicate mark must report false: %v %v", second, err)
	}
	other, err := store.MarkProcessed(ctx, "cg-2", "evt-1", time.Now().UTC())
	if err != nil || !other {
		t.Fatalf("different consumer must process independently: %v %v", other, err)
	}
}
