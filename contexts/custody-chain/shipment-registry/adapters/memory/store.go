package memory

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"freightledger/contexts/custody-chain/shipment-registry/domain/entities"
	domainerrors "freightledger/contexts/custody-chain/shipment-registry/domain/errors"
	"freightledger/contexts/custody-chain/shipment-registry/ports"
)

// Store is the in-memory repository used by tests and local runs. One
// mutex guards every structure, so each mutation's checks and writes form
// a single atomic step. The outbox is an ordered slice; rows appended in
// one mutation are drained in the same order.
type Store struct {
	mu sync.RWMutex

	nextID    uint64
	shipments map[uint64]entities.Shipment
	locations map[uint64][]entities.LocationRecord
	userIndex map[string][]uint64
	indexed   map[string]map[uint64]struct{}

	outbox      []ports.OutboxMessage
	published   map[string]time.Time
	outboxIndex map[string]int

	processed map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		shipments:   make(map[uint64]entities.Shipment),
		locations:   make(map[uint64][]entities.LocationRecord),
		userIndex:   make(map[string][]uint64),
		indexed:     make(map[string]map[uint64]struct{}),
		published:   make(map[string]time.Time),
		outboxIndex: make(map[string]int),
		processed:   make(map[string]time.Time),
	}
}

var _ ports.Repository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)

// CreateShipment allocates the next dense id and registers the record.
// The id advances only after the payload has marshaled, so a failed create
// never leaves a gap.
func (s *Store) CreateShipment(_ context.Context, input ports.CreateShipmentInput) (entities.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID + 1
	payload, err := json.Marshal(entities.ShipmentCreatedEvent{
		ShipmentID:   id,
		Manufacturer: input.Sender,
		ProductName:  input.ProductName,
	})
	if err != nil {
		return entities.Shipment{}, err
	}

	shipment := entities.Shipment{
		ID:             id,
		ProductName:    input.ProductName,
		Description:    input.Description,
		Manufacturer:   input.Sender,
		Recipient:      input.Recipient,
		IPFSHash:       input.IPFSHash,
		Status:         entities.StatusCreated,
		CurrentHandler: input.Sender,
		IsActive:       true,
		CreatedAt:      input.CreatedAt,
	}

	s.nextID = id
	s.shipments[id] = shipment
	s.locations[id] = nil
	s.indexUser(input.Sender, id)
	s.indexUser(input.Recipient, id)
	s.appendOutbox(input.OutboxID, entities.EventShipmentCreated, id, payload, input.CreatedAt)
	return shipment, nil
}

// UpdateLocation appends a history record. The current handler or any
// transporter may report; there is no activity check, so late reports for
// delivered shipments are still accepted.
func (s *Store) UpdateLocation(_ context.Context, input ports.UpdateLocationInput) (entities.LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipment, ok := s.shipments[input.ShipmentID]
	if !ok {
		return entities.LocationRecord{}, domainerrors.ErrShipmentNotFound
	}
	if shipment.CurrentHandler != input.Sender && !input.ActorHasTransporterRole {
		return entities.LocationRecord{}, domainerrors.ErrNotAuthorized
	}

	payload, err := json.Marshal(entities.LocationUpdatedEvent{
		ShipmentID: input.ShipmentID,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
	})
	if err != nil {
		return entities.LocationRecord{}, err
	}

	record := entities.LocationRecord{
		ShipmentID: input.ShipmentID,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		RecordedBy: input.Sender,
		RecordedAt: input.RecordedAt,
	}
	s.locations[input.ShipmentID] = append(s.locations[input.ShipmentID], record)
	s.appendOutbox(input.OutboxID, entities.EventLocationUpdated, input.ShipmentID, payload, input.RecordedAt)
	return record, nil
}

// UpdateStatus moves the shipment's lifecycle state. Checks run in order:
// existence, activity, authorization. Delivered deactivates the record and
// appends the delivery event after the status event.
func (s *Store) UpdateStatus(_ context.Context, input ports.UpdateStatusInput) (entities.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipment, ok := s.shipments[input.ShipmentID]
	if !ok {
		return entities.Shipment{}, domainerrors.ErrShipmentNotFound
	}
	if !shipment.IsActive {
		return entities.Shipment{}, domainerrors.ErrShipmentNotActive
	}
	if shipment.CurrentHandler != input.Sender && !input.ActorHasTransporterRole {
		return entities.Shipment{}, domainerrors.ErrNotAuthorized
	}

	statusPayload, err := json.Marshal(entities.StatusUpdatedEvent{
		ShipmentID: input.ShipmentID,
		Status:     input.Status,
	})
	if err != nil {
		return entities.Shipment{}, err
	}

	shipment.Status = input.Status
	if input.Status == entities.StatusDelivered {
		deliveredPayload, err := json.Marshal(entities.ShipmentDeliveredEvent{
			ShipmentID: input.ShipmentID,
		})
		if err != nil {
			return entities.Shipment{}, err
		}
		deliveredAt := input.UpdatedAt
		shipment.IsActive = false
		shipment.DeliveredAt = &deliveredAt
		s.shipments[input.ShipmentID] = shipment
		s.appendOutbox(input.StatusOutboxID, entities.EventStatusUpdated, input.ShipmentID, statusPayload, input.UpdatedAt)
		s.appendOutbox(input.DeliveredOutboxID, entities.EventShipmentDelivered, input.ShipmentID, deliveredPayload, input.UpdatedAt)
		return shipment, nil
	}

	s.shipments[input.ShipmentID] = shipment
	s.appendOutbox(input.StatusOutboxID, entities.EventStatusUpdated, input.ShipmentID, statusPayload, input.UpdatedAt)
	return shipment, nil
}

// TransferHandler hands custody to a new handler. Only the current handler
// may transfer; delivered shipments may still change hands for returns and
// after-delivery custody corrections.
func (s *Store) TransferHandler(_ context.Context, input ports.TransferHandlerInput) (entities.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipment, ok := s.shipments[input.ShipmentID]
	if !ok {
		return entities.Shipment{}, domainerrors.ErrShipmentNotFound
	}
	if shipment.CurrentHandler != input.Sender {
		return entities.Shipment{}, domainerrors.ErrNotCurrentHandler
	}

	payload, err := json.Marshal(entities.HandlerChangedEvent{
		ShipmentID: input.ShipmentID,
		OldHandler: shipment.CurrentHandler,
		NewHandler: input.NewHandler,
	})
	if err != nil {
		return entities.Shipment{}, err
	}

	shipment.CurrentHandler = input.NewHandler
	s.shipments[input.ShipmentID] = shipment
	s.indexUser(input.NewHandler, input.ShipmentID)
	s.appendOutbox(input.OutboxID, entities.EventHandlerChanged, input.ShipmentID, payload, input.TransferredAt)
	return shipment, nil
}

func (s *Store) GetShipment(_ context.Context, id uint64) (entities.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shipment, ok := s.shipments[id]
	if !ok {
		return entities.Shipment{}, domainerrors.ErrShipmentNotFound
	}
	return shipment, nil
}

func (s *Store) ListLocations(_ context.Context, shipmentID uint64) ([]entities.LocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.shipments[shipmentID]; !ok {
		return nil, domainerrors.ErrShipmentNotFound
	}
	records := s.locations[shipmentID]
	out := make([]entities.LocationRecord, len(records))
	copy(out, records)
	return out, nil
}

// ListUserShipments returns ids in association order. Unknown users get an
// empty list.
func (s *Store) ListUserShipments(_ context.Context, actor string) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.userIndex[actor]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *Store) CountShipments(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if _, done := s.published[row.OutboxID]; done {
			continue
		}
		pending = append(pending, row)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outboxIndex[outboxID]; !ok {
		return domainerrors.ErrShipmentNotFound
	}
	s.published[outboxID] = publishedAt
	return nil
}

// MarkProcessed records a consumer/event pair, reporting whether this is
// the first time it was seen.
func (s *Store) MarkProcessed(_ context.Context, consumer string, eventID string, processedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := consumer + "/" + eventID
	if _, seen := s.processed[key]; seen {
		return false, nil
	}
	s.processed[key] = processedAt
	return true, nil
}

// Now satisfies ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID satisfies ports.IDGenerator.
func (s *Store) NewID() string {
	return uuid.NewString()
}

func (s *Store) indexUser(actor string, id uint64) {
	set, ok := s.indexed[actor]
	if !ok {
		set = make(map[uint64]struct{})
		s.indexed[actor] = set
	}
	if _, dup := set[id]; dup {
		return
	}
	set[id] = struct{}{}
	s.userIndex[actor] = append(s.userIndex[actor], id)
}

func (s *Store) appendOutbox(outboxID, eventType string, shipmentID uint64, payload []byte, createdAt time.Time) {
	s.outboxIndex[outboxID] = len(s.outbox)
	s.outbox = append(s.outbox, ports.OutboxMessage{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: strconv.FormatUint(shipmentID, 10),
		Payload:      payload,
		CreatedAt:    createdAt,
	})
}
